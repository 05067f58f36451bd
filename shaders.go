package bramble

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
)

// Built-in shader names. Both draw through DrawTriangles32 and have no Kage
// program.
const (
	ShaderColor   = "color"   // per-vertex color, no texture
	ShaderTexture = "texture" // samples the bound texture
)

// Shader is a compiled Kage program, or a built-in when Program is nil.
type Shader struct {
	Program *ebiten.Shader
	// Sampled reports whether the shader reads source image 0.
	Sampled bool
	// Uniforms are passed to the program on every draw. Game code may update
	// values between frames.
	Uniforms map[string]any
}

// kageSamplers are the Kage builtins that read source image 0.
var kageSamplers = [][]byte{
	[]byte("imageSrc0At"),
	[]byte("imageSrc0UnsafeAt"),
}

// kageSamplesTexture reports whether Kage source reads source image 0.
func kageSamplesTexture(src []byte) bool {
	for _, s := range kageSamplers {
		if bytes.Contains(src, s) {
			return true
		}
	}
	return false
}

// loadShader is the loader for .kage files.
func (a *Assets) loadShader(path, name string, data []byte) error {
	if name == ShaderColor || name == ShaderTexture {
		return eris.Errorf("bramble: shader %s: name %q is reserved", path, name)
	}
	prog, err := ebiten.NewShader(data)
	if err != nil {
		return eris.Wrapf(err, "bramble: failed to compile shader %s", path)
	}
	sh := &Shader{
		Program:  prog,
		Sampled:  kageSamplesTexture(data),
		Uniforms: map[string]any{},
	}
	// Keep uniforms a game has set across a reload.
	if old, ok := a.Shaders.Find(name); ok && old.Uniforms != nil {
		sh.Uniforms = old.Uniforms
	}
	_, err = a.Shaders.Register(name, sh)
	return err
}

func releaseShader(old *Shader) {
	if old != nil && old.Program != nil {
		old.Program.Deallocate()
	}
}
