package bramble

import (
	"bytes"
	"image"
	_ "image/png" // register PNG decoding

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
)

// Texture is a GPU image plus its pixel size.
type Texture struct {
	Image         *ebiten.Image
	Width, Height int
}

// decodeImage decodes PNG data into an image.
func decodeImage(path string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "bramble: failed to decode image %s", path)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, eris.Errorf("bramble: image %s is empty", path)
	}
	return img, nil
}

// NewTexture uploads img to the GPU.
func NewTexture(img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{
		Image:  ebiten.NewImageFromImage(img),
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// loadTexture is the loader for .png files.
func (a *Assets) loadTexture(path, name string, data []byte) error {
	img, err := decodeImage(path, data)
	if err != nil {
		return err
	}
	_, err = a.Textures.Register(name, NewTexture(img))
	return err
}

// releaseTexture frees the GPU image of a texture replaced by a reload.
func releaseTexture(old *Texture) {
	if old != nil && old.Image != nil {
		old.Image.Deallocate()
	}
}
