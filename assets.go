package bramble

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Loader decodes the file at path and registers the result under name, the
// file's base name without extension. A loader must leave its catalog
// untouched when data is malformed.
type Loader func(path, name string, data []byte) error

// ErrUnknownAssetType is returned for files whose extension has no loader.
var ErrUnknownAssetType = eris.New("bramble: unknown asset type")

// loadOrder ranks extensions so dependencies load first: images before the
// atlases and fonts that reference them.
var loadOrder = map[string]int{
	".png":  0,
	".json": 1,
	".kage": 2,
	".fnt":  3,
	".ttf":  3,
	".otf":  3,
	".room": 4,
	".wav":  5,
	".ogg":  5,
}

// Assets owns every catalog. It is created once per Runtime and passed
// explicitly to whatever needs to resolve names or handles.
type Assets struct {
	cfg Config
	log zerolog.Logger

	Textures *Catalog[*Texture]
	Regions  *Catalog[Region]
	Shaders  *Catalog[*Shader]
	Fonts    *Catalog[*Font]
	Rooms    *Catalog[*Room]
	Sounds   *Catalog[*Sound]

	// ColorShader and TextureShader are the built-in shader handles.
	ColorShader   Handle
	TextureShader Handle

	loaders map[string]Loader

	// ReadFile reads asset bytes. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// NewAssets creates empty catalogs of cfg.CatalogCapacity slots each and
// registers the built-in shaders.
func NewAssets(cfg Config, log zerolog.Logger) *Assets {
	n := cfg.CatalogCapacity
	a := &Assets{
		cfg:      cfg,
		log:      component(log, "assets"),
		Textures: NewCatalog[*Texture]("texture", n, log),
		Regions:  NewCatalog[Region]("region", n, log),
		Shaders:  NewCatalog[*Shader]("shader", n, log),
		Fonts:    NewCatalog[*Font]("font", n, log),
		Rooms:    NewCatalog[*Room]("room", n, log),
		Sounds:   NewCatalog[*Sound]("sound", n, log),
		ReadFile: os.ReadFile,
	}
	a.Textures.OnReplace = releaseTexture
	a.Shaders.OnReplace = releaseShader

	// Shader capacity is at least 2, checked by Config.Validate.
	a.ColorShader, _ = a.Shaders.Register(ShaderColor, &Shader{})
	a.TextureShader, _ = a.Shaders.Register(ShaderTexture, &Shader{Sampled: true})

	a.loaders = map[string]Loader{
		".png":  a.loadTexture,
		".json": a.loadAtlas,
		".kage": a.loadShader,
		".fnt":  a.loadBitmapFont,
		".ttf":  a.loadTTF,
		".otf":  a.loadTTF,
		".room": a.loadRoom,
		".wav":  a.loadSound,
		".ogg":  a.loadSound,
	}
	return a
}

// SetLoader installs fn for files with the given extension (".ext"),
// replacing any existing loader.
func (a *Assets) SetLoader(ext string, fn Loader) {
	a.loaders[strings.ToLower(ext)] = fn
}

// Handles reports whether path has a registered loader.
func (a *Assets) Handles(path string) bool {
	_, ok := a.loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadFile reads path and hands it to the loader for its extension. On error
// the catalogs keep their previous contents.
func (a *Assets) LoadFile(path string) error {
	data, err := a.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "bramble: failed to read %s", path)
	}
	return a.LoadData(path, data)
}

// LoadData loads data as though it had been read from path.
func (a *Assets) LoadData(path string, data []byte) error {
	load, ok := a.loaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return eris.Wrapf(ErrUnknownAssetType, "%s", path)
	}
	name := baseName(path)
	if err := load(path, name, data); err != nil {
		return err
	}
	a.log.Debug().Str("path", path).Str("name", name).Msg("loaded")
	return nil
}

// Reload re-runs the loader for a changed file. Failures are logged and the
// previous asset stays in place.
func (a *Assets) Reload(path string) error {
	err := a.LoadFile(path)
	if err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("reload failed, keeping previous asset")
		return err
	}
	a.log.Info().Str("path", path).Msg("reloaded")
	return nil
}

// LoadDir loads every file under dir that has a loader, dependencies first.
// Bad files are logged and skipped; the returned count is the number of
// files that failed.
func (a *Assets) LoadDir(dir string) (failed int, err error) {
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && a.Handles(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return 0, eris.Wrapf(err, "bramble: failed to scan asset dir %s", dir)
	}

	sort.SliceStable(paths, func(i, j int) bool {
		oi := extRank(paths[i])
		oj := extRank(paths[j])
		if oi != oj {
			return oi < oj
		}
		return paths[i] < paths[j]
	})

	for _, p := range paths {
		if err := a.LoadFile(p); err != nil {
			a.log.Error().Err(err).Str("path", p).Msg("asset skipped")
			failed++
		}
	}
	a.log.Info().Str("dir", dir).Int("files", len(paths)).Int("failed", failed).Msg("assets loaded")
	return failed, nil
}

func extRank(path string) int {
	if r, ok := loadOrder[strings.ToLower(filepath.Ext(path))]; ok {
		return r
	}
	return len(loadOrder)
}

// baseName returns the file name of path without directory or extension.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
