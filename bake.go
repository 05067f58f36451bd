package bramble

import (
	"image"

	"github.com/rotisserie/eris"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontName is the name LoadDefaultFont registers Go Regular under.
const DefaultFontName = "default"

const (
	bakeFirstRune = 32
	bakeLastRune  = 126
	bakeAtlasW    = 256
	bakePadding   = 1
)

// BakeFont rasterizes runes 32-126 of a TrueType/OpenType font at size
// points into a single RGBA glyph atlas. The returned font has no texture
// handle yet.
func BakeFont(data []byte, size float64) (*Font, *image.RGBA, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, eris.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "create face")
	}
	defer face.Close()

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	f := &Font{
		Texture:    NoHandle,
		lineHeight: float32(m.Height.Ceil()),
		base:       float32(ascent),
	}

	// First pass: place glyph cells in rows.
	type cell struct {
		r   rune
		dr  image.Rectangle
		at  image.Point
		adv fixed.Int26_6
	}
	cells := make([]cell, 0, bakeLastRune-bakeFirstRune+1)
	x, y, rowH := bakePadding, bakePadding, 0
	for r := rune(bakeFirstRune); r <= bakeLastRune; r++ {
		dr, _, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := dr.Dx(), dr.Dy()
		if x+w+bakePadding > bakeAtlasW {
			x = bakePadding
			y += rowH + bakePadding
			rowH = 0
		}
		cells = append(cells, cell{r: r, dr: dr, at: image.Pt(x, y), adv: adv})
		x += w + bakePadding
		rowH = max(rowH, h)
	}
	if len(cells) == 0 {
		return nil, nil, eris.New("font has no printable glyphs")
	}
	atlasH := y + rowH + bakePadding

	// Second pass: rasterize. The face reuses one mask buffer, so each glyph
	// is rasterized again right before it is copied.
	img := image.NewRGBA(image.Rect(0, 0, bakeAtlasW, atlasH))
	for _, c := range cells {
		w, h := c.dr.Dx(), c.dr.Dy()
		if w > 0 && h > 0 {
			_, mask, mp, _, _ := face.Glyph(fixed.Point26_6{}, c.r)
			dst := image.Rect(c.at.X, c.at.Y, c.at.X+w, c.at.Y+h)
			draw.DrawMask(img, dst, image.White, image.Point{}, mask, mp, draw.Over)
		}
		f.setGlyph(c.r, glyph{
			x:        uint16(c.at.X),
			y:        uint16(c.at.Y),
			width:    uint16(w),
			height:   uint16(h),
			xOffset:  int16(c.dr.Min.X),
			yOffset:  int16(c.dr.Min.Y + ascent),
			xAdvance: int16(c.adv.Round()),
		})
	}

	for _, c1 := range cells {
		for _, c2 := range cells {
			if k := face.Kern(c1.r, c2.r).Round(); k != 0 {
				f.setKerning(c1.r, c2.r, int16(k))
			}
		}
	}
	return f, img, nil
}

// bakeAndRegister bakes data and registers the atlas texture as
// "<name>.atlas" and the font as name.
func (a *Assets) bakeAndRegister(path, name string, data []byte) error {
	f, img, err := BakeFont(data, a.cfg.FontSize)
	if err != nil {
		return eris.Wrapf(err, "bramble: failed to bake font %s", path)
	}
	tex, err := a.Textures.Register(name+".atlas", NewTexture(img))
	if err != nil {
		return err
	}
	f.Texture = tex
	_, err = a.Fonts.Register(name, f)
	return err
}

// loadTTF is the loader for .ttf and .otf files.
func (a *Assets) loadTTF(path, name string, data []byte) error {
	return a.bakeAndRegister(path, name, data)
}

// LoadDefaultFont bakes the Go Regular font at Config.FontSize and registers
// it as DefaultFontName.
func (a *Assets) LoadDefaultFont() error {
	return a.bakeAndRegister("goregular.ttf", DefaultFontName, goregular.TTF)
}
