package bramble

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

type glyph struct {
	x, y     uint16
	width    uint16
	height   uint16
	xOffset  int16
	yOffset  int16
	xAdvance int16
}

const asciiGlyphCount = 128

// Font is a baked bitmap font: glyph rectangles on a single texture.
// Fonts come from BMFont .fnt files or from TTF/OTF files baked at load time.
type Font struct {
	// Texture holds every glyph.
	Texture Handle

	lineHeight float32
	base       float32

	asciiGlyphs [asciiGlyphCount]glyph // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool
	extGlyphs   map[rune]*glyph

	kernings map[[2]rune]int16
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float32 { return f.lineHeight }

// Base returns the distance from the top of a line to the baseline.
func (f *Font) Base() float32 { return f.base }

func (f *Font) setGlyph(r rune, g glyph) {
	if r >= 0 && r < asciiGlyphCount {
		f.asciiGlyphs[r] = g
		f.asciiSet[r] = true
		return
	}
	if f.extGlyphs == nil {
		f.extGlyphs = make(map[rune]*glyph)
	}
	f.extGlyphs[r] = &g
}

// glyph returns the glyph for the given rune, or nil if not found.
func (f *Font) glyph(r rune) *glyph {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	return f.extGlyphs[r]
}

// kern returns the kerning amount for the given rune pair.
func (f *Font) kern(first, second rune) int16 {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

func (f *Font) setKerning(first, second rune, amount int16) {
	if f.kernings == nil {
		f.kernings = make(map[[2]rune]int16)
	}
	f.kernings[[2]rune{first, second}] = amount
}

// Measure returns the width and height of s laid out with f.
func (f *Font) Measure(s string) (width, height float32) {
	var maxW, cursorX float32
	var prevRune rune
	var hasPrev bool
	lines := 1

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			maxW = max(maxW, cursorX)
			cursorX = 0
			lines++
			hasPrev = false
			continue
		}

		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			cursorX += float32(f.kern(prevRune, r))
		}
		cursorX += float32(g.xAdvance)
		prevRune = r
		hasPrev = true
	}

	return max(maxW, cursorX), float32(lines) * f.lineHeight
}

// parseBitmapFont parses BMFont text-format data. It returns the font and the
// file name of its single page image.
func parseBitmapFont(path string, data []byte) (*Font, string, error) {
	f := &Font{Texture: NoHandle}
	var pageFile string
	var charCount int

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			f.lineHeight = float32(fieldInt(fields, "lineHeight"))
			f.base = float32(fieldInt(fields, "base"))
			if pages := fieldInt(fields, "pages"); pages > 1 {
				return nil, "", eris.Errorf("bramble: font %s has %d pages, only single-page fonts are supported", path, pages)
			}

		case "page":
			if fieldInt(fields, "id") == 0 {
				pageFile = fields["file"]
			}

		case "char":
			charCount++
			f.setGlyph(rune(fieldInt(fields, "id")), glyph{
				x:        uint16(fieldInt(fields, "x")),
				y:        uint16(fieldInt(fields, "y")),
				width:    uint16(fieldInt(fields, "width")),
				height:   uint16(fieldInt(fields, "height")),
				xOffset:  int16(fieldInt(fields, "xoffset")),
				yOffset:  int16(fieldInt(fields, "yoffset")),
				xAdvance: int16(fieldInt(fields, "xadvance")),
			})

		case "kerning":
			f.setKerning(
				rune(fieldInt(fields, "first")),
				rune(fieldInt(fields, "second")),
				int16(fieldInt(fields, "amount")),
			)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, "", eris.Wrapf(err, "bramble: error reading font %s", path)
	}
	if f.lineHeight == 0 {
		return nil, "", eris.Errorf("bramble: font %s missing common lineHeight", path)
	}
	if charCount == 0 {
		return nil, "", eris.Errorf("bramble: font %s has no char definitions", path)
	}
	if pageFile == "" {
		return nil, "", eris.Errorf("bramble: font %s has no page file", path)
	}
	return f, pageFile, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func fieldInt(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

// loadBitmapFont is the loader for .fnt files. The page image must already be
// loaded as a texture named after the page file.
func (a *Assets) loadBitmapFont(path, name string, data []byte) error {
	f, pageFile, err := parseBitmapFont(path, data)
	if err != nil {
		return err
	}
	tex, ok := a.Textures.Handle(baseName(pageFile))
	if !ok {
		return eris.Errorf("bramble: font %s: page texture %q not loaded", path, baseName(pageFile))
	}
	f.Texture = tex
	_, err = a.Fonts.Register(name, f)
	return err
}
