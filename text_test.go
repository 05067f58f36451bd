package bramble

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// --- BMFont test fixture ---

// Minimal BMFont .fnt text data with ASCII glyphs for "ABCDEFGHIJ" + space.
const testFntData = `info face="TestFont" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=0,0
common lineHeight=40 base=30 scaleW=256 scaleH=256 pages=1 packed=0
page id=0 file="test.png"
chars count=11
char id=32  x=0   y=0   width=0   height=0   xoffset=0   yoffset=0   xadvance=10  page=0
char id=65  x=0   y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=66  x=20  y=0   width=18  height=30  xoffset=1   yoffset=2   xadvance=20  page=0
char id=67  x=38  y=0   width=19  height=30  xoffset=1   yoffset=2   xadvance=21  page=0
char id=68  x=57  y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=69  x=77  y=0   width=16  height=30  xoffset=1   yoffset=2   xadvance=18  page=0
char id=70  x=93  y=0   width=15  height=30  xoffset=1   yoffset=2   xadvance=17  page=0
char id=71  x=108 y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=72  x=128 y=0   width=20  height=30  xoffset=1   yoffset=2   xadvance=22  page=0
char id=73  x=148 y=0   width=8   height=30  xoffset=1   yoffset=2   xadvance=10  page=0
char id=74  x=156 y=0   width=12  height=30  xoffset=0   yoffset=2   xadvance=14  page=0
char id=8364 x=170 y=0  width=20  height=30  xoffset=0   yoffset=2   xadvance=20  page=0
kernings count=2
kerning first=65 second=66 amount=-2
kerning first=65 second=67 amount=-1
`

// testFntDataNoLineHeight is malformed .fnt data missing lineHeight.
const testFntDataNoLineHeight = `info face="Bad" size=32
page id=0 file="test.png"
chars count=1
char id=65 x=0 y=0 width=10 height=10 xoffset=0 yoffset=0 xadvance=12 page=0
`

// testFntDataNoChars is .fnt data with no char definitions.
const testFntDataNoChars = `info face="Bad" size=32
common lineHeight=40 base=30 scaleW=256 scaleH=256 pages=1 packed=0
page id=0 file="test.png"
`

const testFntDataTwoPages = `common lineHeight=40 base=30 scaleW=256 scaleH=256 pages=2 packed=0
page id=0 file="a.png"
page id=1 file="b.png"
char id=65 x=0 y=0 width=10 height=10 xoffset=0 yoffset=0 xadvance=12 page=0
`

func loadTestFont(t *testing.T) *Font {
	t.Helper()
	f, page, err := parseBitmapFont("test.fnt", []byte(testFntData))
	if err != nil {
		t.Fatalf("parseBitmapFont: %v", err)
	}
	if page != "test.png" {
		t.Fatalf("page = %q, want test.png", page)
	}
	return f
}

// --- Parsing ---

func TestParseBitmapFont_Glyphs(t *testing.T) {
	f := loadTestFont(t)

	count := 0
	for i := range f.asciiSet {
		if f.asciiSet[i] {
			count++
		}
	}
	if count != 11 {
		t.Errorf("ascii glyph count = %d, want 11", count)
	}
	if g := f.glyph('€'); g == nil || g.xAdvance != 20 {
		t.Errorf("glyph(€) = %+v, want xadvance 20", g)
	}
	if f.glyph('Z') != nil {
		t.Error("glyph(Z) should be nil")
	}
	if f.LineHeight() != 40 || f.Base() != 30 {
		t.Errorf("lineHeight %v base %v, want 40 and 30", f.LineHeight(), f.Base())
	}
}

func TestParseBitmapFont_Kerning(t *testing.T) {
	f := loadTestFont(t)
	if k := f.kern('A', 'B'); k != -2 {
		t.Errorf("kern(A,B) = %d, want -2", k)
	}
	if k := f.kern('B', 'A'); k != 0 {
		t.Errorf("kern(B,A) = %d, want 0", k)
	}
}

func TestParseBitmapFont_Invalid(t *testing.T) {
	tests := []struct {
		name, data string
	}{
		{"garbage", "not valid fnt data at all"},
		{"no line height", testFntDataNoLineHeight},
		{"no chars", testFntDataNoChars},
		{"two pages", testFntDataTwoPages},
	}
	for _, tt := range tests {
		if _, _, err := parseBitmapFont("bad.fnt", []byte(tt.data)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

// --- Measure ---

func TestFontMeasure(t *testing.T) {
	f := loadTestFont(t)
	tests := []struct {
		text string
		w, h float32
	}{
		{"", 0, 40},
		{"A", 22, 40},
		{"AB", 22 - 2 + 20, 40},
		{"A B", 22 + 10 + 20, 40},
		{"AB\nJ", 40, 80},
		{"AZ", 22, 40}, // unknown rune skipped
	}
	for _, tt := range tests {
		w, h := f.Measure(tt.text)
		if w != tt.w || h != tt.h {
			t.Errorf("Measure(%q) = %v, %v; want %v, %v", tt.text, w, h, tt.w, tt.h)
		}
	}
}

// --- Loaders ---

func TestLoadBitmapFont_NeedsPageTexture(t *testing.T) {
	a := testAssets(t)
	if err := a.LoadData("fonts/test.fnt", []byte(testFntData)); err == nil {
		t.Fatal("expected error without page texture")
	}
	if a.Fonts.Len() != 0 {
		t.Errorf("fonts = %d, want 0", a.Fonts.Len())
	}

	tex := addTexture(t, a, "test", 256, 256)
	if err := a.LoadData("fonts/test.fnt", []byte(testFntData)); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	f, ok := a.Fonts.Find("test")
	if !ok || f.Texture != tex {
		t.Errorf("font texture = %v, want %d", f, tex)
	}
}

func TestBakeFont_GoRegular(t *testing.T) {
	f, img, err := BakeFont(goregular.TTF, 16)
	if err != nil {
		t.Fatalf("BakeFont: %v", err)
	}
	if img.Bounds().Dx() != bakeAtlasW || img.Bounds().Dy() <= 0 {
		t.Errorf("atlas bounds = %v", img.Bounds())
	}
	for r := rune(bakeFirstRune); r <= bakeLastRune; r++ {
		if f.glyph(r) == nil {
			t.Errorf("missing glyph %q", r)
		}
	}
	if f.LineHeight() <= 0 || f.Base() <= 0 {
		t.Errorf("lineHeight %v base %v", f.LineHeight(), f.Base())
	}
	if g := f.glyph('M'); g.width == 0 || g.height == 0 || g.xAdvance <= 0 {
		t.Errorf("glyph M = %+v", g)
	}
	if g := f.glyph(' '); g.xAdvance <= 0 {
		t.Errorf("space advance = %d", g.xAdvance)
	}

	// Some pixel in the atlas must be inked.
	inked := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Error("atlas is empty")
	}
}

func TestBakeFont_Invalid(t *testing.T) {
	if _, _, err := BakeFont([]byte("not a font"), 16); err == nil {
		t.Error("expected error")
	}
}
