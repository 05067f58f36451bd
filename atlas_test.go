package bramble

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const hashAtlasJSON = `{
	"frames": {
		"hero": {"frame": {"x": 0, "y": 0, "w": 32, "h": 48}},
		"coin": {"frame": {"x": 32, "y": 0, "w": 16, "h": 16}, "rotated": true}
	}
}`

const arrayAtlasJSON = `{
	"textures": [
		{"image": "page0.png", "frames": {"tree": {"frame": {"x": 0, "y": 0, "w": 64, "h": 64}}}},
		{"image": "page1.png", "frames": {"rock": {"frame": {"x": 8, "y": 8, "w": 16, "h": 16}}}}
	]
}`

func TestParseAtlas_Hash(t *testing.T) {
	pages, err := parseAtlas("sprites.json", []byte(hashAtlasJSON))
	if err != nil {
		t.Fatalf("parseAtlas: %v", err)
	}
	frames, ok := pages[""]
	if !ok || len(frames) != 2 {
		t.Fatalf("pages = %v, want 2 frames under \"\"", pages)
	}
	if f := frames["coin"]; !f.Rotated || f.Frame.W != 16 {
		t.Errorf("coin = %+v", f)
	}
}

func TestParseAtlas_Array(t *testing.T) {
	pages, err := parseAtlas("world.json", []byte(arrayAtlasJSON))
	if err != nil {
		t.Fatalf("parseAtlas: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if _, ok := pages["page1.png"]["rock"]; !ok {
		t.Error("rock missing from page1.png")
	}
}

func TestParseAtlas_Invalid(t *testing.T) {
	for _, data := range []string{`not json`, `{}`, `{"frames": 3}`} {
		if _, err := parseAtlas("bad.json", []byte(data)); err == nil {
			t.Errorf("parseAtlas(%q) expected error", data)
		}
	}
}

func TestLoadAtlas_RegistersRegions(t *testing.T) {
	a := testAssets(t)
	tex := addTexture(t, a, "sprites", 64, 64)

	if err := a.LoadData("assets/sprites.json", []byte(hashAtlasJSON)); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	hero, ok := a.Regions.Find("hero")
	if !ok {
		t.Fatal("hero region missing")
	}
	if hero.Texture != tex || hero.Width != 32 || hero.Height != 48 {
		t.Errorf("hero = %+v", hero)
	}
}

func TestLoadAtlas_ArrayResolvesPageTextures(t *testing.T) {
	a := testAssets(t)
	p0 := addTexture(t, a, "page0", 128, 128)
	p1 := addTexture(t, a, "page1", 128, 128)

	if err := a.LoadData("world.json", []byte(arrayAtlasJSON)); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	tree, _ := a.Regions.Find("tree")
	rock, _ := a.Regions.Find("rock")
	if tree.Texture != p0 || rock.Texture != p1 {
		t.Errorf("tree texture %d rock texture %d, want %d and %d", tree.Texture, rock.Texture, p0, p1)
	}
}

func TestLoadAtlas_MissingTextureLeavesCatalog(t *testing.T) {
	a := testAssets(t)
	addTexture(t, a, "page0", 128, 128)

	if err := a.LoadData("world.json", []byte(arrayAtlasJSON)); err == nil {
		t.Fatal("expected error for missing page1 texture")
	}
	if a.Regions.Len() != 0 {
		t.Errorf("regions = %d after failed load, want 0", a.Regions.Len())
	}
}

func TestLoadAtlas_NoRoomLeavesCatalog(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogCapacity = 2
	a := NewAssets(cfg, zerolog.Nop())
	addTexture(t, a, "page0", 128, 128)
	addTexture(t, a, "page1", 128, 128)
	if _, err := a.Regions.Register("old", Region{}); err != nil {
		t.Fatal(err)
	}

	err := a.LoadData("world.json", []byte(arrayAtlasJSON))
	if !eris.Is(err, ErrCatalogFull) {
		t.Fatalf("err = %v, want ErrCatalogFull", err)
	}
	if a.Regions.Len() != 1 {
		t.Errorf("regions = %d after failed load, want 1", a.Regions.Len())
	}
	if _, ok := a.Regions.Find("tree"); ok {
		t.Error("tree registered by a load that failed")
	}
}

func TestRegionUVCorners(t *testing.T) {
	r := Region{X: 16, Y: 0, Width: 16, Height: 32}
	uv := r.uvCorners(64, 64)
	want := [4]Vec2{{0.25, 0}, {0.5, 0}, {0.25, 0.5}, {0.5, 0.5}}
	if uv != want {
		t.Errorf("uvCorners = %v, want %v", uv, want)
	}
}

func TestRegionUVCorners_Rotated(t *testing.T) {
	// Stored 90 degrees clockwise: 32 wide in the texture, 16 tall.
	r := Region{X: 0, Y: 0, Width: 16, Height: 32, Rotated: true}
	uv := r.uvCorners(64, 64)
	want := [4]Vec2{{0.5, 0}, {0.5, 0.25}, {0, 0}, {0, 0.25}}
	if uv != want {
		t.Errorf("uvCorners = %v, want %v", uv, want)
	}
}
