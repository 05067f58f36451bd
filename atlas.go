package bramble

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Region is a named sub-rectangle of a texture, in pixels.
type Region struct {
	Texture Handle
	X, Y    int
	Width   int
	Height  int
	// Rotated regions are stored 90 degrees clockwise in the texture.
	Rotated bool
}

// uvCorners returns normalized texture coordinates of the region's corners in
// TL, TR, BL, BR order for a texture of the given size.
func (r Region) uvCorners(texW, texH int) [4]Vec2 {
	tw, th := float32(texW), float32(texH)
	x0 := float32(r.X) / tw
	y0 := float32(r.Y) / th
	if r.Rotated {
		// stored rect is Height wide and Width tall
		x1 := float32(r.X+r.Height) / tw
		y1 := float32(r.Y+r.Width) / th
		return [4]Vec2{{x1, y0}, {x1, y1}, {x0, y0}, {x0, y1}}
	}
	x1 := float32(r.X+r.Width) / tw
	y1 := float32(r.Y+r.Height) / th
	return [4]Vec2{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseAtlas parses TexturePacker JSON in either the hash format (single
// "frames" object) or the array format ("textures" list with per-page
// frames). It returns frames grouped by page image name; hash-format frames
// are grouped under "".
func parseAtlas(path string, data []byte) (map[string]map[string]jsonFrame, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, eris.Wrapf(err, "bramble: failed to parse atlas %s", path)
	}

	pages := make(map[string]map[string]jsonFrame)
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, eris.Wrapf(err, "bramble: failed to parse atlas %s textures array", path)
		}
		for _, tex := range textures {
			pages[tex.Image] = tex.Frames
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, eris.Wrapf(err, "bramble: failed to parse atlas %s frames", path)
		}
		pages[""] = frames
	default:
		return nil, eris.Errorf("bramble: atlas %s has neither \"frames\" nor \"textures\" key", path)
	}
	return pages, nil
}

// loadAtlas is the loader for .json files. Hash-format frames belong to the
// texture sharing the atlas's name; array-format pages name their texture
// image file. Every texture must already be loaded.
func (a *Assets) loadAtlas(path, name string, data []byte) error {
	pages, err := parseAtlas(path, data)
	if err != nil {
		return err
	}

	// Resolve every page and check for room before registering anything so
	// a bad file leaves the catalog untouched.
	textures := make(map[string]Handle, len(pages))
	for page := range pages {
		texName := name
		if page != "" {
			texName = baseName(page)
		}
		h, ok := a.Textures.Handle(texName)
		if !ok {
			return eris.Errorf("bramble: atlas %s: texture %q not loaded", path, texName)
		}
		textures[page] = h
	}

	added := make(map[string]struct{})
	for _, frames := range pages {
		for regionName := range frames {
			if _, ok := a.Regions.Handle(regionName); !ok {
				added[regionName] = struct{}{}
			}
		}
	}
	if free := a.Regions.Cap() - a.Regions.Len(); len(added) > free {
		return eris.Wrapf(ErrCatalogFull, "atlas %s: %d new regions, %d free", path, len(added), free)
	}

	for page, frames := range pages {
		for regionName, f := range frames {
			r := Region{
				Texture: textures[page],
				X:       f.Frame.X,
				Y:       f.Frame.Y,
				Width:   f.Frame.W,
				Height:  f.Frame.H,
				Rotated: f.Rotated,
			}
			if _, err := a.Regions.Register(regionName, r); err != nil {
				return err
			}
		}
	}
	return nil
}
