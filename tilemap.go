package bramble

// tileUV returns the normalized texture corners of tileset tile id (1-based,
// 0 is empty) and false when id falls outside the tileset.
func tileUV(id, tileW, tileH, texW, texH int) ([4]Vec2, bool) {
	cols := texW / tileW
	rows := texH / tileH
	idx := id - 1
	if id <= 0 || cols == 0 || idx >= cols*rows {
		return [4]Vec2{}, false
	}
	reg := Region{X: (idx % cols) * tileW, Y: (idx / cols) * tileH, Width: tileW, Height: tileH}
	return reg.uvCorners(texW, texH), true
}

// visibleRange clamps the tiles covering [-origin, -origin+view) to [0, n).
func visibleRange(origin, view float32, tile, n int) (int, int) {
	if view <= 0 {
		return 0, n
	}
	first := int(-origin) / tile
	if -origin < 0 {
		first = 0
	}
	last := int(-origin+view)/tile + 1
	return max(first, 0), min(last, n)
}

// DrawRoom draws every non-empty tile of room with its top-left corner at
// (ox, oy). Tiles outside the viewport are culled. Tile ids past the end of
// the tileset are skipped.
func (r *Renderer) DrawRoom(room *Room, ox, oy float32) {
	h, ok := r.assets.Textures.Handle(r.tileset)
	if !ok {
		r.miss("texture", r.tileset)
		return
	}
	tex, _ := r.assets.Textures.Get(h)
	r.bindTexture(h)

	tw, th := float32(r.tileW), float32(r.tileH)
	c0, c1 := visibleRange(ox, r.viewW, r.tileW, room.Width)
	r0, r1 := visibleRange(oy, r.viewH, r.tileH, room.Height)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			id := room.Tiles[row*room.Width+col]
			if id == 0 {
				continue
			}
			uv, ok := tileUV(id, r.tileW, r.tileH, tex.Width, tex.Height)
			if !ok {
				continue
			}
			x := ox + float32(col)*tw
			y := oy + float32(row)*th
			r.acc.PushQuadUV(rectCorners(x, y, tw, th), uv)
			r.drawnQuads++
		}
	}
}
