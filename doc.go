// Package bramble is a small real-time 2D game runtime for [Ebitengine].
//
// A [Runtime] drives one frame at a time: it samples keyboard and mouse
// input, applies hot-reloaded assets, updates the [Game] and its [Entities],
// then lets the game draw. Draw requests go through a [Renderer] into an
// [Accumulator], which merges consecutive quads sharing a shader and texture
// into as few batches as possible. A [Backend] turns each batch into one
// draw call.
//
// # Quick start
//
//	type game struct{}
//
//	func (game) Update(rt *bramble.Runtime, dt float32) error {
//		if rt.Input().KeyJustPressed(ebiten.KeyEscape) {
//			rt.Quit()
//		}
//		return nil
//	}
//
//	func (game) Draw(rt *bramble.Runtime, r *bramble.Renderer) {
//		r.DrawRect(10, 10, 64, 32, bramble.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//		r.DrawText(bramble.DefaultFontName, "hello", 10, 50)
//	}
//
//	cfg, _ := bramble.LoadConfig("bramble.env")
//	rt, _ := bramble.NewRuntime(cfg, game{})
//	bramble.Run(rt)
//
// # Assets
//
// [Assets] holds one fixed-capacity [Catalog] per asset kind. Files are
// registered under their base name without extension; registering a name
// again overwrites its slot, so a [Handle] stays valid across reloads.
//
//	.png         textures
//	.json        TexturePacker atlas regions
//	.kage        Kage shaders
//	.fnt         BMFont bitmap fonts
//	.ttf .otf    TrueType fonts, baked at Config.FontSize
//	.room        tile rooms with spawn points
//	.wav .ogg    sounds
//
// With Config.HotReload set, an fsnotify watcher reloads changed files, at
// most Config.ReloadBudget per frame. A file that fails to load leaves the
// previous asset in place.
//
// # Rooms
//
// [Runtime.EnterRoom] replaces every entity with the room's spawn points and
// bounds the [Camera] to the room. Draw with the camera's offset:
//
//	ox, oy := rt.Camera().Offset()
//	room, _ := rt.Room()
//	r.DrawRoom(room, ox, oy)
//	rt.Entities().Draw(r, ox, oy)
//
// # Headless frames
//
// [Runtime.Frame] runs a full iteration against any [Backend] without a
// window, which is how the package tests drive the loop.
//
// [Ebitengine]: https://ebitengine.org
package bramble
