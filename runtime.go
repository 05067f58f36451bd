package bramble

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Game is the application driven by a Runtime.
type Game interface {
	// Update advances game state by dt seconds. Input for the frame is
	// available through rt.Input(). Returning an error stops the loop.
	Update(rt *Runtime, dt float32) error
	// Draw issues the frame's draw requests through r.
	Draw(rt *Runtime, r *Renderer)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger replaces the logger built from the config.
func WithLogger(log zerolog.Logger) Option {
	return func(rt *Runtime) { rt.log = log }
}

// WithInputSource replaces Ebitengine input. Injected events still apply on
// top of src.
func WithInputSource(src InputSource) Option {
	return func(rt *Runtime) { rt.source = src }
}

// WithWatcher installs a hot-reload watcher instead of the fsnotify one
// Load would create.
func WithWatcher(w Watcher) Option {
	return func(rt *Runtime) { rt.watcher = w }
}

// WithTestRunner attaches a scripted test run.
func WithTestRunner(r *TestRunner) Option {
	return func(rt *Runtime) { rt.runner = r }
}

// Runtime owns the frame loop: sample input, apply hot reloads, update the
// game and entities, let the game draw into the accumulator, submit the
// batches to a backend, then reset the accumulator.
type Runtime struct {
	cfg  Config
	game Game
	log  zerolog.Logger
	dt   float32

	assets   *Assets
	acc      *Accumulator
	renderer *Renderer
	entities *Entities
	camera   *Camera
	mixer    *Mixer

	source   InputSource
	injector *Injector
	input    Input

	watcher Watcher
	runner  *TestRunner
	shots   *screenshotter
	stats   *frameStats
	backend *EbitenBackend

	room Handle

	loaded     bool
	frames     int64
	quit       bool
	reloads    int
	updateTime time.Duration
}

// NewRuntime validates cfg and builds every subsystem. No window is opened
// and no files are read until Load or Run.
func NewRuntime(cfg Config, game Game, opts ...Option) (*Runtime, error) {
	if game == nil {
		return nil, eris.New("bramble: nil game")
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "bramble: invalid config")
	}
	rt := &Runtime{
		cfg:    cfg,
		game:   game,
		log:    NewLogger(cfg),
		dt:     float32(1 / float64(cfg.TPS)),
		source: EbitenInput{},
		room:   NoHandle,
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.assets = NewAssets(cfg, rt.log)
	rt.acc = NewAccumulator()
	rt.renderer = NewRenderer(cfg, rt.assets, rt.acc, rt.log)
	rt.entities = NewEntities(cfg.MaxEntities, rt.log)
	rt.camera = newCamera(cfg.Width, cfg.Height)
	rt.mixer = NewMixer(rt.assets.Sounds, cfg.SampleRate, rt.log)
	rt.injector = NewInjector(rt.source)
	rt.shots = newScreenshotter(cfg.ScreenshotDir, rt.log)
	if cfg.Debug {
		rt.stats = newFrameStats(cfg.DebugStatsInterval, rt.log)
	}
	rt.log = component(rt.log, "runtime")
	return rt, nil
}

// Load bakes the default font, loads the asset directory and, with
// HotReload set, starts watching it.
func (rt *Runtime) Load() error {
	if err := rt.assets.LoadDefaultFont(); err != nil {
		return err
	}
	rt.loaded = true
	if _, err := os.Stat(rt.cfg.AssetDir); err != nil {
		rt.log.Warn().Str("dir", rt.cfg.AssetDir).Msg("asset dir not found, nothing loaded")
		return nil
	}
	if _, err := rt.assets.LoadDir(rt.cfg.AssetDir); err != nil {
		return err
	}
	if rt.cfg.HotReload && rt.watcher == nil {
		w, err := NewFSWatcher(rt.cfg.AssetDir, rt.assets.Handles, rt.log)
		if err != nil {
			return err
		}
		rt.watcher = w
	}
	return nil
}

// Close stops the watcher and audio.
func (rt *Runtime) Close() error {
	rt.mixer.StopAll()
	if rt.watcher != nil {
		return rt.watcher.Close()
	}
	return nil
}

func (rt *Runtime) Config() Config              { return rt.cfg }
func (rt *Runtime) Logger() zerolog.Logger      { return rt.log }
func (rt *Runtime) Assets() *Assets             { return rt.assets }
func (rt *Runtime) Accumulator() *Accumulator   { return rt.acc }
func (rt *Runtime) Renderer() *Renderer         { return rt.renderer }
func (rt *Runtime) Entities() *Entities         { return rt.entities }
func (rt *Runtime) Camera() *Camera             { return rt.camera }
func (rt *Runtime) Mixer() *Mixer               { return rt.mixer }
func (rt *Runtime) Injector() *Injector         { return rt.injector }
func (rt *Runtime) Input() *Input               { return &rt.input }
func (rt *Runtime) Frames() int64               { return rt.frames }
func (rt *Runtime) SetTestRunner(r *TestRunner) { rt.runner = r }

// Quit ends the loop at the top of the next iteration.
func (rt *Runtime) Quit() { rt.quit = true }

// Quitting reports whether Quit was called.
func (rt *Runtime) Quitting() bool { return rt.quit }

// Screenshot queues a labeled capture of the next drawn frame, written as a
// PNG to Config.ScreenshotDir.
func (rt *Runtime) Screenshot(label string) {
	rt.shots.queue = append(rt.shots.queue, label)
}

// EnterRoom makes the named room current: every entity is despawned, the
// room's spawn points are spawned and the camera is centered and bounded to
// the room.
func (rt *Runtime) EnterRoom(name string) error {
	h, ok := rt.assets.Rooms.Handle(name)
	if !ok {
		return eris.Errorf("bramble: room %q not loaded", name)
	}
	room, _ := rt.assets.Rooms.Get(h)
	rt.entities.Clear()
	rt.room = h

	w := float32(room.Width * rt.cfg.TileWidth)
	ht := float32(room.Height * rt.cfg.TileHeight)
	rt.camera.X, rt.camera.Y = w/2, ht/2
	rt.camera.SetBounds(Rect{Width: w, Height: ht})
	n, err := rt.entities.SpawnRoom(room, rt.cfg.TileWidth, rt.cfg.TileHeight)
	rt.log.Info().Str("room", name).Int("spawned", n).Msg("entered room")
	return err
}

// Room returns the current room. A reloaded room file is picked up on the
// next call.
func (rt *Runtime) Room() (*Room, bool) {
	return rt.assets.Rooms.Get(rt.room)
}

// pollReloads re-runs loaders for files the watcher reported, at most
// ReloadBudget per frame.
func (rt *Runtime) pollReloads() int {
	if rt.watcher == nil {
		return 0
	}
	n := 0
	for _, path := range rt.watcher.Poll(rt.cfg.ReloadBudget) {
		if err := rt.assets.Reload(path); err == nil {
			n++
		}
	}
	return n
}

// update runs the first half of a frame. It returns ebiten.Termination once
// Quit has been called.
func (rt *Runtime) update() error {
	if rt.quit {
		return ebiten.Termination
	}
	start := time.Now()
	if rt.runner != nil {
		rt.runner.step(rt)
	}
	rt.injector.Sample(&rt.input)
	rt.reloads = rt.pollReloads()

	if err := rt.game.Update(rt, rt.dt); err != nil {
		return err
	}
	rt.entities.Update(rt.dt)
	rt.camera.update(rt.dt, rt.entities)
	rt.mixer.Update()
	rt.updateTime = time.Since(start)
	return nil
}

// draw lets the game fill the accumulator, submits the batches and resets
// the accumulator for the next frame.
func (rt *Runtime) draw(b Backend) {
	start := time.Now()
	rt.renderer.ResetStats()
	rt.game.Draw(rt, rt.renderer)

	batches := rt.acc.Batches()
	b.Submit(batches)

	if rt.stats != nil {
		sample := frameSample{
			batches:  len(batches),
			quads:    rt.renderer.Quads(),
			entities: rt.entities.Len(),
			reloads:  rt.reloads,
			update:   rt.updateTime,
		}
		if dc, ok := b.(interface{ DrawCalls() int }); ok {
			sample.drawCalls = dc.DrawCalls()
		} else {
			sample.drawCalls = len(batches)
		}
		sample.draw = time.Since(start)
		rt.stats.record(sample)
	}
	rt.acc.Reset()
	rt.frames++
}

// Frame runs one full iteration against b without a window: update, draw,
// submit, reset. It returns ebiten.Termination after Quit.
func (rt *Runtime) Frame(b Backend) error {
	if err := rt.update(); err != nil {
		return err
	}
	rt.draw(b)
	return nil
}

// Update implements ebiten.Game.
func (rt *Runtime) Update() error {
	return rt.update()
}

// Draw implements ebiten.Game.
func (rt *Runtime) Draw(screen *ebiten.Image) {
	if rt.backend == nil {
		rt.backend = NewEbitenBackend(rt.assets, rt.log)
	}
	rt.backend.SetTarget(screen)
	rt.draw(rt.backend)
	if rt.stats != nil {
		rt.stats.drawOverlay(screen)
	}
	rt.shots.flush(screen)
}

// Layout implements ebiten.Game. The logical screen is always the
// configured size.
func (rt *Runtime) Layout(outsideWidth, outsideHeight int) (int, int) {
	rt.renderer.SetViewport(rt.cfg.Width, rt.cfg.Height)
	rt.camera.SetViewport(rt.cfg.Width, rt.cfg.Height)
	return rt.cfg.Width, rt.cfg.Height
}

// Run loads assets, opens the window and blocks until the game quits or
// returns an error.
func Run(rt *Runtime) error {
	ebiten.SetWindowTitle(rt.cfg.Title)
	ebiten.SetWindowSize(rt.cfg.Width, rt.cfg.Height)
	ebiten.SetTPS(rt.cfg.TPS)

	if !rt.loaded {
		if err := rt.Load(); err != nil {
			return err
		}
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.log.Error().Err(err).Msg("close")
		}
	}()

	rt.log.Info().Str("title", rt.cfg.Title).Int("width", rt.cfg.Width).Int("height", rt.cfg.Height).Msg("starting")
	if err := ebiten.RunGame(rt); err != nil {
		return eris.Wrap(err, "bramble: game loop")
	}
	rt.log.Info().Int64("frames", rt.frames).Msg("stopped")
	return nil
}
