package bramble

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/armon/go-metrics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
)

// Metric keys recorded per frame in debug mode.
var (
	metricBatches   = []string{"frame", "batches"}
	metricDrawCalls = []string{"frame", "draw_calls"}
	metricQuads     = []string{"frame", "quads"}
	metricUpdate    = []string{"frame", "update_ms"}
	metricDraw      = []string{"frame", "draw_ms"}
	metricEntities  = []string{"world", "entities"}
	metricReloads   = []string{"assets", "reloads"}
)

// frameSample is what one frame contributes to the stats.
type frameSample struct {
	batches   int
	drawCalls int
	quads     int
	entities  int
	reloads   int
	update    time.Duration
	draw      time.Duration
}

// frameStats aggregates per-frame samples in an in-memory metrics sink and
// logs a summary every interval frames.
type frameStats struct {
	sink     *metrics.InmemSink
	log      zerolog.Logger
	interval int
	frames   int
	last     frameSample
}

func newFrameStats(interval int, log zerolog.Logger) *frameStats {
	return &frameStats{
		sink:     metrics.NewInmemSink(10*time.Second, time.Minute),
		log:      component(log, "stats"),
		interval: interval,
	}
}

func ms(d time.Duration) float32 { return float32(d.Seconds() * 1000) }

func (s *frameStats) record(f frameSample) {
	s.last = f
	s.sink.AddSample(metricBatches, float32(f.batches))
	s.sink.AddSample(metricDrawCalls, float32(f.drawCalls))
	s.sink.AddSample(metricQuads, float32(f.quads))
	s.sink.AddSample(metricUpdate, ms(f.update))
	s.sink.AddSample(metricDraw, ms(f.draw))
	s.sink.SetGauge(metricEntities, float32(f.entities))
	if f.reloads > 0 {
		s.sink.IncrCounter(metricReloads, float32(f.reloads))
	}

	s.frames++
	if s.interval > 0 && s.frames%s.interval == 0 {
		s.logSummary()
	}
}

// mean returns the current interval's mean for a sample key.
func (s *frameStats) mean(key []string) float64 {
	data := s.sink.Data()
	if len(data) == 0 {
		return 0
	}
	cur := data[len(data)-1]
	cur.RLock()
	defer cur.RUnlock()
	if v, ok := cur.Samples[flatKey(key)]; ok && v.AggregateSample != nil {
		return v.AggregateSample.Mean()
	}
	return 0
}

func flatKey(key []string) string {
	return strings.Join(key, ".")
}

func (s *frameStats) logSummary() {
	s.log.Debug().
		Int("frames", s.frames).
		Float64("batches", s.mean(metricBatches)).
		Float64("draw_calls", s.mean(metricDrawCalls)).
		Float64("quads", s.mean(metricQuads)).
		Float64("update_ms", s.mean(metricUpdate)).
		Float64("draw_ms", s.mean(metricDraw)).
		Int("entities", s.last.entities).
		Msg("frame stats")
}

var overlayBackground = color.RGBA{0, 0, 0, 128}

// drawOverlay prints FPS, TPS and the last frame's counts in the top-left
// corner of screen.
func (s *frameStats) drawOverlay(screen *ebiten.Image) {
	text := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nbatches: %d\ndraw calls: %d\nquads: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), s.last.batches, s.last.drawCalls, s.last.quads)
	bg := screen.SubImage(image.Rect(0, 0, 120, 80)).(*ebiten.Image)
	bg.Fill(overlayBackground)
	ebitenutil.DebugPrint(screen, text)
}
