package bramble

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// screenshotter captures queued labels at the end of a drawn frame.
type screenshotter struct {
	dir   string
	queue []string
	log   zerolog.Logger
	now   func() time.Time
}

func newScreenshotter(dir string, log zerolog.Logger) *screenshotter {
	return &screenshotter{dir: dir, log: component(log, "screenshot"), now: time.Now}
}

func (s *screenshotter) pending() int { return len(s.queue) }

// flush writes one PNG per queued label and returns the paths written.
func (s *screenshotter) flush(screen *ebiten.Image) []string {
	if len(s.queue) == 0 {
		return nil
	}
	defer func() { s.queue = s.queue[:0] }()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Error().Err(err).Str("dir", s.dir).Msg("screenshot dir")
		return nil
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	stamp := s.now().Format("20060102_150405")
	var written []string
	for _, label := range s.queue {
		path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			s.log.Error().Err(err).Str("label", label).Msg("screenshot failed")
			continue
		}
		s.log.Info().Str("path", path).Msg("screenshot saved")
		written = append(written, path)
	}
	return written
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return eris.Wrapf(err, "encode %s", path)
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
