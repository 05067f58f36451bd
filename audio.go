package bramble

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Sound is decoded 16-bit little-endian stereo PCM at the configured sample
// rate.
type Sound struct {
	PCM []byte
}

// Duration returns the length of the sound in seconds.
func (s *Sound) Duration(sampleRate int) float64 {
	const bytesPerFrame = 4
	return float64(len(s.PCM)/bytesPerFrame) / float64(sampleRate)
}

// decodeSound decodes WAV or Ogg Vorbis data, resampled to sampleRate.
func decodeSound(path string, data []byte, sampleRate int) (*Sound, error) {
	src := bytes.NewReader(data)
	var stream io.Reader
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, src)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, src)
	default:
		return nil, eris.Wrapf(ErrUnknownAssetType, "%s", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "bramble: failed to decode sound %s", path)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, eris.Wrapf(err, "bramble: failed to read sound %s", path)
	}
	return &Sound{PCM: pcm}, nil
}

// loadSound is the loader for .wav and .ogg files.
func (a *Assets) loadSound(path, name string, data []byte) error {
	s, err := decodeSound(path, data, a.cfg.SampleRate)
	if err != nil {
		return err
	}
	_, err = a.Sounds.Register(name, s)
	return err
}

// Mixer plays sounds from the sound catalog. The audio context is created on
// first use; Ebitengine allows only one per process.
type Mixer struct {
	sounds     *Catalog[*Sound]
	sampleRate int
	log        zerolog.Logger

	ctx     *audio.Context
	players []*audio.Player
	volume  float64
}

// NewMixer returns a mixer for the given catalog.
func NewMixer(sounds *Catalog[*Sound], sampleRate int, log zerolog.Logger) *Mixer {
	return &Mixer{
		sounds:     sounds,
		sampleRate: sampleRate,
		log:        component(log, "mixer"),
		volume:     1,
	}
}

func (m *Mixer) context() *audio.Context {
	if m.ctx == nil {
		if ctx := audio.CurrentContext(); ctx != nil {
			m.ctx = ctx
		} else {
			m.ctx = audio.NewContext(m.sampleRate)
		}
	}
	return m.ctx
}

// SetVolume sets the volume, 0 to 1, for sounds started afterwards and for
// those already playing.
func (m *Mixer) SetVolume(v float64) {
	m.volume = float64(clamp01(float32(v)))
	for _, p := range m.players {
		p.SetVolume(m.volume)
	}
}

// Play starts the named sound. Unknown names are logged and ignored.
func (m *Mixer) Play(name string) {
	s, ok := m.sounds.Find(name)
	if !ok {
		m.log.Warn().Str("name", name).Msg("unknown sound")
		return
	}
	p := m.context().NewPlayerFromBytes(s.PCM)
	p.SetVolume(m.volume)
	p.Play()
	m.players = append(m.players, p)
}

// Playing returns the number of active players.
func (m *Mixer) Playing() int { return len(m.players) }

// Update drops players that have finished. Called once per frame.
func (m *Mixer) Update() {
	live := m.players[:0]
	for _, p := range m.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			m.log.Debug().Err(err).Msg("close player")
		}
	}
	clear(m.players[len(live):])
	m.players = live
}

// StopAll stops and releases every player.
func (m *Mixer) StopAll() {
	for _, p := range m.players {
		p.Pause()
		_ = p.Close()
	}
	clear(m.players)
	m.players = m.players[:0]
}
