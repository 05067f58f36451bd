package bramble

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/rs/zerolog"
)

// testWAV builds a 16-bit stereo PCM WAV file with n frames of silence.
func testWAV(sampleRate, n int) []byte {
	const channels, bits = 2, 16
	dataLen := n * channels * bits / 8
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*bits/8))
	binary.Write(&b, binary.LittleEndian, uint16(channels*bits/8))
	binary.Write(&b, binary.LittleEndian, uint16(bits))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))
	return b.Bytes()
}

func TestDecodeSound_WAV(t *testing.T) {
	s, err := decodeSound("step.wav", testWAV(44100, 4410), 44100)
	if err != nil {
		t.Fatalf("decodeSound: %v", err)
	}
	if len(s.PCM) != 4410*4 {
		t.Errorf("PCM bytes = %d, want %d", len(s.PCM), 4410*4)
	}
	if d := s.Duration(44100); d < 0.099 || d > 0.101 {
		t.Errorf("Duration = %v, want 0.1", d)
	}
}

func TestDecodeSound_Invalid(t *testing.T) {
	if _, err := decodeSound("step.wav", []byte("not a wav"), 44100); err == nil {
		t.Error("expected error for bad wav")
	}
	if _, err := decodeSound("step.ogg", []byte("not an ogg"), 44100); err == nil {
		t.Error("expected error for bad ogg")
	}
	if _, err := decodeSound("step.mp3", nil, 44100); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestLoadSound(t *testing.T) {
	a := testAssets(t)
	if err := a.LoadData("sfx/step.wav", testWAV(44100, 100)); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if _, ok := a.Sounds.Find("step"); !ok {
		t.Error("sound not registered")
	}
}

func TestMixer_UnknownSound(t *testing.T) {
	a := testAssets(t)
	m := NewMixer(a.Sounds, 44100, zerolog.Nop())
	m.Play("missing")
	if m.Playing() != 0 {
		t.Errorf("Playing = %d, want 0", m.Playing())
	}
	m.Update()
	m.StopAll()
}
