package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sinshu/go-meltysynth/meltysynth"
)

// SoundFont renders through meltysynth with a specific SF2 instrument bank.
type SoundFont struct {
	Path string
}

func (s *SoundFont) Name() string { return "soundfont:" + filepath.Base(s.Path) }

func (s *SoundFont) Render(midiData []byte, sampleRate int) ([]float64, error) {
	return renderSoundFont(s.Path, midiData, sampleRate)
}

// defaultSoundFontPaths are conventional General MIDI bank locations,
// checked in order.
var defaultSoundFontPaths = []string{
	"/usr/share/sounds/sf2/default-GM.sf2",
	"/usr/share/sounds/sf2/FluidR3_GM.sf2",
	"/usr/share/sounds/sf2/TimGM6mb.sf2",
	"/usr/share/soundfonts/default.sf2",
	"/usr/local/share/soundfonts/default.sf2",
}

// DefaultSoundFont renders with the first readable system instrument bank.
type DefaultSoundFont struct{}

func (d *DefaultSoundFont) Name() string { return "soundfont:default" }

func (d *DefaultSoundFont) Render(midiData []byte, sampleRate int) ([]float64, error) {
	for _, p := range defaultSoundFontPaths {
		if _, err := os.Stat(p); err == nil {
			return renderSoundFont(p, midiData, sampleRate)
		}
	}
	return nil, fmt.Errorf("no system soundfont found")
}

func renderSoundFont(sf2Path string, midiData []byte, sampleRate int) ([]float64, error) {
	f, err := os.Open(sf2Path)
	if err != nil {
		return nil, err
	}
	font, err := meltysynth.NewSoundFont(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("load soundfont %s: %w", sf2Path, err)
	}

	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	synth, err := meltysynth.NewSynthesizer(font, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}
	mid, err := meltysynth.NewMidiFile(bytes.NewReader(midiData))
	if err != nil {
		return nil, fmt.Errorf("parse midi: %w", err)
	}

	seq := meltysynth.NewMidiFileSequencer(synth)
	seq.Play(mid, false)

	n := int(mid.GetLength().Seconds() * float64(sampleRate))
	if n < 0 {
		n = 0
	}
	left := make([]float32, n)
	right := make([]float32, n)
	seq.Render(left, right)

	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * (float64(left[i]) + float64(right[i]))
	}
	return out, nil
}
