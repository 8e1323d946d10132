// Package render synthesizes MIDI documents into PCM audio through an
// ordered chain of synthesizer strategies.
package render

import (
	"fmt"
	"strings"
)

// Strategy is one way of turning a MIDI file into mono PCM samples in
// roughly [-1, 1].
type Strategy interface {
	Name() string
	Render(midiData []byte, sampleRate int) ([]float64, error)
}

// Strategies returns the standard fallback chain: the configured soundfont
// (if any), then a system instrument bank, then the built-in additive
// synthesizer, which never fails.
func Strategies(soundFont string) []Strategy {
	var chain []Strategy
	if soundFont != "" {
		chain = append(chain, &SoundFont{Path: soundFont})
	}
	return append(chain, &DefaultSoundFont{}, &Additive{})
}

// Render tries each strategy in order and returns the samples from the
// first one that succeeds, along with that strategy's name. It fails only
// when the whole chain is exhausted.
func Render(midiData []byte, sampleRate int, strategies []Strategy) ([]float64, string, error) {
	if sampleRate <= 0 {
		return nil, "", fmt.Errorf("sample rate must be > 0: %d", sampleRate)
	}
	if len(strategies) == 0 {
		return nil, "", fmt.Errorf("no synthesizer strategies")
	}
	var failures []string
	for _, st := range strategies {
		samples, err := st.Render(midiData, sampleRate)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", st.Name(), err))
			continue
		}
		return samples, st.Name(), nil
	}
	return nil, "", fmt.Errorf("all synthesizers failed: %s", strings.Join(failures, "; "))
}
