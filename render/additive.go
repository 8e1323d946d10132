package render

import (
	"bytes"
	"math"

	"github.com/cwbudde/algo-approx"

	"github.com/neuroseq/spikesong/score"
)

// Additive is the built-in fallback synthesizer: each note is a single
// decaying sinusoid at its equal-tempered frequency. It has no external
// runtime requirements and never fails on a parseable MIDI file.
type Additive struct{}

func (a *Additive) Name() string { return "builtin-additive" }

const (
	// noteDecayS is the amplitude time constant of a note's envelope.
	noteDecayS = 0.12

	// noteGain keeps a handful of overlapping notes out of gross clipping
	// before normalization.
	noteGain = 0.25
)

func (a *Additive) Render(midiData []byte, sampleRate int) ([]float64, error) {
	sc, err := score.ReadSMF(bytes.NewReader(midiData))
	if err != nil {
		return nil, err
	}

	n := int(math.Ceil(sc.TotalDuration() * float64(sampleRate)))
	out := make([]float64, n)
	for _, inst := range sc.Instruments {
		for _, note := range inst.Notes {
			addNote(out, note, sampleRate)
		}
	}
	return out, nil
}

// addNote mixes one decaying sinusoid into out. The oscillator and the
// envelope both run as two-term recurrences, so there is no per-sample trig.
func addNote(out []float64, note score.Note, sampleRate int) {
	start := int(note.Start * float64(sampleRate))
	end := int(note.End * float64(sampleRate))
	if start < 0 {
		start = 0
	}
	if end > len(out) {
		end = len(out)
	}
	n := end - start
	if n <= 0 {
		return
	}

	w := 2.0 * math.Pi * midiNoteToFreq(note.Pitch) / float64(sampleRate)
	cw := math.Cos(w)
	x0 := 0.0 // sin(0): notes start at a zero crossing
	x1 := math.Sin(w)

	amp := noteGain * float64(note.Velocity) / 127.0
	decay := math.Exp(-1.0 / (noteDecayS * float64(sampleRate)))
	env := 1.0

	// Short linear fade at the tail to avoid a click at note off.
	fade := sampleRate / 500
	if fade < 1 {
		fade = 1
	}

	for i := 0; i < n; i++ {
		g := env
		if rem := n - i; rem < fade {
			g *= float64(rem) / float64(fade)
		}
		out[start+i] += amp * g * x0

		x2 := 2.0*cw*x1 - x0
		x0 = x1
		x1 = x2
		env *= decay
	}
}

// midiNoteToFreq converts a MIDI note number to frequency in Hz.
func midiNoteToFreq(note int) float64 {
	const a4Freq = 440.0
	const a4Note = 69
	const ln2 = 0.69314718055994530942
	exponent := float32(note-a4Note) / 12.0
	return a4Freq * float64(approx.FastExp(exponent*ln2))
}
