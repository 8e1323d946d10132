// Package score holds the MIDI-facing note model: instruments with absolute
// note times in seconds, plus standard MIDI file read/write.
package score

import "fmt"

// Note is one played note. End is always after Start.
type Note struct {
	Pitch    int // MIDI note number, 0..127
	Velocity int // 0..127
	Start    float64
	End      float64
}

// Instrument is one track worth of notes with a General MIDI program.
type Instrument struct {
	Program int
	Name    string
	Notes   []Note
}

// Score is a complete multi-instrument document with its initial tempo.
type Score struct {
	Tempo       float64 // BPM
	Instruments []Instrument
}

// NoteCount returns the total number of notes across all instruments.
func (s *Score) NoteCount() int {
	n := 0
	for _, inst := range s.Instruments {
		n += len(inst.Notes)
	}
	return n
}

// TotalDuration returns the latest note end in seconds. A score whose
// instruments hold no notes has duration 0.
func (s *Score) TotalDuration() float64 {
	max := 0.0
	for _, inst := range s.Instruments {
		for _, n := range inst.Notes {
			if n.End > max {
				max = n.End
			}
		}
	}
	return max
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the scientific pitch name for a MIDI note number,
// e.g. 60 -> "C4", 69 -> "A4".
func NoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return fmt.Sprintf("?%d", pitch)
	}
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12-1)
}
