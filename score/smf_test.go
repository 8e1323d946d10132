package score

import (
	"bytes"
	"math"
	"testing"
)

func roundTrip(t *testing.T, s *Score) *Score {
	t.Helper()
	var buf bytes.Buffer
	if err := s.WriteSMF(&buf); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	got, err := ReadSMF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	return got
}

func TestSMFRoundTrip(t *testing.T) {
	s := &Score{
		Tempo: 120,
		Instruments: []Instrument{
			{
				Program: 5,
				Name:    "Unit_7",
				Notes: []Note{
					{Pitch: 60, Velocity: 80, Start: 0.10, End: 0.15},
					{Pitch: 60, Velocity: 80, Start: 0.20, End: 0.25},
				},
			},
			{
				Program: 1,
				Name:    "Unit_12",
				Notes: []Note{
					{Pitch: 72, Velocity: 100, Start: 0.05, End: 0.55},
				},
			},
		},
	}
	got := roundTrip(t, s)

	if got.Tempo != 120 {
		t.Fatalf("tempo: got=%g want=120", got.Tempo)
	}
	if len(got.Instruments) != 2 {
		t.Fatalf("instrument count: got=%d want=2", len(got.Instruments))
	}

	// 960 ticks per quarter at 120 BPM is ~0.5 ms resolution.
	const tol = 0.002
	for i, want := range s.Instruments {
		inst := got.Instruments[i]
		if inst.Program != want.Program {
			t.Fatalf("instrument %d program: got=%d want=%d", i, inst.Program, want.Program)
		}
		if inst.Name != want.Name {
			t.Fatalf("instrument %d name: got=%q want=%q", i, inst.Name, want.Name)
		}
		if len(inst.Notes) != len(want.Notes) {
			t.Fatalf("instrument %d note count: got=%d want=%d", i, len(inst.Notes), len(want.Notes))
		}
		for j, wn := range want.Notes {
			n := inst.Notes[j]
			if n.Pitch != wn.Pitch || n.Velocity != wn.Velocity {
				t.Fatalf("note %d/%d: pitch=%d velocity=%d, want %d/%d", i, j, n.Pitch, n.Velocity, wn.Pitch, wn.Velocity)
			}
			if math.Abs(n.Start-wn.Start) > tol {
				t.Fatalf("note %d/%d start: got=%g want=%g", i, j, n.Start, wn.Start)
			}
			if math.Abs(n.End-wn.End) > tol {
				t.Fatalf("note %d/%d end: got=%g want=%g", i, j, n.End, wn.End)
			}
			if n.End <= n.Start {
				t.Fatalf("note %d/%d: end not after start", i, j)
			}
		}
	}
}

func TestSMFRoundTripEmptyInstrument(t *testing.T) {
	s := &Score{
		Tempo: 120,
		Instruments: []Instrument{
			{Program: 0, Name: "Unit_1", Notes: []Note{{Pitch: 64, Velocity: 90, Start: 0, End: 0.05}}},
			{Program: 1, Name: "Unit_2"},
		},
	}
	got := roundTrip(t, s)
	if len(got.Instruments) != 2 {
		t.Fatalf("instrument count: got=%d want=2", len(got.Instruments))
	}
	if len(got.Instruments[1].Notes) != 0 {
		t.Fatalf("empty instrument grew notes: %+v", got.Instruments[1].Notes)
	}
	if got.Instruments[1].Name != "Unit_2" {
		t.Fatalf("empty instrument name: got=%q", got.Instruments[1].Name)
	}
}

func TestSMFEmptyScore(t *testing.T) {
	s := &Score{Tempo: 120}
	var buf bytes.Buffer
	if err := s.WriteSMF(&buf); err != nil {
		t.Fatalf("WriteSMF: %v", err)
	}
	got, err := ReadSMF(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	if len(got.Instruments) != 0 {
		t.Fatalf("expected no instruments, got %d", len(got.Instruments))
	}
}

func TestWriteSMFRejectsOutOfRangePitch(t *testing.T) {
	s := &Score{
		Tempo: 120,
		Instruments: []Instrument{
			{Program: 0, Notes: []Note{{Pitch: 177, Velocity: 80, Start: 0, End: 0.1}}},
		},
	}
	var buf bytes.Buffer
	if err := s.WriteSMF(&buf); err == nil {
		t.Fatalf("expected error for pitch 177")
	}
}

func TestSMFZeroLengthNoteGetsMinimalDuration(t *testing.T) {
	s := &Score{
		Tempo: 120,
		Instruments: []Instrument{
			{Program: 0, Notes: []Note{{Pitch: 60, Velocity: 80, Start: 0.1, End: 0.1}}},
		},
	}
	got := roundTrip(t, s)
	n := got.Instruments[0].Notes[0]
	if n.End <= n.Start {
		t.Fatalf("zero-length note not stretched: start=%g end=%g", n.Start, n.End)
	}
}
