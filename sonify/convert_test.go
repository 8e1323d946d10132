package sonify

import (
	"fmt"
	"math"
	"testing"

	"github.com/neuroseq/spikesong/spiketrain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvertExample(t *testing.T) {
	// One unit with spikes at 1.0 and 2.0 s, 10x speedup, pitch table {0: 60}.
	cfg := DefaultConfig()
	cfg.TimeScale = 0.1
	cfg.NoteDuration = 0.05
	cfg.BaseVelocity = 80
	cfg.Mode = ModeCustom
	cfg.CustomPitches = map[int]int{0: 60}

	units := []spiketrain.Unit{{ID: 9, Times: []float64{1.0, 2.0}}}
	sc, err := Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(sc.Instruments) != 1 {
		t.Fatalf("instrument count: got=%d want=1", len(sc.Instruments))
	}
	inst := sc.Instruments[0]
	if inst.Program != 0 {
		t.Fatalf("program: got=%d want=0", inst.Program)
	}
	if inst.Name != "Unit_9" {
		t.Fatalf("name: got=%q want=Unit_9", inst.Name)
	}
	if len(inst.Notes) != 2 {
		t.Fatalf("note count: got=%d want=2", len(inst.Notes))
	}
	wantStarts := []float64{0.10, 0.20}
	for i, n := range inst.Notes {
		if n.Pitch != 60 || n.Velocity != 80 {
			t.Fatalf("note %d: pitch=%d velocity=%d, want 60/80", i, n.Pitch, n.Velocity)
		}
		if !almostEqual(n.Start, wantStarts[i]) {
			t.Fatalf("note %d start: got=%g want=%g", i, n.Start, wantStarts[i])
		}
		if !almostEqual(n.End, wantStarts[i]+0.05) {
			t.Fatalf("note %d end: got=%g want=%g", i, n.End, wantStarts[i]+0.05)
		}
		if n.End <= n.Start {
			t.Fatalf("note %d: end %g not after start %g", i, n.End, n.Start)
		}
	}
}

func TestConvertOneNotePerSpike(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUnits = 32

	const n = 10
	units := make([]spiketrain.Unit, n)
	for i := range units {
		units[i] = spiketrain.Unit{ID: int64(i), Times: []float64{float64(i) + 0.5}}
	}
	sc, err := Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(sc.Instruments) != n {
		t.Fatalf("instrument count: got=%d want=%d", len(sc.Instruments), n)
	}
	for i, inst := range sc.Instruments {
		if len(inst.Notes) != 1 {
			t.Fatalf("instrument %d: note count=%d want=1", i, len(inst.Notes))
		}
		wantStart := (float64(i) + 0.5) * cfg.TimeScale
		if !almostEqual(inst.Notes[0].Start, wantStart) {
			t.Fatalf("instrument %d start: got=%g want=%g", i, inst.Notes[0].Start, wantStart)
		}
		if !almostEqual(inst.Notes[0].End, wantStart+cfg.NoteDuration) {
			t.Fatalf("instrument %d end: got=%g want=%g", i, inst.Notes[0].End, wantStart+cfg.NoteDuration)
		}
	}
}

func TestConvertEmptyUnitStillEmitsInstrument(t *testing.T) {
	cfg := DefaultConfig()
	units := []spiketrain.Unit{
		{ID: 4, Times: []float64{0.2}},
		{ID: 5},
	}
	sc, err := Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(sc.Instruments) != 2 {
		t.Fatalf("instrument count: got=%d want=2", len(sc.Instruments))
	}
	if len(sc.Instruments[1].Notes) != 0 {
		t.Fatalf("empty unit should have no notes, got %d", len(sc.Instruments[1].Notes))
	}
	if sc.Instruments[1].Name != "Unit_5" {
		t.Fatalf("empty unit name: got=%q", sc.Instruments[1].Name)
	}
}

func TestConvertSubsetAndTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Units = []int{3, 1}
	cfg.MaxUnits = 16

	units := make([]spiketrain.Unit, 5)
	for i := range units {
		units[i] = spiketrain.Unit{ID: int64(10 + i), Times: []float64{1.0}}
	}
	sc, err := Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(sc.Instruments) != 2 {
		t.Fatalf("instrument count: got=%d want=2", len(sc.Instruments))
	}
	// Selector order is preserved, and positions index table rows, not IDs.
	if sc.Instruments[0].Name != "Unit_13" || sc.Instruments[1].Name != "Unit_11" {
		t.Fatalf("subset selection wrong: %q, %q", sc.Instruments[0].Name, sc.Instruments[1].Name)
	}

	cfg = DefaultConfig()
	cfg.MaxUnits = 3
	sc, err = Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(sc.Instruments) != 3 {
		t.Fatalf("truncation: got=%d instruments want=3", len(sc.Instruments))
	}
	for i, inst := range sc.Instruments {
		if want := fmt.Sprintf("Unit_%d", 10+i); inst.Name != want {
			t.Fatalf("truncation kept wrong rows: got=%q want=%q", inst.Name, want)
		}
	}
}

func TestConvertSubsetOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Units = []int{7}
	if _, err := Convert([]spiketrain.Unit{{ID: 1}}, cfg); err == nil {
		t.Fatalf("expected error for out-of-range unit position")
	}
}

func TestConvertProgramWrapsAt128(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeOctaves
	cfg.MaxUnits = 200

	units := make([]spiketrain.Unit, 130)
	for i := range units {
		units[i] = spiketrain.Unit{ID: int64(i)}
	}
	sc, err := Convert(units, cfg)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got := sc.Instruments[129].Program; got != 1 {
		t.Fatalf("program for index 129: got=%d want=1", got)
	}
}

func TestConvertRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeScale = 0
	if _, err := Convert(nil, cfg); err == nil {
		t.Fatalf("expected validation error")
	}
}
