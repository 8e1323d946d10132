package sonify

import (
	"fmt"

	"github.com/neuroseq/spikesong/score"
	"github.com/neuroseq/spikesong/spiketrain"
)

// Convert turns a spike table into a score: one instrument per selected
// unit, one note per spike. Units keep their table order; a unit without
// spikes still gets an (empty) instrument.
func Convert(units []spiketrain.Unit, cfg Config) (*score.Score, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selected := units
	if cfg.Units != nil {
		selected = make([]spiketrain.Unit, 0, len(cfg.Units))
		for _, pos := range cfg.Units {
			if pos >= len(units) {
				return nil, fmt.Errorf("unit position %d out of range (table has %d rows)", pos, len(units))
			}
			selected = append(selected, units[pos])
		}
	}
	if len(selected) > cfg.MaxUnits {
		selected = selected[:cfg.MaxUnits]
	}

	sc := &score.Score{
		Tempo:       cfg.Tempo,
		Instruments: make([]score.Instrument, 0, len(selected)),
	}
	for idx, u := range selected {
		pitch := Pitch(idx, u, cfg)
		inst := score.Instrument{
			Program: idx % 128,
			Name:    fmt.Sprintf("Unit_%d", u.ID),
			Notes:   make([]score.Note, 0, len(u.Times)),
		}
		for _, t := range u.Times {
			start := t * cfg.TimeScale
			inst.Notes = append(inst.Notes, score.Note{
				Pitch:    pitch,
				Velocity: cfg.BaseVelocity,
				Start:    start,
				End:      start + cfg.NoteDuration,
			})
		}
		sc.Instruments = append(sc.Instruments, inst)
	}
	return sc, nil
}
