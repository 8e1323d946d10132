package sonify

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/neuroseq/spikesong/spiketrain"
)

// Mode selects how units are mapped to MIDI pitches.
type Mode int

const (
	// ModeCustom looks the unit's row position up in the configured pitch
	// table, falling back to the default pitch.
	ModeCustom Mode = iota
	// ModeSpread interpolates row positions linearly across the pitch range.
	ModeSpread
	// ModeOctaves walks the 12 semitones of successive octaves from C3.
	ModeOctaves
	// ModeFiringRate maps the unit's mean firing rate into the pitch range.
	ModeFiringRate
	// ModeRandom draws a pitch from the range, seeded by the unit ID so the
	// same unit lands on the same pitch across runs.
	ModeRandom
)

func (m Mode) String() string {
	switch m {
	case ModeCustom:
		return "custom"
	case ModeSpread:
		return "spread"
	case ModeOctaves:
		return "octaves"
	case ModeFiringRate:
		return "firing_rate"
	case ModeRandom:
		return "random"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a pitch mode name. Unknown names are an error; config
// files and flags should fail loudly rather than fall back silently.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "custom":
		return ModeCustom, nil
	case "spread":
		return ModeSpread, nil
	case "octaves":
		return ModeOctaves, nil
	case "firing_rate":
		return ModeFiringRate, nil
	case "random":
		return ModeRandom, nil
	}
	return 0, fmt.Errorf("unknown pitch mode %q (want custom|spread|octaves|firing_rate|random)", s)
}

const (
	octaveBase         = 48 // C3
	semitonesPerOctave = 12

	// rateCeilingHz is the firing rate that maps to the top of the pitch
	// range; faster units clamp there.
	rateCeilingHz = 50.0
)

// Pitch assigns a MIDI pitch to the unit at row position idx under cfg.
// A Mode value outside the enum degrades to the default pitch.
func Pitch(idx int, unit spiketrain.Unit, cfg Config) int {
	switch cfg.Mode {
	case ModeCustom:
		if p, ok := cfg.CustomPitches[idx]; ok {
			return p
		}
		return cfg.DefaultPitch

	case ModeSpread:
		den := cfg.MaxUnits - 1
		if den < 1 {
			den = 1
		}
		norm := float64(idx) / float64(den)
		return cfg.MinPitch + int(norm*float64(cfg.MaxPitch-cfg.MinPitch))

	case ModeOctaves:
		octave := (idx / semitonesPerOctave) * semitonesPerOctave
		return octaveBase + octave + idx%semitonesPerOctave

	case ModeFiringRate:
		if len(unit.Times) == 0 {
			return cfg.DefaultPitch
		}
		norm := unit.FiringRate() / rateCeilingHz
		if norm > 1 {
			norm = 1
		}
		return cfg.MinPitch + int(norm*float64(cfg.MaxPitch-cfg.MinPitch))

	case ModeRandom:
		rng := rand.New(rand.NewSource(unit.ID))
		return cfg.MinPitch + rng.Intn(cfg.MaxPitch-cfg.MinPitch+1)

	default:
		return cfg.DefaultPitch
	}
}
