// Package sonify converts spike trains into a MIDI score under a
// configurable pitch-mapping policy.
package sonify

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Config controls spike-to-note conversion. Pass it by value; nothing in
// this package keeps process-wide settings.
type Config struct {
	TimeScale    float64 // playback speed: 0.1 = 10x faster than real time
	NoteDuration float64 // seconds per note
	BaseVelocity int     // 0..127, applied to every note
	Mode         Mode
	Units        []int // row positions to sonify; nil = all
	MaxUnits     int

	CustomPitches map[int]int // row position -> pitch, for ModeCustom
	DefaultPitch  int
	MinPitch      int // low end of the range for spread/firing_rate/random
	MaxPitch      int

	Tempo float64 // initial tempo of the output score, BPM
}

// DefaultConfig returns the standard sonification settings: 10x speedup,
// short fixed notes, and a C-major custom pitch table for the first units.
func DefaultConfig() Config {
	return Config{
		TimeScale:    0.1,
		NoteDuration: 0.05,
		BaseVelocity: 80,
		Mode:         ModeCustom,
		MaxUnits:     16,
		CustomPitches: map[int]int{
			0: 60, // middle C
			1: 64, // E
			2: 67, // G
			3: 72, // high C
			4: 55, // low G
			5: 69, // A
		},
		DefaultPitch: 60,
		MinPitch:     48, // C3
		MaxPitch:     84, // C6
		Tempo:        120,
	}
}

func (c *Config) Validate() error {
	if c.TimeScale <= 0 {
		return fmt.Errorf("time scale must be > 0")
	}
	if c.NoteDuration <= 0 {
		return fmt.Errorf("note duration must be > 0")
	}
	if c.BaseVelocity < 0 || c.BaseVelocity > 127 {
		return fmt.Errorf("base velocity out of range: %d", c.BaseVelocity)
	}
	if c.MaxUnits < 1 {
		return fmt.Errorf("max units must be >= 1")
	}
	if c.DefaultPitch < 0 || c.DefaultPitch > 127 {
		return fmt.Errorf("default pitch out of range: %d", c.DefaultPitch)
	}
	if c.MinPitch < 0 || c.MaxPitch > 127 || c.MinPitch > c.MaxPitch {
		return fmt.Errorf("invalid pitch range %d..%d", c.MinPitch, c.MaxPitch)
	}
	for idx, p := range c.CustomPitches {
		if idx < 0 {
			return fmt.Errorf("custom pitch index %d must be >= 0", idx)
		}
		if p < 0 || p > 127 {
			return fmt.Errorf("custom pitch for index %d out of range: %d", idx, p)
		}
	}
	for _, pos := range c.Units {
		if pos < 0 {
			return fmt.Errorf("unit position %d must be >= 0", pos)
		}
	}
	if c.Tempo <= 0 {
		return fmt.Errorf("tempo must be > 0")
	}
	return nil
}

// File is the JSON schema for sonification configs. Absent fields keep
// their defaults.
type File struct {
	TimeScale     *float64       `json:"time_scale"`
	NoteDuration  *float64       `json:"note_duration"`
	BaseVelocity  *int           `json:"base_velocity"`
	PitchMode     string         `json:"pitch_mode"`
	Units         []int          `json:"units_to_sonify"`
	MaxUnits      *int           `json:"max_units"`
	CustomPitches map[string]int `json:"custom_pitches"`
	DefaultPitch  *int           `json:"default_pitch"`
	PitchRange    []int          `json:"pitch_range"`
	Tempo         *float64       `json:"tempo"`
}

// LoadConfig loads a config JSON file and applies it on top of the
// defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := ApplyFile(&cfg, &f); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyFile applies a parsed config file onto an existing config.
func ApplyFile(dst *Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.TimeScale != nil {
		dst.TimeScale = *f.TimeScale
	}
	if f.NoteDuration != nil {
		dst.NoteDuration = *f.NoteDuration
	}
	if f.BaseVelocity != nil {
		dst.BaseVelocity = *f.BaseVelocity
	}
	if f.PitchMode != "" {
		m, err := ParseMode(f.PitchMode)
		if err != nil {
			return err
		}
		dst.Mode = m
	}
	if f.Units != nil {
		dst.Units = f.Units
	}
	if f.MaxUnits != nil {
		dst.MaxUnits = *f.MaxUnits
	}
	if f.DefaultPitch != nil {
		dst.DefaultPitch = *f.DefaultPitch
	}
	if f.PitchRange != nil {
		if len(f.PitchRange) != 2 {
			return fmt.Errorf("pitch_range wants [low, high], got %d values", len(f.PitchRange))
		}
		dst.MinPitch = f.PitchRange[0]
		dst.MaxPitch = f.PitchRange[1]
	}
	if f.Tempo != nil {
		dst.Tempo = *f.Tempo
	}

	if len(f.CustomPitches) == 0 {
		return nil
	}
	table := make(map[int]int, len(f.CustomPitches))
	keys := make([]string, 0, len(f.CustomPitches))
	for k := range f.CustomPitches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid custom_pitches key %q (expected unit position >= 0)", k)
		}
		table[idx] = f.CustomPitches[k]
	}
	dst.CustomPitches = table
	return nil
}
