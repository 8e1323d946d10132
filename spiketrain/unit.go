// Package spiketrain models sorted spike-time data as produced by spike
// sorting pipelines (one train of ascending timestamps per unit).
package spiketrain

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is one sorted unit: its identifier and its spike times in seconds,
// ascending. Immutable once loaded.
type Unit struct {
	ID    int64
	Times []float64
}

// Duration returns the span between the first and last spike, 0 when the
// train has fewer than two spikes.
func (u Unit) Duration() float64 {
	if len(u.Times) < 2 {
		return 0
	}
	return u.Times[len(u.Times)-1] - u.Times[0]
}

// FiringRate returns the mean firing rate over the unit's active span in Hz.
// Degenerate trains (zero span) report 0.
func (u Unit) FiringRate() float64 {
	d := u.Duration()
	if d <= 0 {
		return 0
	}
	return float64(len(u.Times)) / d
}

// ParseTimes parses the textual spike-array encoding used by the export
// pipeline: whitespace-separated floats, optionally wrapped in brackets,
// e.g. "[0.0132 0.0514 0.0961]". A malformed token fails the whole parse.
func ParseTimes(s string) ([]float64, error) {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), "[]"))
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid spike time %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
