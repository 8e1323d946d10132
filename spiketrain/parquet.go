package spiketrain

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// row mirrors the schema written by the spike-sorting export: the unit ID
// and its spike times as a bracketed text array.
type row struct {
	UnitID     int64  `parquet:"unit_id"`
	SpikeTimes string `parquet:"spike_times"`
}

// LoadParquet reads a spike table from a Parquet file. Row order is
// preserved; a malformed spike-times cell fails the whole load.
func LoadParquet(path string) ([]Unit, error) {
	rows, err := parquet.ReadFile[row](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	units := make([]Unit, 0, len(rows))
	for i, r := range rows {
		times, err := ParseTimes(r.SpikeTimes)
		if err != nil {
			return nil, fmt.Errorf("row %d (unit %d): %w", i, r.UnitID, err)
		}
		units = append(units, Unit{ID: r.UnitID, Times: times})
	}
	return units, nil
}
