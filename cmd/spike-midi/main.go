package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/neuroseq/spikesong/score"
	"github.com/neuroseq/spikesong/sonify"
	"github.com/neuroseq/spikesong/spiketrain"
)

func main() {
	input := flag.String("input", "spike_times.parquet", "Input Parquet spike table")
	output := flag.String("output", "spikes_sonified.mid", "Output MIDI file path")
	configPath := flag.String("config", "", "Sonification config JSON file (optional)")
	timeScale := flag.Float64("time-scale", 0, "Override time scale (0.1 = 10x faster than real time)")
	noteDuration := flag.Float64("note-duration", 0, "Override note duration in seconds")
	velocity := flag.Int("velocity", 0, "Override note velocity (1-127)")
	pitchMode := flag.String("pitch-mode", "", "Override pitch mode: custom|spread|octaves|firing_rate|random")
	maxUnits := flag.Int("max-units", 0, "Override maximum number of units")
	unitsFlag := flag.String("units", "", "Comma-separated row positions to sonify, or \"all\"")
	flag.Parse()

	cfg := sonify.DefaultConfig()
	if *configPath != "" {
		loaded, err := sonify.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config %q: %v\n", *configPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *timeScale > 0 {
		cfg.TimeScale = *timeScale
	}
	if *noteDuration > 0 {
		cfg.NoteDuration = *noteDuration
	}
	if *velocity > 0 {
		cfg.BaseVelocity = *velocity
	}
	if *pitchMode != "" {
		m, err := sonify.ParseMode(*pitchMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Mode = m
	}
	if *maxUnits > 0 {
		cfg.MaxUnits = *maxUnits
	}
	if *unitsFlag != "" {
		positions, err := parseUnits(*unitsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Units = positions
	}

	fmt.Printf("Loading spike times from %s...\n", *input)
	units, err := spiketrain.LoadParquet(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %q: %v\n", *input, err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d units\n\n", len(units))

	sc, err := sonify.Convert(units, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting spikes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pitch mode: %s\n", cfg.Mode)
	fmt.Println("Processing units:")
	for idx, inst := range sc.Instruments {
		if len(inst.Notes) == 0 {
			fmt.Printf("  Unit %d (%s): 0 spikes, program=%d\n", idx, inst.Name, inst.Program)
			continue
		}
		pitch := inst.Notes[0].Pitch
		fmt.Printf("  Unit %d (%s): %d spikes, pitch=%d (%s), program=%d\n",
			idx, inst.Name, len(inst.Notes), pitch, score.NoteName(pitch), inst.Program)
	}

	fmt.Printf("\nSaving MIDI to %s...\n", *output)
	if err := sc.WriteSMFFile(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("\nMIDI file created successfully!\n")
	fmt.Printf("  Total units: %d\n", len(sc.Instruments))
	fmt.Printf("  Total notes: %d\n", sc.NoteCount())
	fmt.Printf("  Duration: %.2f seconds\n", sc.TotalDuration())
	fmt.Printf("  Time scale: %gx\n", cfg.TimeScale)
	fmt.Printf("  Pitch mode: %s\n", cfg.Mode)
}

func parseUnits(s string) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		pos, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("invalid unit position %q", p)
		}
		out = append(out, pos)
	}
	return out, nil
}
