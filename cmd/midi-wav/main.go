package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neuroseq/spikesong/internal/wavio"
	"github.com/neuroseq/spikesong/render"
)

func main() {
	input := flag.String("input", "spikes_sonified.mid", "Input MIDI file path")
	output := flag.String("output", "spikes_sonified.wav", "Output WAV file path")
	sampleRate := flag.Int("sample-rate", 44100, "Output sample rate in Hz")
	renderRate := flag.Int("render-rate", 0, "Synthesis sample rate in Hz (0 = same as -sample-rate)")
	soundFont := flag.String("soundfont", "", "SF2 soundfont path (optional)")
	flag.Parse()

	if *sampleRate <= 0 {
		fmt.Fprintf(os.Stderr, "Error: sample rate must be > 0\n")
		os.Exit(1)
	}
	synthRate := *renderRate
	if synthRate <= 0 {
		synthRate = *sampleRate
	}

	fmt.Printf("Loading MIDI file: %s\n", *input)
	midiData, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %q: %v\n", *input, err)
		os.Exit(1)
	}

	fmt.Println("Synthesizing audio (this may take a moment)...")
	samples, used, err := render.Render(midiData, synthRate, render.Strategies(*soundFont))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error synthesizing: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Synthesized with %s\n", used)

	if len(samples) == 0 {
		fmt.Println("Warning: no audio data generated, not writing output")
		return
	}

	if synthRate != *sampleRate {
		samples, err = wavio.ResampleIfNeeded(samples, synthRate, *sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resampling %d -> %d Hz: %v\n", synthRate, *sampleRate, err)
			os.Exit(1)
		}
	}

	samples = render.NormalizePeak(samples)
	pcm := render.Quantize16(samples)

	fmt.Printf("Saving to %s...\n", *output)
	if err := wavio.WriteMono16(*output, pcm, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}

	duration := float64(len(pcm)) / float64(*sampleRate)
	fmt.Printf("\nAudio file created!\n")
	fmt.Printf("  Duration: %.2f seconds\n", duration)
	fmt.Printf("  Sample rate: %d Hz\n", *sampleRate)
	fmt.Printf("  File: %s\n", *output)
}
