package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-strum/analysis"
	"github.com/cwbudde/algo-strum/internal/wavio"
	"github.com/cwbudde/algo-strum/lattice"
	"github.com/cwbudde/algo-strum/preset"
	"github.com/cwbudde/algo-strum/strum"
)

func main() {
	column := flag.Int("column", 0, "lattice column (fifths right of base)")
	row := flag.Int("row", 0, "lattice row (octaves above base)")
	octave := flag.Int("octave", 0, "global octave offset")
	volume := flag.Float64("volume", 0.8, "note volume (0-1)")
	duration := flag.Float64("duration", 2.0, "render duration in seconds")
	releaseAfter := flag.Float64("release-after", 0.5, "release the note after this many seconds")
	sampleRate := flag.Int("sample-rate", 44100, "render sample rate in Hz")
	presetPath := flag.String("preset", "", "preset JSON file path (optional)")
	output := flag.String("output", "output.wav", "output WAV file path")
	verify := flag.Bool("verify", false, "measure and print the rendered pitch")
	flag.Parse()

	engine := strum.NewEngine(*sampleRate)
	if *presetPath != "" {
		params, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		engine.SetParams(strum.Update{
			Damp:        &params.Damp,
			Damp2:       &params.Damp2,
			NoiseDamp:   &params.NoiseDamp,
			Attack:      &params.Attack,
			ReleaseRate: &params.ReleaseRate,
		})
		engine.SetMasterVolume(float64(params.MasterVolume))
	}

	cell := lattice.Cell{Column: *column, Row: *row}
	hz := lattice.New().Frequency(cell, *octave)
	fmt.Printf("Rendering cell (%d,%d) octave %+d = %.2f Hz for %.2f s at %d Hz...\n",
		*column, *row, *octave, hz, *duration, *sampleRate)

	engine.Play("render", hz, *volume)

	const blockSize = 128
	totalFrames := int(float64(*sampleRate) * (*duration))
	if totalFrames < blockSize {
		totalFrames = blockSize
	}
	releaseAtFrame := int(float64(*sampleRate) * (*releaseAfter))

	samples := make([]float32, 0, totalFrames)
	block := make([]float32, blockSize)
	released := false
	for rendered := 0; rendered < totalFrames; rendered += blockSize {
		if !released && rendered >= releaseAtFrame {
			engine.Stop("render")
			released = true
		}
		engine.RenderBlock(block)
		samples = append(samples, block...)
	}
	samples = samples[:totalFrames]

	if err := wavio.WriteMono(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d frames to %s\n", totalFrames, *output)

	if *verify {
		measured := analysis.EstimatePitch(samples, *sampleRate)
		fmt.Printf("Measured pitch: %.2f Hz (requested %.2f Hz), RMS %.4f\n",
			measured, hz, analysis.RMS(samples))
	}
}
