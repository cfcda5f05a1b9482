package strum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-strum/analysis"
)

func TestRenderedPitchTracksRequestedFrequency(t *testing.T) {
	for _, hz := range []float64{220, 440, 587.33} {
		e := NewEngine(44100)
		e.Play("note", hz, 0.8)
		out := renderFrames(e, 24576)

		// Skip the noisy excitation phase before measuring.
		measured := analysis.EstimatePitch(out[4096:], 44100)
		if measured == 0 {
			t.Fatalf("no periodicity found for %f Hz", hz)
		}
		if relErr := math.Abs(measured-hz) / hz; relErr > 0.03 {
			t.Fatalf("pitch mismatch for %f Hz: measured %f (err %.1f%%)", hz, measured, relErr*100)
		}
	}
}

func TestReleaseDecaysRenderedLevel(t *testing.T) {
	rate := float32(0.001)
	e := NewEngine(44100)
	e.SetParams(Update{ReleaseRate: &rate})
	e.Play("note", 440, 0.8)
	sounding := renderFrames(e, 4096)

	e.Stop("note")
	renderFrames(e, 8192)
	tail := renderFrames(e, 4096)

	rmsSounding := analysis.RMS(sounding[2048:])
	rmsTail := analysis.RMS(tail)
	if rmsTail >= rmsSounding*0.5 {
		t.Fatalf("expected released tail well below sustain level: tail=%f sounding=%f", rmsTail, rmsSounding)
	}
}
