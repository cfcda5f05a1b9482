package strum

import "testing"

// renderFrames drives the engine for n frames in render-sized blocks
// and returns all output.
func renderFrames(e *Engine, n int) []float32 {
	const blockSize = 128
	out := make([]float32, 0, n)
	block := make([]float32, blockSize)
	for len(out) < n {
		e.RenderBlock(block)
		out = append(out, block...)
	}
	return out[:n]
}

// flushCommands makes pending control commands visible without
// rendering meaningful audio.
func flushCommands(e *Engine) {
	var tiny [1]float32
	e.RenderBlock(tiny[:])
}

func mustVoiceState(t *testing.T, e *Engine, noteID string) VoiceInfo {
	t.Helper()
	info, ok := e.VoiceState(noteID)
	if !ok {
		t.Fatalf("expected a voice for %q", noteID)
	}
	return info
}

func peakAbs(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s > peak {
			peak = s
		}
		if -s > peak {
			peak = -s
		}
	}
	return peak
}
