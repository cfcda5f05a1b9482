// Package analysis measures rendered audio: level and fundamental
// frequency. Used by the engine integration tests and the offline
// renderer's verify mode.
package analysis

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// RMS returns the root-mean-square level of a block.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// EstimatePitch estimates the fundamental of a block in Hz via
// autocorrelation, computed as an FFT convolution of the signal with
// its reverse. Search is limited to 20 Hz – 2 kHz; zero is returned
// when no periodicity is found.
func EstimatePitch(samples []float32, sampleRate int) float64 {
	n := len(samples)
	if n < 64 || sampleRate <= 0 {
		return 0
	}

	reversed := make([]float32, n)
	for i, s := range samples {
		reversed[n-1-i] = s
	}
	conv := make([]float32, 2*n-1)
	if err := algofft.ConvolveReal(conv, samples, reversed); err != nil {
		return 0
	}

	// conv[n-1+k] is the autocorrelation at lag k.
	center := n - 1
	minLag := sampleRate / 2000
	if minLag < 2 {
		minLag = 2
	}
	maxLag := sampleRate / 20
	if maxLag > n-1 {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return 0
	}

	bestLag := 0
	bestVal := float32(0)
	for lag := minLag; lag <= maxLag; lag++ {
		if v := conv[center+lag]; v > bestVal {
			bestVal = v
			bestLag = lag
		}
	}
	if bestLag == 0 || bestVal <= 0 {
		return 0
	}

	// Parabolic refinement around the peak for sub-sample lag.
	lag := float64(bestLag)
	if bestLag > minLag && bestLag < maxLag {
		y0 := float64(conv[center+bestLag-1])
		y1 := float64(conv[center+bestLag])
		y2 := float64(conv[center+bestLag+1])
		denom := y0 - 2*y1 + y2
		if denom != 0 {
			lag += 0.5 * (y0 - y2) / denom
		}
	}
	return float64(sampleRate) / lag
}
