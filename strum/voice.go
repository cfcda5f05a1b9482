package strum

import (
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

type voiceState int

const (
	voiceActive voiceState = iota
	voiceReleasing
)

// Voice is one sounding string backed by a pool slot.
type Voice struct {
	noteID           string
	slot             int
	periodSamples    int
	phase            float32
	increment        float32
	excitationActive bool
	previousSample   float32
	currentSample    float32
	lastIndex        int
	gain             float32
	releaseGain      float32
	state            voiceState
	inUse            bool
}

// trigger initializes the voice for a fresh or retriggered note. The
// delay-line buffer is kept as-is on retrigger so the new pluck excites
// whatever energy is still circulating.
func (v *Voice) trigger(noteID string, hz float32, volume float32, sampleRate int) {
	floatPeriod := periodFor(hz, sampleRate)
	v.noteID = noteID
	v.periodSamples = int(floatPeriod)
	v.increment = float32(v.periodSamples) / floatPeriod
	v.phase = 0
	v.excitationActive = true
	v.lastIndex = -1
	v.gain = clampf(volume, 0, 1)
	v.releaseGain = 1
	v.state = voiceActive
}

// periodFor converts a frequency to a fractional delay-line length.
// Below 200 Hz the period is stretched by hz/205 + 0.05, an empirical
// correction that suppresses harsh overtones on low notes.
func periodFor(hz float32, sampleRate int) float32 {
	correction := float32(1)
	if hz < 200 {
		correction = hz/205 + 0.05
	}
	return correction * float32(sampleRate) / hz
}

// renderSample advances the string by one sample and returns its
// contribution. buf is the voice's delay line, rng the engine noise
// source.
func (v *Voice) renderSample(buf []float32, p *Params, rng *noiseSource) float32 {
	v.phase += v.increment
	if v.phase >= float32(v.periodSamples) {
		v.phase -= float32(v.periodSamples)
		// The one-shot noise burst is exhausted after a full period.
		v.excitationActive = false
	}

	idx := int(v.phase)
	if idx != v.lastIndex {
		v.lastIndex = idx
		var next float32
		damp := p.Damp
		switch {
		case v.excitationActive && float32(idx) < p.Attack*float32(v.periodSamples):
			next = rng.next() / p.NoiseDamp
			damp = p.Damp * p.NoiseDamp
		case v.excitationActive:
			// Past the attack fraction: fold the buffer to shape the
			// timbre instead of the plain feedback read.
			next = buf[v.periodSamples-idx]
		default:
			next = buf[idx]
		}
		filtered := (damp*next + (1-damp)*v.currentSample) * p.Damp2
		filtered = float32(dspcore.FlushDenormals(float64(filtered)))
		v.previousSample = v.currentSample
		v.currentSample = filtered
		buf[idx] = filtered
	}

	frac := v.phase - float32(idx)
	out := (v.previousSample + (v.currentSample-v.previousSample)*frac) * v.gain * v.releaseGain

	if v.state == voiceReleasing && !p.Sustain {
		v.releaseGain -= p.ReleaseRate
		if v.releaseGain < 0 {
			v.releaseGain = 0
		}
	}
	return out
}

// noiseSource is a xorshift64 uniform noise generator. Small enough to
// live inside the engine and allocation-free on the render path.
type noiseSource struct {
	state uint64
}

func (n *noiseSource) next() float32 {
	n.state ^= n.state << 13
	n.state ^= n.state >> 7
	n.state ^= n.state << 17
	return float32(n.state>>40)/float32(1<<23)*2 - 1
}
