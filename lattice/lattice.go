// Package lattice maps input identities onto a generalized isomorphic
// keyboard: one step right is a fifth, one step up is an octave, for
// the default tuning.
package lattice

import (
	"github.com/cwbudde/algo-approx"
)

// Cell is a coordinate on the pitch lattice.
type Cell struct {
	Column int
	Row    int
}

// Lattice defines the tuning of the grid in cents.
type Lattice struct {
	BaseFreq    float64 // frequency of Cell{0, 0} at octave offset 0
	FifthCents  float64 // interval per column step
	OctaveCents float64 // interval per row step
}

// New returns the default tuning: D4 base, tempered fifth and octave.
func New() Lattice {
	return Lattice{
		BaseFreq:    293.66,
		FifthCents:  700,
		OctaveCents: 1200,
	}
}

// Frequency computes the pitch of a cell in Hz. The octave offset
// shifts the whole grid by rows.
func (l Lattice) Frequency(c Cell, octaveOffset int) float64 {
	cents := float64(c.Row+octaveOffset)*l.OctaveCents + float64(c.Column)*l.FifthCents
	return l.BaseFreq * float64(pow2Approx(float32(cents/1200)))
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

// qwertyRows lays four keyboard rows onto the grid, one octave per
// row, centered so the home row sits around the base pitch.
var qwertyRows = []string{
	"zxcvbnm,./",
	"asdfghjkl;",
	"qwertyuiop",
	"1234567890",
}

// QWERTYCell maps a terminal key rune to its lattice cell.
func QWERTYCell(r rune) (Cell, bool) {
	for row, keys := range qwertyRows {
		col := 0
		for _, k := range keys {
			if k == r {
				return Cell{Column: col - 4, Row: row - 1}, true
			}
			col++
		}
	}
	return Cell{}, false
}

// MIDICell maps a MIDI note number onto the lattice relative to the
// base note (D4 = 62). With the default tuning seven columns equal
// seven semitones, so every 12-TET pitch has a cell.
func MIDICell(note int) Cell {
	semis := note - 62
	col := ((7*semis)%12 + 12) % 12
	if col > 6 {
		col -= 12
	}
	return Cell{Column: col, Row: (semis - 7*col) / 12}
}
