package lattice

import (
	"math"
	"testing"
)

func relErr(got float64, want float64) float64 {
	return math.Abs(got-want) / want
}

func TestBaseCellFrequency(t *testing.T) {
	l := New()
	got := l.Frequency(Cell{}, 0)
	if relErr(got, 293.66) > 0.005 {
		t.Fatalf("base cell frequency: got %f want 293.66", got)
	}
}

func TestColumnStepIsAFifth(t *testing.T) {
	l := New()
	lo := l.Frequency(Cell{Column: 0}, 0)
	hi := l.Frequency(Cell{Column: 1}, 0)
	want := math.Pow(2, 700.0/1200.0)
	if relErr(hi/lo, want) > 0.005 {
		t.Fatalf("fifth ratio: got %f want %f", hi/lo, want)
	}
}

func TestRowStepIsAnOctave(t *testing.T) {
	l := New()
	lo := l.Frequency(Cell{Row: 0}, 0)
	hi := l.Frequency(Cell{Row: 1}, 0)
	if relErr(hi/lo, 2) > 0.005 {
		t.Fatalf("octave ratio: got %f want 2", hi/lo)
	}
}

func TestOctaveOffsetMatchesRowShift(t *testing.T) {
	l := New()
	shifted := l.Frequency(Cell{Column: 2, Row: 0}, 1)
	rowed := l.Frequency(Cell{Column: 2, Row: 1}, 0)
	if relErr(shifted, rowed) > 1e-6 {
		t.Fatalf("octave offset differs from row shift: %f vs %f", shifted, rowed)
	}
}

func TestCustomTuning(t *testing.T) {
	l := Lattice{BaseFreq: 100, FifthCents: 600, OctaveCents: 1200}
	got := l.Frequency(Cell{Column: 2}, 0)
	if relErr(got, 200) > 0.005 {
		t.Fatalf("two 600-cent steps should be an octave: got %f want 200", got)
	}
}

func TestQWERTYCellLayout(t *testing.T) {
	cases := []struct {
		r    rune
		want Cell
	}{
		{'z', Cell{Column: -4, Row: -1}},
		{'a', Cell{Column: -4, Row: 0}},
		{'q', Cell{Column: -4, Row: 1}},
		{'1', Cell{Column: -4, Row: 2}},
		{'g', Cell{Column: 0, Row: 0}},
		{';', Cell{Column: 5, Row: 0}},
	}
	for _, c := range cases {
		got, ok := QWERTYCell(c.r)
		if !ok {
			t.Fatalf("expected mapping for %q", c.r)
		}
		if got != c.want {
			t.Fatalf("cell for %q: got %+v want %+v", c.r, got, c.want)
		}
	}
	if _, ok := QWERTYCell('!'); ok {
		t.Fatalf("expected no mapping for '!'")
	}
}

func TestMIDICellPitches(t *testing.T) {
	l := New()
	if got := MIDICell(62); got != (Cell{}) {
		t.Fatalf("base MIDI note: got %+v want origin", got)
	}
	if got := MIDICell(69); got != (Cell{Column: 1, Row: 0}) {
		t.Fatalf("A4: got %+v want {1 0}", got)
	}
	if got := MIDICell(74); got != (Cell{Column: 0, Row: 1}) {
		t.Fatalf("D5: got %+v want {0 1}", got)
	}

	// Every key of an octave lands within a quarter tone of 12-TET.
	for note := 50; note <= 74; note++ {
		hz := l.Frequency(MIDICell(note), 0)
		want := 440 * math.Pow(2, float64(note-69)/12)
		if relErr(hz, want) > 0.015 {
			t.Fatalf("MIDI %d: got %f want %f", note, hz, want)
		}
	}
}
