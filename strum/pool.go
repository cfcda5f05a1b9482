package strum

const (
	// MaxVoices is the number of simultaneously sounding strings.
	MaxVoices = 16
	// DelayLineLength is the fixed capacity of each delay-line buffer.
	DelayLineLength = 2048
)

// Pool is a fixed arena of delay-line buffers managed as a free list.
// All memory is allocated once at construction; a buffer is referenced
// by its slot index and is owned by exactly one voice while acquired.
type Pool struct {
	buffers [MaxVoices][DelayLineLength]float32
	free    [MaxVoices]int
	nfree   int
}

// NewPool creates a pool with every slot free.
func NewPool() *Pool {
	p := &Pool{}
	for i := 0; i < MaxVoices; i++ {
		p.free[i] = MaxVoices - 1 - i
	}
	p.nfree = MaxVoices
	return p
}

// Acquire takes a free slot, or reports ok=false when the arena is
// exhausted.
func (p *Pool) Acquire() (slot int, ok bool) {
	if p.nfree == 0 {
		return -1, false
	}
	p.nfree--
	return p.free[p.nfree], true
}

// Release returns a slot to the free list. The buffer is cleared so a
// recycled voice starts from silence.
func (p *Pool) Release(slot int) {
	if slot < 0 || slot >= MaxVoices || p.nfree >= MaxVoices {
		return
	}
	buf := &p.buffers[slot]
	for i := range buf {
		buf[i] = 0
	}
	p.free[p.nfree] = slot
	p.nfree++
}

// Buffer exposes the delay line backing a slot.
func (p *Pool) Buffer(slot int) []float32 {
	return p.buffers[slot][:]
}

// Free reports how many slots are currently available.
func (p *Pool) Free() int {
	return p.nfree
}
