package session

// HistorySize is the capacity of the rolling message history.
const HistorySize = 15

// History is a fixed-capacity FIFO of broadcast envelopes. Inserting
// into a full history evicts the oldest entry. Only Play envelopes are
// recorded; callers enforce that.
type History struct {
	entries [HistorySize]Envelope
	start   int
	count   int
}

// Append records an envelope, evicting the oldest when full.
func (h *History) Append(e Envelope) {
	if h.count < HistorySize {
		h.entries[(h.start+h.count)%HistorySize] = e
		h.count++
		return
	}
	h.entries[h.start] = e
	h.start = (h.start + 1) % HistorySize
}

// Snapshot copies the history oldest-first.
func (h *History) Snapshot() []Envelope {
	out := make([]Envelope, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.entries[(h.start+i)%HistorySize]
	}
	return out
}

// Len reports the number of recorded envelopes.
func (h *History) Len() int {
	return h.count
}
