package session

import (
	"sync"
	"time"
)

// Session is one connected peer. The outbox is the bounded queue the
// transport drains toward the peer; sends to a full or closed outbox
// are dropped so no session can stall another.
type Session struct {
	ID          string
	ConnectedAt time.Time

	out       chan any
	done      chan struct{}
	closeOnce sync.Once
}

// Outbox exposes the frames queued for delivery to this session.
func (s *Session) Outbox() <-chan any {
	return s.out
}

// Done is closed once the session has been disconnected.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) send(v any) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- v:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks connected sessions in join order together with the
// process-wide message history. The history survives individual
// session lifetimes. All mutation happens under one short lock; it has
// no error path.
type Registry struct {
	mu      sync.Mutex
	byID    map[string]*Session
	order   []*Session
	history History
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Session)}
}

// add registers a session and returns the id list (join order,
// including the new session) plus the history snapshot, taken under
// the same lock so the welcome is consistent.
func (r *Registry) add(s *Session) (ids []string, history []Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Last write wins on id collision.
	if old, ok := r.byID[s.ID]; ok {
		r.dropLocked(old)
	}
	r.byID[s.ID] = s
	r.order = append(r.order, s)
	ids = make([]string, len(r.order))
	for i, sess := range r.order {
		ids[i] = sess.ID
	}
	return ids, r.history.Snapshot()
}

// remove unregisters a session by id and reports whether it was
// present, so a racing disconnect fires its broadcast exactly once.
func (r *Registry) remove(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[s.ID] != s {
		return false
	}
	r.dropLocked(s)
	return true
}

func (r *Registry) dropLocked(s *Session) {
	delete(r.byID, s.ID)
	for i, sess := range r.order {
		if sess == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// snapshot copies the current session list.
func (r *Registry) snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, len(r.order))
	copy(out, r.order)
	return out
}

// appendHistory records a Play envelope.
func (r *Registry) appendHistory(e Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history.Append(e)
}

// HistorySnapshot copies the history oldest-first.
func (r *Registry) HistorySnapshot() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Snapshot()
}

// Len reports the number of connected sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
