package session

import (
	"log"
	"time"
)

// outboxSize bounds each session's delivery queue.
const outboxSize = 64

// Broker coordinates session lifecycle and note fan-out. It is safe
// for concurrent use by one goroutine per connection.
type Broker struct {
	registry *Registry
	logger   *log.Logger
	now      func() time.Time
}

// NewBroker creates a broker over the registry. logger may be nil.
func NewBroker(registry *Registry, logger *log.Logger) *Broker {
	if logger == nil {
		logger = log.Default()
	}
	return &Broker{
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Connect registers a new session under id, queues its welcome and
// announces it to every other session.
func (b *Broker) Connect(id string) *Session {
	s := &Session{
		ID:          id,
		ConnectedAt: b.now(),
		out:         make(chan any, outboxSize),
		done:        make(chan struct{}),
	}
	ids, history := b.registry.add(s)
	s.send(Welcome{
		Type:           TypeWelcome,
		SessionID:      id,
		ActiveSessions: ids,
		MessageHistory: history,
	})
	b.broadcast(Presence{Type: TypeSessionJoined, SessionID: id}, id)
	b.logger.Printf("session %s connected (%d active)", id, len(ids))
	return s
}

// HandleNote processes one inbound note frame from s. Invalid payloads
// are dropped with a warning; there is no reply to the sender.
func (b *Broker) HandleNote(s *Session, raw any) {
	msg, ok := Validate(raw)
	if !ok {
		b.logger.Printf("session %s: dropping invalid note payload", s.ID)
		return
	}
	env := Envelope{
		Type:      msg.Kind.String(),
		SessionID: s.ID,
		Data: NotePayload{
			KeyID:  msg.KeyID,
			Hz:     msg.Hz,
			Volume: msg.Volume,
		},
		TimestampMs: b.now().UnixMilli(),
	}
	if msg.Kind == KindPlay {
		b.registry.appendHistory(env)
	}
	if dropped := b.broadcast(env, s.ID); dropped > 0 {
		b.logger.Printf("session %s: %s dropped for %d slow peer(s)", s.ID, env.Type, dropped)
	}
}

// Disconnect removes s and announces its departure. Safe to call more
// than once and concurrently with inbound traffic; the session:left
// broadcast fires exactly once.
func (b *Broker) Disconnect(s *Session) {
	if !b.registry.remove(s) {
		return
	}
	s.close()
	b.broadcast(Presence{Type: TypeSessionLeft, SessionID: s.ID}, s.ID)
	b.logger.Printf("session %s disconnected (%d active)", s.ID, b.registry.Len())
}

// broadcast queues v for every session except the one named, never
// blocking on any of them. It returns the number of drops.
func (b *Broker) broadcast(v any, except string) (dropped int) {
	for _, s := range b.registry.snapshot() {
		if s.ID == except {
			continue
		}
		if !s.send(v) {
			dropped++
		}
	}
	return dropped
}
