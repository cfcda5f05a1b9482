// Package session implements the broadcast protocol: payload
// validation, the connected-peer registry with its rolling message
// history, and the broker that fans validated note events out to
// every other peer.
package session

// Server→client frame type tags.
const (
	TypeWelcome       = "welcome"
	TypeSessionJoined = "session:joined"
	TypeSessionLeft   = "session:left"
	TypePlay          = "note:play"
	TypeStop          = "note:stop"
	TypeSustain       = "note:sustain"
)

// Kind enumerates the note intents carried on the wire.
type Kind int

const (
	KindPlay Kind = iota
	KindStop
	KindSustain
)

// String returns the broadcast type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindStop:
		return TypeStop
	case KindSustain:
		return TypeSustain
	default:
		return TypePlay
	}
}

// NoteMessage is a validated inbound note event.
type NoteMessage struct {
	Kind   Kind
	KeyID  string
	Hz     float64
	Volume float64
}

// NotePayload is the wire form of a note event.
type NotePayload struct {
	KeyID  string  `json:"keyId"`
	Hz     float64 `json:"hz,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

// Envelope is the server-stamped wrapper broadcast to peers.
type Envelope struct {
	Type        string      `json:"type"`
	SessionID   string      `json:"sessionId"`
	Data        NotePayload `json:"data"`
	TimestampMs int64       `json:"timestamp"`
}

// Welcome greets a newly connected session. ActiveSessions lists every
// registered session id in join order, including the recipient.
type Welcome struct {
	Type           string     `json:"type"`
	SessionID      string     `json:"sessionId"`
	ActiveSessions []string   `json:"activeSessions"`
	MessageHistory []Envelope `json:"messageHistory"`
}

// Presence announces a membership change to the remaining sessions.
type Presence struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}
