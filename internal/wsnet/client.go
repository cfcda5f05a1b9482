package wsnet

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-strum/session"
)

// Frame is one decoded server→client message. The populated fields
// depend on Type.
type Frame struct {
	Type           string              `json:"type"`
	SessionID      string              `json:"sessionId"`
	ActiveSessions []string            `json:"activeSessions,omitempty"`
	MessageHistory []session.Envelope  `json:"messageHistory,omitempty"`
	Data           session.NotePayload `json:"data,omitempty"`
	Timestamp      int64               `json:"timestamp,omitempty"`
}

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Client maintains a websocket connection to a jam server, redialing
// with capped backoff when the link drops. Sends while disconnected
// return an error and are otherwise forgotten; missed events are never
// replayed.
type Client struct {
	url     string
	logger  *log.Logger
	onFrame func(Frame)

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a client for the given ws:// URL. onFrame is
// invoked from the read goroutine for every decoded server frame.
// logger may be nil.
func NewClient(url string, onFrame func(Frame), logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{url: url, logger: logger, onFrame: onFrame}
}

// Run dials and reads until ctx is cancelled, redialing on failure.
func (c *Client) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.logger.Printf("dial %s: %v (retrying in %s)", c.url, err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff
		c.setConn(conn)
		c.readLoop(conn)
		c.setConn(nil)
		conn.Close()
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.Printf("connection lost: %v", err)
			return
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.Printf("undecodable server frame: %v", err)
			continue
		}
		c.onFrame(f)
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// SendPlay relays a note:play intent.
func (c *Client) SendPlay(keyID string, hz float64, volume float64) error {
	return c.send(map[string]any{"play": session.NotePayload{KeyID: keyID, Hz: hz, Volume: volume}})
}

// SendStop relays a note:stop intent.
func (c *Client) SendStop(keyID string) error {
	return c.send(map[string]any{"stop": session.NotePayload{KeyID: keyID}})
}

// SendSustain relays a note:sustain intent.
func (c *Client) SendSustain(keyID string, hz float64, volume float64) error {
	return c.send(map[string]any{"sustain": session.NotePayload{KeyID: keyID, Hz: hz, Volume: volume}})
}

func (c *Client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("not connected")
	}
	return errors.Wrap(c.conn.WriteJSON(v), "writing frame")
}
