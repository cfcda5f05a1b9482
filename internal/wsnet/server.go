// Package wsnet bridges the session broker to websocket transports:
// an HTTP handler for the server side and a reconnecting dialer for
// clients. Connection liveness and ordering are the websocket layer's
// concern; wsnet only moves JSON frames.
package wsnet

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-strum/session"
)

// Handler upgrades incoming connections and runs one read pump and one
// write pump per session.
type Handler struct {
	broker   *session.Broker
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler over the broker. logger may
// be nil.
func NewHandler(broker *session.Broker, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		broker: broker,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	sess := h.broker.Connect(uuid.NewString())
	go h.writePump(conn, sess)
	h.readPump(conn, sess)
}

func (h *Handler) readPump(conn *websocket.Conn, sess *session.Session) {
	defer func() {
		h.broker.Disconnect(sess)
		conn.Close()
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			h.logger.Printf("session %s: undecodable frame: %v", sess.ID, err)
			continue
		}
		h.broker.HandleNote(sess, raw)
	}
}

func (h *Handler) writePump(conn *websocket.Conn, sess *session.Session) {
	defer conn.Close()
	for {
		select {
		case <-sess.Done():
			return
		case v := <-sess.Outbox():
			if err := conn.WriteJSON(v); err != nil {
				return
			}
		}
	}
}
