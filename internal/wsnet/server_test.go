package wsnet

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-strum/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	broker := session.NewBroker(session.NewRegistry(), logger)
	srv := httptest.NewServer(NewHandler(broker, logger))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestConnectWelcomeAndJoin(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv)
	welcomeA := readFrame(t, a)
	if welcomeA.Type != session.TypeWelcome {
		t.Fatalf("expected welcome, got %q", welcomeA.Type)
	}
	if len(welcomeA.ActiveSessions) != 1 || welcomeA.ActiveSessions[0] != welcomeA.SessionID {
		t.Fatalf("A's active sessions: %v", welcomeA.ActiveSessions)
	}

	bConn := dial(t, srv)
	welcomeB := readFrame(t, bConn)
	if len(welcomeB.ActiveSessions) != 2 {
		t.Fatalf("B's active sessions: %v", welcomeB.ActiveSessions)
	}

	joined := readFrame(t, a)
	if joined.Type != session.TypeSessionJoined || joined.SessionID != welcomeB.SessionID {
		t.Fatalf("expected session:joined{B}, got %+v", joined)
	}
}

func TestNoteRoundTripOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv)
	welcomeA := readFrame(t, a)
	bConn := dial(t, srv)
	readFrame(t, bConn) // welcome
	readFrame(t, a)     // session:joined

	payload := map[string]any{"play": map[string]any{"keyId": "k1", "hz": 440, "volume": 0.5}}
	if err := a.WriteJSON(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	env := readFrame(t, bConn)
	if env.Type != session.TypePlay {
		t.Fatalf("expected note:play, got %q", env.Type)
	}
	if env.SessionID != welcomeA.SessionID {
		t.Fatalf("envelope sender: got %q want %q", env.SessionID, welcomeA.SessionID)
	}
	if env.Data.KeyID != "k1" || env.Data.Hz != 440 || env.Data.Volume != 0.5 {
		t.Fatalf("envelope payload: %+v", env.Data)
	}
	if env.Timestamp == 0 {
		t.Fatalf("missing timestamp")
	}
}

func TestDisconnectBroadcastsLeave(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv)
	readFrame(t, a)
	bConn := dial(t, srv)
	welcomeB := readFrame(t, bConn)
	readFrame(t, a) // session:joined

	bConn.Close()
	left := readFrame(t, a)
	if left.Type != session.TypeSessionLeft || left.SessionID != welcomeB.SessionID {
		t.Fatalf("expected session:left{B}, got %+v", left)
	}
}

func TestMalformedFrameIsIgnored(t *testing.T) {
	srv := newTestServer(t)

	a := dial(t, srv)
	readFrame(t, a)
	bConn := dial(t, srv)
	readFrame(t, bConn)
	readFrame(t, a)

	if err := a.WriteMessage(websocket.TextMessage, []byte("{broken")); err != nil {
		t.Fatalf("write: %v", err)
	}
	payload := map[string]any{"play": map[string]any{"keyId": "k2", "hz": 330, "volume": 0.4}}
	if err := a.WriteJSON(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	// B sees only the valid note, in order.
	env := readFrame(t, bConn)
	if env.Type != session.TypePlay || env.Data.KeyID != "k2" {
		t.Fatalf("expected the valid note:play, got %+v", env)
	}
}
