package server

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestThingStream(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/things"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Sorted catalog order: fan, then lamp.
	want := []string{string(fanTD), string(lampTD)}
	for i, payload := range want {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() #%d error: %v", i, err)
		}
		if messageType != websocket.TextMessage {
			t.Errorf("message #%d type = %d, want %d", i, messageType, websocket.TextMessage)
		}
		if string(data) != payload {
			t.Errorf("message #%d = %s, want %s", i, data, payload)
		}
	}

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("final ReadMessage() error = %v, want normal closure", err)
	}
}

func TestThingStreamEmptyCatalog(t *testing.T) {
	s, err := New(&Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := newHandlerServer(t, s)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/things"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("ReadMessage() error = %v, want normal closure", err)
	}
}

func TestThingStreamRejectsPlainGet(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := get(t, ts.URL+"/ws/things")
	if resp.StatusCode != 400 {
		t.Errorf("plain GET status = %d, want 400", resp.StatusCode)
	}
}
