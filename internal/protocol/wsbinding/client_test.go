package wsbinding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wotscout/wotscout/internal/protocol"
)

var upgrader = websocket.Upgrader{}

// wsServer runs handler for each WebSocket connection and returns the
// server's ws:// URL.
func wsServer(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handler(conn)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func receive(t *testing.T, deliveries <-chan protocol.Delivery) (protocol.Delivery, bool) {
	t.Helper()
	select {
	case d, ok := <-deliveries:
		return d, ok
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery within timeout")
	}
	return protocol.Delivery{}, false
}

func TestDiscoverDirectlyFirstMessageOnly(t *testing.T) {
	target := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"title": "Lamp"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"title": "Ignored"}`))
		// Hold the connection open; the client should walk away after
		// the first message.
		time.Sleep(100 * time.Millisecond)
		conn.Close()
	})

	client := NewClient()
	deliveries, err := client.DiscoverDirectly(context.Background(), mustURL(t, target), protocol.DirectOptions{DisableMulticast: true})
	if err != nil {
		t.Fatalf("DiscoverDirectly() error = %v", err)
	}

	d, ok := receive(t, deliveries)
	if !ok {
		t.Fatal("delivery channel closed without a delivery")
	}
	if d.Err != nil {
		t.Fatalf("delivery error = %v", d.Err)
	}
	if d.Content.Type != "application/td+json" {
		t.Errorf("Content.Type = %q, want application/td+json", d.Content.Type)
	}
	if string(d.Content.Data) != `{"title": "Lamp"}` {
		t.Errorf("Content.Data = %q, want the first message", d.Content.Data)
	}

	if _, ok := receive(t, deliveries); ok {
		t.Error("second delivery arrived; want the channel closed after the first message")
	}
}

func TestDiscoverCoreLinkFormatStreams(t *testing.T) {
	payloads := []string{
		`</things/lamp>;rt="wot.thing"`,
		`</things/fan>;rt="wot.thing"`,
		`</things/plug>;rt="wot.thing"`,
	}
	target := wsServer(t, func(conn *websocket.Conn) {
		for _, p := range payloads {
			conn.WriteMessage(websocket.TextMessage, []byte(p))
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})

	client := NewClient()
	deliveries, err := client.DiscoverCoreLinkFormat(context.Background(), mustURL(t, target))
	if err != nil {
		t.Fatalf("DiscoverCoreLinkFormat() error = %v", err)
	}

	for i, want := range payloads {
		d, ok := receive(t, deliveries)
		if !ok {
			t.Fatalf("channel closed after %d deliveries, want %d", i, len(payloads))
		}
		if d.Err != nil {
			t.Fatalf("delivery %d error = %v", i, d.Err)
		}
		if d.Content.Type != "application/link-format" {
			t.Errorf("delivery %d Content.Type = %q, want application/link-format", i, d.Content.Type)
		}
		if string(d.Content.Data) != want {
			t.Errorf("delivery %d = %q, want %q", i, d.Content.Data, want)
		}
	}

	if d, ok := receive(t, deliveries); ok {
		t.Errorf("unexpected delivery after normal close: %+v", d)
	}
}

func TestDiscoverCancelled(t *testing.T) {
	target := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`</a>;rt="wot.thing"`))
		// Hold the stream open until the client disconnects.
		conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient()
	deliveries, err := client.DiscoverCoreLinkFormat(ctx, mustURL(t, target))
	if err != nil {
		t.Fatalf("DiscoverCoreLinkFormat() error = %v", err)
	}

	if _, ok := receive(t, deliveries); !ok {
		t.Fatal("channel closed before the first delivery")
	}
	cancel()

	if d, ok := receive(t, deliveries); ok {
		t.Errorf("unexpected delivery after cancel: %+v", d)
	}
}

func TestStopClosesConnections(t *testing.T) {
	target := wsServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`</a>;rt="wot.thing"`))
		conn.ReadMessage()
	})

	client := NewClient()
	deliveries, err := client.DiscoverCoreLinkFormat(context.Background(), mustURL(t, target))
	if err != nil {
		t.Fatalf("DiscoverCoreLinkFormat() error = %v", err)
	}

	if _, ok := receive(t, deliveries); !ok {
		t.Fatal("channel closed before the first delivery")
	}

	if err := client.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if d, ok := receive(t, deliveries); ok {
		t.Errorf("unexpected delivery after Stop: %+v", d)
	}
}

func TestDialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	client := NewClient()
	if _, err := client.DiscoverDirectly(context.Background(), mustURL(t, target), protocol.DirectOptions{}); err == nil {
		t.Error("DiscoverDirectly() error = nil, want a dial failure")
	}
}
