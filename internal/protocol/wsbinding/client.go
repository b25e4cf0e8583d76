// Package wsbinding provides the WebSocket protocol client for Thing
// Description discovery. A discovery exchange is a dialed connection
// whose incoming messages are the payload stream: direct discovery
// with multicast disabled takes the first message only, every other
// flow streams messages until the peer closes or the context ends.
// Text and binary messages are both delivered; the flow's expected
// media type labels the payload.
package wsbinding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/version"
)

const (
	// DefaultHandshakeTimeout is the default WebSocket dial timeout
	DefaultHandshakeTimeout = 10 * time.Second

	// Time allowed to write a close frame to the peer
	writeWait = 10 * time.Second
)

// Client discovers Thing Descriptions over WebSocket connections.
type Client struct {
	// Dialer is the underlying WebSocket dialer
	Dialer *websocket.Dialer

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewClient creates a WebSocket discovery client with default settings
func NewClient() *Client {
	return &Client{
		Dialer: &websocket.Dialer{HandshakeTimeout: DefaultHandshakeTimeout},
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Schemes returns the URI schemes this client serves
func (c *Client) Schemes() []string {
	return []string{"ws", "wss"}
}

// DiscoverDirectly dials the target and delivers Thing Description
// messages. With multicast disabled the exchange ends after the first
// message.
func (c *Client) DiscoverDirectly(ctx context.Context, target *url.URL, opts protocol.DirectOptions) (<-chan protocol.Delivery, error) {
	return c.stream(ctx, target, "application/td+json", opts.DisableMulticast)
}

// DiscoverCoreLinkFormat dials the target and streams link-format
// payloads until the peer closes or the context ends.
func (c *Client) DiscoverCoreLinkFormat(ctx context.Context, target *url.URL) (<-chan protocol.Delivery, error) {
	return c.stream(ctx, target, "application/link-format", false)
}

func (c *Client) stream(ctx context.Context, target *url.URL, mediaType string, firstOnly bool) (<-chan protocol.Delivery, error) {
	header := http.Header{"User-Agent": []string{version.UserAgent()}}
	conn, _, err := c.Dialer.DialContext(ctx, target.String(), header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	c.track(conn)

	out := make(chan protocol.Delivery, 1)
	done := make(chan struct{})

	// ReadMessage has no context; closing the connection is how
	// cancellation interrupts it.
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(out)
		defer close(done)
		defer c.release(conn)

		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil || isExpectedClose(err) {
					return
				}
				select {
				case out <- protocol.Delivery{Err: fmt.Errorf("websocket read failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			logging.LogWebSocketMessage(target.Host, "received", messageType, data)

			delivery := protocol.Delivery{Content: content.Content{Type: mediaType, Data: data}}
			select {
			case out <- delivery:
			case <-ctx.Done():
				return
			}

			if firstOnly {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
		}
	}()

	return out, nil
}

// Stop closes every connection the client still holds open.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(c.conns))
	for conn := range c.conns {
		conns = append(conns, conn)
	}
	c.conns = make(map[*websocket.Conn]struct{})
	c.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	return nil
}

func (c *Client) track(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[conn] = struct{}{}
}

func (c *Client) release(conn *websocket.Conn) {
	c.mu.Lock()
	delete(c.conns, conn)
	c.mu.Unlock()
	_ = conn.Close()
}

// isExpectedClose reports whether a read error marks the normal end
// of the stream rather than a failure.
func isExpectedClose(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
