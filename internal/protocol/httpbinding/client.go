// Package httpbinding provides the HTTP and HTTPS protocol client for
// Thing Description discovery. Both discovery flows are single
// request/response exchanges: one GET, one delivery, channel closed.
// HTTP has no multicast, so the disable-multicast option is accepted
// and ignored.
package httpbinding

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// acceptThing asks for a Thing Description, plain JSON accepted
	acceptThing = "application/td+json, application/json;q=0.9"

	// acceptLinks asks for a CoRE link-format payload
	acceptLinks = "application/link-format"
)

// StatusError is a response that arrived with a failure status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Client discovers Thing Descriptions over HTTP and HTTPS.
type Client struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates an HTTP discovery client with default settings
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewInsecureClient creates a client that skips TLS certificate
// verification, for Things serving self-signed certificates on the
// local network.
func NewInsecureClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Schemes returns the URI schemes this client serves
func (c *Client) Schemes() []string {
	return []string{"http", "https"}
}

// DiscoverDirectly fetches the Thing Description at the target URL.
func (c *Client) DiscoverDirectly(ctx context.Context, target *url.URL, opts protocol.DirectOptions) (<-chan protocol.Delivery, error) {
	return c.fetch(ctx, target, acceptThing)
}

// DiscoverCoreLinkFormat fetches the link-format payload at the
// target URL.
func (c *Client) DiscoverCoreLinkFormat(ctx context.Context, target *url.URL) (<-chan protocol.Delivery, error) {
	return c.fetch(ctx, target, acceptLinks)
}

// fetch performs one GET exchange and delivers the response.
func (c *Client) fetch(ctx context.Context, target *url.URL, accept string) (<-chan protocol.Delivery, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", version.UserAgent())

	// Buffered for the single delivery so the sender never blocks.
	out := make(chan protocol.Delivery, 1)
	go func() {
		defer close(out)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled; the exchange just ends.
				return
			}
			out <- protocol.Delivery{Err: fmt.Errorf("GET request failed: %w", err)}
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			out <- protocol.Delivery{Err: &StatusError{StatusCode: resp.StatusCode}}
			return
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			out <- protocol.Delivery{Err: fmt.Errorf("failed to read response body: %w", err)}
			return
		}

		mediaType := resp.Header.Get("Content-Type")
		logging.LogContent("HTTP discovery response", mediaType, body)

		out <- protocol.Delivery{Content: content.Content{Type: mediaType, Data: body}}
	}()

	return out, nil
}

// Stop releases the client's transport resources.
func (c *Client) Stop(ctx context.Context) error {
	c.HTTPClient.CloseIdleConnections()
	return nil
}
