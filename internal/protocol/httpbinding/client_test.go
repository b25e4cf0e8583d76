package httpbinding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wotscout/wotscout/internal/protocol"
)

const mockThingResponse = `{"title": "Kitchen Lamp", "securityDefinitions": {"nosec_sc": {"scheme": "nosec"}}, "security": "nosec_sc"}`

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func collectOne(t *testing.T, deliveries <-chan protocol.Delivery) protocol.Delivery {
	t.Helper()
	select {
	case d, ok := <-deliveries:
		if !ok {
			t.Fatal("delivery channel closed without a delivery")
		}
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery within timeout")
	}
	return protocol.Delivery{}
}

func assertClosed(t *testing.T, deliveries <-chan protocol.Delivery) {
	t.Helper()
	select {
	case d, ok := <-deliveries:
		if ok {
			t.Errorf("unexpected extra delivery: %+v", d)
		}
	case <-time.After(2 * time.Second):
		t.Error("delivery channel not closed after the exchange")
	}
}

func TestDiscoverDirectly(t *testing.T) {
	var gotAccept, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/td+json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockThingResponse))
	}))
	defer server.Close()

	client := NewClient()
	deliveries, err := client.DiscoverDirectly(context.Background(), mustURL(t, server.URL+"/td"), protocol.DirectOptions{DisableMulticast: true})
	if err != nil {
		t.Fatalf("DiscoverDirectly() error = %v", err)
	}

	d := collectOne(t, deliveries)
	if d.Err != nil {
		t.Fatalf("delivery error = %v", d.Err)
	}
	if d.Content.Type != "application/td+json" {
		t.Errorf("Content.Type = %q, want application/td+json", d.Content.Type)
	}
	if string(d.Content.Data) != mockThingResponse {
		t.Errorf("Content.Data = %q, want the served body", d.Content.Data)
	}
	if gotAccept != "application/td+json, application/json;q=0.9" {
		t.Errorf("Accept header = %q, want td+json with json fallback", gotAccept)
	}
	if !strings.HasPrefix(gotUserAgent, "wotscout/") {
		t.Errorf("User-Agent header = %q, want a wotscout/ prefix", gotUserAgent)
	}

	assertClosed(t, deliveries)
}

func TestDiscoverCoreLinkFormat(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/link-format")
		w.Write([]byte(`</things/lamp>;rt="wot.thing"`))
	}))
	defer server.Close()

	client := NewClient()
	deliveries, err := client.DiscoverCoreLinkFormat(context.Background(), mustURL(t, server.URL+"/.well-known/core"))
	if err != nil {
		t.Fatalf("DiscoverCoreLinkFormat() error = %v", err)
	}

	d := collectOne(t, deliveries)
	if d.Err != nil {
		t.Fatalf("delivery error = %v", d.Err)
	}
	if d.Content.Type != "application/link-format" {
		t.Errorf("Content.Type = %q, want application/link-format", d.Content.Type)
	}
	if gotAccept != "application/link-format" {
		t.Errorf("Accept header = %q, want application/link-format", gotAccept)
	}

	assertClosed(t, deliveries)
}

func TestDiscoverDirectly_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient()
			deliveries, err := client.DiscoverDirectly(context.Background(), mustURL(t, server.URL), protocol.DirectOptions{})
			if err != nil {
				t.Fatalf("DiscoverDirectly() error = %v", err)
			}

			d := collectOne(t, deliveries)
			var statusErr *StatusError
			if !errors.As(d.Err, &statusErr) {
				t.Fatalf("delivery error = %v, want a status error", d.Err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}

			assertClosed(t, deliveries)
		})
	}
}

func TestDiscoverDirectly_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	client := NewClient()
	deliveries, err := client.DiscoverDirectly(context.Background(), mustURL(t, target), protocol.DirectOptions{})
	if err != nil {
		t.Fatalf("DiscoverDirectly() error = %v", err)
	}

	d := collectOne(t, deliveries)
	if d.Err == nil {
		t.Error("delivery error = nil, want a transport failure")
	}

	assertClosed(t, deliveries)
}

func TestDiscoverDirectly_Cancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient()
	deliveries, err := client.DiscoverDirectly(ctx, mustURL(t, server.URL), protocol.DirectOptions{})
	if err != nil {
		t.Fatalf("DiscoverDirectly() error = %v", err)
	}

	<-started
	cancel()

	// A cancelled exchange closes the channel without delivering.
	select {
	case d, ok := <-deliveries:
		if ok {
			t.Errorf("unexpected delivery after cancel: %+v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delivery channel not closed after cancel")
	}
}

func TestStop(t *testing.T) {
	client := NewClient()
	if err := client.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
}
