package mqttbinding

import (
	"net/url"
	"testing"
	"time"
)

// Exercising the subscribe flows needs a live broker; those paths are
// covered by the discover integration tests. The tests here pin down
// the target mapping the flows depend on.

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error: %v", raw, err)
	}
	return u
}

func TestBrokerAddress(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "explicit port",
			target: "mqtt://broker.local:1884/things/lamp",
			want:   "tcp://broker.local:1884",
		},
		{
			name:   "default port",
			target: "mqtt://broker.local/things/lamp",
			want:   "tcp://broker.local:1883",
		},
		{
			name:   "tls scheme",
			target: "mqtts://broker.local/things/lamp",
			want:   "ssl://broker.local:8883",
		},
		{
			name:   "tls with explicit port",
			target: "mqtts://broker.local:9883/things/lamp",
			want:   "ssl://broker.local:9883",
		},
		{
			name:   "ipv6 host",
			target: "mqtt://[fe80::1]/things/lamp",
			want:   "tcp://[fe80::1]:1883",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := brokerAddress(mustURL(t, tt.target))
			if got != tt.want {
				t.Errorf("brokerAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopicOf(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{
			name:   "simple topic",
			target: "mqtt://broker.local/things/lamp",
			want:   "things/lamp",
		},
		{
			name:   "query ignored",
			target: "mqtt://broker.local/registry?rt=wot.thing",
			want:   "registry",
		},
		{
			name:   "well known discovery topic",
			target: "mqtt://broker.local/.well-known/core",
			want:   ".well-known/core",
		},
		{
			name:    "no topic",
			target:  "mqtt://broker.local",
			wantErr: true,
		},
		{
			name:    "bare slash",
			target:  "mqtt://broker.local/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := topicOf(mustURL(t, tt.target))
			if (err != nil) != tt.wantErr {
				t.Fatalf("topicOf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("topicOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSchemes(t *testing.T) {
	client := NewClient()
	schemes := client.Schemes()
	want := []string{"mqtt", "mqtts"}
	if len(schemes) != len(want) {
		t.Fatalf("Schemes() = %v, want %v", schemes, want)
	}
	for i, s := range schemes {
		if s != want[i] {
			t.Errorf("Schemes()[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient()
	if client.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", client.ConnectTimeout, DefaultConnectTimeout)
	}
	if client.clients == nil {
		t.Error("clients map not initialized")
	}
	if DefaultConnectTimeout != 10*time.Second {
		t.Errorf("DefaultConnectTimeout = %v, want %v", DefaultConnectTimeout, 10*time.Second)
	}
}
