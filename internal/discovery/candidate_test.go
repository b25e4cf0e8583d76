package discovery

import (
	"testing"
	"time"
)

func TestCandidate_String(t *testing.T) {
	candidate := &Candidate{
		Instance: "kitchen-lamp",
		Hostname: "kitchen-lamp.local.",
		IP:       "192.168.1.40",
		Port:     8080,
		Scheme:   "http",
		TDPath:   "/things/lamp",
	}

	expected := `Thing "kitchen-lamp" (kitchen-lamp.local.) at http://192.168.1.40:8080/things/lamp`
	if candidate.String() != expected {
		t.Errorf("Candidate.String() = %v, want %v", candidate.String(), expected)
	}
}

func TestCandidate_TDURL(t *testing.T) {
	tests := []struct {
		name      string
		candidate *Candidate
		expected  string
	}{
		{
			name: "standard HTTP port",
			candidate: &Candidate{
				IP:     "192.168.1.40",
				Port:   80,
				Scheme: "http",
				TDPath: "/.well-known/wot",
			},
			expected: "http://192.168.1.40:80/.well-known/wot",
		},
		{
			name: "custom port and path",
			candidate: &Candidate{
				IP:     "10.0.0.5",
				Port:   8080,
				Scheme: "http",
				TDPath: "/things/plug",
			},
			expected: "http://10.0.0.5:8080/things/plug",
		},
		{
			name: "https",
			candidate: &Candidate{
				IP:     "192.168.1.41",
				Port:   8443,
				Scheme: "https",
				TDPath: "/td",
			},
			expected: "https://192.168.1.41:8443/td",
		},
		{
			name: "IPv6 address bracketed",
			candidate: &Candidate{
				IP:     "fe80::1",
				Port:   80,
				Scheme: "http",
				TDPath: "/td",
			},
			expected: "http://[fe80::1]:80/td",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candidate.TDURL(); got != tt.expected {
				t.Errorf("Candidate.TDURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCandidate_Filter(t *testing.T) {
	candidate := &Candidate{
		Instance: "kitchen-lamp",
		IP:       "192.168.1.40",
		Port:     8080,
		Scheme:   "http",
		TDPath:   "/things/lamp",
	}

	filter, err := candidate.Filter()
	if err != nil {
		t.Fatalf("Candidate.Filter() error = %v", err)
	}

	if filter.Method != MethodDirect {
		t.Errorf("filter.Method = %v, want %v", filter.Method, MethodDirect)
	}
	if filter.URL.String() != "http://192.168.1.40:8080/things/lamp" {
		t.Errorf("filter.URL = %v, want the candidate's TD URL", filter.URL)
	}
}

func TestCandidate_GetMetadata(t *testing.T) {
	candidate := &Candidate{
		Metadata: map[string]string{
			"td":   "/things/lamp",
			"type": "Thing",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "td",
			expected: "/things/lamp",
		},
		{
			name:     "another existing key",
			key:      "type",
			expected: "Thing",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := candidate.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Candidate.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestCandidate_GetMetadata_NilMap(t *testing.T) {
	candidate := &Candidate{
		Metadata: nil,
	}

	if got := candidate.GetMetadata("anything"); got != "" {
		t.Errorf("Candidate.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestCandidate_DiscoveredAt(t *testing.T) {
	now := time.Now()
	candidate := &Candidate{
		Instance:     "kitchen-lamp",
		DiscoveredAt: now,
	}

	if candidate.DiscoveredAt != now {
		t.Errorf("Candidate.DiscoveredAt = %v, want %v", candidate.DiscoveredAt, now)
	}
}
