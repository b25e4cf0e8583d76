package discovery

import (
	"net/url"
	"testing"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Method
		wantErr bool
	}{
		{"direct", "direct", MethodDirect, false},
		{"direct uppercase", "DIRECT", MethodDirect, false},
		{"direct padded", "  direct ", MethodDirect, false},
		{"core link format", "core-link-format", MethodCoreLinkFormat, false},
		{"core link format compact", "corelinkformat", MethodCoreLinkFormat, false},
		{"unknown", "multicast", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMethod(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMethod(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{MethodDirect, "direct"},
		{MethodCoreLinkFormat, "core-link-format"},
		{Method(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("Method(%d).String() = %q, want %q", int(tt.method), got, tt.want)
		}
	}
}

func TestFilterResourceType(t *testing.T) {
	base := ThingFilter{URL: &url.URL{Scheme: "http", Host: "x"}, Method: MethodCoreLinkFormat}

	if got := base.resourceType(); got != DefaultResourceType {
		t.Errorf("resourceType() = %q, want default %q", got, DefaultResourceType)
	}

	base.ResourceType = "custom.thing"
	if got := base.resourceType(); got != "custom.thing" {
		t.Errorf("resourceType() = %q, want %q", got, "custom.thing")
	}
}
