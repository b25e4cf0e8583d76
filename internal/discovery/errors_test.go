package discovery

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindConfig, "configuration"},
		{KindTransport, "transport"},
		{KindDecode, "decode"},
		{KindNotObject, "unexpected payload"},
		{KindNoLinks, "no links"},
		{ErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with cause",
			err:  NewTransportError("http://device.local/td", cause),
			want: "transport: exchange failed (caused by: dial tcp: connection refused)",
		},
		{
			name: "without cause",
			err:  NewConfigError("unknown discovery method 7"),
			want: "configuration: unknown discovery method 7",
		},
		{
			name: "not object",
			err:  NewNotObjectError("http://device.local/td", []any{}),
			want: "unexpected payload: expected a JSON object, got []interface {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewDecodeError("http://x/td", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
	wrapped := fmt.Errorf("collecting: %w", err)
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() did not find the cause through an outer wrap")
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"config match", NewConfigError("x"), IsConfigError, true},
		{"transport match", NewTransportError("u", errors.New("x")), IsTransportError, true},
		{"decode match", NewDecodeError("u", errors.New("x")), IsDecodeError, true},
		{"not object match", NewNotObjectError("u", 1), IsNotObjectError, true},
		{"no links match", NewNoLinksError("u"), IsNoLinksError, true},
		{"kind mismatch", NewConfigError("x"), IsTransportError, false},
		{"wrapped match", fmt.Errorf("outer: %w", NewNoLinksError("u")), IsNoLinksError, true},
		{"plain error", errors.New("x"), IsConfigError, false},
		{"nil", nil, IsConfigError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCarriesURI(t *testing.T) {
	err := NewNoLinksError("coap://sensors.local/.well-known/core")

	var de *Error
	if !errors.As(err, &de) {
		t.Fatal("errors.As() failed on a discovery error")
	}
	if de.URI != "coap://sensors.local/.well-known/core" {
		t.Errorf("URI = %q, want the discovery resource", de.URI)
	}
}
