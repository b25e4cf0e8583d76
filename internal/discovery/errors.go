package discovery

import (
	"errors"
	"fmt"
)

// ErrorKind classifies discovery failures.
type ErrorKind int

const (
	// KindConfig is a failure detected at session start, before any
	// exchange happens: an unknown discovery method, a missing target,
	// or a scheme with no registered protocol client. The session
	// never becomes active.
	KindConfig ErrorKind = iota

	// KindTransport is a failed exchange reported by a protocol
	// client. The client's error is preserved as the cause.
	KindTransport

	// KindDecode is a payload the codec registry could not decode.
	KindDecode

	// KindNotObject is a direct-discovery payload that decoded to
	// something other than a JSON object.
	KindNotObject

	// KindNoLinks is a link-format payload that decoded to no link
	// records at all.
	KindNoLinks
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindNotObject:
		return "unexpected payload"
	case KindNoLinks:
		return "no links"
	default:
		return "unknown"
	}
}

// Error is the engine's failure type. Kind tells the consumer how the
// failure affected the session: configuration errors abort Start;
// every other kind arrives on the event stream, scoped to a single
// payload or sub-fetch.
type Error struct {
	Kind    ErrorKind
	URI     string // URI being queried or fetched, when known
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigError creates an error for a session that cannot start
func NewConfigError(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// NewTransportError wraps a protocol client failure for one exchange
func NewTransportError(uri string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		URI:     uri,
		Message: "exchange failed",
		Err:     err,
	}
}

// NewDecodeError wraps a codec failure for one payload
func NewDecodeError(uri string, err error) *Error {
	return &Error{
		Kind:    KindDecode,
		URI:     uri,
		Message: "payload could not be decoded",
		Err:     err,
	}
}

// NewNotObjectError creates an error for a payload that decoded to a
// non-object value where a Thing Description was expected
func NewNotObjectError(uri string, value any) *Error {
	return &Error{
		Kind:    KindNotObject,
		URI:     uri,
		Message: fmt.Sprintf("expected a JSON object, got %T", value),
	}
}

// NewNoLinksError creates an error for a link-format payload that
// carried no link records
func NewNoLinksError(uri string) *Error {
	return &Error{
		Kind:    KindNoLinks,
		URI:     uri,
		Message: "payload contains no link records",
	}
}

// IsKind reports whether err is (or wraps) a discovery Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// IsConfigError checks if an error is a session configuration error
func IsConfigError(err error) bool {
	return IsKind(err, KindConfig)
}

// IsTransportError checks if an error came from a protocol client
func IsTransportError(err error) bool {
	return IsKind(err, KindTransport)
}

// IsDecodeError checks if an error is a payload decode failure
func IsDecodeError(err error) bool {
	return IsKind(err, KindDecode)
}

// IsNotObjectError checks if an error marks a non-object payload
func IsNotObjectError(err error) bool {
	return IsKind(err, KindNotObject)
}

// IsNoLinksError checks if an error marks a payload without links
func IsNoLinksError(err error) bool {
	return IsKind(err, KindNoLinks)
}
