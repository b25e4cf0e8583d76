// Package content maps media types to codecs and decodes protocol
// payloads into the values the discovery engine consumes: generic JSON
// documents and CoRE Link Format link lists.
package content

import "fmt"

// DefaultType is assumed when a payload arrives without a declared
// media type.
const DefaultType = "application/json"

// Content is a raw payload paired with the media type it was served
// under. The Type field keeps whatever the transport reported,
// parameters included; normalization happens at codec lookup.
type Content struct {
	Type string
	Data []byte
}

// UnsupportedTypeError reports a media type no registered codec
// handles.
type UnsupportedTypeError struct {
	MediaType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no codec registered for media type %q", e.MediaType)
}

// DecodeError wraps a codec failure with the media type that selected
// the codec.
type DecodeError struct {
	MediaType string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s payload: %v", e.MediaType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
