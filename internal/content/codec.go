package content

import (
	"mime"
	"strings"
	"sync"
)

// Codec converts between raw payload bytes and decoded values for one
// family of media types.
type Codec interface {
	// MediaTypes lists the normalized media types this codec claims.
	MediaTypes() []string

	// Decode parses raw bytes into a decoded value. The dynamic type
	// of the result depends on the codec; callers type-switch. The
	// optional schema is a decode hint some codecs need; the built-in
	// codecs ignore it and a nil schema is always valid.
	Decode(data []byte, schema map[string]any) (any, error)

	// Encode serializes a decoded value back into payload bytes.
	Encode(v any) ([]byte, error)
}

// Registry resolves media types to codecs. The zero value is not
// usable; construct with NewRegistry or DefaultRegistry.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Codec)}
}

// DefaultRegistry returns a registry with the built-in codecs for JSON
// documents and CoRE Link Format.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(JSONCodec{})
	r.Register(LinkFormatCodec{})
	return r
}

// Register adds a codec under each media type it claims, replacing any
// previous codec for those types.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range c.MediaTypes() {
		key, _, err := mime.ParseMediaType(mt)
		if err != nil {
			key = strings.ToLower(strings.TrimSpace(mt))
		}
		r.byType[key] = c
	}
}

// Lookup resolves a media type to a codec. Parameters such as charset
// are ignored; an empty type resolves as application/json. Types with
// a +json structured-syntax suffix fall back to the JSON codec when no
// exact registration exists. A type the mime package cannot parse
// resolves to nothing.
func (r *Registry) Lookup(mediaType string) (Codec, bool) {
	trimmed := strings.TrimSpace(mediaType)
	if trimmed == "" {
		trimmed = DefaultType
	}
	key, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byType[key]; ok {
		return c, true
	}
	if suffix, ok := structuredSuffix(key); ok {
		if c, ok := r.byType["application/"+suffix]; ok {
			return c, true
		}
	}
	return nil, false
}

// Decode resolves the content's media type and runs the codec over its
// payload. An absent media type is treated as application/json. The
// optional schema passes through to the codec; nil is always valid.
func (r *Registry) Decode(c Content, schema map[string]any) (any, error) {
	codec, ok := r.Lookup(c.Type)
	if !ok {
		return nil, &UnsupportedTypeError{MediaType: c.Type}
	}
	v, err := codec.Decode(c.Data, schema)
	if err != nil {
		return nil, &DecodeError{MediaType: displayType(c.Type), Err: err}
	}
	return v, nil
}

// Encode serializes a value under the given media type.
func (r *Registry) Encode(mediaType string, v any) (Content, error) {
	codec, ok := r.Lookup(mediaType)
	if !ok {
		return Content{}, &UnsupportedTypeError{MediaType: mediaType}
	}
	body, err := codec.Encode(v)
	if err != nil {
		return Content{}, err
	}
	return Content{Type: mediaType, Data: body}, nil
}

// structuredSuffix extracts the structured-syntax suffix of a
// normalized media type, "json" for "application/td+json".
func structuredSuffix(mediaType string) (string, bool) {
	slash := strings.IndexByte(mediaType, '/')
	if slash < 0 {
		return "", false
	}
	subtype := mediaType[slash+1:]
	plus := strings.LastIndexByte(subtype, '+')
	if plus < 0 || plus == len(subtype)-1 {
		return "", false
	}
	return subtype[plus+1:], true
}

// displayType names a media type in errors, substituting the default
// when none was declared.
func displayType(mediaType string) string {
	if strings.TrimSpace(mediaType) == "" {
		return DefaultType
	}
	return mediaType
}
