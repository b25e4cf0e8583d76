package jsonval

import (
	"sort"
	"strings"
)

// PrefixMap maps JSON-LD-style prefixes to IRI stems. It is the only
// piece of JSON-LD processing the extraction layer performs; full
// context processing belongs to an external expansion library.
type PrefixMap map[string]string

// Expand rewrites a compact "prefix:term" pair into its full IRI when
// the prefix is registered. Terms without a registered prefix (or
// without a colon) are returned unchanged.
func (p PrefixMap) Expand(term string) string {
	idx := strings.Index(term, ":")
	if idx <= 0 || idx == len(term)-1 {
		return term
	}
	prefix := term[:idx]
	iri, ok := p[prefix]
	if !ok {
		return term
	}
	return iri + term[idx+1:]
}

// Object is a decoded JSON object prepared for validating extraction.
// It tracks which raw keys have been consumed by getters so that
// Remaining can hand back the unrecognized rest.
//
// Object is not safe for concurrent use; entity constructors own one
// exclusively while they run.
type Object struct {
	fields   map[string]any
	prefixes PrefixMap
	consumed map[string]bool
}

// NewObject wraps a decoded JSON object. The prefix map may be nil
// when the document declares no prefixes.
func NewObject(fields map[string]any, prefixes PrefixMap) *Object {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Object{
		fields:   fields,
		prefixes: prefixes,
		consumed: make(map[string]bool),
	}
}

// Prefixes returns the prefix map shared by this object and any nested
// objects produced by its getters.
func (o *Object) Prefixes() PrefixMap {
	return o.prefixes
}

// Len returns the number of fields present, consumed or not.
func (o *Object) Len() int {
	return len(o.fields)
}

// lookup finds the raw value for a requested field name and marks the
// matching raw key as consumed. An exact key match wins; otherwise
// keys and the requested name are prefix-expanded before comparison,
// scanning keys in sorted order so matching is deterministic.
func (o *Object) lookup(name string) (any, bool) {
	if v, ok := o.fields[name]; ok {
		o.consumed[name] = true
		return v, true
	}
	want := o.prefixes.Expand(name)
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if o.prefixes.Expand(k) == want {
			o.consumed[k] = true
			return o.fields[k], true
		}
	}
	return nil, false
}

// Remaining returns every field no getter has consumed, keys and
// values verbatim. The result is a fresh map; nil when nothing is
// left over.
func (o *Object) Remaining() map[string]any {
	var rest map[string]any
	for k, v := range o.fields {
		if o.consumed[k] {
			continue
		}
		if rest == nil {
			rest = make(map[string]any)
		}
		rest[k] = v
	}
	return rest
}

// String extracts a required string field.
func (o *Object) String(name string) (string, error) {
	v, ok := o.lookup(name)
	if !ok {
		return "", &MissingFieldError{Field: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", &WrongTypeError{Field: name, Expected: "string", Value: v}
	}
	return s, nil
}

// OptionalString extracts an optional string field. The second return
// reports presence.
func (o *Object) OptionalString(name string) (string, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, &WrongTypeError{Field: name, Expected: "string", Value: v}
	}
	return s, true, nil
}

// StringOr extracts an optional string field, substituting def when
// the field is absent. A present-but-mistyped value is still an error.
func (o *Object) StringOr(name, def string) (string, error) {
	s, ok, err := o.OptionalString(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return s, nil
}

// OptionalBool extracts an optional boolean field.
func (o *Object) OptionalBool(name string) (bool, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, &WrongTypeError{Field: name, Expected: "boolean", Value: v}
	}
	return b, true, nil
}

// BoolOr extracts an optional boolean field, substituting def when the
// field is absent.
func (o *Object) BoolOr(name string, def bool) (bool, error) {
	b, ok, err := o.OptionalBool(name)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	return b, nil
}

// OptionalBoolPtr extracts an optional boolean field as a tri-state
// value: nil when absent, otherwise a pointer to the parsed value.
func (o *Object) OptionalBoolPtr(name string) (*bool, error) {
	b, ok, err := o.OptionalBool(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// OptionalFloat extracts an optional numeric field. JSON numbers
// decode as float64.
func (o *Object) OptionalFloat(name string) (float64, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, true, &WrongTypeError{Field: name, Expected: "number", Value: v}
	}
	return f, true, nil
}

// StringArray extracts a required array of strings with a minimum
// size. Every element must be a string.
func (o *Object) StringArray(name string, minItems int) ([]string, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	return o.stringSlice(name, v, minItems)
}

// OptionalStringArray extracts an optional array of strings. When the
// field is present it must be an array of at least minItems strings.
func (o *Object) OptionalStringArray(name string, minItems int) ([]string, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	items, err := o.stringSlice(name, v, minItems)
	if err != nil {
		return nil, true, err
	}
	return items, true, nil
}

// OptionalStringOrArray extracts an optional field that may be either
// a bare string or an array of strings. A bare string is normalized to
// a one-element slice. Array elements must all be strings.
func (o *Object) OptionalStringOrArray(name string) ([]string, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	if s, ok := v.(string); ok {
		return []string{s}, true, nil
	}
	items, err := o.stringSlice(name, v, 0)
	if err != nil {
		return nil, true, err
	}
	return items, true, nil
}

// stringSlice converts a decoded array value into []string.
func (o *Object) stringSlice(name string, v any, minItems int) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, &WrongTypeError{Field: name, Expected: "array of strings", Value: v}
	}
	if len(raw) < minItems {
		return nil, &TooFewItemsError{Field: name, Min: minItems, Got: len(raw)}
	}
	items := make([]string, len(raw))
	for i, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, &WrongTypeError{Field: name, Expected: "array of strings", Value: e}
		}
		items[i] = s
	}
	return items, nil
}

// OptionalStringMap extracts an optional map of string to string.
// Every value must be a string.
func (o *Object) OptionalStringMap(name string) (map[string]string, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "map of strings", Value: v}
	}
	m := make(map[string]string, len(raw))
	for k, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, true, &WrongTypeError{Field: name, Expected: "map of strings", Value: e}
		}
		m[k] = s
	}
	return m, true, nil
}

// OptionalStringMapLenient extracts an optional map of string to
// string, silently dropping entries whose value is not a string. The
// SecurityScheme descriptions field is parsed this way; the drop is a
// compatibility quirk, not an error.
func (o *Object) OptionalStringMapLenient(name string) (map[string]string, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "map", Value: v}
	}
	m := make(map[string]string)
	for k, e := range raw {
		if s, ok := e.(string); ok {
			m[k] = s
		}
	}
	return m, true, nil
}

// OptionalObject extracts an optional nested object. The nested Object
// shares the prefix map and tracks its own consumed set.
func (o *Object) OptionalObject(name string) (*Object, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "object", Value: v}
	}
	return NewObject(raw, o.prefixes), true, nil
}

// OptionalObjectArray extracts an optional array of nested objects
// with a minimum size constraint.
func (o *Object) OptionalObjectArray(name string, minItems int) ([]*Object, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "array of objects", Value: v}
	}
	if len(raw) < minItems {
		return nil, true, &TooFewItemsError{Field: name, Min: minItems, Got: len(raw)}
	}
	items := make([]*Object, len(raw))
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, true, &WrongTypeError{Field: name, Expected: "array of objects", Value: e}
		}
		items[i] = NewObject(m, o.prefixes)
	}
	return items, true, nil
}

// ObjectArray extracts a required array of nested objects with a
// minimum size constraint.
func (o *Object) ObjectArray(name string, minItems int) ([]*Object, error) {
	items, ok, err := o.OptionalObjectArray(name, minItems)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	return items, nil
}

// OptionalObjectMap extracts an optional map of name to nested object.
func (o *Object) OptionalObjectMap(name string) (map[string]*Object, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "map of objects", Value: v}
	}
	m := make(map[string]*Object, len(raw))
	for k, e := range raw {
		sub, ok := e.(map[string]any)
		if !ok {
			return nil, true, &WrongTypeError{Field: name, Expected: "map of objects", Value: e}
		}
		m[k] = NewObject(sub, o.prefixes)
	}
	return m, true, nil
}

// OptionalRawObject extracts an optional nested object as a plain
// decoded map, for sub-documents the model keeps opaque (data
// schemas and similar).
func (o *Object) OptionalRawObject(name string) (map[string]any, bool, error) {
	v, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, true, &WrongTypeError{Field: name, Expected: "object", Value: v}
	}
	return raw, true, nil
}

// OptionalRaw extracts an optional field without any type constraint,
// still marking it consumed. Used for fields whose shape is
// intentionally open, such as @context.
func (o *Object) OptionalRaw(name string) (any, bool) {
	return o.lookup(name)
}
