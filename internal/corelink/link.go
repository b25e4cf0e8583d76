// Package corelink reads and writes the CoRE Link Format (RFC 6690),
// the payload served by /.well-known/core resource directories.
package corelink

import (
	"sort"
	"strings"
)

// Link is one link-value: a URI reference plus its attributes.
type Link struct {
	// Target is the URI reference between the angle brackets. It may
	// be relative; resolution against the document's base URI is the
	// caller's concern.
	Target string

	// Attrs holds the link parameters. A flag parameter without a
	// value maps to the empty string. When a parameter repeats, the
	// first occurrence wins.
	Attrs map[string]string
}

// Attr returns the named parameter and whether it was present.
func (l Link) Attr(name string) (string, bool) {
	v, ok := l.Attrs[name]
	return v, ok
}

// ResourceTypes returns the values of the rt parameter. Multiple
// resource types are carried space-separated inside one quoted string.
func (l Link) ResourceTypes() []string {
	rt, ok := l.Attrs["rt"]
	if !ok {
		return nil
	}
	return strings.Fields(rt)
}

// HasResourceType reports whether rt lists the given resource type.
func (l Link) HasResourceType(rt string) bool {
	for _, t := range l.ResourceTypes() {
		if t == rt {
			return true
		}
	}
	return false
}

// String serializes the link back into link-format text. Attributes
// are emitted in sorted order so output is deterministic.
func (l Link) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(l.Target)
	b.WriteByte('>')

	names := make([]string, 0, len(l.Attrs))
	for name := range l.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte(';')
		b.WriteString(name)
		value := l.Attrs[name]
		if value == "" {
			continue
		}
		b.WriteByte('=')
		if isToken(value) {
			b.WriteString(value)
			continue
		}
		b.WriteByte('"')
		for i := 0; i < len(value); i++ {
			c := value[i]
			if c == '"' || c == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteByte('"')
	}
	return b.String()
}

// Format serializes a list of links joined by commas, the wire form of
// a whole link-format document.
func Format(links []Link) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// isToken reports whether the value can be written without quoting.
// Values that are pure digit runs stay bare, matching the usual wire
// form of ct and sz.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
