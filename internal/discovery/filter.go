package discovery

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultResourceType is the CoRE resource type that marks a link
// target as a Thing Description.
const DefaultResourceType = "wot.thing"

// Method selects the discovery algorithm a session runs.
type Method int

const (
	// MethodDirect fetches the target URL once and expects a single
	// Thing Description in response.
	MethodDirect Method = iota

	// MethodCoreLinkFormat queries a CoRE link-format resource
	// (RFC 6690) for Thing Description links, then fetches each
	// resolved link directly.
	MethodCoreLinkFormat
)

// String returns the method's canonical name
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodCoreLinkFormat:
		return "core-link-format"
	default:
		return "unknown"
	}
}

// ParseMethod maps a method name to its Method value. Names are
// matched case-insensitively; "direct" and "core-link-format" are the
// canonical spellings.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "direct":
		return MethodDirect, nil
	case "core-link-format", "corelinkformat":
		return MethodCoreLinkFormat, nil
	default:
		return 0, fmt.Errorf("unknown discovery method %q", name)
	}
}

// ThingFilter describes what one session should discover: where to
// look, which algorithm to use, and which CoRE resource type marks a
// Thing Description during link-format discovery.
//
// A filter is owned by the session it is given to and must not be
// mutated after Start.
type ThingFilter struct {
	// URL is the discovery target.
	URL *url.URL

	// Method selects the discovery algorithm.
	Method Method

	// ResourceType overrides the "rt" attribute value used to select
	// links during link-format discovery. Empty selects
	// DefaultResourceType.
	ResourceType string
}

func (f ThingFilter) resourceType() string {
	if f.ResourceType == "" {
		return DefaultResourceType
	}
	return f.ResourceType
}
