// Package urls builds and resolves the URIs the discovery engine works
// with: well-known discovery endpoints, link-reference resolution, and
// canonical keys for session-scoped deduplication.
package urls

import (
	"net/url"
	"strings"
)

// WellKnownCore is the default discovery path when a target URL does
// not name one (RFC 6690).
const WellKnownCore = "/.well-known/core"

// Discovery derives the link-format discovery URI from a target URL.
// An empty path defaults to /.well-known/core. The resource-type
// filter is appended as an rt query parameter; existing query
// parameters are preserved in place and an existing rt parameter is
// never overridden. The input URL is not modified.
func Discovery(target *url.URL, resourceType string) *url.URL {
	u := *target
	if u.Path == "" || u.Path == "/" {
		u.Path = WellKnownCore
	}
	if resourceType == "" {
		return &u
	}
	if _, has := u.Query()["rt"]; has {
		return &u
	}
	rt := "rt=" + url.QueryEscape(resourceType)
	if u.RawQuery == "" {
		u.RawQuery = rt
	} else {
		u.RawQuery += "&" + rt
	}
	return &u
}

// Resolve resolves a link reference against a base URI per RFC 3986.
// Absolute references pass through unchanged; relative ones inherit
// scheme, host, and port from the base.
func Resolve(base *url.URL, ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(r), nil
}

// Key canonicalizes a URI for deduplication. Scheme and host compare
// case-insensitively per RFC 3986; everything else byte-for-byte.
func Key(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	return c.String()
}
