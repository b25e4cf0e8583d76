package discovery

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Candidate is a Thing advertised on the local network, produced by
// the mDNS Introducer. It carries enough to build the direct-discovery
// filter for the Thing's description.
type Candidate struct {
	// Instance is the mDNS service instance name (e.g., "kitchen-lamp")
	Instance string

	// Hostname is the mDNS hostname (e.g., "kitchen-lamp.local.")
	Hostname string

	// IP is the address the Thing resolved to (IPv4 preferred)
	IP string

	// Port is the advertised port (typically 80)
	Port int

	// Scheme is the URI scheme to reach the Thing with, from the
	// "scheme" TXT record ("http" when absent)
	Scheme string

	// TDPath is the path of the Thing Description resource, from the
	// "td" TXT record (/.well-known/wot when absent)
	TDPath string

	// Metadata contains the advertised TXT records verbatim
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the candidate
func (c *Candidate) String() string {
	return fmt.Sprintf("Thing %q (%s) at %s", c.Instance, c.Hostname, c.TDURL())
}

// TDURL returns the URL of the candidate's Thing Description resource
func (c *Candidate) TDURL() string {
	return c.Scheme + "://" + net.JoinHostPort(c.IP, strconv.Itoa(c.Port)) + c.TDPath
}

// Filter builds the direct-discovery filter for the candidate's Thing
// Description.
func (c *Candidate) Filter() (ThingFilter, error) {
	u, err := url.Parse(c.TDURL())
	if err != nil {
		return ThingFilter{}, fmt.Errorf("candidate %q has an unusable address: %w", c.Instance, err)
	}
	return ThingFilter{URL: u, Method: MethodDirect}, nil
}

// GetMetadata retrieves a TXT record value by key, or returns empty string if not found
func (c *Candidate) GetMetadata(key string) string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata[key]
}
