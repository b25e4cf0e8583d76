package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/logging"
)

const (
	// ServiceType is the mDNS service type Things advertise under
	// (W3C WoT Discovery introduction mechanism)
	ServiceType = "_wot._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultBrowseTimeout is the default time to collect advertisements
	DefaultBrowseTimeout = 10 * time.Second

	// DefaultPort is assumed when an advertisement carries no port
	DefaultPort = 80

	// DefaultTDPath is the well-known Thing Description path used when
	// an advertisement carries no "td" TXT record
	DefaultTDPath = "/.well-known/wot"
)

// Introducer collects Things advertised over mDNS and turns them into
// direct-discovery candidates. It is an introduction mechanism only:
// fetching and parsing the advertised Thing Descriptions is the
// session's job.
type Introducer struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewIntroducer creates an mDNS introducer with default settings
func NewIntroducer() *Introducer {
	return &Introducer{
		Timeout: DefaultBrowseTimeout,
	}
}

// Browse collects every Thing advertised on the local network until
// the timeout elapses.
func (i *Introducer) Browse() ([]*Candidate, error) {
	return i.BrowseWithContext(context.Background())
}

// BrowseWithContext collects advertisements with a custom context
func (i *Introducer) BrowseWithContext(ctx context.Context) ([]*Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, i.Timeout)
	defer cancel()

	// Channel to receive service entries; zeroconf closes it when the
	// context ends
	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan []*Candidate, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		candidates := make([]*Candidate, 0)
		for entry := range entries {
			candidate := i.parseServiceEntry(entry)
			if candidate != nil {
				logging.Debug("Thing advertised via mDNS",
					zap.String("instance", candidate.Instance),
					zap.String("url", candidate.TDURL()),
				)
				candidates = append(candidates, candidate)
			}
		}
		collected <- candidates
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	return <-collected, nil
}

// WaitForThing waits for a specific Thing by its advertised instance
// name. Returns the candidate or an error if it does not appear
// within the timeout.
func (i *Introducer) WaitForThing(instance string) (*Candidate, error) {
	return i.WaitForThingWithContext(context.Background(), instance)
}

// WaitForThingWithContext waits for a specific Thing with a custom context
func (i *Introducer) WaitForThingWithContext(ctx context.Context, instance string) (*Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, i.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	candidateChan := make(chan *Candidate, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			candidate := i.parseServiceEntry(entry)
			if candidate != nil && candidate.Instance == instance {
				candidateChan <- candidate
				cancel() // Found the Thing, cancel browsing
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case candidate := <-candidateChan:
		return candidate, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("thing %q not advertised within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Candidate.
// Returns nil for entries that cannot be reached or that advertise a
// Thing Description directory rather than a Thing.
func (i *Introducer) parseServiceEntry(entry *zeroconf.ServiceEntry) *Candidate {
	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}

	// Directories advertise under the same service type with a "type"
	// TXT record; they are a different introduction flow
	if strings.EqualFold(metadata["type"], "Directory") {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	// Get port (default to 80 if not specified)
	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	scheme := metadata["scheme"]
	if scheme == "" {
		scheme = "http"
	}

	tdPath := metadata["td"]
	if tdPath == "" {
		tdPath = DefaultTDPath
	}
	if !strings.HasPrefix(tdPath, "/") {
		tdPath = "/" + tdPath
	}

	return &Candidate{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Scheme:       scheme,
		TDPath:       tdPath,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Browse is a convenience function to collect advertisements with a custom timeout
func Browse(timeout time.Duration) ([]*Candidate, error) {
	introducer := NewIntroducer()
	introducer.Timeout = timeout
	return introducer.Browse()
}

// QuickBrowse performs a fast browse with a 3-second timeout
func QuickBrowse() ([]*Candidate, error) {
	introducer := NewIntroducer()
	introducer.Timeout = 3 * time.Second
	return introducer.Browse()
}

// FindThing searches for a specific Thing by instance name with default timeout
func FindThing(instance string) (*Candidate, error) {
	introducer := NewIntroducer()
	return introducer.WaitForThing(instance)
}
