// Package protocol defines the transport boundary of discovery: a
// Client per URI scheme performs the wire exchanges and hands payloads
// back as an asynchronous delivery stream. The engine stays
// transport-agnostic; retry and timeout policy live entirely inside
// client implementations.
package protocol

import (
	"context"
	"net/url"

	"github.com/wotscout/wotscout/internal/content"
)

// Delivery is one payload (or one failure) produced by a discovery
// exchange. Exactly one of Content and Err is meaningful.
type Delivery struct {
	Content content.Content
	Err     error
}

// DirectOptions tunes a direct fetch.
type DirectOptions struct {
	// DisableMulticast restricts the exchange to a single unicast
	// request on transports that would otherwise fan out.
	DisableMulticast bool
}

// Client performs discovery exchanges for one or more URI schemes.
//
// Both discover calls return a channel that delivers payloads as they
// arrive and closes when the exchange completes or ctx is cancelled.
// A failed exchange is reported as a Delivery carrying Err; a non-nil
// error return means the exchange could not start at all.
type Client interface {
	// Schemes lists the URI schemes this client serves.
	Schemes() []string

	// DiscoverDirectly fetches the resource at target.
	DiscoverDirectly(ctx context.Context, target *url.URL, opts DirectOptions) (<-chan Delivery, error)

	// DiscoverCoreLinkFormat requests link-format discovery records
	// from target. Transports with multicast semantics may deliver
	// payloads from several responders over time.
	DiscoverCoreLinkFormat(ctx context.Context, target *url.URL) (<-chan Delivery, error)

	// Stop releases the client's transport resources. In-flight
	// delivery channels close promptly afterwards.
	Stop(ctx context.Context) error
}
