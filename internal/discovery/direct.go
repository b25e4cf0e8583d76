package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/td"
)

// runDirect performs direct discovery: one fetch at the filter URL
// with multicast disabled, at most one Thing Description out.
func (s *Session) runDirect(ctx context.Context, client protocol.Client) {
	s.fetchThing(ctx, client, s.filter.URL)
}

// fetchThing runs the direct algorithm against one URI and emits the
// outcome: the parsed Thing Description on success, or an error event
// scoped to this fetch. Shared by direct discovery and link-format
// phase 2.
func (s *Session) fetchThing(ctx context.Context, client protocol.Client, target *url.URL) {
	uri := target.String()
	logging.LogDiscoveryEvent(s.id, s.filter.Method.String(), uri, "fetching thing description")

	deliveries, err := client.DiscoverDirectly(ctx, target, protocol.DirectOptions{DisableMulticast: true})
	if err != nil {
		s.emit(ctx, Event{Err: NewTransportError(uri, err)})
		return
	}

	var delivery protocol.Delivery
	var ok bool
	select {
	case delivery, ok = <-deliveries:
	case <-ctx.Done():
		return
	}
	if !ok {
		// Exchange ended without a payload. Cancellation and client
		// shutdown both land here; neither is an error of this fetch.
		return
	}
	if delivery.Err != nil {
		s.emit(ctx, Event{Err: NewTransportError(uri, delivery.Err)})
		return
	}

	thing, err := s.decodeThing(uri, delivery.Content)
	if err != nil {
		s.emit(ctx, Event{Err: err})
		return
	}
	s.emit(ctx, Event{Thing: thing})
}

// decodeThing turns one delivered payload into a Thing Description.
// A payload that decodes to a non-object value fails this fetch only;
// validation errors from parsing pass through with the source URI
// attached.
func (s *Session) decodeThing(uri string, c content.Content) (*td.ThingDescription, error) {
	logging.LogContent("Thing description payload", c.Type, c.Data)

	value, err := s.runtime.codecs.Decode(c, nil)
	if err != nil {
		return nil, NewDecodeError(uri, err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, NewNotObjectError(uri, value)
	}
	thing, err := td.ParseMap(obj)
	if err != nil {
		return nil, fmt.Errorf("thing description from %s: %w", uri, err)
	}
	return thing, nil
}
