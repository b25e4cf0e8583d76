package discovery

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/wotscout/wotscout/internal/corelink"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/urls"
)

// runCoreLinkFormat performs CoRE link-format discovery in two
// pipelined phases. Phase 1 (this goroutine) queries the discovery
// resource, filters every arriving link payload by resource type,
// resolves the kept targets against the discovery URI and
// deduplicates them. Phase 2 (one worker goroutine) fetches each
// unique target with the direct algorithm while phase 1 keeps
// receiving. One target's failure never halts the others.
func (s *Session) runCoreLinkFormat(ctx context.Context, client protocol.Client) {
	target := urls.Discovery(s.filter.URL, s.filter.resourceType())
	uri := target.String()
	logging.LogDiscoveryEvent(s.id, s.filter.Method.String(), uri, "querying discovery resource")

	deliveries, err := client.DiscoverCoreLinkFormat(ctx, target)
	if err != nil {
		s.emit(ctx, Event{Err: NewTransportError(uri, err)})
		return
	}

	found := make(chan *url.URL)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for thing := range found {
			s.fetchThing(ctx, client, thing)
		}
	}()

	// The dedup set is touched only by this goroutine.
	seen := make(map[string]struct{})
	for {
		var delivery protocol.Delivery
		var ok bool
		select {
		case delivery, ok = <-deliveries:
		case <-ctx.Done():
			ok = false
		}
		if !ok {
			break
		}
		if !s.handleLinkPayload(ctx, target, delivery, seen, found) {
			break
		}
	}

	close(found)
	wg.Wait()
}

// handleLinkPayload processes one arriving link-format payload:
// decode, filter by resource type, resolve, dedup, hand unique
// targets to phase 2. A payload that cannot be decoded or that
// carries no link records yields a non-fatal error event; the session
// moves on to the next payload. Returns false once the session
// context ends.
func (s *Session) handleLinkPayload(ctx context.Context, discoveryURI *url.URL, delivery protocol.Delivery, seen map[string]struct{}, found chan<- *url.URL) bool {
	uri := discoveryURI.String()
	if delivery.Err != nil {
		return s.emit(ctx, Event{Err: NewTransportError(uri, delivery.Err)})
	}

	logging.LogContent("Link-format payload", delivery.Content.Type, delivery.Content.Data)

	value, err := s.runtime.codecs.Decode(delivery.Content, nil)
	if err != nil {
		return s.emit(ctx, Event{Err: NewDecodeError(uri, err)})
	}

	links, ok := linkRecords(value)
	if !ok || len(links) == 0 {
		return s.emit(ctx, Event{Err: NewNoLinksError(uri)})
	}

	rt := s.filter.resourceType()
	for _, link := range links {
		if !link.HasResourceType(rt) {
			continue
		}
		resolved, err := urls.Resolve(discoveryURI, link.Target)
		if err != nil {
			ev := Event{Err: &Error{
				Kind:    KindDecode,
				URI:     uri,
				Message: fmt.Sprintf("link target %q is not a valid reference", link.Target),
				Err:     err,
			}}
			if !s.emit(ctx, ev) {
				return false
			}
			continue
		}
		key := urls.Key(resolved)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		select {
		case found <- resolved:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// linkRecords normalizes the codec output union: a single link record
// or a list of them.
func linkRecords(value any) ([]corelink.Link, bool) {
	switch v := value.(type) {
	case []corelink.Link:
		return v, true
	case corelink.Link:
		return []corelink.Link{v}, true
	case *corelink.Link:
		if v == nil {
			return nil, false
		}
		return []corelink.Link{*v}, true
	default:
		return nil, false
	}
}
