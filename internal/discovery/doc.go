// Package discovery implements the Thing Description discovery engine:
// sessions that locate WoT Things over pluggable protocol clients and
// deliver their parsed Thing Descriptions as an ordered event stream.
//
// # Sessions
//
// A Runtime (protocol clients + content codecs) creates Sessions from
// ThingFilters. A session has two states. Start moves it to active and
// launches the producer for the filter's discovery method; Stop,
// natural completion, or context cancellation moves it to stopped.
// Stopped is terminal and Stop is idempotent, so stopping twice or
// stopping after completion is always safe.
//
// Consumption is channel-style via Events, callback-style via Listen,
// or one-shot via Collect. Events arrive in production order: the
// event channel is unbuffered, so the producer suspends until the
// consumer takes each item.
//
// # Discovery methods
//
//	Direct:           fetch the target URL once, emit the single
//	                  Thing Description it serves.
//	CoRE link format: query a link-format resource (RFC 6690) for
//	                  links typed wot.thing, resolve and deduplicate
//	                  the targets, then fetch each one directly.
//
// Link-format discovery is pipelined: resolved targets are fetched
// while further link payloads (e.g. from multicast responders) are
// still arriving. A payload that cannot be decoded, and a resolved
// target that cannot be fetched, each produce one error event and the
// session carries on.
//
// # Usage Example
//
//	runtime := discovery.NewRuntime(clients, nil)
//	session := runtime.NewSession(discovery.ThingFilter{
//	    URL:    target,
//	    Method: discovery.MethodCoreLinkFormat,
//	})
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	things, err := session.Collect(ctx)
//
// # Introduction
//
// The Introducer browses mDNS for Things advertising the "_wot._tcp"
// service and turns the advertisements into Candidates, each carrying
// the URL of the Thing's description. Candidates feed new sessions;
// the introducer itself never fetches anything.
//
// # Thread Safety
//
// Sessions are safe for concurrent use: Start, Stop, and the
// consumption surfaces may be called from different goroutines. The
// dedup set and the bound protocol client are private to one session
// and never shared.
package discovery
