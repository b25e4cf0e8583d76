package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
	"github.com/wotscout/wotscout/internal/td"
)

// Event is one item of a session's output sequence: either a
// discovered Thing Description or an error scoped to one payload or
// one sub-fetch. Exactly one of the two fields is set.
type Event struct {
	Thing *td.ThingDescription
	Err   error
}

// Runtime bundles the collaborators every session needs: protocol
// clients keyed by scheme and the content codec registry. Use
// NewRuntime; the zero value has no clients and cannot decode.
type Runtime struct {
	clients *protocol.Registry
	codecs  *content.Registry
}

// NewRuntime creates a runtime from a client registry and a codec
// registry. A nil client registry starts empty; a nil codec registry
// selects the built-in codecs (JSON and CoRE link format).
func NewRuntime(clients *protocol.Registry, codecs *content.Registry) *Runtime {
	if clients == nil {
		clients = protocol.NewRegistry()
	}
	if codecs == nil {
		codecs = content.DefaultRegistry()
	}
	return &Runtime{clients: clients, codecs: codecs}
}

// Clients returns the runtime's protocol client registry.
func (r *Runtime) Clients() *protocol.Registry {
	return r.clients
}

// NewSession prepares a discovery session for the given filter. The
// session does nothing until Start.
func (r *Runtime) NewSession(filter ThingFilter) *Session {
	return &Session{
		id:      uuid.NewString(),
		runtime: r,
		filter:  filter,
		events:  make(chan Event),
	}
}

// Session runs one discovery sequence. Start moves the session to
// active; Stop, natural completion, or context cancellation moves it
// to stopped. Stopped is terminal: a session cannot be restarted, and
// calling Stop again is a no-op.
//
// The dedup set and the bound protocol client are private to the
// session for its whole lifetime.
type Session struct {
	id      string
	runtime *Runtime
	filter  ThingFilter

	// events is unbuffered: the producer suspends until the consumer
	// takes each item, so events arrive in production order with no
	// internal reordering buffer.
	events chan Event

	mu      sync.Mutex
	client  protocol.Client
	cancel  context.CancelFunc
	active  bool
	started bool
	stopped bool

	stopOnce  sync.Once
	closeOnce sync.Once
}

// ID returns the session's unique identifier, used in log output.
func (s *Session) ID() string {
	return s.id
}

// Active reports whether Start succeeded and the session has not been
// stopped.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Events returns the session's output sequence. The channel closes
// after the last event, whether the sequence completed naturally or
// the session was stopped.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Start validates the filter, binds a protocol client for the target
// scheme, and launches the discovery producer. It returns a
// configuration error when the method is unknown, the target is
// missing, or no client is registered for the target's scheme; the
// session never becomes active in those cases.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return NewConfigError("session already stopped")
	}
	if s.started {
		return NewConfigError("session already started")
	}
	if s.filter.URL == nil {
		return NewConfigError("filter has no target URL")
	}

	var run func(context.Context, protocol.Client)
	switch s.filter.Method {
	case MethodDirect:
		run = s.runDirect
	case MethodCoreLinkFormat:
		run = s.runCoreLinkFormat
	default:
		return NewConfigError(fmt.Sprintf("unknown discovery method %d", int(s.filter.Method)))
	}

	client, err := s.runtime.clients.ClientFor(s.filter.URL.Scheme)
	if err != nil {
		return &Error{
			Kind:    KindConfig,
			URI:     s.filter.URL.String(),
			Message: "no protocol client for target",
			Err:     err,
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s.client = client
	s.cancel = cancel
	s.active = true
	s.started = true

	logging.LogDiscoveryEvent(s.id, s.filter.Method.String(), s.filter.URL.String(), "session started")

	// The producer goroutine owns the event channel and closes it when
	// the sequence ends, naturally or after cancellation.
	go func() {
		defer s.closeOnce.Do(func() { close(s.events) })
		run(ctx, client)
	}()

	return nil
}

// Stop ends the session: in-flight work is cancelled, the bound
// client's transport resources are released, and the event channel
// closes once pending emission unwinds. Safe to call more than once
// and after natural completion.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		client := s.client
		started := s.started
		s.active = false
		s.stopped = true
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if client != nil {
			if err := client.Stop(context.Background()); err != nil {
				logging.Warn("Protocol client stop failed",
					zap.String("session_id", s.id),
					zap.Error(err),
				)
			}
		}

		// Without a producer there is no other owner to close the
		// event channel.
		if !started {
			s.closeOnce.Do(func() { close(s.events) })
		}

		uri := ""
		if s.filter.URL != nil {
			uri = s.filter.URL.String()
		}
		logging.LogDiscoveryEvent(s.id, s.filter.Method.String(), uri, "session stopped")
	})
}

// Listen consumes the event stream on a new goroutine. onThing runs
// for each discovered Thing Description and onError for each
// delivered error; either may be nil. onDone is wrapped so that Stop
// runs before the completion signal, exactly once on every
// termination path. With cancelOnError set, the first delivered error
// ends the session after onError runs. A nil onError without
// cancelOnError skips erroring items silently while the sequence
// continues.
func (s *Session) Listen(onThing func(*td.ThingDescription), onError func(error), onDone func(), cancelOnError bool) {
	go func() {
		defer func() {
			s.Stop()
			if onDone != nil {
				onDone()
			}
		}()
		for ev := range s.events {
			if ev.Err != nil {
				if onError != nil {
					onError(ev.Err)
				}
				if cancelOnError {
					return
				}
				continue
			}
			if onThing != nil {
				onThing(ev.Thing)
			}
		}
	}()
}

// Collect starts the session, drains it, and returns every discovered
// Thing Description. Delivered errors are joined into the returned
// error; Things discovered before a failure are still returned.
func (s *Session) Collect(ctx context.Context) ([]*td.ThingDescription, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	defer s.Stop()

	var things []*td.ThingDescription
	var errs []error
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return things, errors.Join(errs...)
			}
			if ev.Err != nil {
				errs = append(errs, ev.Err)
				continue
			}
			things = append(things, ev.Thing)
		case <-ctx.Done():
			return things, ctx.Err()
		}
	}
}

// emit delivers one event to the consumer. It reports false when the
// session context ended before delivery; no event is emitted after
// cancellation.
func (s *Session) emit(ctx context.Context, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
