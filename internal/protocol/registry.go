package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NoClientError reports a URI scheme no registered client serves.
type NoClientError struct {
	Scheme string
}

func (e *NoClientError) Error() string {
	return fmt.Sprintf("no protocol client registered for scheme %q", e.Scheme)
}

// Registry maps URI schemes to protocol clients.
type Registry struct {
	mu       sync.RWMutex
	byScheme map[string]Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byScheme: make(map[string]Client)}
}

// Register adds a client under every scheme it claims, replacing any
// previous registration for those schemes. Schemes compare
// case-insensitively.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range c.Schemes() {
		r.byScheme[strings.ToLower(s)] = c
	}
}

// ClientFor resolves the client serving a scheme.
func (r *Registry) ClientFor(scheme string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byScheme[strings.ToLower(scheme)]
	if !ok {
		return nil, &NoClientError{Scheme: scheme}
	}
	return c, nil
}

// Schemes lists every registered scheme in sorted order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemes := make([]string, 0, len(r.byScheme))
	for s := range r.byScheme {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}
