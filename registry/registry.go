// Package registry holds the in-flight completion handlers. A single
// mutable handler slot silently misroutes outcomes when two requests
// overlap, so pending handlers are keyed by correlation id and each id
// gets exactly one terminal delivery.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/noah-isme/paychan/outcome"
)

// Handler receives the single terminal outcome of a request.
type Handler func(outcome.Outcome)

// ErrDuplicateID reports an attempt to register a handler under a live
// correlation id. Reusing an id before the first request resolves is a
// caller programming error, not a recoverable condition.
var ErrDuplicateID = errors.New("registry: correlation id already pending")

// Registry is the only cross-request shared state in the SDK. All
// mutation happens under one mutex.
type Registry struct {
	mu      sync.Mutex
	pending map[string]Handler
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{pending: make(map[string]Handler)}
}

// Register stores the handler under the correlation id.
func (r *Registry) Register(id string, h Handler) error {
	if id == "" {
		return errors.New("registry: empty correlation id")
	}
	if h == nil {
		return errors.New("registry: nil handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, live := r.pending[id]; live {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.pending[id] = h
	return nil
}

// Deliver removes the handler for the id and invokes it with the
// outcome. It reports false when the id is unknown or already delivered;
// a second delivery for the same id can never reach a handler.
func (r *Registry) Deliver(id string, out outcome.Outcome) bool {
	r.mu.Lock()
	h, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	h(out)
	return true
}

// Abandon drops the pending handler without invoking it. Used when a
// request fails before it is dispatched.
func (r *Registry) Abandon(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// Pending reports the number of in-flight requests.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
