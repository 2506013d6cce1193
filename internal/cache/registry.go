// Package cache implements the client-side cache consistency layer: a
// process-wide invalidation registry plus the invalidate-after-success policy
// wrapped around every mutating backend call.
package cache

import (
	"log/slog"
	"sync"

	"dstu/internal/metrics"
)

// Event describes one invalidation. Either All is true (whole-cache flush for
// operations whose blast radius cannot be enumerated client-side) or IDs
// lists the affected resource identifiers.
type Event struct {
	All    bool
	IDs    []string
	Reason string
}

// Registry is the process-wide invalidation registry, keyed by resource
// identifier. It is mutated by exactly one logical owner (the Invalidator);
// every other component only subscribes.
type Registry struct {
	mu     sync.RWMutex
	subs   map[int]func(Event)
	nextID int
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		subs:   make(map[int]func(Event)),
		logger: logger,
	}
}

// Subscribe registers a callback invoked synchronously for every
// invalidation. The returned function removes the subscription.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Invalidate discards cached derived data for the given identifiers. Empty
// input is a no-op. Subscriber failures are absorbed: invalidation must never
// surface as an error to the operation that triggered it.
func (r *Registry) Invalidate(ids ...string) {
	if len(ids) == 0 {
		return
	}
	metrics.RecordInvalidation(len(ids))
	r.dispatch(Event{IDs: ids})
}

// InvalidateAll flushes the entire cache. Used for operations like purge-all
// where the affected set is unknowable client-side.
func (r *Registry) InvalidateAll(reason string) {
	metrics.RecordInvalidateAll()
	r.dispatch(Event{All: true, Reason: reason})
}

func (r *Registry) dispatch(ev Event) {
	r.mu.RLock()
	subs := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.RUnlock()

	for _, fn := range subs {
		r.safeNotify(fn, ev)
	}
}

// safeNotify shields the caller from a misbehaving subscriber.
func (r *Registry) safeNotify(fn func(Event), ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("invalidation subscriber panicked",
				"panic", rec,
				"all", ev.All,
				"ids", ev.IDs,
			)
		}
	}()
	fn(ev)
}
