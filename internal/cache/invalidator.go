package cache

import (
	"log/slog"
)

// Invalidator applies the write-then-invalidate policy: services call it only
// after a successful mutating backend response. A failed call must leave the
// cache untouched, so there is deliberately no "invalidate before" entry
// point. All failures in here are absorbed and logged - they never propagate
// as errors from the wrapped operation.
type Invalidator struct {
	registry *Registry
	logger   *slog.Logger
	debug    bool // verbose logging of skipped/degraded derivations
}

// NewInvalidator creates the single logical owner of the registry's mutation
// surface.
func NewInvalidator(registry *Registry, logger *slog.Logger, debug bool) *Invalidator {
	return &Invalidator{
		registry: registry,
		logger:   logger,
		debug:    debug,
	}
}

// OnSuccess invalidates the given identifiers after a successful mutation.
// Empty identifiers are skipped.
func (i *Invalidator) OnSuccess(ids ...string) {
	valid := ids[:0:0]
	for _, id := range ids {
		if id != "" {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return
	}
	i.registry.Invalidate(valid...)
}

// OnSuccessFromPath invalidates using an identifier derived from a path
// string, for mutations whose success payload carried no identifier. A path
// that fails the bounds checks is skipped entirely; a degraded best-effort
// key is still used but logged.
func (i *Invalidator) OnSuccessFromPath(path string) {
	id, degraded, err := ExtractIDFromPath(path)
	if err != nil {
		i.logSkip("invalidation key derivation rejected", "path_len", len(path), "error", err)
		return
	}
	if degraded {
		i.logSkip("invalidation key degraded to best-effort", "key", id)
	}
	i.registry.Invalidate(id)
}

// Everything flushes the whole cache for operations whose blast radius cannot
// be enumerated client-side.
func (i *Invalidator) Everything(reason string) {
	i.registry.InvalidateAll(reason)
}

// logSkip logs verbosely in development and quietly in production.
func (i *Invalidator) logSkip(msg string, args ...any) {
	if i.debug {
		i.logger.Warn(msg, args...)
		return
	}
	i.logger.Debug(msg, args...)
}
