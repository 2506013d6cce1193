package dstu

import (
	"context"
	"fmt"
	"log/slog"

	"dstu/internal/cache"
	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	"dstu/internal/metrics"
)

// ChangePump consumes the backend's change stream and turns events into cache
// invalidations. That is all it does: presentation-level refresh in response
// to changes belongs to external collaborators.
type ChangePump struct {
	watcher     dstuRepo.Watcher
	invalidator *cache.Invalidator
	logger      *slog.Logger
}

// NewChangePump creates a new change pump.
func NewChangePump(watcher dstuRepo.Watcher, invalidator *cache.Invalidator, logger *slog.Logger) *ChangePump {
	return &ChangePump{
		watcher:     watcher,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Run subscribes to changes under pathOrWildcard and blocks until the stream
// ends or ctx is cancelled.
func (p *ChangePump) Run(ctx context.Context, pathOrWildcard string) error {
	events, err := p.watcher.Watch(ctx, pathOrWildcard)
	if err != nil {
		return fmt.Errorf("subscribe to changes for %q: %w", pathOrWildcard, err)
	}

	p.logger.Info("watching for changes", "pattern", pathOrWildcard)

	for ev := range events {
		p.apply(ev)
	}
	return ctx.Err()
}

// apply invalidates whatever a single event touched. The node's identifier is
// preferred; when the event carries none, the key is derived from the path
// string instead.
func (p *ChangePump) apply(ev models.ChangeEvent) {
	metrics.RecordWatchEvent(string(ev.Kind))

	if ev.Node != nil {
		p.invalidator.OnSuccess(ev.Node.ID)
	} else {
		p.invalidator.OnSuccessFromPath(ev.Path)
	}

	// A move leaves stale derived data behind at the old location too.
	if ev.Kind == models.ChangeMoved && ev.PreviousPath != "" {
		p.invalidator.OnSuccessFromPath(ev.PreviousPath)
	}

	p.logger.Debug("change event applied", "kind", ev.Kind, "path", ev.Path)
}
