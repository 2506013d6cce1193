package dstu

import (
	"context"
	"errors"
	"testing"

	"dstu/internal/domain"
	models "dstu/internal/domain/models/dstu"
)

// fakeWatcher replays a fixed event sequence and closes the channel.
type fakeWatcher struct {
	events []models.ChangeEvent
	err    error
}

func (f *fakeWatcher) Watch(ctx context.Context, pathOrWildcard string) (<-chan models.ChangeEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan models.ChangeEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func TestChangePump_InvalidatesFromEvents(t *testing.T) {
	watcher := &fakeWatcher{events: []models.ChangeEvent{
		{Kind: models.ChangeCreated, Path: "/A/note_1", Node: &models.Node{ID: "note_1"}},
		{Kind: models.ChangeUpdated, Path: "/A/note_2"},
		{Kind: models.ChangeMoved, Path: "/B/note_3", PreviousPath: "/A/note_3", Node: &models.Node{ID: "note_3"}},
	}}
	inv, rec := newInvalidatorForTest()
	pump := NewChangePump(watcher, inv, discardLogger())

	if err := pump.Run(context.Background(), "/**"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ids := rec.invalidatedIDs()
	want := map[string]bool{"note_1": true, "note_2": true, "note_3": true}
	if len(ids) != 4 {
		t.Fatalf("expected 4 invalidations (moved touches both locations), got %v", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected invalidation key %q", id)
		}
	}

	// The moved event invalidates note_3 twice: once from the node id and
	// once derived from the previous path.
	moved := 0
	for _, id := range ids {
		if id == "note_3" {
			moved++
		}
	}
	if moved != 2 {
		t.Errorf("expected note_3 invalidated for both locations, got %d", moved)
	}
}

func TestChangePump_PathWithoutUsableKeyIsSkipped(t *testing.T) {
	watcher := &fakeWatcher{events: []models.ChangeEvent{
		{Kind: models.ChangeDeleted, Path: "///"},
	}}
	inv, rec := newInvalidatorForTest()
	pump := NewChangePump(watcher, inv, discardLogger())

	if err := pump.Run(context.Background(), "/**"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rec.all()) != 0 {
		t.Errorf("underivable keys must be skipped, got %v", rec.all())
	}
}

func TestChangePump_SubscribeFailure(t *testing.T) {
	watcher := &fakeWatcher{err: &domain.PermissionError{Message: "stream rejected"}}
	inv, _ := newInvalidatorForTest()
	pump := NewChangePump(watcher, inv, discardLogger())

	err := pump.Run(context.Background(), "/**")
	if !errors.Is(err, domain.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
}
