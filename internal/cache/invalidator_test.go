package cache

import (
	"strings"
	"testing"

	"dstu/internal/config"
)

func newInvalidatorWithRecorder(t *testing.T) (*Invalidator, *[]Event) {
	t.Helper()
	logger := discardLogger()
	registry := NewRegistry(logger)
	events := &[]Event{}
	registry.Subscribe(func(ev Event) { *events = append(*events, ev) })
	return NewInvalidator(registry, logger, true), events
}

func TestInvalidator_OnSuccess(t *testing.T) {
	inv, events := newInvalidatorWithRecorder(t)

	inv.OnSuccess("note_a", "", "note_b")

	if len(*events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(*events))
	}
	ids := (*events)[0].IDs
	if len(ids) != 2 || ids[0] != "note_a" || ids[1] != "note_b" {
		t.Errorf("empty ids must be filtered, got %v", ids)
	}
}

func TestInvalidator_OnSuccessAllEmpty(t *testing.T) {
	inv, events := newInvalidatorWithRecorder(t)

	inv.OnSuccess()
	inv.OnSuccess("", "")

	if len(*events) != 0 {
		t.Errorf("expected no events, got %v", *events)
	}
}

func TestInvalidator_OnSuccessFromPath(t *testing.T) {
	t.Run("exact key", func(t *testing.T) {
		inv, events := newInvalidatorWithRecorder(t)

		inv.OnSuccessFromPath("/A/note_abc")

		if len(*events) != 1 || (*events)[0].IDs[0] != "note_abc" {
			t.Errorf("expected invalidation of note_abc, got %v", *events)
		}
	})

	t.Run("degraded key still invalidates", func(t *testing.T) {
		inv, events := newInvalidatorWithRecorder(t)

		inv.OnSuccessFromPath("/A/My Report")

		if len(*events) != 1 || (*events)[0].IDs[0] != "My_Report" {
			t.Errorf("expected best-effort invalidation, got %v", *events)
		}
	})

	t.Run("rejected path is skipped entirely", func(t *testing.T) {
		inv, events := newInvalidatorWithRecorder(t)

		inv.OnSuccessFromPath("/" + strings.Repeat("a", config.MaxPathLength))
		inv.OnSuccessFromPath("///")

		if len(*events) != 0 {
			t.Errorf("rejected derivations must not invalidate, got %v", *events)
		}
	})
}

func TestInvalidator_Everything(t *testing.T) {
	inv, events := newInvalidatorWithRecorder(t)

	inv.Everything("purge-all")

	if len(*events) != 1 || !(*events)[0].All {
		t.Errorf("expected whole-cache flush, got %v", *events)
	}
}
