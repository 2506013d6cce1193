package dstu

import (
	"log/slog"
	"sync"

	models "dstu/internal/domain/models/dstu"
)

// Navigator owns the single authoritative navigation history: current path,
// back/forward index, and breadcrumb trail. Exactly one component in the
// whole client owns this state; every other consumer reads the derived
// booleans (directly or through the Probe) and issues intents via NavigateTo,
// GoBack and GoForward, never maintaining a parallel stack.
//
// Calls are expected to arrive from a single logical owner; racing NavigateTo
// calls resolve last-write-wins, with the earlier snapshot retained only as
// the preceding history entry.
type Navigator struct {
	mu      sync.Mutex
	entries []models.PathSnapshot
	index   int    // -1 when entries is empty
	gen     uint64 // bumped on every movement; stale listings compare against it
	probe   *Probe
	logger  *slog.Logger
}

// NewNavigator creates an empty navigator and its read-only probe.
func NewNavigator(logger *slog.Logger) *Navigator {
	return &Navigator{
		index:  -1,
		probe:  newProbe(),
		logger: logger,
	}
}

// Probe returns the read-only handle host shells use to observe the derived
// can-go-back / can-go-forward booleans outside the owning scope.
func (n *Navigator) Probe() *Probe {
	return n.probe
}

// NavigateTo records a new location. Navigating to the current effective
// location is a no-op; otherwise any forward entries beyond the current index
// are discarded before the snapshot is appended.
//
// The returned generation token identifies this navigation: a listing issued
// for it should be discarded when IsCurrent reports the token stale.
func (n *Navigator) NavigateTo(snapshot models.PathSnapshot) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index >= 0 && n.entries[n.index].SameLocation(snapshot) {
		return n.gen
	}

	n.entries = append(n.entries[:n.index+1], snapshot)
	n.index = len(n.entries) - 1
	n.gen++
	n.syncProbeLocked()

	n.logger.Debug("navigated",
		"path", snapshot.Path,
		"index", n.index,
		"entries", len(n.entries),
	)
	return n.gen
}

// GoBack moves one entry back. Calling it when CanGoBack is false is a no-op,
// never an error.
func (n *Navigator) GoBack() (models.PathSnapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index <= 0 {
		return models.PathSnapshot{}, false
	}
	n.index--
	n.gen++
	n.syncProbeLocked()
	return n.entries[n.index], true
}

// GoForward moves one entry forward. Calling it when CanGoForward is false is
// a no-op, never an error.
func (n *Navigator) GoForward() (models.PathSnapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index < 0 || n.index >= len(n.entries)-1 {
		return models.PathSnapshot{}, false
	}
	n.index++
	n.gen++
	n.syncProbeLocked()
	return n.entries[n.index], true
}

// JumpToBreadcrumb navigates to the i-th ancestor of the current entry's
// trail; i = -1 denotes the root. The jump lands on the same folder natural
// navigation to that ancestor would, so it goes through NavigateTo and earns
// a regular history entry.
func (n *Navigator) JumpToBreadcrumb(i int) uint64 {
	n.mu.Lock()
	if n.index < 0 {
		n.mu.Unlock()
		return 0
	}
	current := n.entries[n.index]
	n.mu.Unlock()

	if i < 0 {
		return n.NavigateTo(models.PathSnapshot{Path: "/", TypeFilter: current.TypeFilter})
	}
	if i >= len(current.Breadcrumbs) {
		return n.NavigateTo(current)
	}

	crumb := current.Breadcrumbs[i]
	return n.NavigateTo(models.PathSnapshot{
		FolderID:    crumb.ID,
		Path:        breadcrumbPath(current.Breadcrumbs[:i+1]),
		TypeFilter:  current.TypeFilter,
		Breadcrumbs: append([]models.Breadcrumb(nil), current.Breadcrumbs[:i+1]...),
	})
}

// SetWithoutHistory overwrites the current entry's payload without touching
// the entries list or the index, so a surface can silently correct drifted
// state without polluting the shared back/forward trail. On an empty history
// it seeds the initial entry.
func (n *Navigator) SetWithoutHistory(snapshot models.PathSnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index < 0 {
		n.entries = append(n.entries, snapshot)
		n.index = 0
	} else {
		n.entries[n.index] = snapshot
	}
	n.syncProbeLocked()
}

// Current returns the current snapshot, if any.
func (n *Navigator) Current() (models.PathSnapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index < 0 {
		return models.PathSnapshot{}, false
	}
	return n.entries[n.index], true
}

// CanGoBack reports whether a back navigation is legal.
func (n *Navigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0
}

// CanGoForward reports whether a forward navigation is legal.
func (n *Navigator) CanGoForward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index >= 0 && n.index < len(n.entries)-1
}

// Depth returns the number of recorded entries.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// IsCurrent reports whether a generation token still identifies the latest
// navigation. A listing response carrying a stale token arrived out of order
// and must be discarded rather than overwriting fresher data.
func (n *Navigator) IsCurrent(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return gen == n.gen
}

func (n *Navigator) syncProbeLocked() {
	n.probe.set(n.index > 0, n.index >= 0 && n.index < len(n.entries)-1)
}

// breadcrumbPath rebuilds the path string for a trail prefix.
func breadcrumbPath(crumbs []models.Breadcrumb) string {
	path := ""
	for _, c := range crumbs {
		if c.Ellipsis {
			for _, e := range c.Elided {
				path += "/" + e.Name
			}
			continue
		}
		path += "/" + c.Name
	}
	if path == "" {
		return "/"
	}
	return path
}

// CollapseBreadcrumbs shortens a trail that exceeds maxVisible: the first
// ancestor and the last maxVisible-2 ancestors are kept, with the middle run
// folded into a single expandable ellipsis entry listing the elided crumbs in
// order.
func CollapseBreadcrumbs(crumbs []models.Breadcrumb, maxVisible int) []models.Breadcrumb {
	if maxVisible < 3 || len(crumbs) <= maxVisible {
		return crumbs
	}

	tail := maxVisible - 2
	elided := append([]models.Breadcrumb(nil), crumbs[1:len(crumbs)-tail]...)

	collapsed := make([]models.Breadcrumb, 0, maxVisible)
	collapsed = append(collapsed, crumbs[0])
	collapsed = append(collapsed, models.Breadcrumb{
		Name:     "…",
		Ellipsis: true,
		Elided:   elided,
	})
	collapsed = append(collapsed, crumbs[len(crumbs)-tail:]...)
	return collapsed
}
