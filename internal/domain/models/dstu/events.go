package dstu

// ChangeKind identifies the type of a change notification.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeMoved    ChangeKind = "moved"
	ChangeRestored ChangeKind = "restored"
	ChangePurged   ChangeKind = "purged"
)

// ChangeEvent is a typed change notification delivered by the backend watch
// stream. Node is optional; PreviousPath is set only for moved events.
type ChangeEvent struct {
	Kind         ChangeKind `json:"kind"`
	Path         string     `json:"path"`
	Node         *Node      `json:"node,omitempty"`
	PreviousPath string     `json:"previous_path,omitempty"`
}
