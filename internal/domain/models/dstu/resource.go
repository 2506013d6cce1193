package dstu

import (
	"time"
)

// Node is a resource as listed by the backend (metadata only, content is
// fetched separately).
type Node struct {
	ID        string    `json:"id"`
	FolderID  *string   `json:"folder_id"` // NULL = root level
	Type      string    `json:"type"`      // note, doc, qset, folder
	Name      string    `json:"name"`      // Just "Aria", not "Characters/Aria"
	Path      string    `json:"path,omitempty"`
	Size      int64     `json:"size,omitempty"`
	Favorite  bool      `json:"favorite,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResourceLocation is the backend-confirmed statement of where a resource
// currently lives. The client never fabricates one except as the byproduct of
// a successful move; values are fresh per query and never cached.
type ResourceLocation struct {
	ID           string  `json:"id"`
	ResourceType string  `json:"resource_type"`
	FolderID     *string `json:"folder_id"` // NULL = root level
	FolderPath   string  `json:"folder_path"`
	FullPath     string  `json:"full_path"`
	Hash         string  `json:"hash,omitempty"` // optional content fingerprint
}
