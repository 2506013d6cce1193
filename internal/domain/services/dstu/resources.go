package dstu

import (
	"context"
	"encoding/json"

	models "dstu/internal/domain/models/dstu"
)

// ResourceService is the mutating surface over the resource tree. Every
// successful mutation invalidates the affected identifier(s); failed calls
// leave the cache untouched.
type ResourceService interface {
	// ListChildren lists a folder's immediate children (nil = root)
	ListChildren(ctx context.Context, folderID *string) ([]models.Node, error)

	// Create creates a resource, defaulting the name to a unique one among
	// its siblings when the requested name is already taken
	Create(ctx context.Context, req *CreateResourceRequest) (*models.Node, error)

	// UpdateContent replaces a resource's content
	UpdateContent(ctx context.Context, id, content string) (*models.Node, error)

	// Rename renames a resource in place
	Rename(ctx context.Context, id, name string) (*models.Node, error)

	// Delete soft-deletes a resource
	Delete(ctx context.Context, id string) error

	// Copy duplicates a resource into a folder (nil = root)
	Copy(ctx context.Context, id string, targetFolderID *string) (*models.Node, error)

	// SetFavorite flags or unflags a resource as favorite
	SetFavorite(ctx context.Context, id string, favorite bool) (*models.Node, error)

	// SetMetadata replaces a resource's per-type metadata payload
	SetMetadata(ctx context.Context, id string, metadata json.RawMessage) (*models.Node, error)

	// Search searches globally or below a folder when folderID is non-nil
	Search(ctx context.Context, folderID *string, query string) ([]models.Node, error)

	// Trash operations. PurgeAll's blast radius cannot be enumerated
	// client-side, so it clears the entire invalidation registry.
	DeleteMany(ctx context.Context, ids []string) error
	RestoreMany(ctx context.Context, ids []string) error
	MoveMany(ctx context.Context, ids []string, targetFolderID *string) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	ListDeleted(ctx context.Context) ([]models.Node, error)
	PurgeAll(ctx context.Context) error
}

// CreateResourceRequest carries the fields needed to create a resource.
type CreateResourceRequest struct {
	FolderID *string         `json:"folder_id,omitempty"` // NULL = root level
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Content  string          `json:"content,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}
