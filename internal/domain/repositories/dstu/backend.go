package dstu

import (
	"context"
	"encoding/json"

	models "dstu/internal/domain/models/dstu"
	"dstu/internal/dstupath"
)

// Backend is the remote procedure surface of the out-of-process storage
// engine. Every call crosses a process boundary: arguments are plain
// serializable values and results are either a value or a structured error
// from the domain taxonomy. The client never assumes shared memory with the
// implementation behind this interface.
type Backend interface {
	// ListChildren lists immediate child nodes of a folder (nil = root)
	ListChildren(ctx context.Context, folderID *string) ([]models.Node, error)

	// GetByPath resolves a path to its node
	GetByPath(ctx context.Context, path string) (*models.Node, error)

	// Create creates a new resource
	Create(ctx context.Context, req *CreateNodeRequest) (*models.Node, error)

	// UpdateContent replaces a resource's content
	UpdateContent(ctx context.Context, id, content string) (*models.Node, error)

	// GetContent fetches a resource's content
	GetContent(ctx context.Context, id string) (string, error)

	// Delete soft-deletes a resource (moves it to trash)
	Delete(ctx context.Context, id string) error

	// Move moves a resource into a folder (nil = root)
	Move(ctx context.Context, id string, folderID *string) (*models.Node, error)

	// Rename renames a resource in place
	Rename(ctx context.Context, id, name string) (*models.Node, error)

	// Copy duplicates a resource into a folder (nil = root)
	Copy(ctx context.Context, id string, folderID *string) (*models.Node, error)

	// Search searches the whole namespace
	Search(ctx context.Context, query string) ([]models.Node, error)

	// SearchInFolder searches below a folder (nil = root)
	SearchInFolder(ctx context.Context, folderID *string, query string) ([]models.Node, error)

	// SetMetadata replaces a resource's per-type metadata payload
	SetMetadata(ctx context.Context, id string, metadata json.RawMessage) (*models.Node, error)

	// SetFavorite flags or unflags a resource as favorite
	SetFavorite(ctx context.Context, id string, favorite bool) (*models.Node, error)

	// Trash operations
	DeleteMany(ctx context.Context, ids []string) error
	RestoreMany(ctx context.Context, ids []string) error
	MoveMany(ctx context.Context, ids []string, folderID *string) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	ListDeleted(ctx context.Context) ([]models.Node, error)
	PurgeAll(ctx context.Context) error

	// ParsePath is the server-validated counterpart to the pure path model
	ParsePath(ctx context.Context, path string) (*dstupath.ParsedPath, error)

	// BuildPath builds an authoritative full path from folder and resource IDs
	BuildPath(ctx context.Context, folderID *string, resourceID string) (string, error)

	// GetResourceLocation resolves an identifier to its current location
	GetResourceLocation(ctx context.Context, id string) (*models.ResourceLocation, error)

	// GetResourceByPath resolves a path to a location; not-found is a normal
	// recoverable outcome for this call
	GetResourceByPath(ctx context.Context, path string) (*models.ResourceLocation, error)

	// MoveToFolder moves a single resource's folder membership, touching no
	// type-specific fields
	MoveToFolder(ctx context.Context, id string, targetFolderID *string) (*models.ResourceLocation, error)

	// RefreshPathCache recomputes server-side cached path strings, scoped to
	// one identifier or globally when id is nil. Returns the count of entries
	// touched.
	RefreshPathCache(ctx context.Context, id *string) (int, error)

	// GetPathByID is a cache-first path lookup with on-miss recomputation
	GetPathByID(ctx context.Context, id string) (string, error)
}

// Watcher is the change-notification surface. Events delivered on the
// returned channel drive cache invalidation only; presentation-level refresh
// is an external collaborator's responsibility. The channel is closed when
// ctx is cancelled or the stream ends.
type Watcher interface {
	Watch(ctx context.Context, pathOrWildcard string) (<-chan models.ChangeEvent, error)
}

// CreateNodeRequest carries the fields needed to create a resource.
type CreateNodeRequest struct {
	FolderID *string         `json:"folder_id,omitempty"` // NULL = root level
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Content  string          `json:"content,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}
