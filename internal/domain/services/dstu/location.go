package dstu

import (
	"context"

	models "dstu/internal/domain/models/dstu"
	"dstu/internal/dstupath"
)

// ResourceLocationService resolves identifiers to locations and moves
// resources, keeping the client cache consistent after every successful
// mutation. All operations return structured domain errors; nothing panics
// across this boundary.
type ResourceLocationService interface {
	// ParsePath is the remote-validated counterpart to dstupath.Parse, used
	// when authoritative folder-path strings are required
	ParsePath(ctx context.Context, path string) (*dstupath.ParsedPath, error)

	// BuildPath builds an authoritative full path for a resource
	BuildPath(ctx context.Context, folderID *string, resourceID string) (string, error)

	// GetResourceLocation resolves an identifier to its current location
	GetResourceLocation(ctx context.Context, id string) (*models.ResourceLocation, error)

	// GetResourceByPath resolves a path to a location; a miss is returned as
	// a NOT_FOUND error but treated as a quiet, recoverable outcome
	GetResourceByPath(ctx context.Context, path string) (*models.ResourceLocation, error)

	// MoveToFolder moves a single resource and invalidates it on success
	MoveToFolder(ctx context.Context, resourceID string, targetFolderID *string) (*models.ResourceLocation, error)

	// BatchMove attempts every item independently; per-item failures land in
	// the result, only communication-level failures fail the whole call
	BatchMove(ctx context.Context, req *models.BatchMoveRequest) (*models.BatchMoveResult, error)

	// RefreshPathCache triggers server-side path recomputation, scoped to one
	// identifier or globally when id is nil
	RefreshPathCache(ctx context.Context, id *string) (int, error)

	// GetPathByID is a cache-first path lookup with on-miss recomputation
	GetPathByID(ctx context.Context, id string) (string, error)

	// ResourceExists treats NOT_FOUND as false, not as an error
	ResourceExists(ctx context.Context, id string) (bool, error)

	// PathExists treats NOT_FOUND as false, not as an error
	PathExists(ctx context.Context, path string) (bool, error)
}
