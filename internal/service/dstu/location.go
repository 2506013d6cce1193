package dstu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"dstu/internal/cache"
	"dstu/internal/config"
	"dstu/internal/domain"
	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	dstusvc "dstu/internal/domain/services/dstu"
	"dstu/internal/dstupath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type resourceLocationService struct {
	backend     dstuRepo.Backend
	invalidator *cache.Invalidator
	logger      *slog.Logger
}

// NewResourceLocationService creates a new resource location service.
func NewResourceLocationService(
	backend dstuRepo.Backend,
	invalidator *cache.Invalidator,
	logger *slog.Logger,
) dstusvc.ResourceLocationService {
	return &resourceLocationService{
		backend:     backend,
		invalidator: invalidator,
		logger:      logger,
	}
}

// ParsePath is the remote-validated counterpart to dstupath.Parse. Obviously
// malformed input is rejected locally before a round-trip is paid for.
func (s *resourceLocationService) ParsePath(ctx context.Context, path string) (*dstupath.ParsedPath, error) {
	if err := validatePathString(path); err != nil {
		return nil, err
	}
	parsed, err := s.backend.ParsePath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	return parsed, nil
}

func (s *resourceLocationService) BuildPath(ctx context.Context, folderID *string, resourceID string) (string, error) {
	if resourceID == "" {
		return "", &domain.ValidationError{Message: "resource id cannot be empty"}
	}
	path, err := s.backend.BuildPath(ctx, folderID, resourceID)
	if err != nil {
		return "", fmt.Errorf("build path for %q: %w", resourceID, err)
	}
	return path, nil
}

func (s *resourceLocationService) GetResourceLocation(ctx context.Context, id string) (*models.ResourceLocation, error) {
	if id == "" {
		return nil, &domain.ValidationError{Message: "resource id cannot be empty"}
	}
	loc, err := s.backend.GetResourceLocation(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("resource location lookup failed", "id", id, "error", err)
		}
		return nil, err
	}
	return loc, nil
}

// GetResourceByPath resolves a path to a location. A miss is a normal,
// recoverable outcome here and is not logged as an error.
func (s *resourceLocationService) GetResourceByPath(ctx context.Context, path string) (*models.ResourceLocation, error) {
	if err := validatePathString(path); err != nil {
		return nil, err
	}
	loc, err := s.backend.GetResourceByPath(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("no resource at path", "path", path)
		} else {
			s.logger.Warn("resource-by-path lookup failed", "path", path, "error", err)
		}
		return nil, err
	}
	return loc, nil
}

// MoveToFolder moves a single resource's folder membership, never its
// type-specific fields, and invalidates the moved identifier on success.
func (s *resourceLocationService) MoveToFolder(ctx context.Context, resourceID string, targetFolderID *string) (*models.ResourceLocation, error) {
	if resourceID == "" {
		return nil, &domain.ValidationError{Message: "resource id cannot be empty"}
	}

	loc, err := s.backend.MoveToFolder(ctx, resourceID, targetFolderID)
	if err != nil {
		return nil, err
	}

	s.invalidator.OnSuccess(resourceID)

	s.logger.Info("resource moved",
		"id", resourceID,
		"folder_id", targetFolderID,
		"path", loc.FullPath,
	)
	return loc, nil
}

// BatchMove attempts every item independently, fanning out to the backend
// under a small concurrency cap. A failure on one item is recorded and does
// not prevent the remaining items from being attempted; only system-level
// failures (context cancellation) fail the whole call. Identifiers in the
// success set are invalidated on return.
func (s *resourceLocationService) BatchMove(ctx context.Context, req *models.BatchMoveRequest) (*models.BatchMoveResult, error) {
	if err := validateBatchMoveRequest(req); err != nil {
		return nil, err
	}

	total := len(req.ItemIDs)
	result := &models.BatchMoveResult{
		Successes:   make([]models.ResourceLocation, 0, total),
		FailedItems: make([]models.FailedItem, 0),
		TotalCount:  total,
	}
	if total == 0 {
		return result, nil
	}

	type itemOutcome struct {
		loc *models.ResourceLocation
		err error
	}

	outcomes := make([]itemOutcome, total)
	sem := make(chan struct{}, config.BatchMoveConcurrency)
	var wg sync.WaitGroup

	for i, id := range req.ItemIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				outcomes[i] = itemOutcome{err: err}
				return
			}
			loc, err := s.backend.MoveToFolder(ctx, id, req.TargetFolderID)
			outcomes[i] = itemOutcome{loc: loc, err: err}
		}(i, id)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &domain.InternalError{Message: "batch move aborted", Cause: err}
	}

	invalidate := make([]string, 0, total)
	for i, out := range outcomes {
		id := req.ItemIDs[i]
		switch {
		case out.err != nil:
			result.FailedItems = append(result.FailedItems, models.FailedItem{
				ItemID: id,
				Error:  out.err.Error(),
			})
			s.logger.Warn("batch move item failed",
				"id", id,
				"code", domain.CodeOf(out.err),
				"error", out.err,
			)
		case out.loc == nil:
			// Backend violated its contract; tolerate it, do not crash.
			result.FailedItems = append(result.FailedItems, models.FailedItem{
				ItemID: id,
				Error:  "backend returned no location",
			})
			s.logger.Warn("batch move item returned neither location nor error", "id", id)
		default:
			result.Successes = append(result.Successes, *out.loc)
			invalidate = append(invalidate, id)
		}
	}

	s.invalidator.OnSuccess(invalidate...)

	s.logger.Info("batch move completed",
		"total", total,
		"succeeded", len(result.Successes),
		"failed", len(result.FailedItems),
	)
	return result, nil
}

func (s *resourceLocationService) RefreshPathCache(ctx context.Context, id *string) (int, error) {
	count, err := s.backend.RefreshPathCache(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("refresh path cache: %w", err)
	}
	if id == nil {
		s.logger.Info("path cache refreshed globally", "entries", count)
	} else {
		s.logger.Debug("path cache refreshed", "id", *id, "entries", count)
	}
	return count, nil
}

func (s *resourceLocationService) GetPathByID(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", &domain.ValidationError{Message: "resource id cannot be empty"}
	}
	return s.backend.GetPathByID(ctx, id)
}

// ResourceExists treats a NOT_FOUND result as false rather than an error.
func (s *resourceLocationService) ResourceExists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetResourceLocation(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PathExists treats a NOT_FOUND result as false rather than an error.
func (s *resourceLocationService) PathExists(ctx context.Context, path string) (bool, error) {
	_, err := s.GetResourceByPath(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// validatePathString rejects malformed or oversized paths with a VALIDATION
// error before they reach the backend.
func validatePathString(path string) error {
	if len(path) > config.MaxPathLength {
		return &domain.ValidationError{
			Message: fmt.Sprintf("path exceeds maximum length of %d", config.MaxPathLength),
		}
	}
	if !dstupath.IsValidPath(path) {
		return &domain.ValidationError{Message: fmt.Sprintf("malformed path %q", path)}
	}
	return nil
}

// validateBatchMoveRequest validates a batch move request.
func validateBatchMoveRequest(req *models.BatchMoveRequest) error {
	if req == nil {
		return &domain.ValidationError{Message: "request cannot be nil"}
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.ItemIDs,
			validation.Each(validation.Required, validation.Length(1, config.MaxSegmentLength)),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
