package dstu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"dstu/internal/cache"
	"dstu/internal/config"
	"dstu/internal/domain"
	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	dstusvc "dstu/internal/domain/services/dstu"
	"dstu/internal/dstupath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// namePattern rejects path separators inside simple names.
var namePattern = regexp.MustCompile(`^[^/]+$`)

type resourceService struct {
	backend     dstuRepo.Backend
	naming      dstusvc.NamingService
	invalidator *cache.Invalidator
	logger      *slog.Logger
}

// NewResourceService creates a new resource service.
func NewResourceService(
	backend dstuRepo.Backend,
	naming dstusvc.NamingService,
	invalidator *cache.Invalidator,
	logger *slog.Logger,
) dstusvc.ResourceService {
	return &resourceService{
		backend:     backend,
		naming:      naming,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *resourceService) ListChildren(ctx context.Context, folderID *string) ([]models.Node, error) {
	return s.backend.ListChildren(ctx, folderID)
}

// Create creates a resource. The requested name is passed through the naming
// service first, so concurrent creates with the same default title land on
// distinct names instead of colliding.
func (s *resourceService) Create(ctx context.Context, req *dstusvc.CreateResourceRequest) (*models.Node, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	name, err := s.naming.GenerateUniqueNameSafe(ctx, req.Name, func(ctx context.Context) ([]string, error) {
		siblings, err := s.backend.ListChildren(ctx, req.FolderID)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(siblings))
		for i, n := range siblings {
			names[i] = n.Name
		}
		return names, nil
	}, folderScope(req.FolderID))
	if err != nil {
		return nil, fmt.Errorf("resolve unique name: %w", err)
	}

	node, err := s.backend.Create(ctx, &dstuRepo.CreateNodeRequest{
		FolderID: req.FolderID,
		Type:     req.Type,
		Name:     name,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.OnSuccess(node.ID)

	s.logger.Info("resource created",
		"id", node.ID,
		"type", node.Type,
		"name", node.Name,
		"folder_id", req.FolderID,
	)
	return node, nil
}

func (s *resourceService) UpdateContent(ctx context.Context, id, content string) (*models.Node, error) {
	node, err := s.backend.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	s.invalidator.OnSuccess(id)
	return node, nil
}

func (s *resourceService) Rename(ctx context.Context, id, name string) (*models.Node, error) {
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxResourceNameLength),
		validation.Match(namePattern).Error("name cannot contain slashes"),
	); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid name: %v", err)}
	}

	node, err := s.backend.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.invalidator.OnSuccess(id)
	s.logger.Info("resource renamed", "id", id, "name", name)
	return node, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.OnSuccess(id)
	s.logger.Info("resource deleted", "id", id)
	return nil
}

func (s *resourceService) Copy(ctx context.Context, id string, targetFolderID *string) (*models.Node, error) {
	node, err := s.backend.Copy(ctx, id, targetFolderID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		// Tolerate a contract-violating response; the source is unchanged so
		// there is nothing to invalidate.
		s.logger.Warn("copy returned no node", "source_id", id)
		return nil, &domain.InternalError{Message: "backend returned no node for copy"}
	}
	s.invalidator.OnSuccess(node.ID)
	s.logger.Info("resource copied", "source_id", id, "id", node.ID)
	return node, nil
}

func (s *resourceService) SetFavorite(ctx context.Context, id string, favorite bool) (*models.Node, error) {
	node, err := s.backend.SetFavorite(ctx, id, favorite)
	if err != nil {
		return nil, err
	}
	s.invalidator.OnSuccess(id)
	return node, nil
}

func (s *resourceService) SetMetadata(ctx context.Context, id string, metadata json.RawMessage) (*models.Node, error) {
	node, err := s.backend.SetMetadata(ctx, id, metadata)
	if err != nil {
		return nil, err
	}
	s.invalidator.OnSuccess(id)
	return node, nil
}

func (s *resourceService) Search(ctx context.Context, folderID *string, query string) ([]models.Node, error) {
	if folderID == nil {
		return s.backend.Search(ctx, query)
	}
	return s.backend.SearchInFolder(ctx, folderID, query)
}

func (s *resourceService) DeleteMany(ctx context.Context, ids []string) error {
	if err := s.backend.DeleteMany(ctx, ids); err != nil {
		return err
	}
	s.invalidator.OnSuccess(ids...)
	s.logger.Info("resources deleted", "count", len(ids))
	return nil
}

func (s *resourceService) RestoreMany(ctx context.Context, ids []string) error {
	if err := s.backend.RestoreMany(ctx, ids); err != nil {
		return err
	}
	s.invalidator.OnSuccess(ids...)
	s.logger.Info("resources restored", "count", len(ids))
	return nil
}

func (s *resourceService) MoveMany(ctx context.Context, ids []string, targetFolderID *string) error {
	if err := s.backend.MoveMany(ctx, ids, targetFolderID); err != nil {
		return err
	}
	s.invalidator.OnSuccess(ids...)
	return nil
}

func (s *resourceService) Restore(ctx context.Context, id string) error {
	if err := s.backend.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidator.OnSuccess(id)
	return nil
}

func (s *resourceService) Purge(ctx context.Context, id string) error {
	if err := s.backend.Purge(ctx, id); err != nil {
		return err
	}
	s.invalidator.OnSuccess(id)
	s.logger.Info("resource purged", "id", id)
	return nil
}

func (s *resourceService) ListDeleted(ctx context.Context) ([]models.Node, error) {
	return s.backend.ListDeleted(ctx)
}

// PurgeAll clears all soft-deleted items. Its effect set cannot be enumerated
// client-side, so the entire cache is flushed instead of deriving per-item
// keys.
func (s *resourceService) PurgeAll(ctx context.Context) error {
	if err := s.backend.PurgeAll(ctx); err != nil {
		return err
	}
	s.invalidator.Everything("purge-all")
	s.logger.Info("trash emptied")
	return nil
}

// folderScope builds the naming-lock scope for a folder (distinct keys never
// block each other).
func folderScope(folderID *string) string {
	if folderID == nil {
		return "root"
	}
	return *folderID
}

// validateCreateRequest validates a resource creation request.
func validateCreateRequest(req *dstusvc.CreateResourceRequest) error {
	if req == nil {
		return &domain.ValidationError{Message: "request cannot be nil"}
	}
	types := dstupath.KnownResourceTypes()
	typeValues := make([]interface{}, len(types))
	for i, t := range types {
		typeValues[i] = t
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Type, validation.Required, validation.In(typeValues...)),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxResourceNameLength),
			validation.Match(namePattern).Error("name cannot contain slashes"),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
