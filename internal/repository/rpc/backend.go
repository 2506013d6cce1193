package rpc

import (
	"context"
	"encoding/json"

	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	"dstu/internal/dstupath"
)

// Backend implements the domain Backend interface over the RPC client.
type Backend struct {
	client *Client
}

// NewBackend creates a Backend bound to the given client.
func NewBackend(client *Client) dstuRepo.Backend {
	return &Backend{client: client}
}

// finishNode decodes the per-type metadata payload at the boundary. A payload
// that does not match its type's shape is logged and tolerated; the node
// stays usable with its raw payload retained.
func (b *Backend) finishNode(node *models.Node) error {
	if node == nil {
		return nil
	}
	if err := node.Metadata.DecodeAs(node.Type); err != nil {
		b.client.logger.Warn("node metadata does not match its type's shape",
			"id", node.ID,
			"type", node.Type,
			"error", err,
		)
	}
	return nil
}

func (b *Backend) finishNodes(nodes []models.Node) []models.Node {
	for i := range nodes {
		_ = b.finishNode(&nodes[i])
	}
	return nodes
}

func (b *Backend) ListChildren(ctx context.Context, folderID *string) ([]models.Node, error) {
	params := struct {
		FolderID *string `json:"folder_id"`
	}{folderID}
	var nodes []models.Node
	if err := b.client.call(ctx, "list-children", params, &nodes); err != nil {
		return nil, err
	}
	return b.finishNodes(nodes), nil
}

func (b *Backend) GetByPath(ctx context.Context, path string) (*models.Node, error) {
	params := struct {
		Path string `json:"path"`
	}{path}
	var node models.Node
	if err := b.client.call(ctx, "get-by-path", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) Create(ctx context.Context, req *dstuRepo.CreateNodeRequest) (*models.Node, error) {
	var node models.Node
	if err := b.client.call(ctx, "create", req, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) UpdateContent(ctx context.Context, id, content string) (*models.Node, error) {
	params := struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}{id, content}
	var node models.Node
	if err := b.client.call(ctx, "update-content", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) GetContent(ctx context.Context, id string) (string, error) {
	params := struct {
		ID string `json:"id"`
	}{id}
	var result struct {
		Content string `json:"content"`
	}
	if err := b.client.call(ctx, "get-content", params, &result); err != nil {
		return "", err
	}
	return result.Content, nil
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	params := struct {
		ID string `json:"id"`
	}{id}
	return b.client.call(ctx, "delete", params, nil)
}

func (b *Backend) Move(ctx context.Context, id string, folderID *string) (*models.Node, error) {
	params := struct {
		ID       string  `json:"id"`
		FolderID *string `json:"folder_id"`
	}{id, folderID}
	var node models.Node
	if err := b.client.call(ctx, "move", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) Rename(ctx context.Context, id, name string) (*models.Node, error) {
	params := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{id, name}
	var node models.Node
	if err := b.client.call(ctx, "rename", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) Copy(ctx context.Context, id string, folderID *string) (*models.Node, error) {
	params := struct {
		ID       string  `json:"id"`
		FolderID *string `json:"folder_id"`
	}{id, folderID}
	var node models.Node
	if err := b.client.call(ctx, "copy", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) Search(ctx context.Context, query string) ([]models.Node, error) {
	params := struct {
		Query string `json:"query"`
	}{query}
	var nodes []models.Node
	if err := b.client.call(ctx, "search", params, &nodes); err != nil {
		return nil, err
	}
	return b.finishNodes(nodes), nil
}

func (b *Backend) SearchInFolder(ctx context.Context, folderID *string, query string) ([]models.Node, error) {
	params := struct {
		FolderID *string `json:"folder_id"`
		Query    string  `json:"query"`
	}{folderID, query}
	var nodes []models.Node
	if err := b.client.call(ctx, "search-in-folder", params, &nodes); err != nil {
		return nil, err
	}
	return b.finishNodes(nodes), nil
}

func (b *Backend) SetMetadata(ctx context.Context, id string, metadata json.RawMessage) (*models.Node, error) {
	params := struct {
		ID       string          `json:"id"`
		Metadata json.RawMessage `json:"metadata"`
	}{id, metadata}
	var node models.Node
	if err := b.client.call(ctx, "set-metadata", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) SetFavorite(ctx context.Context, id string, favorite bool) (*models.Node, error) {
	params := struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	}{id, favorite}
	var node models.Node
	if err := b.client.call(ctx, "set-favorite", params, &node); err != nil {
		return nil, err
	}
	_ = b.finishNode(&node)
	return &node, nil
}

func (b *Backend) DeleteMany(ctx context.Context, ids []string) error {
	params := struct {
		IDs []string `json:"ids"`
	}{ids}
	return b.client.call(ctx, "delete-many", params, nil)
}

func (b *Backend) RestoreMany(ctx context.Context, ids []string) error {
	params := struct {
		IDs []string `json:"ids"`
	}{ids}
	return b.client.call(ctx, "restore-many", params, nil)
}

func (b *Backend) MoveMany(ctx context.Context, ids []string, folderID *string) error {
	params := struct {
		IDs      []string `json:"ids"`
		FolderID *string  `json:"folder_id"`
	}{ids, folderID}
	return b.client.call(ctx, "move-many", params, nil)
}

func (b *Backend) Restore(ctx context.Context, id string) error {
	params := struct {
		ID string `json:"id"`
	}{id}
	return b.client.call(ctx, "restore", params, nil)
}

func (b *Backend) Purge(ctx context.Context, id string) error {
	params := struct {
		ID string `json:"id"`
	}{id}
	return b.client.call(ctx, "purge", params, nil)
}

func (b *Backend) ListDeleted(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	if err := b.client.call(ctx, "list-deleted", struct{}{}, &nodes); err != nil {
		return nil, err
	}
	return b.finishNodes(nodes), nil
}

func (b *Backend) PurgeAll(ctx context.Context) error {
	return b.client.call(ctx, "purge-all", struct{}{}, nil)
}

func (b *Backend) ParsePath(ctx context.Context, path string) (*dstupath.ParsedPath, error) {
	params := struct {
		Path string `json:"path"`
	}{path}
	var parsed dstupath.ParsedPath
	if err := b.client.call(ctx, "parse-path", params, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (b *Backend) BuildPath(ctx context.Context, folderID *string, resourceID string) (string, error) {
	params := struct {
		FolderID   *string `json:"folder_id"`
		ResourceID string  `json:"resource_id"`
	}{folderID, resourceID}
	var result struct {
		Path string `json:"path"`
	}
	if err := b.client.call(ctx, "build-path", params, &result); err != nil {
		return "", err
	}
	return result.Path, nil
}

func (b *Backend) GetResourceLocation(ctx context.Context, id string) (*models.ResourceLocation, error) {
	params := struct {
		ID string `json:"id"`
	}{id}
	var loc models.ResourceLocation
	if err := b.client.call(ctx, "get-resource-location", params, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (b *Backend) GetResourceByPath(ctx context.Context, path string) (*models.ResourceLocation, error) {
	params := struct {
		Path string `json:"path"`
	}{path}
	var loc models.ResourceLocation
	if err := b.client.call(ctx, "get-resource-by-path", params, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (b *Backend) MoveToFolder(ctx context.Context, id string, targetFolderID *string) (*models.ResourceLocation, error) {
	params := struct {
		ID             string  `json:"id"`
		TargetFolderID *string `json:"target_folder_id"`
	}{id, targetFolderID}
	var loc models.ResourceLocation
	if err := b.client.call(ctx, "move-to-folder", params, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (b *Backend) RefreshPathCache(ctx context.Context, id *string) (int, error) {
	params := struct {
		ID *string `json:"id"`
	}{id}
	var result struct {
		Refreshed int `json:"refreshed"`
	}
	if err := b.client.call(ctx, "refresh-path-cache", params, &result); err != nil {
		return 0, err
	}
	return result.Refreshed, nil
}

func (b *Backend) GetPathByID(ctx context.Context, id string) (string, error) {
	params := struct {
		ID string `json:"id"`
	}{id}
	var result struct {
		Path string `json:"path"`
	}
	if err := b.client.call(ctx, "get-path-by-id", params, &result); err != nil {
		return "", err
	}
	return result.Path, nil
}
