package dstu

// BatchMoveRequest moves multiple resources into a target folder. ItemIDs may
// contain duplicates; deduplication is the consumer's responsibility.
type BatchMoveRequest struct {
	ItemIDs        []string `json:"item_ids"`
	TargetFolderID *string  `json:"target_folder_id"` // NULL = root level
}

// FailedItem records a single item's failure inside a batch operation.
type FailedItem struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// BatchMoveResult aggregates per-item outcomes of a batch move.
//
// successes + failed == total is the backend's contract, but responses
// violating it must be tolerated (logged, never a crash).
type BatchMoveResult struct {
	Successes   []ResourceLocation `json:"successes"`
	FailedItems []FailedItem       `json:"failed_items"`
	TotalCount  int                `json:"total_count"` // = len(request.ItemIDs)
}
