package dstu

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dstu/internal/cache"
	"dstu/internal/config"
	"dstu/internal/domain"
	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	"dstu/internal/dstupath"
)

var errUnexpectedCall = errors.New("unexpected backend call")

// fakeBackend is a test implementation of the Backend interface. Methods
// delegate to the corresponding function field when set and fail the call
// otherwise, so a test only wires what it exercises.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	listChildrenFn        func(ctx context.Context, folderID *string) ([]models.Node, error)
	createFn              func(ctx context.Context, req *dstuRepo.CreateNodeRequest) (*models.Node, error)
	renameFn              func(ctx context.Context, id, name string) (*models.Node, error)
	deleteFn              func(ctx context.Context, id string) error
	copyFn                func(ctx context.Context, id string, folderID *string) (*models.Node, error)
	searchFn              func(ctx context.Context, query string) ([]models.Node, error)
	searchInFolderFn      func(ctx context.Context, folderID *string, query string) ([]models.Node, error)
	parsePathFn           func(ctx context.Context, path string) (*dstupath.ParsedPath, error)
	getResourceLocationFn func(ctx context.Context, id string) (*models.ResourceLocation, error)
	getResourceByPathFn   func(ctx context.Context, path string) (*models.ResourceLocation, error)
	moveToFolderFn        func(ctx context.Context, id string, targetFolderID *string) (*models.ResourceLocation, error)
	purgeAllFn            func(ctx context.Context) error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) ListChildren(ctx context.Context, folderID *string) ([]models.Node, error) {
	f.record("ListChildren")
	if f.listChildrenFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listChildrenFn(ctx, folderID)
}

func (f *fakeBackend) GetByPath(ctx context.Context, path string) (*models.Node, error) {
	f.record("GetByPath")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) Create(ctx context.Context, req *dstuRepo.CreateNodeRequest) (*models.Node, error) {
	f.record("Create")
	if f.createFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createFn(ctx, req)
}

func (f *fakeBackend) UpdateContent(ctx context.Context, id, content string) (*models.Node, error) {
	f.record("UpdateContent")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) GetContent(ctx context.Context, id string) (string, error) {
	f.record("GetContent")
	return "", errUnexpectedCall
}

func (f *fakeBackend) Delete(ctx context.Context, id string) error {
	f.record("Delete")
	if f.deleteFn == nil {
		return errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeBackend) Move(ctx context.Context, id string, folderID *string) (*models.Node, error) {
	f.record("Move")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) Rename(ctx context.Context, id, name string) (*models.Node, error) {
	f.record("Rename")
	if f.renameFn == nil {
		return nil, errUnexpectedCall
	}
	return f.renameFn(ctx, id, name)
}

func (f *fakeBackend) Copy(ctx context.Context, id string, folderID *string) (*models.Node, error) {
	f.record("Copy")
	if f.copyFn == nil {
		return nil, errUnexpectedCall
	}
	return f.copyFn(ctx, id, folderID)
}

func (f *fakeBackend) Search(ctx context.Context, query string) ([]models.Node, error) {
	f.record("Search")
	if f.searchFn == nil {
		return nil, errUnexpectedCall
	}
	return f.searchFn(ctx, query)
}

func (f *fakeBackend) SearchInFolder(ctx context.Context, folderID *string, query string) ([]models.Node, error) {
	f.record("SearchInFolder")
	if f.searchInFolderFn == nil {
		return nil, errUnexpectedCall
	}
	return f.searchInFolderFn(ctx, folderID, query)
}

func (f *fakeBackend) SetMetadata(ctx context.Context, id string, metadata json.RawMessage) (*models.Node, error) {
	f.record("SetMetadata")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) SetFavorite(ctx context.Context, id string, favorite bool) (*models.Node, error) {
	f.record("SetFavorite")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) DeleteMany(ctx context.Context, ids []string) error {
	f.record("DeleteMany")
	return errUnexpectedCall
}

func (f *fakeBackend) RestoreMany(ctx context.Context, ids []string) error {
	f.record("RestoreMany")
	return errUnexpectedCall
}

func (f *fakeBackend) MoveMany(ctx context.Context, ids []string, folderID *string) error {
	f.record("MoveMany")
	return errUnexpectedCall
}

func (f *fakeBackend) Restore(ctx context.Context, id string) error {
	f.record("Restore")
	return errUnexpectedCall
}

func (f *fakeBackend) Purge(ctx context.Context, id string) error {
	f.record("Purge")
	return errUnexpectedCall
}

func (f *fakeBackend) ListDeleted(ctx context.Context) ([]models.Node, error) {
	f.record("ListDeleted")
	return nil, errUnexpectedCall
}

func (f *fakeBackend) PurgeAll(ctx context.Context) error {
	f.record("PurgeAll")
	if f.purgeAllFn == nil {
		return errUnexpectedCall
	}
	return f.purgeAllFn(ctx)
}

func (f *fakeBackend) ParsePath(ctx context.Context, path string) (*dstupath.ParsedPath, error) {
	f.record("ParsePath")
	if f.parsePathFn == nil {
		return nil, errUnexpectedCall
	}
	return f.parsePathFn(ctx, path)
}

func (f *fakeBackend) BuildPath(ctx context.Context, folderID *string, resourceID string) (string, error) {
	f.record("BuildPath")
	return "", errUnexpectedCall
}

func (f *fakeBackend) GetResourceLocation(ctx context.Context, id string) (*models.ResourceLocation, error) {
	f.record("GetResourceLocation")
	if f.getResourceLocationFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getResourceLocationFn(ctx, id)
}

func (f *fakeBackend) GetResourceByPath(ctx context.Context, path string) (*models.ResourceLocation, error) {
	f.record("GetResourceByPath")
	if f.getResourceByPathFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getResourceByPathFn(ctx, path)
}

func (f *fakeBackend) MoveToFolder(ctx context.Context, id string, targetFolderID *string) (*models.ResourceLocation, error) {
	f.record("MoveToFolder")
	if f.moveToFolderFn == nil {
		return nil, errUnexpectedCall
	}
	return f.moveToFolderFn(ctx, id, targetFolderID)
}

func (f *fakeBackend) RefreshPathCache(ctx context.Context, id *string) (int, error) {
	f.record("RefreshPathCache")
	return 0, errUnexpectedCall
}

func (f *fakeBackend) GetPathByID(ctx context.Context, id string) (string, error) {
	f.record("GetPathByID")
	return "", errUnexpectedCall
}

// eventRecorder collects invalidation events delivered by the registry.
type eventRecorder struct {
	mu     sync.Mutex
	events []cache.Event
}

func (r *eventRecorder) collect(ev cache.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) all() []cache.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cache.Event(nil), r.events...)
}

func (r *eventRecorder) invalidatedIDs() []string {
	var ids []string
	for _, ev := range r.all() {
		ids = append(ids, ev.IDs...)
	}
	return ids
}

func newInvalidatorForTest() (*cache.Invalidator, *eventRecorder) {
	logger := discardLogger()
	registry := cache.NewRegistry(logger)
	rec := &eventRecorder{}
	registry.Subscribe(rec.collect)
	return cache.NewInvalidator(registry, logger, true), rec
}

func locationFor(id string) *models.ResourceLocation {
	return &models.ResourceLocation{
		ID:           id,
		ResourceType: dstupath.ResourceTypeOf(id),
		FolderPath:   "/",
		FullPath:     "/" + id,
	}
}

func TestMoveToFolder(t *testing.T) {
	t.Run("success invalidates the moved id", func(t *testing.T) {
		fb := newFakeBackend()
		fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
			return locationFor(id), nil
		}
		inv, rec := newInvalidatorForTest()
		svc := NewResourceLocationService(fb, inv, discardLogger())

		loc, err := svc.MoveToFolder(context.Background(), "note_a", nil)
		if err != nil {
			t.Fatalf("MoveToFolder failed: %v", err)
		}
		if loc.ID != "note_a" {
			t.Errorf("expected location for note_a, got %q", loc.ID)
		}

		ids := rec.invalidatedIDs()
		if len(ids) != 1 || ids[0] != "note_a" {
			t.Errorf("expected invalidation of note_a, got %v", ids)
		}
	})

	t.Run("failure leaves the cache untouched", func(t *testing.T) {
		fb := newFakeBackend()
		fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
			return nil, &domain.CircularReferenceError{Message: "folder moved into its own descendant"}
		}
		inv, rec := newInvalidatorForTest()
		svc := NewResourceLocationService(fb, inv, discardLogger())

		_, err := svc.MoveToFolder(context.Background(), "folder_a", nil)
		if !errors.Is(err, domain.ErrCircularRef) {
			t.Fatalf("expected circular reference error, got %v", err)
		}
		if len(rec.all()) != 0 {
			t.Errorf("failed move must not invalidate; got %v", rec.all())
		}
	})

	t.Run("empty id rejected without a backend call", func(t *testing.T) {
		fb := newFakeBackend()
		inv, _ := newInvalidatorForTest()
		svc := NewResourceLocationService(fb, inv, discardLogger())

		_, err := svc.MoveToFolder(context.Background(), "", nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if fb.callCount("MoveToFolder") != 0 {
			t.Error("backend called despite local rejection")
		}
	})
}

func TestBatchMove_PartialFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
		if id == "note_b" {
			return nil, &domain.NotFoundError{Message: "note_b is gone"}
		}
		return locationFor(id), nil
	}
	inv, rec := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	result, err := svc.BatchMove(context.Background(), &models.BatchMoveRequest{
		ItemIDs: []string{"note_a", "note_b", "note_c"},
	})
	if err != nil {
		t.Fatalf("BatchMove failed as a whole: %v", err)
	}

	if result.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", result.TotalCount)
	}
	if len(result.Successes) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(result.Successes))
	}
	if len(result.FailedItems) != 1 {
		t.Fatalf("expected 1 failed item, got %d", len(result.FailedItems))
	}
	if result.FailedItems[0].ItemID != "note_b" {
		t.Errorf("wrong failed item: %+v", result.FailedItems[0])
	}
	if len(result.Successes)+len(result.FailedItems) != result.TotalCount {
		t.Error("successes + failed must equal total")
	}

	// Only the succeeded identifiers are invalidated.
	ids := rec.invalidatedIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 invalidated ids, got %v", ids)
	}
	for _, id := range ids {
		if id == "note_b" {
			t.Error("failed item must not be invalidated")
		}
	}
}

func TestBatchMove_NilLocationTolerated(t *testing.T) {
	fb := newFakeBackend()
	fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
		return nil, nil
	}
	inv, rec := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	result, err := svc.BatchMove(context.Background(), &models.BatchMoveRequest{ItemIDs: []string{"note_a"}})
	if err != nil {
		t.Fatalf("contract violation must degrade to a failed item, got error: %v", err)
	}
	if len(result.FailedItems) != 1 || len(result.Successes) != 0 {
		t.Errorf("expected one failed item, got %+v", result)
	}
	if len(rec.all()) != 0 {
		t.Error("nothing should be invalidated for a contract-violating response")
	}
}

func TestBatchMove_Validation(t *testing.T) {
	fb := newFakeBackend()
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	t.Run("nil request", func(t *testing.T) {
		_, err := svc.BatchMove(context.Background(), nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("empty item id", func(t *testing.T) {
		_, err := svc.BatchMove(context.Background(), &models.BatchMoveRequest{ItemIDs: []string{"note_a", ""}})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if fb.callCount("MoveToFolder") != 0 {
			t.Error("backend called despite invalid request")
		}
	})

	t.Run("empty batch is a successful no-op", func(t *testing.T) {
		result, err := svc.BatchMove(context.Background(), &models.BatchMoveRequest{})
		if err != nil {
			t.Fatalf("empty batch failed: %v", err)
		}
		if result.TotalCount != 0 || len(result.Successes) != 0 || len(result.FailedItems) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}

func TestBatchMove_CancelledContext(t *testing.T) {
	fb := newFakeBackend()
	fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
		return locationFor(id), nil
	}
	inv, rec := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BatchMove(ctx, &models.BatchMoveRequest{ItemIDs: []string{"note_a", "note_b"}})
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("cancellation is a system-level failure of the whole call, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Error("aborted batch must not invalidate")
	}
}

func TestBatchMove_ConcurrencyCap(t *testing.T) {
	var inFlight, peak atomic.Int32

	fb := newFakeBackend()
	fb.moveToFolderFn = func(ctx context.Context, id string, target *string) (*models.ResourceLocation, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return locationFor(id), nil
	}
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = "note_" + string(rune('a'+i))
	}
	result, err := svc.BatchMove(context.Background(), &models.BatchMoveRequest{ItemIDs: ids})
	if err != nil {
		t.Fatalf("BatchMove failed: %v", err)
	}
	if len(result.Successes) != len(ids) {
		t.Errorf("expected %d successes, got %d", len(ids), len(result.Successes))
	}
	if got := peak.Load(); got > int32(config.BatchMoveConcurrency) {
		t.Errorf("observed %d concurrent backend calls, cap is %d", got, config.BatchMoveConcurrency)
	}
}

func TestParsePath_LocalRejection(t *testing.T) {
	fb := newFakeBackend()
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	t.Run("oversized path", func(t *testing.T) {
		long := "/" + strings.Repeat("a", config.MaxPathLength)
		_, err := svc.ParsePath(context.Background(), long)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("malformed path", func(t *testing.T) {
		_, err := svc.ParsePath(context.Background(), "/a//b")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	if fb.callCount("ParsePath") != 0 {
		t.Error("backend consulted for locally rejectable input")
	}
}

func TestParsePath_DelegatesToBackend(t *testing.T) {
	fb := newFakeBackend()
	fb.parsePathFn = func(ctx context.Context, path string) (*dstupath.ParsedPath, error) {
		parsed := dstupath.Parse(path)
		return &parsed, nil
	}
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	parsed, err := svc.ParsePath(context.Background(), "/A/note_x")
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if parsed.ResourceID == nil || *parsed.ResourceID != "note_x" {
		t.Errorf("unexpected parse result: %+v", parsed)
	}
}

func TestResourceExists(t *testing.T) {
	fb := newFakeBackend()
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	t.Run("not found is false, not an error", func(t *testing.T) {
		fb.getResourceLocationFn = func(ctx context.Context, id string) (*models.ResourceLocation, error) {
			return nil, &domain.NotFoundError{Message: "no such resource"}
		}
		exists, err := svc.ResourceExists(context.Background(), "note_gone")
		if err != nil {
			t.Fatalf("ResourceExists failed: %v", err)
		}
		if exists {
			t.Error("expected exists=false")
		}
	})

	t.Run("found", func(t *testing.T) {
		fb.getResourceLocationFn = func(ctx context.Context, id string) (*models.ResourceLocation, error) {
			return locationFor(id), nil
		}
		exists, err := svc.ResourceExists(context.Background(), "note_a")
		if err != nil || !exists {
			t.Errorf("expected (true, nil), got (%v, %v)", exists, err)
		}
	})

	t.Run("system failure propagates", func(t *testing.T) {
		fb.getResourceLocationFn = func(ctx context.Context, id string) (*models.ResourceLocation, error) {
			return nil, &domain.InternalError{Message: "backend unreachable"}
		}
		_, err := svc.ResourceExists(context.Background(), "note_a")
		if !errors.Is(err, domain.ErrInternal) {
			t.Errorf("expected internal error, got %v", err)
		}
	})
}

func TestPathExists(t *testing.T) {
	fb := newFakeBackend()
	fb.getResourceByPathFn = func(ctx context.Context, path string) (*models.ResourceLocation, error) {
		if path == "/present/note_a" {
			return locationFor("note_a"), nil
		}
		return nil, &domain.NotFoundError{Message: "nothing there"}
	}
	inv, _ := newInvalidatorForTest()
	svc := NewResourceLocationService(fb, inv, discardLogger())

	exists, err := svc.PathExists(context.Background(), "/present/note_a")
	if err != nil || !exists {
		t.Errorf("expected (true, nil), got (%v, %v)", exists, err)
	}

	exists, err = svc.PathExists(context.Background(), "/absent/note_b")
	if err != nil || exists {
		t.Errorf("expected (false, nil), got (%v, %v)", exists, err)
	}
}
