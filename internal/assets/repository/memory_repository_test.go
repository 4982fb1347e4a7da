package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/assets/repository"
	"github.com/cloudstreamhq/studio-backend/internal/models"
)

func newRecord(id, name string, size int64) *models.AssetRecord {
	return &models.AssetRecord{
		ID:           id,
		SourceName:   name,
		OriginalSize: size,
		Status:       models.StatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.SubmittedAt.IsZero() {
		t.Fatal("expected SubmittedAt to be set")
	}

	got, err := repo.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SourceName != "clip.mp4" || got.OriginalSize != 1000 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.Create(ctx, newRecord("a1", "dup.mp4", 1)); err == nil {
		t.Fatal("expected duplicate create to fail")
	}
}

func TestGetMissing(t *testing.T) {
	repo := repository.NewMemoryRepository()
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, assets.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		if _, err := repo.Create(ctx, newRecord(id, id+".mp4", 10)); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	if list[0].ID != "a3" || list[2].ID != "a1" {
		t.Fatalf("expected newest first, got %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestUpdateProgressClampAndMonotonic(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateProgress(ctx, "a1", 150, models.StatusUploading); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "a1")
	if got.Progress != 99 {
		t.Fatalf("expected progress clamped to 99, got %d", got.Progress)
	}

	// a lower value must not move the bar backwards
	if err := repo.UpdateProgress(ctx, "a1", 40, models.StatusTranscoding); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	got, _ = repo.GetByID(ctx, "a1")
	if got.Progress != 99 {
		t.Fatalf("expected progress to stay at 99, got %d", got.Progress)
	}
}

func TestPublishAtomicAndFinal(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	published, err := repo.Publish(ctx, "a1", 200, "https://cdn.example.com/videos/f/a1/index.m3u8")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != models.StatusPublished || published.Progress != 100 {
		t.Fatalf("unexpected published record: %+v", published)
	}
	if published.CompressedSize != 200 || published.StreamURL == "" {
		t.Fatalf("derived fields not applied: %+v", published)
	}

	if _, err := repo.Publish(ctx, "a1", 200, "x"); !errors.Is(err, assets.ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
	if err := repo.UpdateProgress(ctx, "a1", 50, models.StatusUploading); !errors.Is(err, assets.ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished on progress after publish, got %v", err)
	}
	if err := repo.MarkFailed(ctx, "a1"); !errors.Is(err, assets.ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished on fail after publish, got %v", err)
	}
}

func TestResetForReprocess(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Publish(ctx, "a1", 200, "url"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	reset, err := repo.ResetForReprocess(ctx, "a1", models.AssetMetadata{Title: "new title"})
	if err != nil {
		t.Fatalf("ResetForReprocess failed: %v", err)
	}
	if reset.Status != models.StatusPending || reset.Progress != 0 {
		t.Fatalf("expected pending/0 after reset, got %s/%d", reset.Status, reset.Progress)
	}
	if reset.CompressedSize != 0 || reset.StreamURL != "" {
		t.Fatalf("expected derived fields cleared, got %+v", reset)
	}
	if reset.Metadata.Title != "new title" {
		t.Fatalf("expected metadata replaced, got %q", reset.Metadata.Title)
	}
}

func TestDelete(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := repo.Delete(ctx, "a1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != "a1" {
		t.Fatalf("unexpected deleted record: %+v", deleted)
	}
	if _, err := repo.GetByID(ctx, "a1"); !errors.Is(err, assets.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound after delete, got %v", err)
	}
	if _, err := repo.Delete(ctx, "a1"); !errors.Is(err, assets.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound on second delete, got %v", err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d records", len(list))
	}
}

func TestOnChangeHook(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	var calls int
	var lastLen int
	repo.SetOnChange(func(snapshot []models.AssetRecord) {
		calls++
		lastLen = len(snapshot)
	})

	if _, err := repo.Create(ctx, newRecord("a1", "clip.mp4", 1000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.UpdateProgress(ctx, "a1", 10, models.StatusTranscoding); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if _, err := repo.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 hook calls, got %d", calls)
	}
	if lastLen != 0 {
		t.Fatalf("expected empty snapshot after delete, got %d", lastLen)
	}
}

func TestOnChangeSnapshotsArriveInMutationOrder(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	// consumer keeps only the most recently delivered snapshot, like the
	// storage accountant does
	var mu sync.Mutex
	var latest []models.AssetRecord
	repo.SetOnChange(func(snapshot []models.AssetRecord) {
		mu.Lock()
		latest = snapshot
		mu.Unlock()
	})

	const n = 20
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("a%d", i)
		ids = append(ids, id)
		if _, err := repo.Create(ctx, newRecord(id, id+".mp4", 1000)); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	// publish even ids and delete odd ids concurrently; whatever
	// interleaving the scheduler picks, the last delivered snapshot must
	// describe the last completed mutation
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			if i%2 == 0 {
				if _, err := repo.Publish(ctx, id, 200, "url"); err != nil {
					t.Errorf("Publish %s failed: %v", id, err)
				}
			} else {
				if _, err := repo.Delete(ctx, id); err != nil {
					t.Errorf("Delete %s failed: %v", id, err)
				}
			}
		}(i, id)
	}
	wg.Wait()

	current, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(latest) != len(current) {
		t.Fatalf("last snapshot has %d records, store has %d", len(latest), len(current))
	}
	for i := range current {
		if latest[i].ID != current[i].ID || latest[i].Status != current[i].Status {
			t.Fatalf("last snapshot diverges from store at %d: %s/%s vs %s/%s",
				i, latest[i].ID, latest[i].Status, current[i].ID, current[i].Status)
		}
	}
}

func TestReadsReturnCopies(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	rec := newRecord("a1", "clip.mp4", 1000)
	rec.Metadata.Tags = []string{"one"}
	if _, err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "a1")
	got.SourceName = "mutated"
	got.Metadata.Tags[0] = "mutated"

	fresh, _ := repo.GetByID(ctx, "a1")
	if fresh.SourceName != "clip.mp4" || fresh.Metadata.Tags[0] != "one" {
		t.Fatalf("store mutated through a returned copy: %+v", fresh)
	}
}
