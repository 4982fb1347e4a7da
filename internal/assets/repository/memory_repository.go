package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// MemoryRepository is the authoritative asset store. All mutations happen
// under one lock and readers get defensive copies, so no caller can observe
// progress=100 without the derived fields or the reverse.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*models.AssetRecord
	order   []string // newest submissions first

	onChange func(snapshot []models.AssetRecord)
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*models.AssetRecord),
	}
}

var _ assets.Repository = (*MemoryRepository)(nil)

// SetOnChange registers a callback invoked with a fresh snapshot after every
// completed mutation. The callback runs while the store lock is still held,
// so snapshots arrive in mutation order; it must not call back into the
// store. Used by the storage accountant for eager recomputation.
func (m *MemoryRepository) SetOnChange(fn func(snapshot []models.AssetRecord)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *MemoryRepository) Create(ctx context.Context, asset *models.AssetRecord) (*models.AssetRecord, error) {
	m.mu.Lock()
	if _, exists := m.records[asset.ID]; exists {
		m.mu.Unlock()
		return nil, errors.Errorf("asset %s already exists", asset.ID)
	}
	rec := copyRecord(asset)
	now := time.Now()
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = now
	}
	rec.UpdatedAt = now
	m.records[rec.ID] = rec
	m.order = append([]string{rec.ID}, m.order...)
	out := copyRecord(rec)
	m.notifyLocked()
	m.mu.Unlock()
	return out, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, assetID string) (*models.AssetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[assetID]
	if !ok {
		return nil, assets.ErrAssetNotFound
	}
	return copyRecord(rec), nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]*models.AssetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.AssetRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyRecord(m.records[id]))
	}
	return out, nil
}

func (m *MemoryRepository) UpdateProgress(ctx context.Context, assetID string, progress int, status models.AssetStatus) error {
	m.mu.Lock()
	rec, ok := m.records[assetID]
	if !ok {
		m.mu.Unlock()
		return assets.ErrAssetNotFound
	}
	if rec.Status == models.StatusPublished {
		m.mu.Unlock()
		return assets.ErrAlreadyPublished
	}
	// active progress stays below 100 and never goes backwards
	if progress > 99 {
		progress = 99
	}
	if progress > rec.Progress {
		rec.Progress = progress
	}
	rec.Status = status
	rec.UpdatedAt = time.Now()
	m.notifyLocked()
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) Publish(ctx context.Context, assetID string, compressedSize int64, streamURL string) (*models.AssetRecord, error) {
	m.mu.Lock()
	rec, ok := m.records[assetID]
	if !ok {
		m.mu.Unlock()
		return nil, assets.ErrAssetNotFound
	}
	if rec.Status == models.StatusPublished {
		m.mu.Unlock()
		return nil, assets.ErrAlreadyPublished
	}
	rec.Status = models.StatusPublished
	rec.Progress = 100
	rec.CompressedSize = compressedSize
	rec.StreamURL = streamURL
	rec.UpdatedAt = time.Now()
	out := copyRecord(rec)
	m.notifyLocked()
	m.mu.Unlock()
	return out, nil
}

func (m *MemoryRepository) MarkFailed(ctx context.Context, assetID string) error {
	m.mu.Lock()
	rec, ok := m.records[assetID]
	if !ok {
		m.mu.Unlock()
		return assets.ErrAssetNotFound
	}
	if rec.Status == models.StatusPublished {
		m.mu.Unlock()
		return assets.ErrAlreadyPublished
	}
	rec.Status = models.StatusFailed
	rec.UpdatedAt = time.Now()
	m.notifyLocked()
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) ResetForReprocess(ctx context.Context, assetID string, metadata models.AssetMetadata) (*models.AssetRecord, error) {
	m.mu.Lock()
	rec, ok := m.records[assetID]
	if !ok {
		m.mu.Unlock()
		return nil, assets.ErrAssetNotFound
	}
	rec.Metadata = copyMetadata(metadata)
	rec.Status = models.StatusPending
	rec.Progress = 0
	rec.CompressedSize = 0
	rec.StreamURL = ""
	rec.UpdatedAt = time.Now()
	out := copyRecord(rec)
	m.notifyLocked()
	m.mu.Unlock()
	return out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, assetID string) (*models.AssetRecord, error) {
	m.mu.Lock()
	rec, ok := m.records[assetID]
	if !ok {
		m.mu.Unlock()
		return nil, assets.ErrAssetNotFound
	}
	delete(m.records, assetID)
	for i, id := range m.order {
		if id == assetID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	out := copyRecord(rec)
	m.notifyLocked()
	m.mu.Unlock()
	return out, nil
}

// notifyLocked delivers a fresh snapshot to the mutation hook under m.mu.
// Holding the lock across the call is what keeps hook invocations in
// mutation order: two concurrent mutations can never hand their snapshots
// to the hook in the wrong sequence.
func (m *MemoryRepository) notifyLocked() {
	if m.onChange == nil {
		return
	}
	snapshot := make([]models.AssetRecord, 0, len(m.order))
	for _, id := range m.order {
		snapshot = append(snapshot, *copyRecord(m.records[id]))
	}
	m.onChange(snapshot)
}

func copyRecord(rec *models.AssetRecord) *models.AssetRecord {
	out := *rec
	out.Metadata = copyMetadata(rec.Metadata)
	return &out
}

func copyMetadata(md models.AssetMetadata) models.AssetMetadata {
	out := md
	if md.Tags != nil {
		out.Tags = append([]string(nil), md.Tags...)
	}
	return out
}
