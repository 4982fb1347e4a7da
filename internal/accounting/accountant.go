package accounting

import (
	"sync"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// Recompute derives aggregate storage usage from a snapshot of asset records.
// Only published assets count; each contributes its compressed size, falling
// back to the original size if a record ever carries none. The percentage is
// clamped to 100.
func Recompute(records []models.AssetRecord, quotaBytes int64) models.StorageStats {
	stats := models.StorageStats{QuotaBytes: quotaBytes}
	for _, rec := range records {
		if rec.Status != models.StatusPublished {
			continue
		}
		stats.Count++
		size := rec.CompressedSize
		if size == 0 {
			size = rec.OriginalSize
		}
		stats.UsedBytes += size
	}
	if quotaBytes > 0 {
		pct := float64(stats.UsedBytes) / float64(quotaBytes) * 100
		if pct > 100 {
			pct = 100
		}
		stats.Percentage = pct
	}
	return stats
}

// Accountant keeps the latest storage stats, recomputed eagerly on every
// store mutation via the repository's change hook.
type Accountant struct {
	mu     sync.RWMutex
	quota  int64
	latest models.StorageStats
}

func NewAccountant(quotaBytes int64) *Accountant {
	return &Accountant{
		quota:  quotaBytes,
		latest: models.StorageStats{QuotaBytes: quotaBytes},
	}
}

// Recalculate is wired as the asset store's mutation hook.
func (a *Accountant) Recalculate(snapshot []models.AssetRecord) {
	stats := Recompute(snapshot, a.quota)
	a.mu.Lock()
	a.latest = stats
	a.mu.Unlock()
}

// Stats returns the usage computed at the last completed mutation.
func (a *Accountant) Stats() models.StorageStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}
