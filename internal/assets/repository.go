package assets

import (
	"context"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// Repository is the authoritative store of asset records. It is the single
// mutation point for status, progress and the derived fields; implementations
// must hand out copies so a reader never sees a half-applied publish.
type Repository interface {
	Create(ctx context.Context, asset *models.AssetRecord) (*models.AssetRecord, error)
	GetByID(ctx context.Context, assetID string) (*models.AssetRecord, error)
	List(ctx context.Context) ([]*models.AssetRecord, error)

	// UpdateProgress advances an active job. Progress never decreases and is
	// capped below 100; only Publish pins it at 100.
	UpdateProgress(ctx context.Context, assetID string, progress int, status models.AssetStatus) error

	// Publish atomically sets status=published, progress=100 and both derived
	// fields. A second publish for the same run fails with ErrAlreadyPublished.
	Publish(ctx context.Context, assetID string, compressedSize int64, streamURL string) (*models.AssetRecord, error)

	MarkFailed(ctx context.Context, assetID string) error

	// ResetForReprocess prepares a record for another pipeline run: metadata
	// replaced, status back to pending, progress zeroed, derived fields cleared.
	ResetForReprocess(ctx context.Context, assetID string, metadata models.AssetMetadata) (*models.AssetRecord, error)

	// Delete removes the record and returns its last state, or ErrAssetNotFound.
	Delete(ctx context.Context, assetID string) (*models.AssetRecord, error)
}
