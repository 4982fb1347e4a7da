package assets

import (
	"context"

	"github.com/cloudstreamhq/studio-backend/internal/enrich"
	"github.com/cloudstreamhq/studio-backend/internal/models"
)

type UseCase interface {
	SubmitAsset(ctx context.Context, input *models.SubmitInput) (*models.AssetRecord, error)
	ResubmitAsset(ctx context.Context, assetID string, input *models.ResubmitInput) (*models.AssetRecord, error)
	DeleteAsset(ctx context.Context, assetID string) error

	GetAsset(ctx context.Context, assetID string) (*models.AssetRecord, error)
	ListAssets(ctx context.Context) ([]*models.AssetRecord, error)
	Stats(ctx context.Context) *models.StorageStats

	EnrichMetadata(ctx context.Context, sourceName string) (*enrich.Suggestion, error)
	GetPresignUrl(ctx context.Context, input *models.UploadInput) (string, error)
}
