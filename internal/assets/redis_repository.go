package assets

import (
	"context"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// RedisRepository mirrors live job state into redis so dashboards on other
// processes can follow progress without hitting the API. The in-memory
// Repository stays authoritative; mirror writes are best effort.
type RedisRepository interface {
	SetProgress(ctx context.Context, asset *models.AssetRecord) error
	RemoveProgress(ctx context.Context, assetID string) error
}
