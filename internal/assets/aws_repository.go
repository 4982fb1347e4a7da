package assets

import (
	"context"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

type AWSRepository interface {
	GetPresignedURL(ctx context.Context, input *models.UploadInput) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
	RemoveObjects(ctx context.Context, bucket, prefix string) error
}
