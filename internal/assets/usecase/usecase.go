package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cloudstreamhq/studio-backend/internal/accounting"
	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/config"
	"github.com/cloudstreamhq/studio-backend/internal/enrich"
	"github.com/cloudstreamhq/studio-backend/internal/models"
	"github.com/cloudstreamhq/studio-backend/internal/notifications"
	"github.com/cloudstreamhq/studio-backend/pkg/logger"
	"github.com/cloudstreamhq/studio-backend/pkg/utils"
)

type assetUC struct {
	cfg        *config.Config
	assetRepo  assets.Repository
	redisRepo  assets.RedisRepository
	awsRepo    assets.AWSRepository
	executor   assets.Executor
	enricher   enrich.Enricher
	accountant *accounting.Accountant
	sink       *notifications.Sink
	logger     logger.Logger
}

func NewAssetUseCase(
	cfg *config.Config,
	assetRepo assets.Repository,
	redisRepo assets.RedisRepository,
	awsRepo assets.AWSRepository,
	executor assets.Executor,
	enricher enrich.Enricher,
	accountant *accounting.Accountant,
	sink *notifications.Sink,
	log logger.Logger,
) assets.UseCase {
	return &assetUC{
		cfg:        cfg,
		assetRepo:  assetRepo,
		redisRepo:  redisRepo,
		awsRepo:    awsRepo,
		executor:   executor,
		enricher:   enricher,
		accountant: accountant,
		sink:       sink,
		logger:     log,
	}
}

func (u *assetUC) SubmitAsset(ctx context.Context, input *models.SubmitInput) (*models.AssetRecord, error) {
	if input == nil {
		return nil, fmt.Errorf("invalid input: input is nil")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("SubmitAsset - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}

	if u.cfg.Pipeline.MaxCPUUsage > 0 {
		if ok, usage := utils.CheckCPUUsage(u.cfg.Pipeline.MaxCPUUsage); !ok {
			u.logger.Warnf("SubmitAsset - host CPU usage high: %.2f%%", usage)
		}
	}

	metadata := input.Metadata
	status := models.StatusPending
	if input.AutoEnrich {
		suggestion, err := u.enricher.Enrich(ctx, input.SourceName)
		if err != nil {
			// the asset is kept out of the pipeline until the user retries
			// or fills the metadata in manually
			u.logger.Errorf("SubmitAsset - enrichment failed for %s: %v", input.SourceName, err)
			u.sink.Push(fmt.Sprintf("فشل توليد البيانات للفيديو \"%s\"", input.SourceName), models.NotificationError)
			status = models.StatusEnrichmentFailed
		} else {
			metadata.Title = suggestion.Title
			metadata.Description = suggestion.Description
			metadata.Tags = suggestion.Tags
			metadata.AIGenerated = true
		}
	}

	record := &models.AssetRecord{
		ID:           uuid.New().String(),
		SourceName:   input.SourceName,
		OriginalSize: input.OriginalSize,
		Metadata:     metadata,
		Status:       status,
		Progress:     0,
	}
	created, err := u.assetRepo.Create(ctx, record)
	if err != nil {
		u.logger.Errorf("SubmitAsset - Create error: %v", err)
		return nil, err
	}

	if created.Status == models.StatusPending {
		if err := u.executor.Start(created.ID); err != nil {
			u.logger.Errorf("SubmitAsset - Start error for %s: %v", created.ID, err)
			return nil, fmt.Errorf("failed to start processing: %v", err)
		}
	}
	u.logger.Infof("SubmitAsset - asset %s submitted (%s, %d bytes)", created.ID, created.SourceName, created.OriginalSize)
	return created, nil
}

func (u *assetUC) ResubmitAsset(ctx context.Context, assetID string, input *models.ResubmitInput) (*models.AssetRecord, error) {
	if assetID == "" {
		return nil, fmt.Errorf("invalid asset id: cannot be empty")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("ResubmitAsset - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}

	u.executor.Cancel(assetID)

	record, err := u.assetRepo.ResetForReprocess(ctx, assetID, input.Metadata)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			return nil, fmt.Errorf("asset not found")
		}
		u.logger.Errorf("ResubmitAsset - ResetForReprocess error: %v", err)
		return nil, fmt.Errorf("failed to resubmit asset: %v", err)
	}

	if err := u.executor.Start(assetID); err != nil {
		u.logger.Errorf("ResubmitAsset - Start error for %s: %v", assetID, err)
		return nil, fmt.Errorf("failed to restart processing: %v", err)
	}
	u.logger.Infof("ResubmitAsset - asset %s re-entered the pipeline", assetID)
	return record, nil
}

func (u *assetUC) DeleteAsset(ctx context.Context, assetID string) error {
	if assetID == "" {
		return fmt.Errorf("invalid asset id: cannot be empty")
	}

	u.executor.Cancel(assetID)

	record, err := u.assetRepo.Delete(ctx, assetID)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			// deleting a nonexistent asset is a no-op
			return nil
		}
		u.logger.Errorf("DeleteAsset - Delete error: %v", err)
		return fmt.Errorf("failed to delete asset: %v", err)
	}

	if u.redisRepo != nil {
		if err := u.redisRepo.RemoveProgress(ctx, assetID); err != nil {
			u.logger.Warnf("DeleteAsset - RemoveProgress error for %s: %v", assetID, err)
		}
	}
	if record.Status == models.StatusPublished && u.awsRepo != nil {
		prefix := fmt.Sprintf("videos/%s/%s/", models.CategoryFolder(record.Metadata.Category), assetID)
		if err := u.awsRepo.RemoveObjects(ctx, u.cfg.S3.Bucket, prefix); err != nil {
			u.logger.Warnf("DeleteAsset - RemoveObjects error for %s: %v", assetID, err)
		}
	}

	u.sink.Push("تم حذف الفيديو من المستودع بنجاح", models.NotificationSuccess)
	u.logger.Infof("DeleteAsset - asset %s removed", assetID)
	return nil
}

func (u *assetUC) GetAsset(ctx context.Context, assetID string) (*models.AssetRecord, error) {
	if assetID == "" {
		return nil, fmt.Errorf("invalid asset id: cannot be empty")
	}
	record, err := u.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			return nil, fmt.Errorf("asset not found")
		}
		u.logger.Errorf("GetAsset - GetByID error: %v", err)
		return nil, fmt.Errorf("failed to fetch asset: %v", err)
	}
	return record, nil
}

func (u *assetUC) ListAssets(ctx context.Context) ([]*models.AssetRecord, error) {
	records, err := u.assetRepo.List(ctx)
	if err != nil {
		u.logger.Errorf("ListAssets - List error: %v", err)
		return nil, fmt.Errorf("failed to list assets: %v", err)
	}
	return records, nil
}

func (u *assetUC) Stats(ctx context.Context) *models.StorageStats {
	stats := u.accountant.Stats()
	return &stats
}

func (u *assetUC) EnrichMetadata(ctx context.Context, sourceName string) (*enrich.Suggestion, error) {
	if sourceName == "" {
		return nil, fmt.Errorf("invalid source name: cannot be empty")
	}
	suggestion, err := u.enricher.Enrich(ctx, sourceName)
	if err != nil {
		u.logger.Errorf("EnrichMetadata - Enrich error for %s: %v", sourceName, err)
		return nil, fmt.Errorf("metadata enrichment failed: %v", err)
	}
	return suggestion, nil
}

func (u *assetUC) GetPresignUrl(ctx context.Context, input *models.UploadInput) (string, error) {
	if input == nil {
		return "", fmt.Errorf("invalid input: input is nil")
	}
	if u.awsRepo == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("GetPresignUrl - ValidateStruct error: %v", err)
		return "", err
	}

	input.BucketName = u.cfg.S3.Bucket
	input.Key = fmt.Sprintf("uploads/%s", input.Name)

	u.logger.Infof("Generating presigned URL for key: %s", input.Key)
	url, err := u.awsRepo.GetPresignedURL(ctx, input)
	if err != nil {
		u.logger.Errorf("GetPresignUrl - GetPresignedURL error: %v", err)
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return url, nil
}
