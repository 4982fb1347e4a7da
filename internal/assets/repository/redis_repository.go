package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/models"
)

const (
	progressKeyPrefix  = "asset:progress:"
	assetEventsChannel = "asset_events"
	progressTTL        = 24 * time.Hour
)

type assetRedisRepo struct {
	redisClient *redis.Client
}

func NewAssetRedisRepo(redisClient *redis.Client) assets.RedisRepository {
	return &assetRedisRepo{
		redisClient: redisClient,
	}
}

func (r *assetRedisRepo) SetProgress(ctx context.Context, asset *models.AssetRecord) error {
	payload, err := json.Marshal(asset)
	if err != nil {
		return errors.Wrap(err, "marshal asset")
	}

	key := progressKeyPrefix + asset.ID
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"progress":   asset.Progress,
		"status":     string(asset.Status),
		"asset_data": string(payload),
	})
	pipe.Expire(ctx, key, progressTTL)
	pipe.Publish(ctx, assetEventsChannel, string(payload))
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "set progress")
	}
	return nil
}

func (r *assetRedisRepo) RemoveProgress(ctx context.Context, assetID string) error {
	if err := r.redisClient.Del(ctx, progressKeyPrefix+assetID).Err(); err != nil {
		return errors.Wrap(err, "remove progress")
	}
	return nil
}
