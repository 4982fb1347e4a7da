package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/models"
)

var videoNamePattern = regexp.MustCompile(`.+\.(mp4|mkv|avi|mov|wmv|flv|webm|m4v|mpeg|mpg|3gp|ogv|vob|ts|mxf)$`)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) assets.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, input *models.UploadInput) (string, error) {
	if !videoNamePattern.MatchString(input.Name) {
		return "", fmt.Errorf("invalid file format: %s", input.Name)
	}
	putObjectReq, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &input.BucketName,
			Key:           &input.Key,
			ContentLength: &input.Size,
			ContentType:   &input.MimeType,
		},
		s3.WithPresignExpires(60*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign put object : %w", err)
	}
	return putObjectReq.URL, nil
}

func (a *awsRepository) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	res, err := a.client.ListObjectsV2(
		ctx,
		&s3.ListObjectsV2Input{
			Bucket: &bucket,
			Prefix: &prefix,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects : %w", err)
	}
	var keys []string
	for _, obj := range res.Contents {
		keys = append(keys, *obj.Key)
	}
	return keys, nil
}

// RemoveObjects deletes every object under the prefix, i.e. all rendition
// segments and the manifest of a published asset.
func (a *awsRepository) RemoveObjects(ctx context.Context, bucket, prefix string) error {
	keys, err := a.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for i := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: &keys[i]})
	}
	_, err = a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: &bucket,
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("failed to remove objects : %w", err)
	}
	return nil
}
