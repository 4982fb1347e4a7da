package pipeline

import (
	"fmt"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// Progress thresholds collapsing the encode and transfer stages onto one
// scalar. Between the upload threshold and 100 the job stays in uploading.
const (
	transcodeUntil = 50
	uploadUntil    = 90
)

// StatusForProgress maps an in-flight progress value to its pipeline stage.
// The published transition is not derived here; it is applied atomically by
// the finalize step together with the derived fields.
func StatusForProgress(p float64) models.AssetStatus {
	if p < transcodeUntil {
		return models.StatusTranscoding
	}
	return models.StatusUploading
}

// StreamURL builds the public HLS manifest location for a published asset:
// DOMAIN/videos/CATEGORY_FOLDER/ASSET_ID/index.m3u8.
func StreamURL(domain, categoryFolder, assetID string) string {
	return fmt.Sprintf("%s/videos/%s/%s/index.m3u8", domain, categoryFolder, assetID)
}

// CompressedSize models the high-compression encode output size.
func CompressedSize(originalSize int64, ratio float64) int64 {
	return int64(float64(originalSize) * ratio)
}
