package models

import (
	"time"
)

type AssetStatus string

const (
	StatusPending          AssetStatus = "pending"
	StatusEnrichmentFailed AssetStatus = "enrichment_failed"
	StatusTranscoding      AssetStatus = "processing_transcode"
	StatusUploading        AssetStatus = "uploading"
	StatusPublished        AssetStatus = "published"
	StatusFailed           AssetStatus = "failed"
)

// Terminal reports whether no further automatic transition can occur.
func (s AssetStatus) Terminal() bool {
	return s == StatusPublished || s == StatusFailed || s == StatusEnrichmentFailed
}

type AssetMetadata struct {
	Title       string   `json:"title" redis:"title" validate:"lte=255"`
	Description string   `json:"description" redis:"description" validate:"lte=2000"`
	Tags        []string `json:"tags" redis:"tags" validate:"dive,lte=64"`
	Category    string   `json:"category" redis:"category" validate:"required,lte=64"`
	AIGenerated bool     `json:"ai_generated" redis:"ai_generated"`
	IsShorts    bool     `json:"is_shorts" redis:"is_shorts"`
	CropBottom  int      `json:"crop_bottom_px" redis:"crop_bottom_px" validate:"gte=0,lte=200"`
}

// AssetRecord is one submitted video tracked by the pipeline. Status, progress
// and the derived fields are mutated only through the asset store so readers
// always observe a consistent record.
type AssetRecord struct {
	ID             string        `json:"id" redis:"id"`
	SourceName     string        `json:"source_name" redis:"source_name" validate:"required,lte=255"`
	OriginalSize   int64         `json:"original_size_bytes" redis:"original_size_bytes" validate:"required,gt=0"`
	Metadata       AssetMetadata `json:"metadata" redis:"metadata"`
	Status         AssetStatus   `json:"status" redis:"status"`
	Progress       int           `json:"progress" redis:"progress"`
	CompressedSize int64         `json:"compressed_size_bytes,omitempty" redis:"compressed_size_bytes"`
	StreamURL      string        `json:"stream_url,omitempty" redis:"stream_url"`
	SubmittedAt    time.Time     `json:"submitted_at" redis:"submitted_at"`
	UpdatedAt      time.Time     `json:"updated_at" redis:"updated_at"`
}

type SubmitInput struct {
	SourceName   string        `json:"source_name" validate:"required,lte=255"`
	OriginalSize int64         `json:"original_size_bytes" validate:"required,gt=0"`
	Metadata     AssetMetadata `json:"metadata"`
	AutoEnrich   bool          `json:"auto_enrich"`
}

type ResubmitInput struct {
	Metadata AssetMetadata `json:"metadata"`
}

type EnrichInput struct {
	SourceName string `json:"source_name" validate:"required,lte=255"`
}

// UploadInput describes a presigned source upload request.
type UploadInput struct {
	Name       string `json:"name" validate:"required,lte=255"`
	Size       int64  `json:"size" validate:"required,gt=0"`
	MimeType   string `json:"mime_type" validate:"required,lte=100"`
	BucketName string `json:"-"`
	Key        string `json:"-"`
}

// StorageStats is the accountant's view of published assets against the quota.
type StorageStats struct {
	Count      int     `json:"count"`
	UsedBytes  int64   `json:"used_bytes"`
	QuotaBytes int64   `json:"quota_bytes"`
	Percentage float64 `json:"percentage"`
}
