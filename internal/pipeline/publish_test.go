package pipeline_test

import (
	"testing"

	"github.com/cloudstreamhq/studio-backend/internal/models"
	"github.com/cloudstreamhq/studio-backend/internal/pipeline"
)

func TestStatusForProgress(t *testing.T) {
	tests := []struct {
		progress float64
		want     models.AssetStatus
	}{
		{0, models.StatusTranscoding},
		{49.9, models.StatusTranscoding},
		{50, models.StatusUploading},
		{89.9, models.StatusUploading},
		{90, models.StatusUploading},
		{99.5, models.StatusUploading},
	}
	for _, tt := range tests {
		if got := pipeline.StatusForProgress(tt.progress); got != tt.want {
			t.Errorf("StatusForProgress(%v) = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestStreamURL(t *testing.T) {
	got := pipeline.StreamURL("https://cdn.example.com", "رعب_حقيقي", "abc-123")
	want := "https://cdn.example.com/videos/رعب_حقيقي/abc-123/index.m3u8"
	if got != want {
		t.Fatalf("StreamURL = %q, want %q", got, want)
	}
}

func TestStreamURLDefaultFolder(t *testing.T) {
	folder := models.CategoryFolder("not-a-category")
	got := pipeline.StreamURL("https://cdn.example.com", folder, "abc")
	want := "https://cdn.example.com/videos/عام/abc/index.m3u8"
	if got != want {
		t.Fatalf("StreamURL = %q, want %q", got, want)
	}
}

func TestCompressedSize(t *testing.T) {
	tests := []struct {
		original int64
		ratio    float64
		want     int64
	}{
		{130547712, 0.20, 26109542},
		{1000, 0.20, 200},
		{0, 0.20, 0},
		{5, 0.20, 1},
	}
	for _, tt := range tests {
		if got := pipeline.CompressedSize(tt.original, tt.ratio); got != tt.want {
			t.Errorf("CompressedSize(%d, %v) = %d, want %d", tt.original, tt.ratio, got, tt.want)
		}
	}
}
