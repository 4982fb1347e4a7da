package assets

import "github.com/pkg/errors"

var (
	// ErrAssetNotFound is returned for lookups and mutations against an id
	// that is not (or no longer) in the store.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrJobActive is returned when a pipeline run is requested for an id
	// that already has one in flight.
	ErrJobActive = errors.New("asset already has an active pipeline job")

	// ErrAlreadyPublished guards the publish finalization against running twice.
	ErrAlreadyPublished = errors.New("asset already published")
)
