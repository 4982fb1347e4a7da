package assets

// Executor drives the background processing job of a submitted asset.
type Executor interface {
	// Start schedules a pipeline run for the asset. At most one run per id
	// may be active; a second Start fails with ErrJobActive.
	Start(assetID string) error

	// Cancel stops scheduling further ticks for the asset. Idempotent;
	// reports whether a run was active.
	Cancel(assetID string) bool

	ActiveJobs() int
}
