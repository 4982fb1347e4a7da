package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/config"
	"github.com/cloudstreamhq/studio-backend/internal/metrics"
	"github.com/cloudstreamhq/studio-backend/internal/models"
	"github.com/cloudstreamhq/studio-backend/internal/notifications"
	"github.com/cloudstreamhq/studio-backend/pkg/logger"
)

const mirrorTimeout = time.Second

// ProgressSource yields the progress advance for one tick. The default source
// models the encode/transfer simulation; a real backend plugs completion
// events from its collaborators in here. A returned error is fatal for the
// job and moves it to the failed state.
type ProgressSource interface {
	Next() (float64, error)
}

type randomSource struct {
	step float64
}

// newRandomSource samples a bounded per-tick rate once per job run.
func newRandomSource() ProgressSource {
	return &randomSource{step: rand.Float64()*2 + 1}
}

func (s *randomSource) Next() (float64, error) {
	return s.step, nil
}

// Executor drives every submitted asset through the processing stages
// concurrently. Each asset gets its own goroutine and ticker, so one job's
// ticks are serialized while different ids progress independently.
type Executor struct {
	cfg       *config.Config
	assetRepo assets.Repository
	redisRepo assets.RedisRepository
	sink      *notifications.Sink
	metrics   *metrics.PipelineMetrics
	logger    logger.Logger

	tick          time.Duration
	sourceFactory func(assetID string) ProgressSource

	mu   sync.Mutex
	jobs map[string]*job

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}

	// completed marks a run that ended on its own (published, failed or
	// record gone). Written by the run goroutine before done closes, so a
	// Cancel that waited on done reads it safely.
	completed bool
}

type Option func(*Executor)

// WithSourceFactory overrides how per-job progress sources are built
// (used in tests and by event-driven backends).
func WithSourceFactory(factory func(assetID string) ProgressSource) Option {
	return func(e *Executor) {
		if factory != nil {
			e.sourceFactory = factory
		}
	}
}

func NewExecutor(
	cfg *config.Config,
	assetRepo assets.Repository,
	redisRepo assets.RedisRepository,
	sink *notifications.Sink,
	pm *metrics.PipelineMetrics,
	log logger.Logger,
	opts ...Option,
) *Executor {
	rootCtx, rootCancel := context.WithCancel(context.Background())
	e := &Executor{
		cfg:           cfg,
		assetRepo:     assetRepo,
		redisRepo:     redisRepo,
		sink:          sink,
		metrics:       pm,
		logger:        log,
		tick:          time.Duration(cfg.Pipeline.TickIntervalMs) * time.Millisecond,
		sourceFactory: func(string) ProgressSource { return newRandomSource() },
		jobs:          make(map[string]*job),
		rootCtx:       rootCtx,
		rootCancel:    rootCancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ assets.Executor = (*Executor)(nil)

// Start schedules a pipeline run for the asset. At most one run per id.
func (e *Executor) Start(assetID string) error {
	e.mu.Lock()
	if _, active := e.jobs[assetID]; active {
		e.mu.Unlock()
		return errors.Wrapf(assets.ErrJobActive, "asset %s", assetID)
	}
	ctx, cancel := context.WithCancel(e.rootCtx)
	j := &job{cancel: cancel, done: make(chan struct{})}
	e.jobs[assetID] = j
	e.mu.Unlock()

	e.metrics.JobsStarted.Inc()
	e.metrics.ActiveJobs.Inc()
	e.wg.Add(1)
	go e.run(ctx, assetID, j)
	return nil
}

// Cancel stops scheduling further ticks for the asset and waits for its
// goroutine to exit, so no tick for this id runs after Cancel returns.
// Safe to call for ids with no active run. Reports whether the signal
// actually stopped a run; a job that finished on its own in the meantime
// is not a cancellation and is not counted as one.
func (e *Executor) Cancel(assetID string) bool {
	e.mu.Lock()
	j, active := e.jobs[assetID]
	e.mu.Unlock()
	if !active {
		return false
	}
	j.cancel()
	<-j.done
	if j.completed {
		return false
	}
	e.metrics.JobsCancelled.Inc()
	return true
}

func (e *Executor) ActiveJobs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

// Shutdown cancels every active run and waits for their goroutines to exit.
func (e *Executor) Shutdown() {
	e.rootCancel()
	e.wg.Wait()
}

func (e *Executor) run(ctx context.Context, assetID string, j *job) {
	defer func() {
		e.mu.Lock()
		if e.jobs[assetID] == j {
			delete(e.jobs, assetID)
		}
		e.mu.Unlock()
		close(j.done)
		e.metrics.ActiveJobs.Dec()
		e.wg.Done()
	}()

	source := e.sourceFactory(assetID)
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	var progress float64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			delta, err := source.Next()
			if err != nil {
				e.fail(ctx, assetID, err)
				j.completed = true
				return
			}
			progress += delta

			if progress >= 100 {
				e.finalize(ctx, assetID)
				j.completed = true
				return
			}

			visible := int(math.Min(math.Round(progress), 99))
			if err := e.assetRepo.UpdateProgress(ctx, assetID, visible, StatusForProgress(progress)); err != nil {
				// record deleted mid-tick: silent no-op
				if !errors.Is(err, assets.ErrAssetNotFound) {
					e.logger.Warnf("pipeline: progress update for %s: %v", assetID, err)
				}
				j.completed = true
				return
			}
			e.mirror(ctx, assetID)
		}
	}
}

// finalize computes the derived fields and applies the published transition
// in one atomic store operation. It runs at most once per job run.
func (e *Executor) finalize(ctx context.Context, assetID string) {
	rec, err := e.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return
	}

	compressedSize := CompressedSize(rec.OriginalSize, e.cfg.Pipeline.CompressionRatio)
	streamURL := StreamURL(
		e.cfg.S3.PublicDomain,
		models.CategoryFolder(rec.Metadata.Category),
		rec.ID,
	)

	published, err := e.assetRepo.Publish(ctx, assetID, compressedSize, streamURL)
	if err != nil {
		if !errors.Is(err, assets.ErrAssetNotFound) && !errors.Is(err, assets.ErrAlreadyPublished) {
			e.logger.Errorf("pipeline: publish %s: %v", assetID, err)
		}
		return
	}

	e.metrics.JobsPublished.Inc()
	e.logger.Infof("pipeline: asset %s published, %d -> %d bytes, %s",
		assetID, published.OriginalSize, published.CompressedSize, published.StreamURL)
	e.sink.Push(fmt.Sprintf("تم نشر الفيديو \"%s\" بنجاح!", published.SourceName), models.NotificationSuccess)
	e.mirror(ctx, assetID)
}

func (e *Executor) fail(ctx context.Context, assetID string, cause error) {
	if err := e.assetRepo.MarkFailed(ctx, assetID); err != nil {
		return
	}
	e.metrics.JobsFailed.Inc()
	e.logger.Errorf("pipeline: asset %s failed: %v", assetID, cause)

	rec, err := e.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return
	}
	e.sink.Push(fmt.Sprintf("فشلت معالجة الفيديو \"%s\"", rec.SourceName), models.NotificationError)
	e.mirror(ctx, assetID)
}

// mirror pushes the current record into redis for external dashboards.
// Failures are logged and never affect the run.
func (e *Executor) mirror(ctx context.Context, assetID string) {
	if e.redisRepo == nil {
		return
	}
	rec, err := e.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return
	}
	mirrorCtx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := e.redisRepo.SetProgress(mirrorCtx, rec); err != nil {
		e.logger.Warnf("pipeline: redis mirror for %s: %v", assetID, err)
	}
}
