package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics counts pipeline job outcomes and tracks in-flight runs.
type PipelineMetrics struct {
	JobsStarted   prometheus.Counter
	JobsPublished prometheus.Counter
	JobsCancelled prometheus.Counter
	JobsFailed    prometheus.Counter
	ActiveJobs    prometheus.Gauge
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		JobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_jobs_started_total",
			Help: "Pipeline runs admitted for processing.",
		}),
		JobsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_jobs_published_total",
			Help: "Pipeline runs that reached the published state.",
		}),
		JobsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_jobs_cancelled_total",
			Help: "Pipeline runs cancelled before completion.",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_jobs_failed_total",
			Help: "Pipeline runs that hit a fatal processing error.",
		}),
		ActiveJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_jobs_active",
			Help: "Pipeline runs currently in flight.",
		}),
	}
}
