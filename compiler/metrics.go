package compiler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/syssam/strata/compiler/gen"
)

// Metrics holds the Prometheus metrics of generation runs.
type Metrics struct {
	Runs         *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	Artifacts    *prometheus.CounterVec
	BytesWritten prometheus.Counter
	Modified     prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strata_generation_runs_total",
				Help: "Total number of generation runs",
			},
			[]string{"result"},
		),
		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "strata_generation_run_duration_seconds",
				Help:    "Generation run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		Artifacts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strata_artifacts_total",
				Help: "Total number of artifact decisions",
			},
			[]string{"kind", "action"},
		),
		BytesWritten: f.NewCounter(
			prometheus.CounterOpts{
				Name: "strata_written_bytes_total",
				Help: "Total number of bytes written",
			},
		),
		Modified: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "strata_modified_artifacts",
				Help: "Number of skipped artifacts edited by hand in the last run",
			},
		),
	}
}

// Observe records one generation run. report may be nil if err is set.
func (m *Metrics) Observe(report *gen.Report, err error, took time.Duration) {
	m.RunDuration.Observe(took.Seconds())
	if err != nil {
		m.Runs.WithLabelValues("error").Inc()
	} else {
		m.Runs.WithLabelValues("ok").Inc()
	}
	if report == nil {
		return
	}
	var modified int
	for _, r := range report.Results {
		m.Artifacts.WithLabelValues(r.Kind.String(), r.Action.String()).Inc()
		if r.Modified {
			modified++
		}
	}
	m.BytesWritten.Add(float64(report.Metrics.TotalBytes))
	m.Modified.Set(float64(modified))
}
