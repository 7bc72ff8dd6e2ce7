// ABOUTME: Prometheus metrics for ingestion runs, written as a node-exporter textfile.
// ABOUTME: Each Metrics value owns its registry so runs and tests stay isolated.
package ingest

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ingestion progress.
type Metrics struct {
	registry    *prometheus.Registry
	pages       prometheus.Counter
	records     prometheus.Counter
	writes      *prometheus.CounterVec
	failures    prometheus.Counter
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics creates and registers the ingestion metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercises",
			Name:      "pages_committed_total",
			Help:      "Listing pages committed to the store.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercises",
			Name:      "records_total",
			Help:      "Exercise records normalized.",
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exercises",
			Name:      "row_writes_total",
			Help:      "Row write statements applied, by table.",
		}, []string{"table"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercises",
			Name:      "run_failures_total",
			Help:      "Ingestion runs that stopped on an error.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exercises",
			Name:      "page_duration_seconds",
			Help:      "Time to fetch, normalize and commit one page.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "exercises",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}
	m.registry.MustRegister(m.pages, m.records, m.writes, m.failures, m.duration, m.lastSuccess)
	return m
}

func (m *Metrics) observePage(records int, tables map[string]int, elapsed time.Duration) {
	m.pages.Inc()
	m.records.Add(float64(records))
	for table, n := range tables {
		m.writes.WithLabelValues(table).Add(float64(n))
	}
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeRun(err error) {
	if err != nil {
		m.failures.Inc()
		return
	}
	m.lastSuccess.SetToCurrentTime()
}

// WriteTextfile writes the metrics in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
