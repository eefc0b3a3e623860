// Package metrics records per-run counters for the build scraper and writes them
// in the Prometheus text format, suitable for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source labels
const (
	SourceDocs      = "docs"
	SourceCommunity = "community"
)

// Skip reasons
const (
	ReasonShape  = "shape"
	ReasonHeader = "header"
	ReasonBuild  = "build"
)

// Recorder owns the collectors for one run
type Recorder struct {
	registry *prometheus.Registry

	documentsFetched *prometheus.CounterVec
	rowsSkipped      *prometheus.CounterVec
	recordsAdded     *prometheus.CounterVec
	tableBuilds      prometheus.Gauge
	fetchDuration    *prometheus.HistogramVec
	lastSuccess      prometheus.Gauge
}

// New creates a Recorder backed by a private registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documentsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spversions_documents_fetched_total",
			Help: "HTML documents fetched, partitioned by source.",
		}, []string{"source"}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spversions_rows_skipped_total",
			Help: "Table rows ignored, partitioned by source and reason.",
		}, []string{"source", "reason"}),
		recordsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spversions_records_added_total",
			Help: "Records written into the build table, partitioned by source.",
		}, []string{"source"}),
		tableBuilds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spversions_table_builds",
			Help: "Number of builds in the persisted table.",
		}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spversions_fetch_duration_seconds",
			Help:    "Wall time per document fetch.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"source"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spversions_last_success_timestamp_seconds",
			Help: "Unix time of the last run that saved the table.",
		}),
	}

	r.registry.MustRegister(
		r.documentsFetched,
		r.rowsSkipped,
		r.recordsAdded,
		r.tableBuilds,
		r.fetchDuration,
		r.lastSuccess,
	)
	return r
}

// Registry returns the registry holding the run's collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// DocumentFetched records one completed fetch
func (r *Recorder) DocumentFetched(source string, took time.Duration) {
	if r == nil {
		return
	}
	r.documentsFetched.WithLabelValues(source).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

// RowSkipped records a row the classifier or build check rejected
func (r *Recorder) RowSkipped(source, reason string) {
	if r == nil {
		return
	}
	r.rowsSkipped.WithLabelValues(source, reason).Inc()
}

// RecordAdded records a record written into the table
func (r *Recorder) RecordAdded(source string) {
	if r == nil {
		return
	}
	r.recordsAdded.WithLabelValues(source).Inc()
}

// TableSaved records the size of the saved table and the save time
func (r *Recorder) TableSaved(builds int, at time.Time) {
	if r == nil {
		return
	}
	r.tableBuilds.Set(float64(builds))
	r.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes all collectors to path in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
