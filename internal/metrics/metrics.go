// Package metrics holds the Prometheus collectors for analyses, supplier
// enrichment and imports, and writes them out in text format for the node
// exporter textfile collector.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rotisserie/eris"
)

// Registry wraps a private Prometheus registry and its collectors.
type Registry struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec
	AnalysisErrors   *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	EnrichLookupsTotal   *prometheus.CounterVec
	EnrichSuppliersTotal prometheus.Counter

	ImportRowsTotal *prometheus.CounterVec
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.AnalysesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_analyses_total",
			Help: "Completed location analyses",
		},
		[]string{"industry", "scale"},
	)
	r.AnalysisErrors = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_analysis_errors_total",
			Help: "Rejected location analyses",
		},
		[]string{"kind"}, // validation, internal
	)
	r.AnalysisDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plant_analysis_duration_seconds",
			Help:    "Time to rank and decorate regions",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.EnrichLookupsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_enrich_lookups_total",
			Help: "Supplier lookups per region by outcome",
		},
		[]string{"result"}, // ok, error, timeout
	)
	r.EnrichSuppliersTotal = f.NewCounter(
		prometheus.CounterOpts{
			Name: "plant_enrich_suppliers_total",
			Help: "Suppliers attached to recommended regions",
		},
	)

	r.ImportRowsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_import_rows_total",
			Help: "Supplier file rows by outcome",
		},
		[]string{"result"}, // imported, skipped
	)

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordAnalysis counts a completed analysis and its duration.
func (r *Registry) RecordAnalysis(industry, scale string, d time.Duration) {
	r.AnalysesTotal.WithLabelValues(industry, scale).Inc()
	r.AnalysisDuration.Observe(d.Seconds())
}

// RecordAnalysisError counts a rejected analysis.
func (r *Registry) RecordAnalysisError(kind string) {
	r.AnalysisErrors.WithLabelValues(kind).Inc()
}

// RecordLookup counts one supplier lookup outcome and the suppliers found.
func (r *Registry) RecordLookup(result string, suppliers int) {
	r.EnrichLookupsTotal.WithLabelValues(result).Inc()
	if suppliers > 0 {
		r.EnrichSuppliersTotal.Add(float64(suppliers))
	}
}

// RecordImport counts imported and skipped supplier rows.
func (r *Registry) RecordImport(imported, skipped int) {
	r.ImportRowsTotal.WithLabelValues("imported").Add(float64(imported))
	r.ImportRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// WriteTextfile atomically writes all metrics to path in Prometheus text
// format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return eris.Wrapf(err, "metrics: write textfile %s", path)
	}
	return nil
}
