// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exports simulation metrics to Prometheus.
//
package metrics

import (
	"net/http"
	"strconv"
	"time"

	ls "github.com/db47h/logicsim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the simulation metrics. It implements logicsim.Recorder.
//
type Registry struct {
	registry *prometheus.Registry

	PropagationsTotal   *prometheus.CounterVec
	PropagationPasses   prometheus.Histogram
	PropagationDuration prometheus.Histogram
	TruthTablesTotal    *prometheus.CounterVec
	TruthTableRows      prometheus.Histogram
	RejectedKindsTotal  prometheus.Counter
}

var _ ls.Recorder = (*Registry)(nil)

// NewRegistry creates a registry with all metrics initialized.
//
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.PropagationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logicsim_propagations_total",
			Help: "Total number of propagation runs",
		},
		[]string{"stable"},
	)
	r.PropagationPasses = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logicsim_propagation_passes",
			Help:    "Number of relaxation passes per propagation run",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
		},
	)
	r.PropagationDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logicsim_propagation_duration_seconds",
			Help:    "Propagation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)
	r.TruthTablesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logicsim_truth_tables_total",
			Help: "Total number of truth table requests",
		},
		[]string{"status"},
	)
	r.TruthTableRows = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logicsim_truth_table_rows",
			Help:    "Number of rows per generated truth table",
			Buckets: prometheus.ExponentialBuckets(2, 4, 8),
		},
	)
	r.RejectedKindsTotal = f.NewCounter(
		prometheus.CounterOpts{
			Name: "logicsim_rejected_kinds_total",
			Help: "Total number of nodes rejected for an unknown component type",
		},
	)
	return r
}

// RecordPropagation implements logicsim.Recorder.
//
func (r *Registry) RecordPropagation(passes int, stable bool, elapsed time.Duration) {
	r.PropagationsTotal.WithLabelValues(strconv.FormatBool(stable)).Inc()
	r.PropagationPasses.Observe(float64(passes))
	r.PropagationDuration.Observe(elapsed.Seconds())
}

// RecordTruthTable implements logicsim.Recorder.
//
func (r *Registry) RecordTruthTable(inputs, rows int, err error) {
	if err != nil {
		r.TruthTablesTotal.WithLabelValues("error").Inc()
		return
	}
	r.TruthTablesTotal.WithLabelValues("success").Inc()
	r.TruthTableRows.Observe(float64(rows))
}

// RecordRejectedKind implements logicsim.Recorder. The tag itself is not
// recorded.
//
func (r *Registry) RecordRejectedKind(tag string) {
	r.RejectedKindsTotal.Inc()
}

// Handler returns an HTTP handler serving the metrics.
//
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
//
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
