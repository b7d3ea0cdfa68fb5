// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records registry call outcomes, cache effectiveness, and
// pipeline stage sizes for a single run. Metrics live in a private
// prometheus registry and are written in the textfile-collector format at
// the end of the run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides observability for one pipeline run. All methods are
// safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Registry calls by operation and outcome.
	RegistryRequests *prometheus.CounterVec

	// Registry call latency by operation.
	RegistryLatency *prometheus.HistogramVec

	// Discovery calls by backend and outcome.
	DiscoveryRequests *prometheus.CounterVec

	// Cache lookups by kind (profile, institution) and result (hit, miss, error).
	CacheLookups *prometheus.CounterVec

	// Researcher counts at each pipeline stage.
	StageResearchers *prometheus.GaugeVec
}

// New creates a Metrics instance with every collector registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RegistryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sauron_registry_requests_total",
			Help: "Registry API calls by operation and outcome",
		}, []string{"op", "outcome"}),

		RegistryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sauron_registry_request_duration_seconds",
			Help:    "Duration of registry API calls by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"op"}),

		DiscoveryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sauron_discovery_requests_total",
			Help: "Name discovery calls by backend and outcome",
		}, []string{"backend", "outcome"}),

		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sauron_cache_lookups_total",
			Help: "Lookup cache reads by kind and result",
		}, []string{"kind", "result"}),

		StageResearchers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sauron_pipeline_researchers",
			Help: "Researchers present after each pipeline stage",
		}, []string{"stage"}), // stage: discovered, matched, unmatched, expanded, final
	}

	m.registry.MustRegister(
		m.RegistryRequests,
		m.RegistryLatency,
		m.DiscoveryRequests,
		m.CacheLookups,
		m.StageResearchers,
	)
	return m
}

// ObserveRegistry records one registry call.
func (m *Metrics) ObserveRegistry(op, outcome string, d time.Duration) {
	if m != nil {
		m.RegistryRequests.WithLabelValues(op, outcome).Inc()
		m.RegistryLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

// ObserveDiscovery records one discovery call.
func (m *Metrics) ObserveDiscovery(backend, outcome string) {
	if m != nil {
		m.DiscoveryRequests.WithLabelValues(backend, outcome).Inc()
	}
}

// ObserveCache records one cache read.
func (m *Metrics) ObserveCache(kind, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(kind, result).Inc()
	}
}

// SetStage records how many researchers a stage produced.
func (m *Metrics) SetStage(stage string, n int) {
	if m != nil {
		m.StageResearchers.WithLabelValues(stage).Set(float64(n))
	}
}

// WriteTextfile writes all metrics to path in the node_exporter textfile
// collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
