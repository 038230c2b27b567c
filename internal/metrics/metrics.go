// Package metrics defines the Prometheus instruments of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vspheremap"

// Metrics holds every instrument. A nil *Metrics is valid and records
// nothing, which keeps callers free of nil checks.
type Metrics struct {
	registry *prometheus.Registry

	collections        *prometheus.CounterVec
	collectionDuration prometheus.Histogram
	snapshotTimestamp  prometheus.Gauge
	graphBuilds        *prometheus.CounterVec
	graphNodes         prometheus.Histogram
	graphEdges         prometheus.Histogram
	httpRequests       *prometheus.CounterVec
}

// New creates the instruments on a fresh registry that also carries the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	sizeBuckets := []float64{1, 2, 5, 10, 25, 50, 100, 250, 500}

	return &Metrics{
		registry: reg,
		// collections counts collection attempts.
		// Labels: status (the resulting collection state)
		collections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Total inventory collection attempts by outcome",
		}, []string{"status"}),
		collectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collection_duration_seconds",
			Help:      "Inventory collection duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		snapshotTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_timestamp_seconds",
			Help:      "Collection time of the snapshot currently served, as a Unix timestamp",
		}),
		// graphBuilds counts scene graph requests.
		// Labels: result (ok, not_found, unsupported, invalid, unavailable, error)
		graphBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Total dependency graph builds by result",
		}, []string{"result"}),
		graphNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in built graphs",
			Buckets:   sizeBuckets,
		}),
		graphEdges: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges in built graphs",
			Buckets:   sizeBuckets,
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method and status code",
		}, []string{"method", "code"}),
	}
}

// ObserveCollection records a finished collection attempt
func (m *Metrics) ObserveCollection(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.collections.WithLabelValues(status).Inc()
	m.collectionDuration.Observe(took.Seconds())
}

// SetSnapshotTime records the collection time of the served snapshot
func (m *Metrics) SetSnapshotTime(t time.Time) {
	if m == nil {
		return
	}
	m.snapshotTimestamp.Set(float64(t.Unix()))
}

// ObserveGraph records a graph build. nodes and edges are ignored unless
// result is "ok".
func (m *Metrics) ObserveGraph(result string, nodes, edges int) {
	if m == nil {
		return
	}
	m.graphBuilds.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.graphNodes.Observe(float64(nodes))
		m.graphEdges.Observe(float64(edges))
	}
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(method string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Graph build results
const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultUnsupported = "unsupported"
	ResultInvalid     = "invalid"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)
