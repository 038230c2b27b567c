package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	t.Run("counts collections by status", func(t *testing.T) {
		m.ObserveCollection("Success", 2*time.Second)
		m.ObserveCollection("Success", time.Second)
		m.ObserveCollection("Failed", time.Second)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.collections.WithLabelValues("Success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.collections.WithLabelValues("Failed")))
	})

	t.Run("records the snapshot time", func(t *testing.T) {
		at := time.Unix(1700000000, 0)
		m.SetSnapshotTime(at)
		assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.snapshotTimestamp))
	})

	t.Run("counts graph builds by result", func(t *testing.T) {
		m.ObserveGraph(ResultOK, 5, 4)
		m.ObserveGraph(ResultNotFound, 0, 0)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.graphBuilds.WithLabelValues(ResultOK)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.graphBuilds.WithLabelValues(ResultNotFound)))
	})

	t.Run("serves the text exposition", func(t *testing.T) {
		m.ObserveRequest(http.MethodGet, http.StatusOK)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.Contains(body, `vspheremap_http_requests_total{code="200",method="GET"} 1`), body)
		assert.Contains(t, body, "vspheremap_graph_nodes_bucket")
		assert.Contains(t, body, "go_goroutines")
	})
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCollection("Success", time.Second)
		m.SetSnapshotTime(time.Now())
		m.ObserveGraph(ResultOK, 1, 1)
		m.ObserveRequest(http.MethodGet, 200)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
