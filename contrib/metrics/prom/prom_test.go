package prom

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/types"
)

func TestCollector(t *testing.T) {
	c := New(WithNamespace("test"), WithConstLabels(prometheus.Labels{"service": "shop"}))

	c.IncQueryTotal(types.RoleRead)
	c.IncQueryTotal(types.RoleRead)
	c.IncQueryTotal(types.RoleWrite)
	c.IncQueryError(types.RoleWrite)
	c.ObserveQueryDuration(types.RoleRead, 0.01)
	c.IncRetry(types.RoleWrite)
	c.IncReconnect(types.RoleWrite)
	c.IncTransactionCommit()
	c.IncTransactionRollback()

	require.InDelta(t, 2, promtest.ToFloat64(c.queryTotal.WithLabelValues("read")), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.queryTotal.WithLabelValues("write")), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.queryErrors.WithLabelValues("write")), 0)
	require.InDelta(t, 0, promtest.ToFloat64(c.queryErrors.WithLabelValues("read")), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.retries.WithLabelValues("write")), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.reconnects.WithLabelValues("write")), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.commits), 0)
	require.InDelta(t, 1, promtest.ToFloat64(c.rollbacks), 0)

	n, err := promtest.GatherAndCount(c.Registry(), "test_query_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestCollectorHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := New(WithRegistry(registry), WithBuckets([]float64{0.1, 1}))
	require.Same(t, registry, c.Registry())

	c.IncQueryTotal(types.RoleWrite)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	require.Contains(t, body, `simpledb_query_total{role="write"} 1`)
	require.Contains(t, body, `simpledb_query_total{role="read"} 0`)
}
