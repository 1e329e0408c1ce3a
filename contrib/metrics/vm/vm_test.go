package vm_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/contrib/metrics/vm"
	"github.com/arloliu/simpledb/types"
)

func TestCollector(t *testing.T) {
	c := vm.New(vm.WithPrefix("test"), vm.WithMetricsSet(metrics.NewSet()))

	c.IncQueryTotal(types.RoleRead)
	c.IncQueryTotal(types.RoleRead)
	c.IncQueryTotal(types.RoleWrite)
	c.IncQueryError(types.RoleWrite)
	c.ObserveQueryDuration(types.RoleWrite, 0.25)
	c.IncRetry(types.RoleRead)
	c.IncReconnect(types.RoleRead)
	c.IncTransactionCommit()
	c.IncTransactionRollback()
	c.IncTransactionRollback()

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	require.Contains(t, out, `test_query_total{role="read"} 2`)
	require.Contains(t, out, `test_query_total{role="write"} 1`)
	require.Contains(t, out, `test_query_errors_total{role="write"} 1`)
	require.Contains(t, out, `test_query_errors_total{role="read"} 0`)
	require.Contains(t, out, `test_query_duration_seconds_count{role="write"} 1`)
	require.Contains(t, out, `test_retries_total{role="read"} 1`)
	require.Contains(t, out, `test_reconnects_total{role="read"} 1`)
	require.Contains(t, out, `test_transaction_commits_total 1`)
	require.Contains(t, out, `test_transaction_rollbacks_total 2`)
}

func TestCollectorHandler(t *testing.T) {
	c := vm.New(vm.WithMetricsSet(metrics.NewSet()))
	c.IncQueryTotal(types.RoleWrite)

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Contains(t, rec.Body.String(), `simpledb_query_total{role="write"} 1`)
	require.NotNil(t, c.Set())
}
