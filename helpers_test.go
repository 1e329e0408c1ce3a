package simpledb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/test/testutil"
)

// recordingSleeper records requested pauses without sleeping.
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pauses = append(s.pauses, d)
	if s.err != nil {
		return s.err
	}

	return ctx.Err()
}

func (s *recordingSleeper) Pauses() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Duration, len(s.pauses))
	copy(out, s.pauses)

	return out
}

type testEnv struct {
	client  *Client
	write   *testutil.MockFactory
	read    *testutil.MockFactory
	logger  *testutil.RecordingLogger
	metrics *testutil.TestMetricsCollector
	sleeper *recordingSleeper
}

// newTestEnv creates a client over mock factories. withRead adds a read factory.
func newTestEnv(t *testing.T, withRead bool, opts ...Option) *testEnv {
	t.Helper()

	env := &testEnv{
		write:   testutil.NewMockFactory("write"),
		logger:  testutil.NewRecordingLogger(),
		metrics: testutil.NewTestMetricsCollector(),
		sleeper: &recordingSleeper{},
	}

	all := append([]Option{
		WithLogger(env.logger),
		WithMetrics(env.metrics),
		WithSleeper(env.sleeper.Sleep),
	}, opts...)

	var err error
	if withRead {
		env.read = testutil.NewMockFactory("read")
		env.client, err = New(env.write.Factory(), env.read.Factory(), all...)
	} else {
		env.client, err = New(env.write.Factory(), nil, all...)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.client.Close() })

	return env
}

// writeConn returns the current write handle as a mock.
func (e *testEnv) writeConn(t *testing.T) *testutil.MockConn {
	t.Helper()

	conn, err := e.client.Provider().WriteConn(t.Context())
	require.NoError(t, err)

	mock, ok := conn.(*testutil.MockConn)
	require.True(t, ok)

	return mock
}
