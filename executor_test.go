package simpledb

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/policy"
	"github.com/arloliu/simpledb/test/testutil"
	"github.com/arloliu/simpledb/types"
)

const usersByID = "SELECT * FROM users WHERE id = :id"

// failTransport makes every new handle lose its transport on sql and fail its probe.
func failTransport(f *testutil.MockFactory, sql string) {
	f.OnCreate = func(conn *testutil.MockConn) {
		conn.FailWith(sql, testutil.ErrTransport)
		conn.SetPingError(testutil.ErrTransport)
	}
}

func TestExecutePreparedAndExec(t *testing.T) {
	env := newTestEnv(t, false)
	conn := env.writeConn(t)

	_, err := env.client.Execute(t.Context(), "UPDATE users SET name = :name", Params{"name": "bob"})
	require.NoError(t, err)
	_, err = env.client.Exec(t.Context(), "UPDATE users SET name = 'eve'", nil)
	require.NoError(t, err)

	stmts := conn.Statements()
	require.Len(t, stmts, 2)
	require.True(t, stmts[0].Prepared)
	require.Equal(t, Params{"name": "bob"}, stmts[0].Params)
	require.False(t, stmts[1].Prepared)
	require.Nil(t, stmts[1].Params)
	require.Equal(t, 1, conn.PrepareCount())
}

func TestExecuteLogging(t *testing.T) {
	queries := testutil.NewRecordingLogger()
	env := newTestEnv(t, false, WithQueryLogger(queries))

	_, err := env.client.Execute(t.Context(), "UPDATE users SET name = :name WHERE id = :id", Params{"name": "bob", "id": 7})
	require.NoError(t, err)

	debug := env.logger.Entries("debug")
	require.NotEmpty(t, debug)
	require.Equal(t, "executing query", debug[0].Msg)
	require.Equal(t, "UPDATE users SET name = :name WHERE id = :id", debug[0].Value("sql"))
	require.Equal(t, types.RoleWrite, debug[0].Value("role"))

	info := queries.Entries("info")
	require.Len(t, info, 1)
	require.Equal(t, "UPDATE users SET name = 'bob' WHERE id = '7'", info[0].Msg)

	t.Run("disabled", func(t *testing.T) {
		env.client.SetQueryLogger(nil)
		_, err := env.client.Execute(t.Context(), "SELECT 1", nil)
		require.NoError(t, err)
		require.Len(t, queries.Entries("info"), 1)
	})
}

func TestExecuteRouting(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.client.Execute(t.Context(), usersByID, Params{"id": 1})
	require.NoError(t, err)
	_, err = env.client.Execute(t.Context(), "DELETE FROM users WHERE id = :id", Params{"id": 1})
	require.NoError(t, err)

	require.Equal(t, []string{usersByID}, env.read.Last().SQL())
	require.Equal(t, []string{"DELETE FROM users WHERE id = :id"}, env.write.Last().SQL())
	require.Equal(t, int64(1), env.metrics.GetQueryTotal(types.RoleRead))
	require.Equal(t, int64(1), env.metrics.GetQueryTotal(types.RoleWrite))
}

func TestExecuteLogicalErrorNotRetried(t *testing.T) {
	env := newTestEnv(t, false)
	conn := env.writeConn(t)

	const insert = "INSERT INTO users (id) VALUES (:id)"
	conn.FailWith(insert, testutil.NewDriverError("23000", 1062, "Duplicate entry '1' for key 'PRIMARY'"))

	_, err := env.client.Execute(t.Context(), insert, Params{"id": 1})
	require.Error(t, err)

	var qe *types.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, insert, qe.SQL)
	require.Equal(t, Params{"id": 1}, qe.Params)
	require.Equal(t, "23000", qe.Info.SQLState)
	require.Equal(t, 1062, qe.Info.Code)
	require.True(t, qe.IsConstraintViolation())
	require.Contains(t, err.Error(), `{"id":1}`)
	require.Contains(t, err.Error(), "23000/1062 - Duplicate entry")

	require.Empty(t, env.sleeper.Pauses())
	require.Equal(t, 1, env.write.Calls())
	require.Zero(t, env.metrics.GetRetries(types.RoleWrite))
	require.Equal(t, int64(1), env.metrics.GetQueryErrors(types.RoleWrite))

	errs := env.logger.Entries("error")
	require.Len(t, errs, 1)
	require.Equal(t, "could not execute query", errs[0].Msg)
	require.Equal(t, `{"id":1}`, errs[0].Value("params"))
	require.Equal(t, "23000", errs[0].Value("sqlState"))
	require.Equal(t, 1062, errs[0].Value("code"))
}

func TestExecuteBlankDriverMessage(t *testing.T) {
	env := newTestEnv(t, false)
	env.writeConn(t).FailWith("DO 1", testutil.NewDriverError("42000", 1064, "  "))

	_, err := env.client.Exec(t.Context(), "DO 1", nil)
	require.ErrorContains(t, err, "42000/1064 - (blank)")
	require.ErrorContains(t, err, "with parameters []")
}

func TestExecuteReconnectsOnTransportError(t *testing.T) {
	env := newTestEnv(t, false)
	dead := env.writeConn(t)
	dead.FailWith("UPDATE t SET a = 1", testutil.ErrTransport)
	dead.SetPingError(testutil.ErrTransport)

	res, err := env.client.Execute(t.Context(), "UPDATE t SET a = 1", nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.RowsAffected())

	require.Equal(t, 2, env.write.Calls())
	require.True(t, dead.IsClosed())
	require.Equal(t, []string{"UPDATE t SET a = 1"}, env.write.Last().SQL())
	require.Equal(t, []time.Duration{time.Second}, env.sleeper.Pauses())

	require.Equal(t, int64(1), env.metrics.GetRetries(types.RoleWrite))
	require.Equal(t, int64(1), env.metrics.GetReconnects(types.RoleWrite))
	require.Equal(t, int64(2), env.metrics.GetQueryTotal(types.RoleWrite))
	require.Zero(t, env.metrics.GetQueryErrors(types.RoleWrite))

	warns := env.logger.Entries("warn")
	require.NotEmpty(t, warns)
	require.Equal(t, "transport failure, reconnecting", warns[0].Msg)
	require.Equal(t, 1, warns[0].Value("attempt"))
}

func TestExecuteTransportErrorOnLiveHandle(t *testing.T) {
	env := newTestEnv(t, false)
	env.writeConn(t).FailWith("UPDATE t SET a = 1", testutil.ErrTransport)

	_, err := env.client.Execute(t.Context(), "UPDATE t SET a = 1", nil)

	var qe *types.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	require.ErrorIs(t, err, driver.ErrBadConn)
	require.Equal(t, "HY000", qe.Info.SQLState)
	require.Equal(t, 1, env.write.Calls())
	require.Len(t, env.sleeper.Pauses(), 1)
}

func TestExecuteRetriesExhausted(t *testing.T) {
	const sql = "UPDATE t SET a = 1"

	env := newTestEnv(t, false, WithMaxRetries(2))
	failTransport(env.write, sql)

	_, err := env.client.Execute(t.Context(), sql, nil)

	var qe *types.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	require.ErrorIs(t, err, driver.ErrBadConn)
	require.Equal(t, 3, env.write.Calls())
	require.Equal(t, []time.Duration{time.Second, time.Second}, env.sleeper.Pauses())
	require.Equal(t, int64(2), env.metrics.GetRetries(types.RoleWrite))
	require.Equal(t, int64(3), env.metrics.GetQueryTotal(types.RoleWrite))
	require.Equal(t, int64(1), env.metrics.GetQueryErrors(types.RoleWrite))
}

func TestExecuteExplicitRetryBudget(t *testing.T) {
	const sql = "UPDATE t SET a = 1"

	t.Run("zero", func(t *testing.T) {
		env := newTestEnv(t, false)
		failTransport(env.write, sql)

		_, err := env.client.ExecuteWithRetries(t.Context(), sql, nil, 0)
		require.ErrorIs(t, err, driver.ErrBadConn)
		require.Equal(t, 1, env.write.Calls())
		require.Empty(t, env.sleeper.Pauses())
	})

	t.Run("exec path", func(t *testing.T) {
		env := newTestEnv(t, false)
		failTransport(env.write, sql)

		_, err := env.client.ExecWithRetries(t.Context(), sql, nil, 1)
		require.ErrorIs(t, err, driver.ErrBadConn)
		require.Equal(t, 2, env.write.Calls())
		require.Zero(t, env.write.Last().PrepareCount())
	})
}

func TestExecuteRetryPolicyAttempts(t *testing.T) {
	const sql = "UPDATE t SET a = 1"

	env := newTestEnv(t, false,
		WithMaxRetries(3),
		WithRetryPolicy(policy.NewExponentialBackoff(100*time.Millisecond, time.Second)),
	)
	failTransport(env.write, sql)

	_, err := env.client.Execute(t.Context(), sql, nil)
	require.Error(t, err)
	require.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}, env.sleeper.Pauses())
}

func TestExecuteSleepCanceled(t *testing.T) {
	const sql = "UPDATE t SET a = 1"

	env := newTestEnv(t, false)
	env.sleeper.err = context.Canceled
	failTransport(env.write, sql)

	_, err := env.client.Execute(t.Context(), sql, nil)

	var qe *types.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, driver.ErrBadConn)
	require.Equal(t, 1, env.write.Calls())
}

func TestExecuteReconnectFactoryError(t *testing.T) {
	const sql = "UPDATE t SET a = 1"
	errDial := errors.New("dial tcp: connection refused")

	env := newTestEnv(t, false)
	dead := env.writeConn(t)
	dead.FailWith(sql, testutil.ErrTransport)
	dead.SetPingError(testutil.ErrTransport)
	env.write.SetError(errDial)

	_, err := env.client.Execute(t.Context(), sql, nil)
	require.Same(t, errDial, err)

	errs := env.logger.Entries("error")
	require.Len(t, errs, 1)
	require.Equal(t, "could not reconnect", errs[0].Msg)
}

func TestExecuteReadReconnect(t *testing.T) {
	env := newTestEnv(t, true)
	env.read.OnCreate = func(conn *testutil.MockConn) {
		if conn.Name == "read-1" {
			conn.FailWith(usersByID, testutil.ErrTransport)
			conn.SetPingError(testutil.ErrTransport)
		}
	}

	_, err := env.client.Execute(t.Context(), usersByID, Params{"id": 1})
	require.NoError(t, err)
	require.Equal(t, 2, env.read.Calls())
	require.Zero(t, env.write.Calls())
	require.Equal(t, int64(1), env.metrics.GetReconnects(types.RoleRead))
}

func TestExecuteClosedClient(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.client.Close())
	require.NoError(t, env.client.Close())
	require.True(t, env.client.IsClosed())

	_, err := env.client.Execute(t.Context(), "SELECT 1", nil)
	require.ErrorIs(t, err, types.ErrClientClosed)
	require.Zero(t, env.write.Calls())
}

func TestResolveQuery(t *testing.T) {
	require.Equal(t, "SELECT * FROM t WHERE idx = '2' AND id = '1'",
		ResolveQuery("SELECT * FROM t WHERE idx = :idx AND id = :id", Params{"id": 1, "idx": 2}))
	require.Equal(t, "SELECT 1", ResolveQuery("SELECT 1", nil))
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, SleepContext(t.Context(), time.Millisecond))
	require.NoError(t, SleepContext(t.Context(), 0))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
