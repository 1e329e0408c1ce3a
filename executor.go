package simpledb

import (
	"context"
	"errors"
	"time"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// Execute prepares and executes a statement with the default retry budget.
//
// See ExecuteWithRetries.
func (c *Client) Execute(ctx context.Context, sql string, params types.Params) (*types.Result, error) {
	return c.ExecuteWithRetries(ctx, sql, params, c.config.MaxRetries)
}

// ExecuteWithRetries prepares and executes a statement on the handle chosen by
// the provider.
//
// Placeholders use the ":name" form and are bound, never interpolated. When the
// driver reports a transport failure and retries remain, the client pauses,
// asks the provider to reconnect and, if a handle was found dead, runs the
// statement again with one retry less. Logical failures are never retried.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - maxRetries: Retries allowed after the first attempt
//
// Returns:
//   - *types.Result: The buffered result
//   - error: *types.QueryExecutionError on driver failure, or a factory error
func (c *Client) ExecuteWithRetries(ctx context.Context, sql string, params types.Params, maxRetries int) (*types.Result, error) {
	return c.run(ctx, sql, params, maxRetries, true)
}

// Exec executes a statement without a prepare step, with the default retry budget.
//
// See ExecWithRetries.
func (c *Client) Exec(ctx context.Context, sql string, params types.Params) (*types.Result, error) {
	return c.ExecWithRetries(ctx, sql, params, c.config.MaxRetries)
}

// ExecWithRetries executes a statement directly on the driver.
//
// It follows the routing, retry and logging rules of ExecuteWithRetries. The
// bulk helpers use it for statements whose values are already inlined as
// quoted literals.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - maxRetries: Retries allowed after the first attempt
//
// Returns:
//   - *types.Result: The buffered result
//   - error: *types.QueryExecutionError on driver failure, or a factory error
func (c *Client) ExecWithRetries(ctx context.Context, sql string, params types.Params, maxRetries int) (*types.Result, error) {
	return c.run(ctx, sql, params, maxRetries, false)
}

func (c *Client) run(ctx context.Context, sql string, params types.Params, maxRetries int, prepare bool) (*types.Result, error) {
	if c.closed.Load() {
		return nil, types.ErrClientClosed
	}

	attempt := 0
	for {
		conn, role, err := c.provider.Conn(ctx, sql)
		if err != nil {
			return nil, err
		}

		res, err := c.attempt(ctx, conn, role, sql, params, prepare)
		if err == nil {
			return res, nil
		}

		if conn.IsTransportError(err) && maxRetries > 0 {
			attempt++
			c.config.Metrics.IncRetry(role)
			c.config.Logger.Warn("transport failure, reconnecting",
				"sql", sql, "role", role, "attempt", attempt, "retriesLeft", maxRetries, "error", err)

			if serr := c.config.Sleeper(ctx, c.config.RetryPolicy.Backoff(attempt)); serr != nil {
				return nil, c.fail(role, sql, params, conn.ErrorInfo(err), errors.Join(err, serr))
			}

			reconnected, rerr := c.provider.Reconnect(ctx, conn)
			if rerr != nil {
				c.config.Logger.Error("could not reconnect", "role", role, "error", rerr)
				return nil, rerr
			}

			if reconnected {
				maxRetries--
				continue
			}
		}

		return nil, c.fail(role, sql, params, conn.ErrorInfo(err), err)
	}
}

func (c *Client) attempt(ctx context.Context, conn sqladapter.Conn, role types.Role, sql string, params types.Params, prepare bool) (*types.Result, error) {
	var stmt sqladapter.Stmt
	if prepare {
		var err error
		stmt, err = conn.PrepareContext(ctx, sql)
		if err != nil {
			return nil, err
		}
		defer stmt.Close()
	}

	c.logQuery(role, sql, params)

	start := time.Now()
	c.config.Metrics.IncQueryTotal(role)

	var (
		res *types.Result
		err error
	)
	if stmt != nil {
		res, err = stmt.ExecuteContext(ctx, params)
	} else {
		res, err = conn.ExecContext(ctx, sql, params)
	}

	c.config.Metrics.ObserveQueryDuration(role, time.Since(start).Seconds())

	return res, err
}

func (c *Client) logQuery(role types.Role, sql string, params types.Params) {
	c.config.Logger.Debug("executing query", "sql", sql, "params", params, "role", role)

	if ref := c.queryLogger.Load(); ref != nil {
		ref.logger.Info(types.ResolveQuery(sql, params))
	}
}

func (c *Client) fail(role types.Role, sql string, params types.Params, info types.ErrorInfo, cause error) error {
	c.config.Metrics.IncQueryError(role)
	c.config.Logger.Error("could not execute query",
		"sql", sql,
		"params", types.EncodeParams(params),
		"sqlState", info.SQLState,
		"code", info.Code,
		"message", info.MessageOrBlank(),
	)

	return &types.QueryExecutionError{SQL: sql, Params: params, Info: info, Cause: cause}
}
