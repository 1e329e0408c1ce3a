package simpledb

import (
	"context"

	"github.com/google/uuid"
)

// StartTransaction issues START TRANSACTION on the write handle.
func (c *Client) StartTransaction(ctx context.Context) error {
	_, err := c.Execute(ctx, "START TRANSACTION", nil)
	return err
}

// CommitTransaction issues COMMIT on the write handle.
func (c *Client) CommitTransaction(ctx context.Context) error {
	if _, err := c.Execute(ctx, "COMMIT", nil); err != nil {
		return err
	}
	c.config.Metrics.IncTransactionCommit()

	return nil
}

// RollbackTransaction issues ROLLBACK on the write handle.
func (c *Client) RollbackTransaction(ctx context.Context) error {
	if _, err := c.Execute(ctx, "ROLLBACK", nil); err != nil {
		return err
	}
	c.config.Metrics.IncTransactionRollback()

	return nil
}

// InTransaction reports whether the write handle has an open transaction.
//
// The state is inferred from START TRANSACTION, BEGIN, COMMIT and ROLLBACK
// statements executed through the client. It does not see implicit commits
// (DDL, SET autocommit = 1) and it is not set by a BEGIN sent with a row
// accessor such as GetAll. Use RunInTransaction so the client issues the
// control statements itself.
func (c *Client) InTransaction() bool {
	return c.provider.InTransaction()
}

// RunInTransaction runs fn inside a transaction.
//
// The transaction is committed when fn returns nil. When fn returns an error
// or panics, or the commit fails, the transaction is rolled back and the
// original error is returned unchanged, or the panic is re-raised. The rollback
// runs even if ctx was canceled. A failed rollback is logged and does not
// replace the original error.
//
// Nested calls on the same client are not supported: the inner START
// TRANSACTION implicitly commits the outer transaction on MySQL.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - fn: The work to run; it should use the same client
//
// Returns:
//   - error: Error from starting, from fn, or from committing
func (c *Client) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Transactional(ctx, c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}

// Transactional runs fn inside a transaction and returns its result.
//
// It follows the rules of Client.RunInTransaction.
//
// Example:
//
//	id, err := simpledb.Transactional(ctx, client, func(ctx context.Context) (string, error) {
//	    id, err := client.Insert(ctx, "orders", simpledb.Params{"customer": 7})
//	    if err != nil {
//	        return "", err
//	    }
//	    return id, client.Insert(ctx, "order_lines", ...)
//	})
func Transactional[T any](ctx context.Context, c *Client, fn func(ctx context.Context) (T, error)) (result T, err error) {
	txID := uuid.NewString()
	logger := c.config.Logger

	if err := c.StartTransaction(ctx); err != nil {
		return result, err
	}
	logger.Debug("transaction started", "txID", txID)

	committed := false
	defer func() {
		if committed {
			return
		}

		r := recover()
		if rerr := c.RollbackTransaction(context.WithoutCancel(ctx)); rerr != nil {
			logger.Error("could not roll back transaction", "txID", txID, "error", rerr)
		} else {
			logger.Debug("transaction rolled back", "txID", txID)
		}

		if r != nil {
			panic(r)
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.CommitTransaction(ctx); err != nil {
		var zero T
		return zero, err
	}
	committed = true
	logger.Debug("transaction committed", "txID", txID)

	return result, nil
}
