package simpledb

import (
	"context"
	"errors"
	"sync"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// Provider owns the write handle and the optional read handle.
//
// Handles are created lazily by the factories, once per handle generation, and
// replaced wholesale when Reconnect finds them dead. Nothing else creates or
// mutates them. A mutex guards replacement so concurrent callers cannot both
// replace the same dead handle.
type Provider struct {
	writeFactory sqladapter.Factory
	readFactory  sqladapter.Factory
	detector     DisconnectDetector
	logger       types.Logger
	metrics      types.MetricsCollector

	mu     sync.Mutex
	write  sqladapter.Conn
	read   sqladapter.Conn
	closed bool
}

// NewProvider creates a new connection provider.
//
// No connection is opened until the first statement needs one.
// Only the Logger, Metrics and DisconnectDetector settings of the options apply.
//
// Parameters:
//   - write: Factory for the write handle (required)
//   - read: Factory for the read handle (optional, nil routes reads to the write handle)
//   - opts: Optional configuration options
//
// Returns:
//   - *Provider: A new provider
//   - error: ErrNilFactory if write is nil
func NewProvider(write, read sqladapter.Factory, opts ...Option) (*Provider, error) {
	if write == nil {
		return nil, types.ErrNilFactory
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	config.normalize()

	return &Provider{
		writeFactory: write,
		readFactory:  read,
		detector:     config.DisconnectDetector,
		logger:       config.Logger,
		metrics:      config.Metrics,
	}, nil
}

// HasReadReplica reports whether a read factory was configured.
func (p *Provider) HasReadReplica() bool {
	return p.readFactory != nil
}

// Conn returns the handle a statement should run on.
//
// Statements starting with SELECT (after trimming, case-insensitive) go to the
// read handle; anything else, including an empty statement, goes to the write
// handle. Without a read factory the read handle is the write handle and the
// reported role is RoleWrite.
//
// Parameters:
//   - ctx: Context for a lazy connect
//   - sql: The statement text
//
// Returns:
//   - sqladapter.Conn: The handle
//   - types.Role: The role of the handle
//   - error: Factory error, or ErrClientClosed after Close
func (p *Provider) Conn(ctx context.Context, sql string) (sqladapter.Conn, types.Role, error) {
	if types.IsReadStatement(sql) && p.readFactory != nil {
		conn, err := p.ReadConn(ctx)
		return conn, types.RoleRead, err
	}

	conn, err := p.WriteConn(ctx)

	return conn, types.RoleWrite, err
}

// WriteConn returns the write handle, creating it on first use.
//
// Parameters:
//   - ctx: Context for a lazy connect
//
// Returns:
//   - sqladapter.Conn: The write handle
//   - error: Factory error, or ErrClientClosed after Close
func (p *Provider) WriteConn(ctx context.Context) (sqladapter.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, types.ErrClientClosed
	}

	if p.write == nil {
		conn, err := p.open(ctx, p.writeFactory)
		if err != nil {
			return nil, err
		}
		p.write = conn
	}

	return p.write, nil
}

// ReadConn returns the read handle, creating it on first use.
//
// Without a read factory this is the write handle; no second connection is opened.
//
// Parameters:
//   - ctx: Context for a lazy connect
//
// Returns:
//   - sqladapter.Conn: The read handle
//   - error: Factory error, or ErrClientClosed after Close
func (p *Provider) ReadConn(ctx context.Context) (sqladapter.Conn, error) {
	if p.readFactory == nil {
		return p.WriteConn(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, types.ErrClientClosed
	}

	if p.read == nil {
		conn, err := p.open(ctx, p.readFactory)
		if err != nil {
			return nil, err
		}
		p.read = conn
	}

	return p.read, nil
}

// IsDisconnected reports whether conn is dead according to the configured detector.
//
// Parameters:
//   - ctx: Context for any round trip the detector makes
//   - conn: The handle to check
//
// Returns:
//   - bool: true if the handle is dead
func (p *Provider) IsDisconnected(ctx context.Context, conn sqladapter.Conn) bool {
	return p.detector.IsDisconnected(ctx, conn)
}

// Reconnect replaces conn with a fresh handle if it is dead.
//
// It returns false when conn is alive. Otherwise every role conn currently
// holds gets a new handle from its factory and the old handle is closed. A
// stale conn that matches neither current handle is not replaced, but true is
// still returned: the caller can retry, since the current handles were already
// replaced by someone else.
//
// Parameters:
//   - ctx: Context for the liveness check and the factory
//   - conn: The handle that failed
//
// Returns:
//   - bool: true if conn was found dead
//   - error: Factory error, returned unchanged
func (p *Provider) Reconnect(ctx context.Context, conn sqladapter.Conn) (bool, error) {
	if !p.IsDisconnected(ctx, conn) {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, types.ErrClientClosed
	}

	replaced := false

	if p.write != nil && p.write == conn {
		fresh, err := p.open(ctx, p.writeFactory)
		if err != nil {
			return false, err
		}
		p.discard(p.write)
		p.write = fresh
		replaced = true
		p.metrics.IncReconnect(types.RoleWrite)
		p.logger.Warn("replaced disconnected handle", "role", types.RoleWrite)
	}

	if p.read != nil && p.read == conn {
		fresh, err := p.open(ctx, p.readFactory)
		if err != nil {
			return false, err
		}
		p.discard(p.read)
		p.read = fresh
		replaced = true
		p.metrics.IncReconnect(types.RoleRead)
		p.logger.Warn("replaced disconnected handle", "role", types.RoleRead)
	}

	if !replaced {
		p.logger.Debug("disconnected handle is no longer current, nothing replaced")
	}

	return true, nil
}

// InTransaction reports whether the write handle has an open transaction.
// See sqladapter.Conn.InTransaction for what is tracked.
//
// No connection is opened; a provider that has not connected yet is not in a transaction.
func (p *Provider) InTransaction() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.write != nil && p.write.InTransaction()
}

// Close closes both handles. Subsequent calls fail with ErrClientClosed.
//
// Returns:
//   - error: Joined errors from closing the handles
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.write != nil {
		errs = append(errs, p.write.Close())
	}
	if p.read != nil && p.read != p.write {
		errs = append(errs, p.read.Close())
	}
	p.write, p.read = nil, nil

	return errors.Join(errs...)
}

func (p *Provider) open(ctx context.Context, factory sqladapter.Factory) (sqladapter.Conn, error) {
	conn, err := factory(ctx)
	if err != nil {
		return nil, err
	}

	if conn == nil {
		return nil, types.ErrNilConnection
	}

	return conn, nil
}

// discard closes a replaced handle; the handle is dead, so errors are only logged.
func (p *Provider) discard(conn sqladapter.Conn) {
	if err := conn.Close(); err != nil {
		p.logger.Debug("closing replaced handle failed", "error", err)
	}
}
