package simpledb

import (
	"sync/atomic"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// Type aliases for convenience - re-export from types package.
type (
	Role             = types.Role
	Params           = types.Params
	FetchMode        = types.FetchMode
	Row              = types.Row
	Result           = types.Result
	ErrorInfo        = types.ErrorInfo
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export role constants for convenience.
const (
	RoleWrite = types.RoleWrite
	RoleRead  = types.RoleRead
)

// Re-export fetch mode constants for convenience.
const (
	FetchAssoc = types.FetchAssoc
	FetchNum   = types.FetchNum
)

// Client executes statements through a Provider.
//
// Statements are routed by their leading keyword: SELECT goes to the read
// handle, everything else to the write handle. Transport failures are retried
// after a reconnect, up to the configured budget.
//
// Transactions are scoped to the write handle, which is a single session. A
// Client may be shared by goroutines for non-transactional work only.
type Client struct {
	provider    *Provider
	config      *ClientConfig
	queryLogger atomic.Pointer[queryLoggerRef]
	closed      atomic.Bool
}

type queryLoggerRef struct {
	logger types.Logger
}

// NewClient creates a client on top of an existing provider.
//
// Parameters:
//   - provider: The connection provider (required)
//   - opts: Optional configuration options
//
// Returns:
//   - *Client: A new client
//   - error: ErrNilProvider if provider is nil
func NewClient(provider *Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, types.ErrNilProvider
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	config.normalize()

	c := &Client{
		provider: provider,
		config:   config,
	}
	c.SetQueryLogger(config.QueryLogger)

	return c, nil
}

// New creates a provider from the given factories and a client on top of it.
//
// Pass read as nil to run every statement on the write handle.
//
// Parameters:
//   - write: Factory for the write handle (required)
//   - read: Factory for the read handle (optional)
//   - opts: Optional configuration options, shared by provider and client
//
// Returns:
//   - *Client: A new client
//   - error: ErrNilFactory if write is nil
func New(write, read sqladapter.Factory, opts ...Option) (*Client, error) {
	provider, err := NewProvider(write, read, opts...)
	if err != nil {
		return nil, err
	}

	return NewClient(provider, opts...)
}

// Provider returns the connection provider of the client.
func (c *Client) Provider() *Provider {
	return c.provider
}

// SetQueryLogger replaces the query logger. Nil disables query logging.
//
// Parameters:
//   - logger: The new query logger
func (c *Client) SetQueryLogger(logger types.Logger) {
	if logger == nil {
		c.queryLogger.Store(nil)
		return
	}

	c.queryLogger.Store(&queryLoggerRef{logger: logger})
}

// Close closes the client and the handles of its provider.
//
// Returns:
//   - error: The first error returned while closing a handle
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	return c.provider.Close()
}

// IsClosed returns whether the client has been closed.
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
