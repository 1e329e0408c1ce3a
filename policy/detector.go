package policy

import (
	"context"
	"time"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
)

// MySQL "server has gone away" and "lost connection during query" client error codes.
const (
	mysqlServerGone = 2006
	mysqlServerLost = 2013
)

// ProbeDetector detects a dead connection by issuing a trivial round trip.
//
// IsDisconnected runs "SELECT 1" on the handle; any failure means the handle
// is disconnected. This works with every driver at the cost of one extra round
// trip per failed statement.
type ProbeDetector struct {
	timeout time.Duration
}

// ProbeDetectorOption configures a ProbeDetector.
type ProbeDetectorOption func(*ProbeDetector)

// WithProbeTimeout bounds the liveness probe.
//
// Default: 5s. Zero disables the bound and uses the caller's context as is.
//
// Parameters:
//   - d: Maximum duration of the probe
//
// Returns:
//   - ProbeDetectorOption: Configuration option
func WithProbeTimeout(d time.Duration) ProbeDetectorOption {
	return func(p *ProbeDetector) {
		p.timeout = d
	}
}

// NewProbeDetector creates a new ProbeDetector.
//
// Parameters:
//   - opts: Optional configuration options
//
// Returns:
//   - *ProbeDetector: A new probe detector
func NewProbeDetector(opts ...ProbeDetectorOption) *ProbeDetector {
	p := &ProbeDetector{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// IsDisconnected pings the handle and reports any failure as a disconnect.
//
// Parameters:
//   - ctx: Context for the probe
//   - conn: The handle to check
//
// Returns:
//   - bool: true if the probe failed
func (p *ProbeDetector) IsDisconnected(ctx context.Context, conn sqladapter.Conn) bool {
	if conn == nil {
		return true
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return conn.PingContext(ctx) != nil
}

// ErrorCodeDetector detects a dead connection from the driver error code of the
// handle's last failure.
//
// No round trip is made. The handle counts as disconnected when its most recent
// failure carries one of the configured codes. Suitable for drivers that report
// lost sessions with a stable code, such as MySQL.
type ErrorCodeDetector struct {
	codes map[int]struct{}
}

// NewErrorCodeDetector creates a detector matching the given driver codes.
//
// Parameters:
//   - codes: Driver error codes that mean the session is gone
//
// Returns:
//   - *ErrorCodeDetector: A new error code detector
func NewErrorCodeDetector(codes ...int) *ErrorCodeDetector {
	d := &ErrorCodeDetector{codes: make(map[int]struct{}, len(codes))}
	for _, code := range codes {
		d.codes[code] = struct{}{}
	}

	return d
}

// NewMySQLGoneAwayDetector returns an ErrorCodeDetector for MySQL error codes 2006 and 2013.
//
// Returns:
//   - *ErrorCodeDetector: A detector for MySQL lost sessions
func NewMySQLGoneAwayDetector() *ErrorCodeDetector {
	return NewErrorCodeDetector(mysqlServerGone, mysqlServerLost)
}

// IsDisconnected compares the code of the handle's last error with the configured codes.
//
// Parameters:
//   - ctx: Unused
//   - conn: The handle to check
//
// Returns:
//   - bool: true if the last error code is a disconnect code
func (d *ErrorCodeDetector) IsDisconnected(_ context.Context, conn sqladapter.Conn) bool {
	if conn == nil {
		return true
	}

	err := conn.LastError()
	if err == nil {
		return false
	}

	_, ok := d.codes[conn.ErrorInfo(err).Code]

	return ok
}
