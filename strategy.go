package simpledb

import (
	"context"
	"time"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
)

// DisconnectDetector decides whether a connection handle is dead.
//
// The provider consults the detector before replacing a handle after a
// transport failure. Detectors are driver-dependent; see policy.ProbeDetector
// and policy.ErrorCodeDetector.
//
// Implementations MUST be safe for concurrent use from multiple goroutines.
type DisconnectDetector interface {
	// IsDisconnected reports whether the handle can no longer be used.
	//
	// Parameters:
	//   - ctx: Context for any round trip the check makes
	//   - conn: The handle to check
	//
	// Returns:
	//   - bool: true if the handle is dead and should be replaced
	IsDisconnected(ctx context.Context, conn sqladapter.Conn) bool
}

// RetryPolicy controls the pause before retrying a statement that failed with
// a transport error.
//
// Implementations MUST be safe for concurrent use from multiple goroutines.
type RetryPolicy interface {
	// Backoff returns the pause before the given retry.
	//
	// Parameters:
	//   - attempt: The retry number, starting at 1
	//
	// Returns:
	//   - time.Duration: The pause before the retry
	Backoff(attempt int) time.Duration
}

// Sleeper pauses for d or until ctx is done, whichever comes first.
//
// It returns ctx.Err() when the context ended the pause.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
