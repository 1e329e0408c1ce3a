// Package policy provides disconnect detectors and retry backoff policies for
// the simpledb client.
//
// # Disconnect Detectors
//
// A detector decides whether a connection handle is dead after a transport
// failure. The provider only replaces handles a detector reports as dead.
//
//	type DisconnectDetector interface {
//	    IsDisconnected(ctx context.Context, conn sqladapter.Conn) bool
//	}
//
// Available detectors:
//
//   - [ProbeDetector]: Issues "SELECT 1"; any failure means disconnected (default)
//   - [ErrorCodeDetector]: Compares the code of the handle's last error with a
//     set of "server has gone away" codes, without a round trip
//
// Example:
//
//	provider, _ := simpledb.NewProvider(write, read,
//	    simpledb.WithDisconnectDetector(policy.NewMySQLGoneAwayDetector()),
//	)
//
// # Retry Backoff
//
// A retry policy returns the pause before each retry of a statement that failed
// with a transport error.
//
//	type RetryPolicy interface {
//	    Backoff(attempt int) time.Duration
//	}
//
// Available policies:
//
//   - [FixedBackoff]: The same pause before every retry (default, 1s)
//   - [ExponentialBackoff]: Doubling pauses up to a ceiling
//
// Example:
//
//	client, _ := simpledb.New(write, read,
//	    simpledb.WithRetryPolicy(policy.NewExponentialBackoff(100*time.Millisecond, 2*time.Second)),
//	)
package policy
