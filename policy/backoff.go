package policy

import "time"

// FixedBackoff waits the same delay before every retry.
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff creates a new FixedBackoff.
//
// Parameters:
//   - delay: Pause before every retry; negative values are treated as zero
//
// Returns:
//   - *FixedBackoff: A new fixed backoff policy
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	return &FixedBackoff{delay: max(delay, 0)}
}

// Backoff returns the fixed delay.
//
// Parameters:
//   - attempt: The retry number, starting at 1 (unused)
//
// Returns:
//   - time.Duration: The delay before the retry
func (f *FixedBackoff) Backoff(_ int) time.Duration {
	return f.delay
}

// ExponentialBackoff doubles the delay with every retry up to a ceiling.
type ExponentialBackoff struct {
	base     time.Duration
	maxDelay time.Duration
}

// NewExponentialBackoff creates a new ExponentialBackoff.
//
// Parameters:
//   - base: Delay before the first retry
//   - maxDelay: Upper bound for any delay
//
// Returns:
//   - *ExponentialBackoff: A new exponential backoff policy
func NewExponentialBackoff(base, maxDelay time.Duration) *ExponentialBackoff {
	if maxDelay < base {
		maxDelay = base
	}

	return &ExponentialBackoff{base: base, maxDelay: maxDelay}
}

// Backoff returns base * 2^(attempt-1), capped at the maximum delay.
//
// Parameters:
//   - attempt: The retry number, starting at 1
//
// Returns:
//   - time.Duration: The delay before the retry
func (e *ExponentialBackoff) Backoff(attempt int) time.Duration {
	delay := e.base

	for i := 1; i < attempt && delay < e.maxDelay; i++ {
		delay *= 2
	}

	if delay > e.maxDelay {
		delay = e.maxDelay
	}

	return delay
}
