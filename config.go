package simpledb

import (
	"time"

	"github.com/arloliu/simpledb/internal/logging"
	"github.com/arloliu/simpledb/internal/metrics"
	"github.com/arloliu/simpledb/policy"
	"github.com/arloliu/simpledb/types"
)

const (
	// DefaultMaxRetries is the retry budget of Execute and Exec.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the pause before each retry with the default policy.
	DefaultRetryDelay = time.Second
)

// ClientConfig holds configuration for the provider and the client.
type ClientConfig struct {
	Logger             types.Logger
	QueryLogger        types.Logger
	Metrics            MetricsCollector
	MaxRetries         int
	RetryPolicy        RetryPolicy
	DisconnectDetector DisconnectDetector
	Sleeper            Sleeper
}

// DefaultConfig returns a ClientConfig with sensible defaults.
//
// Defaults:
//   - MaxRetries: 3
//   - RetryPolicy: policy.FixedBackoff of 1s
//   - DisconnectDetector: policy.ProbeDetector ("SELECT 1")
//   - Logger and Metrics: no-op
//   - QueryLogger: nil (resolved queries are not logged)
//
// Returns:
//   - *ClientConfig: Configuration with default settings
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Logger:             logging.NewNopLogger(),
		Metrics:            metrics.NewNopMetrics(),
		MaxRetries:         DefaultMaxRetries,
		RetryPolicy:        policy.NewFixedBackoff(DefaultRetryDelay),
		DisconnectDetector: policy.NewProbeDetector(),
		Sleeper:            SleepContext,
	}
}

// normalize replaces nil fields with their defaults.
func (c *ClientConfig) normalize() {
	if c.Logger == nil {
		c.Logger = logging.NewNopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNopMetrics()
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryPolicy == nil {
		c.RetryPolicy = policy.NewFixedBackoff(DefaultRetryDelay)
	}
	if c.DisconnectDetector == nil {
		c.DisconnectDetector = policy.NewProbeDetector()
	}
	if c.Sleeper == nil {
		c.Sleeper = SleepContext
	}
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)

// WithLogger sets the structured logger.
//
// If not set, a no-op logger is used that discards all messages.
// The logger interface is compatible with zap.SugaredLogger; a zerolog adapter
// lives in contrib/logging/zerolog.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

// WithQueryLogger sets a logger that receives every executed statement with its
// parameters substituted, at info level.
//
// Parameters:
//   - logger: The query logger, nil to disable
//
// Returns:
//   - Option: Configuration option
func WithQueryLogger(logger types.Logger) Option {
	return func(c *ClientConfig) {
		c.QueryLogger = logger
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics or contrib/metrics/prom.New()
// for Prometheus.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector MetricsCollector) Option {
	return func(c *ClientConfig) {
		c.Metrics = collector
	}
}

// WithMaxRetries sets the retry budget for transport failures.
//
// Zero disables retries.
//
// Parameters:
//   - n: Number of retries after the first attempt
//
// Returns:
//   - Option: Configuration option
func WithMaxRetries(n int) Option {
	return func(c *ClientConfig) {
		c.MaxRetries = n
	}
}

// WithRetryPolicy sets the pause between retries.
//
// Parameters:
//   - p: The retry policy (e.g., policy.NewExponentialBackoff)
//
// Returns:
//   - Option: Configuration option
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *ClientConfig) {
		c.RetryPolicy = p
	}
}

// WithDisconnectDetector sets how the provider decides a handle is dead.
//
// Parameters:
//   - d: The detector (e.g., policy.NewMySQLGoneAwayDetector)
//
// Returns:
//   - Option: Configuration option
func WithDisconnectDetector(d DisconnectDetector) Option {
	return func(c *ClientConfig) {
		c.DisconnectDetector = d
	}
}

// WithSleeper replaces the function used to pause between retries.
//
// Parameters:
//   - s: The sleeper
//
// Returns:
//   - Option: Configuration option
func WithSleeper(s Sleeper) Option {
	return func(c *ClientConfig) {
		c.Sleeper = s
	}
}
