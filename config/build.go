package config

import (
	"fmt"
	"io"

	"github.com/arloliu/simpledb"
	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/adapter/mysql"
	"github.com/arloliu/simpledb/adapter/sqlite"
	zerologadapter "github.com/arloliu/simpledb/contrib/logging/zerolog"
	"github.com/arloliu/simpledb/contrib/metrics/prom"
	"github.com/arloliu/simpledb/contrib/metrics/vm"
	"github.com/arloliu/simpledb/policy"
	"github.com/arloliu/simpledb/types"
)

// Built is a client together with the components created for it.
type Built struct {
	Client  *simpledb.Client
	Logger  *zerologadapter.Logger
	Metrics types.MetricsCollector
}

// Build creates a client from cfg.
//
// Log output goes to w (os.Stderr when nil). Extra options are applied after
// the ones derived from cfg and win over them.
//
// Parameters:
//   - cfg: A validated configuration
//   - w: Log destination
//   - opts: Extra client options
//
// Returns:
//   - *Built: The client and its logger and metrics collector
//   - error: Logger, factory or client construction error
func Build(cfg *Config, w io.Writer, opts ...simpledb.Option) (*Built, error) {
	logger, err := zerologadapter.NewWithFormat(w, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	write, read, err := cfg.Factories()
	if err != nil {
		return nil, err
	}

	metrics := cfg.MetricsCollector()

	all := []simpledb.Option{simpledb.WithLogger(logger)}
	if metrics != nil {
		all = append(all, simpledb.WithMetrics(metrics))
	}
	if cfg.Logging.Queries {
		all = append(all, simpledb.WithQueryLogger(logger))
	}
	all = append(all, cfg.ClientOptions()...)
	all = append(all, opts...)

	client, err := simpledb.New(write, read, all...)
	if err != nil {
		return nil, err
	}

	return &Built{Client: client, Logger: logger, Metrics: metrics}, nil
}

// Factories returns the connection factories of the configured driver.
// The read factory is nil when no read DSN is configured.
func (c *Config) Factories() (write, read sqladapter.Factory, err error) {
	write, err = c.factory(c.Write)
	if err != nil {
		return nil, nil, fmt.Errorf("write connection: %w", err)
	}

	if c.Read.DSN == "" {
		return write, nil, nil
	}

	read, err = c.factory(c.Read)
	if err != nil {
		return nil, nil, fmt.Errorf("read connection: %w", err)
	}

	return write, read, nil
}

func (c *Config) factory(conn ConnectionConfig) (sqladapter.Factory, error) {
	switch c.Driver {
	case DriverSQLite:
		return sqlite.NewFactory(conn.DSN), nil
	case DriverMySQL:
		var opts []mysql.FactoryOption
		if conn.NoBackslashEscapes {
			opts = append(opts, mysql.WithNoBackslashEscapes())
		}
		if len(conn.InitStatements) > 0 {
			opts = append(opts, mysql.WithInitStatements(conn.InitStatements...))
		}

		return mysql.NewFactoryFromDSN(conn.DSN, opts...)
	default:
		return nil, fmt.Errorf("unknown driver %q", c.Driver)
	}
}

// ClientOptions returns the retry and disconnect options of the configuration.
func (c *Config) ClientOptions() []simpledb.Option {
	var opts []simpledb.Option

	if c.Retry.MaxRetries != nil {
		opts = append(opts, simpledb.WithMaxRetries(*c.Retry.MaxRetries))
	}

	switch c.Retry.Backoff {
	case BackoffExponential:
		opts = append(opts, simpledb.WithRetryPolicy(policy.NewExponentialBackoff(c.Retry.Delay, c.Retry.MaxDelay)))
	default:
		opts = append(opts, simpledb.WithRetryPolicy(policy.NewFixedBackoff(c.Retry.Delay)))
	}

	switch c.Disconnect.Strategy {
	case StrategyErrorCode:
		if len(c.Disconnect.Codes) > 0 {
			opts = append(opts, simpledb.WithDisconnectDetector(policy.NewErrorCodeDetector(c.Disconnect.Codes...)))
		} else {
			opts = append(opts, simpledb.WithDisconnectDetector(policy.NewMySQLGoneAwayDetector()))
		}
	default:
		opts = append(opts, simpledb.WithDisconnectDetector(
			policy.NewProbeDetector(policy.WithProbeTimeout(c.Disconnect.ProbeTimeout))))
	}

	return opts
}

// MetricsCollector creates the configured metrics collector, nil for MetricsNone.
func (c *Config) MetricsCollector() types.MetricsCollector {
	switch c.Metrics.Backend {
	case MetricsVM:
		var opts []vm.Option
		if c.Metrics.Prefix != "" {
			opts = append(opts, vm.WithPrefix(c.Metrics.Prefix))
		}
		return vm.New(opts...)
	case MetricsPrometheus:
		var opts []prom.Option
		if c.Metrics.Prefix != "" {
			opts = append(opts, prom.WithNamespace(c.Metrics.Prefix))
		}
		return prom.New(opts...)
	default:
		return nil
	}
}
