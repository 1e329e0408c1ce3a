// Package config loads simpledb client settings from YAML or TOML files and
// builds a ready client from them.
//
// Example db.yaml:
//
//	driver: mysql
//	write:
//	  dsn: app:secret@tcp(db-master:3306)/shop
//	  init_statements: ["SET NAMES utf8mb4"]
//	read:
//	  dsn: app:secret@tcp(db-replica:3306)/shop
//	retry:
//	  max_retries: 3
//	  backoff: exponential
//	  delay: 200ms
//	  max_delay: 2s
//	disconnect:
//	  strategy: probe
//	  probe_timeout: 5s
//	logging:
//	  level: info
//	  format: json
//	  queries: false
//	metrics:
//	  backend: prometheus
//	  prefix: shop_db
//
// The same keys are accepted in TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Drivers accepted in Config.Driver.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Backoff kinds accepted in RetryConfig.Backoff.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Disconnect strategies accepted in DisconnectConfig.Strategy.
const (
	StrategyProbe     = "probe"
	StrategyErrorCode = "error_code"
)

// Metrics backends accepted in MetricsConfig.Backend.
const (
	MetricsNone       = "none"
	MetricsVM         = "vm"
	MetricsPrometheus = "prometheus"
)

// File formats accepted by Parse.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Default values applied by Load and Parse.
const (
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 30 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

// ErrUnsupportedFormat is returned for a file extension or format name other than YAML or TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Config is the file representation of a client.
type Config struct {
	Driver     string           `yaml:"driver" toml:"driver"`
	Write      ConnectionConfig `yaml:"write" toml:"write"`
	Read       ConnectionConfig `yaml:"read" toml:"read"`
	Retry      RetryConfig      `yaml:"retry" toml:"retry"`
	Disconnect DisconnectConfig `yaml:"disconnect" toml:"disconnect"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" toml:"metrics"`
}

// ConnectionConfig describes one connection handle.
type ConnectionConfig struct {
	// DSN is the driver data source name. An empty read DSN disables the read handle.
	DSN string `yaml:"dsn" toml:"dsn"`

	// InitStatements run on every new MySQL session.
	InitStatements []string `yaml:"init_statements" toml:"init_statements"`

	// NoBackslashEscapes matches the NO_BACKSLASH_ESCAPES sql_mode of the server.
	NoBackslashEscapes bool `yaml:"no_backslash_escapes" toml:"no_backslash_escapes"`
}

// RetryConfig controls retries after transport failures.
type RetryConfig struct {
	// MaxRetries is the retry budget; nil keeps the client default.
	MaxRetries *int          `yaml:"max_retries" toml:"max_retries"`
	Backoff    string        `yaml:"backoff" toml:"backoff"`
	Delay      time.Duration `yaml:"delay" toml:"delay"`
	MaxDelay   time.Duration `yaml:"max_delay" toml:"max_delay"`
}

// DisconnectConfig selects how dead handles are detected.
type DisconnectConfig struct {
	Strategy     string        `yaml:"strategy" toml:"strategy"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" toml:"probe_timeout"`

	// Codes are the driver error codes meaning "disconnected" for StrategyErrorCode.
	// Empty means MySQL 2006 and 2013.
	Codes []int `yaml:"codes" toml:"codes"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`

	// Queries logs every statement with its parameters substituted at info level.
	Queries bool `yaml:"queries" toml:"queries"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	Prefix  string `yaml:"prefix" toml:"prefix"`
}

// Load reads a configuration file. The format follows the extension:
// .yaml and .yml for YAML, .toml for TOML.
//
// Parameters:
//   - path: Path to the file
//
// Returns:
//   - *Config: The configuration with defaults applied
//   - error: Read, parse or validation error
func Load(path string) (*Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes a configuration document.
//
// Parameters:
//   - data: The document
//   - format: FormatYAML or FormatTOML
//
// Returns:
//   - *Config: The configuration with defaults applied
//   - error: Parse or validation error
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config file: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMySQL
	}
	if c.Retry.Backoff == "" {
		c.Retry.Backoff = BackoffFixed
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = DefaultRetryDelay
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = DefaultMaxRetryDelay
	}
	if c.Disconnect.Strategy == "" {
		c.Disconnect.Strategy = StrategyProbe
	}
	if c.Disconnect.ProbeTimeout == 0 {
		c.Disconnect.ProbeTimeout = DefaultProbeTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Metrics.Backend == "" {
		c.Metrics.Backend = MetricsNone
	}
}

// Validate checks the configuration for missing or unknown values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}

	if c.Write.DSN == "" {
		errs = append(errs, errors.New("write.dsn is required"))
	}

	if c.Retry.MaxRetries != nil && *c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("retry.max_retries must not be negative"))
	}

	switch c.Retry.Backoff {
	case BackoffFixed, BackoffExponential:
	default:
		errs = append(errs, fmt.Errorf("unknown retry.backoff %q", c.Retry.Backoff))
	}

	if c.Retry.Delay < 0 || c.Retry.MaxDelay < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}

	switch c.Disconnect.Strategy {
	case StrategyProbe, StrategyErrorCode:
	default:
		errs = append(errs, fmt.Errorf("unknown disconnect.strategy %q", c.Disconnect.Strategy))
	}

	switch c.Metrics.Backend {
	case MetricsNone, MetricsVM, MetricsPrometheus:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics.backend %q", c.Metrics.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}
