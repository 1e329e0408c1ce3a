package testutil

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// MySQLContainer wraps a MySQL test container.
type MySQLContainer struct {
	Container *mysql.MySQLContainer

	// DSN is a go-sql-driver/mysql data source name for the test database.
	DSN string
}

// MySQLOptions configures the MySQL container.
type MySQLOptions struct {
	// Image is the MySQL image to use. Defaults to "mysql:8.0.36".
	Image string
	// Database is the database to create. Defaults to "simpledb_test".
	Database string
	// Username defaults to "simpledb".
	Username string
	// Password defaults to "simpledb".
	Password string
}

// DefaultMySQLOptions returns default options for the MySQL container.
func DefaultMySQLOptions() MySQLOptions {
	return MySQLOptions{
		Image:    "mysql:8.0.36",
		Database: "simpledb_test",
		Username: "simpledb",
		Password: "simpledb",
	}
}

// StartMySQL starts a MySQL container for testing.
//
// The caller terminates the container with Terminate.
//
// Parameters:
//   - ctx: Context for container operations
//   - opts: Optional configuration (nil uses defaults)
//
// Returns:
//   - *MySQLContainer: Container with its DSN
//   - error: Error if the container fails to start
func StartMySQL(ctx context.Context, opts *MySQLOptions) (*MySQLContainer, error) {
	if opts == nil {
		defaultOpts := DefaultMySQLOptions()
		opts = &defaultOpts
	}

	container, err := mysql.Run(ctx, opts.Image,
		mysql.WithDatabase(opts.Database),
		mysql.WithUsername(opts.Username),
		mysql.WithPassword(opts.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start MySQL container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "multiStatements=false")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MySQLContainer{Container: container, DSN: dsn}, nil
}

// Terminate stops and removes the container.
func (c *MySQLContainer) Terminate(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}

	return testcontainers.TerminateContainer(c.Container, testcontainers.StopContext(ctx))
}
