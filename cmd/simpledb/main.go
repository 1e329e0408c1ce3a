// Command simpledb runs table maintenance and ad-hoc queries against a database
// described by a simpledb configuration file.
//
// Usage:
//
//	simpledb -config db.yaml tables [prefix]
//	simpledb -config db.yaml tables-except <prefix>
//	simpledb -config db.yaml duplicate [-data] <table> <new-table>
//	simpledb -config db.yaml rename <table> <new-name>
//	simpledb -config db.yaml truncate <table>
//	simpledb -config db.yaml drop <table>
//	simpledb -config db.yaml query <sql>
//	simpledb -config db.yaml exec <sql>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/arloliu/simpledb"
	"github.com/arloliu/simpledb/config"
	"github.com/arloliu/simpledb/types"
)

var errUsage = errors.New("usage: simpledb -config <file> <command> [arguments]")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("simpledb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "simpledb.yaml", "Path to the YAML or TOML configuration file")
	metricsAddr := fs.String("metrics-addr", "", "Serve metrics on this address while the command runs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	built, err := config.Build(cfg, stderr)
	if err != nil {
		return err
	}
	defer built.Client.Close()

	if *metricsAddr != "" {
		stop := serveMetrics(*metricsAddr, built)
		defer stop()
	}

	return dispatch(ctx, built.Client, fs.Args(), stdout)
}

func dispatch(ctx context.Context, client *simpledb.Client, args []string, stdout io.Writer) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "tables":
		var tables []string
		var err error
		if len(rest) > 0 {
			tables, err = client.ListTablesStartsWith(ctx, rest[0])
		} else {
			tables, err = client.ListAllTables(ctx)
		}
		if err != nil {
			return err
		}

		return printLines(stdout, tables)
	case "tables-except":
		if len(rest) != 1 {
			return fmt.Errorf("%w: tables-except <prefix>", errUsage)
		}
		tables, err := client.ListTablesNotStartingWith(ctx, rest[0])
		if err != nil {
			return err
		}

		return printLines(stdout, tables)
	case "duplicate":
		sub := flag.NewFlagSet("duplicate", flag.ContinueOnError)
		withData := sub.Bool("data", false, "Copy the rows as well as the structure")
		if err := sub.Parse(rest); err != nil {
			return err
		}
		if sub.NArg() != 2 {
			return fmt.Errorf("%w: duplicate [-data] <table> <new-table>", errUsage)
		}

		return client.DuplicateTable(ctx, sub.Arg(0), sub.Arg(1), *withData)
	case "rename":
		if len(rest) != 2 {
			return fmt.Errorf("%w: rename <table> <new-name>", errUsage)
		}

		return client.RenameTable(ctx, rest[0], rest[1])
	case "truncate":
		if len(rest) != 1 {
			return fmt.Errorf("%w: truncate <table>", errUsage)
		}

		return client.TruncateTable(ctx, rest[0])
	case "drop":
		if len(rest) != 1 {
			return fmt.Errorf("%w: drop <table>", errUsage)
		}

		return client.DropTable(ctx, rest[0])
	case "query":
		if len(rest) == 0 {
			return fmt.Errorf("%w: query <sql>", errUsage)
		}
		rows, err := client.GetAll(ctx, strings.Join(rest, " "), nil, types.FetchAssoc)
		if err != nil {
			return err
		}

		return printRows(stdout, rows)
	case "exec":
		if len(rest) == 0 {
			return fmt.Errorf("%w: exec <sql>", errUsage)
		}
		res, err := client.Exec(ctx, strings.Join(rest, " "), nil)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%d row(s) affected\n", res.RowsAffected())

		return err
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// printRows writes rows as a tab-aligned table with a header line.
func printRows(w io.Writer, rows []types.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rows[0].Columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.DateTime)
	default:
		return fmt.Sprint(val)
	}
}

// serveMetrics exposes the configured collector over HTTP and returns a stop function.
func serveMetrics(addr string, built *config.Built) func() {
	mux := http.NewServeMux()
	switch h := built.Metrics.(type) {
	case interface{ Handler() http.Handler }:
		mux.Handle("/metrics", h.Handler())
	case interface {
		Handler(http.ResponseWriter, *http.Request)
	}:
		mux.HandleFunc("/metrics", h.Handler)
	default:
		built.Logger.Warn("metrics server requested without a metrics backend", "addr", addr)
		return func() {}
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			built.Logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
