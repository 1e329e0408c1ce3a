package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.toml")
	dsn := "file:" + filepath.Join(t.TempDir(), "cli.db")
	doc := "driver = \"sqlite\"\n\n[write]\ndsn = \"" + dsn + "\"\n\n[logging]\nformat = \"json\"\nlevel = \"warn\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return path
}

func TestRun(t *testing.T) {
	ctx := t.Context()
	cfg := writeConfig(t)

	exec := func(args ...string) (string, error) {
		var stdout, stderr bytes.Buffer
		err := run(ctx, append([]string{"-config", cfg}, args...), &stdout, &stderr)

		return stdout.String(), err
	}

	out, err := exec("exec", "CREATE TABLE `users` (`id` INTEGER PRIMARY KEY, `name` TEXT, `note` TEXT)")
	require.NoError(t, err)
	require.Equal(t, "0 row(s) affected\n", out)

	out, err = exec("exec", "INSERT INTO `users` (`name`, `note`) VALUES ('alice', NULL), ('bob', 'x')")
	require.NoError(t, err)
	require.Equal(t, "2 row(s) affected\n", out)

	out, err = exec("query", "SELECT", "id, name, note FROM users ORDER BY id")
	require.NoError(t, err)
	require.Equal(t, "id  name   note\n1   alice  NULL\n2   bob    x\n", out)

	out, err = exec("query", "SELECT * FROM users WHERE id = 99")
	require.NoError(t, err)
	require.Equal(t, "(no rows)\n", out)

	_, err = exec("drop", "users")
	require.NoError(t, err)

	_, err = exec("query", "SELECT * FROM users")
	require.ErrorContains(t, err, "no such table")
}

func TestRunUsage(t *testing.T) {
	ctx := t.Context()
	cfg := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"vacuum"}},
		{name: "rename arity", args: []string{"rename", "a"}},
		{name: "truncate arity", args: []string{"truncate"}},
		{name: "duplicate arity", args: []string{"duplicate", "-data", "a"}},
		{name: "query without sql", args: []string{"query"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(ctx, append([]string{"-config", cfg}, tt.args...), &stdout, &stderr)
			require.ErrorIs(t, err, errUsage)
		})
	}

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "tables"}, &stdout, &stderr)
	require.ErrorIs(t, err, os.ErrNotExist)
}
