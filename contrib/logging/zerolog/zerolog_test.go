package zerolog_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	zl "github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/contrib/logging/zerolog"
	"github.com/arloliu/simpledb/types"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}

	return out
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(zl.New(&buf))

	logger.Error("could not execute query",
		"sql", "SELECT 1",
		"code", 2006,
		"role", types.RoleRead,
		"error", errors.New("gone away"),
		"params", types.Params{"id": 1},
	)
	logger.Info("dangling", "key")
	logger.Warn("odd key", 42, "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	require.Equal(t, "error", lines[0]["level"])
	require.Equal(t, "could not execute query", lines[0]["message"])
	require.Equal(t, "SELECT 1", lines[0]["sql"])
	require.InDelta(t, 2006, lines[0]["code"], 0)
	require.Equal(t, "read", lines[0]["role"])
	require.Equal(t, "gone away", lines[0]["error"])
	require.Equal(t, map[string]any{"id": float64(1)}, lines[0]["params"])

	require.Contains(t, lines[1], "key")
	require.Nil(t, lines[1]["key"])
	require.Equal(t, "v", lines[2]["42"])
}

func TestNewWithFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := zerolog.NewWithFormat(&buf, "WARN", zerolog.FormatJSON)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown", "attempt", 1)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "shown", lines[0]["message"])
	require.Contains(t, lines[0], "time")
	require.Equal(t, zl.WarnLevel, logger.Zerolog().GetLevel())

	_, err = zerolog.NewWithFormat(&buf, "loud", zerolog.FormatJSON)
	require.Error(t, err)
	_, err = zerolog.NewWithFormat(&buf, "info", "xml")
	require.Error(t, err)

	var console bytes.Buffer
	logger, err = zerolog.NewWithFormat(&console, "", "")
	require.NoError(t, err)
	logger.Info("human readable")
	require.Contains(t, console.String(), "human readable")
}
