package sql

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestEscapeLiteralColons(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		backslash bool
		want      string
	}{
		{"no colons", "SELECT 1", false, "SELECT 1"},
		{"placeholders untouched", "SELECT * FROM t WHERE id = :id", false, "SELECT * FROM t WHERE id = :id"},
		{"time literal", "SELECT '10:00:00' WHERE id = :id", false, "SELECT '10::00::00' WHERE id = :id"},
		{"colon before word", "SELECT 'a:b' WHERE id = :id", false, "SELECT 'a::b' WHERE id = :id"},
		{"double quoted", `SELECT "a:b", :id`, false, `SELECT "a::b", :id`},
		{"backtick identifier", "SELECT `a:b` FROM t WHERE id = :id", false, "SELECT `a::b` FROM t WHERE id = :id"},
		{"doubled quote stays inside", "SELECT 'it''s a:b', :id", false, "SELECT 'it''s a::b', :id"},
		{"backslash quote with escapes", `SELECT 'it\'s a:b', :id`, true, `SELECT 'it\'s a::b', :id`},
		{"backslash before colon", `SELECT 'a\:b', :id`, true, `SELECT 'a\::b', :id`},
		{"backslash is literal without escapes", `SELECT 'a\', :id`, false, `SELECT 'a\', :id`},
		{"backslash ignored in backticks", "SELECT `a\\`, :id", true, "SELECT `a\\`, :id"},
		{"unterminated literal", "SELECT 'a:b", false, "SELECT 'a::b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, escapeLiteralColons(tt.query, tt.backslash))
		})
	}
}

func TestEscapeLiteralColonsCompilesWithNamed(t *testing.T) {
	q, args, err := sqlx.Named(
		escapeLiteralColons("SELECT '10:00:00', 'a:b', 'x::y' FROM t WHERE id = :id", false),
		map[string]any{"id": 7},
	)
	require.NoError(t, err)
	require.Equal(t, "SELECT '10:00:00', 'a:b', 'x::y' FROM t WHERE id = ?", q)
	require.Equal(t, []any{7}, args)
}
