package simpledb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/test/testutil"
	"github.com/arloliu/simpledb/types"
)

var errTableLocked = testutil.NewDriverError("HY000", 1099, "Table 'users_copy' was locked with a READ lock and can't be updated")

func TestTableStatements(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := t.Context()

	require.NoError(t, env.client.TruncateTable(ctx, "users"))
	require.NoError(t, env.client.DropTable(ctx, "users_old"))
	require.NoError(t, env.client.RenameTable(ctx, "users_new", "users"))
	require.NoError(t, env.client.DisableForeignKeyChecks(ctx))
	require.NoError(t, env.client.EnableForeignKeyChecks(ctx))

	conn := env.write.Last()
	require.Equal(t, []string{
		"TRUNCATE `users`;",
		"DROP TABLE `users_old`;",
		"RENAME TABLE `users_new` TO `users`",
		"SET foreign_key_checks = 0;",
		"SET foreign_key_checks = 1;",
	}, conn.SQL())
	require.Zero(t, conn.PrepareCount())
}

func TestDuplicateTable(t *testing.T) {
	t.Run("structure only", func(t *testing.T) {
		env := newTestEnv(t, false)

		require.NoError(t, env.client.DuplicateTable(t.Context(), "users", "users_copy", false))
		require.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS `users_copy` LIKE `users`;",
		}, env.write.Last().SQL())
	})

	t.Run("with data", func(t *testing.T) {
		env := newTestEnv(t, false)

		require.NoError(t, env.client.DuplicateTable(t.Context(), "users", "users_copy", true))
		require.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS `users_copy` LIKE `users`;",
			"TRUNCATE `users_copy`;",
			"INSERT INTO `users_copy` SELECT * FROM `users`;",
		}, env.write.Last().SQL())
	})

	t.Run("stops on failure", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.writeConn(t).FailWith("TRUNCATE `users_copy`;", errTableLocked)

		err := env.client.DuplicateTable(t.Context(), "users", "users_copy", true)

		var qe *types.QueryExecutionError
		require.ErrorAs(t, err, &qe)
		require.Equal(t, "TRUNCATE `users_copy`;", qe.SQL)
		require.Len(t, env.write.Last().SQL(), 2)
	})
}

func TestListTables(t *testing.T) {
	env := newTestEnv(t, true)
	conn := env.writeConn(t)
	conn.SetRows("SHOW TABLES LIKE '%';", []string{"Tables_in_shop"},
		[]any{"app_orders"}, []any{"app_users"}, []any{"audit_log"}, []any{[]byte("tmp_import")},
	)
	conn.SetRows("SHOW TABLES LIKE 'app_%';", []string{"Tables_in_shop (app_%)"},
		[]any{"app_orders"}, []any{"app_users"},
	)

	all, err := env.client.ListAllTables(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"app_orders", "app_users", "audit_log", "tmp_import"}, all)

	prefixed, err := env.client.ListTablesStartsWith(t.Context(), "app_")
	require.NoError(t, err)
	require.Equal(t, []string{"app_orders", "app_users"}, prefixed)

	rest, err := env.client.ListTablesNotStartingWith(t.Context(), "app_")
	require.NoError(t, err)
	require.Equal(t, []string{"audit_log", "tmp_import"}, rest)

	require.Zero(t, env.read.Calls())

	t.Run("quoted prefix", func(t *testing.T) {
		_, err := env.client.ListTablesStartsWith(t.Context(), "o'")
		require.NoError(t, err)
		require.Contains(t, conn.SQL(), "SHOW TABLES LIKE 'o''%';")
	})
}
