package simpledb

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/simpledb/test/testutil"
	"github.com/arloliu/simpledb/types"
)

func TestInsert(t *testing.T) {
	env := newTestEnv(t, true)

	id, err := env.client.Insert(t.Context(), "users", Params{"name": "alice", "age": 30})
	require.NoError(t, err)
	require.Equal(t, "1", id)

	id, err = env.client.Insert(t.Context(), "users", Params{"name": "bob", "age": 31})
	require.NoError(t, err)
	require.Equal(t, "2", id)

	stmts := env.write.Last().Statements()
	require.Len(t, stmts, 2)
	require.Equal(t, "INSERT INTO `users` (`age`,`name`) VALUES (:age,:name);", stmts[0].SQL)
	require.True(t, stmts[0].Prepared)
	require.Equal(t, Params{"name": "alice", "age": 30}, stmts[0].Params)
	require.Zero(t, env.read.Calls())

	t.Run("qualified column", func(t *testing.T) {
		env := newTestEnv(t, false)
		_, err := env.client.Insert(t.Context(), "users", Params{"u.name": "carol"})
		require.NoError(t, err)
		require.Equal(t, []string{"INSERT INTO `users` (`u`.`name`) VALUES (:u.name);"}, env.write.Last().SQL())
	})

	t.Run("empty fields", func(t *testing.T) {
		env := newTestEnv(t, false)
		_, err := env.client.Insert(t.Context(), "users", Params{})
		require.ErrorIs(t, err, types.ErrEmptyFields)
		require.Zero(t, env.write.Calls())
	})
}

func TestReplace(t *testing.T) {
	env := newTestEnv(t, false)

	require.NoError(t, env.client.Replace(t.Context(), "users", Params{"id": 1, "name": "alice"}))
	require.Equal(t, []string{"REPLACE INTO `users` (`id`,`name`) VALUES (:id,:name);"}, env.write.Last().SQL())

	require.ErrorIs(t, env.client.Replace(t.Context(), "users", nil), types.ErrEmptyFields)
}

func TestInsertMultiple(t *testing.T) {
	env := newTestEnv(t, false)

	err := env.client.InsertMultiple(t.Context(), "t", []Params{
		{"name": "a", "id": 1},
		{"id": 2, "name": "O'Brien"},
	})
	require.NoError(t, err)

	stmts := env.write.Last().Statements()
	require.Len(t, stmts, 1)
	require.Equal(t, "INSERT INTO `t` (`id`,`name`) VALUES ('1','a'),('2','O''Brien');", stmts[0].SQL)
	require.False(t, stmts[0].Prepared)
	require.Nil(t, stmts[0].Params)
}

func TestInsertMultipleResolvesPointersAndValuers(t *testing.T) {
	env := newTestEnv(t, false)
	name := "alice"
	age := 30

	err := env.client.InsertMultiple(t.Context(), "t", []Params{
		{"name": &name, "age": &age, "note": sql.NullString{String: "x", Valid: true}},
		{"name": sql.NullString{}, "age": (*int)(nil), "note": sql.NullInt64{Int64: 7, Valid: true}},
	})
	require.NoError(t, err)

	stmts := env.write.Last().Statements()
	require.Len(t, stmts, 1)
	require.Equal(t, "INSERT INTO `t` (`age`,`name`,`note`) VALUES ('30','alice','x'),(NULL,NULL,'7');", stmts[0].SQL)
}

func TestReplaceMultiple(t *testing.T) {
	env := newTestEnv(t, false)

	err := env.client.ReplaceMultiple(t.Context(), "t", []Params{
		{"id": 1, "note": nil},
		{"id": 2, "note": "x"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"REPLACE INTO `t` (`id`,`note`) VALUES ('1',NULL),('2','x');"}, env.write.Last().SQL())
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, false)

	require.NoError(t, env.client.Delete(t.Context(), "t", Params{"id": 1}))
	require.NoError(t, env.client.DeleteMultiple(t.Context(), "t", []Params{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
	}))

	require.Equal(t, []string{
		"DELETE FROM `t` WHERE (`id`) IN (('1'));",
		"DELETE FROM `t` WHERE (`id`,`name`) IN (('1','a'),('2','b'));",
	}, env.write.Last().SQL())
}

func TestMultipleRowValidation(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := t.Context()

	require.ErrorIs(t, env.client.InsertMultiple(ctx, "t", nil), types.ErrEmptyRows)
	require.ErrorIs(t, env.client.ReplaceMultiple(ctx, "t", []Params{}), types.ErrEmptyRows)
	require.ErrorIs(t, env.client.DeleteMultiple(ctx, "t", []Params{{}}), types.ErrEmptyRows)
	require.ErrorIs(t, env.client.Delete(ctx, "t", nil), types.ErrEmptyRows)

	mismatched := [][]Params{
		{{"id": 1}, {"id": 2, "name": "b"}},
		{{"id": 1, "name": "a"}, {"id": 2}},
		{{"id": 1, "name": "a"}, {"id": 2, "label": "b"}},
	}
	for _, rows := range mismatched {
		require.ErrorIs(t, env.client.InsertMultiple(ctx, "t", rows), types.ErrRowShapeMismatch)
		require.ErrorIs(t, env.client.DeleteMultiple(ctx, "t", rows), types.ErrRowShapeMismatch)
	}

	require.Zero(t, env.write.Last().ExecCount())
}

func TestMutationFailureIsQueryExecutionError(t *testing.T) {
	env := newTestEnv(t, false)
	env.writeConn(t).FailWith("INSERT INTO `t` (`id`) VALUES ('1'),('1');",
		testutil.NewDriverError("23000", 1062, "Duplicate entry '1' for key 'PRIMARY'"))

	err := env.client.InsertMultiple(t.Context(), "t", []Params{{"id": 1}, {"id": 1}})

	var qe *types.QueryExecutionError
	require.ErrorAs(t, err, &qe)
	require.True(t, qe.IsConstraintViolation())
	require.Empty(t, qe.Params)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t, false)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	name := "alice"

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "NULL"},
		{name: "string", value: "alice", want: "'alice'"},
		{name: "embedded quote", value: "it's", want: "'it''s'"},
		{name: "int", value: 42, want: "'42'"},
		{name: "float", value: 1.5, want: "'1.5'"},
		{name: "true", value: true, want: "'1'"},
		{name: "false", value: false, want: "''"},
		{name: "time", value: ts, want: "'2024-01-02 03:04:05'"},
		{name: "bytes", value: []byte("raw"), want: "'raw'"},
		{name: "int slice", value: []int{1, 2, 3}, want: "'1,2,3'"},
		{name: "string array", value: [2]string{"a", "b"}, want: "'a,b'"},
		{name: "empty slice", value: []string{}, want: "''"},
		{name: "string pointer", value: &name, want: "'alice'"},
		{name: "nil int pointer", value: (*int)(nil), want: "NULL"},
		{name: "null string", value: sql.NullString{}, want: "NULL"},
		{name: "valid null int", value: sql.NullInt64{Int64: 7, Valid: true}, want: "'7'"},
		{name: "pointer slice", value: []*string{&name, nil}, want: "'alice,'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.client.Quote(t.Context(), tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, "`name`", quoteIdentifier("name"))
	require.Equal(t, "`u`.`name`", quoteIdentifier("u.name"))
	require.Equal(t, "`we``ird`", quoteIdentifier("we`ird"))
	require.Equal(t, "`db.table`", quoteTable("db.table"))
}
