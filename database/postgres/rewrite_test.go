package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/QueryDeck/database"
)

func TestRewriteQuery(t *testing.T) {
	t.Run("markers become ordinals in first-occurrence order", func(t *testing.T) {
		sql, args, err := rewriteQuery(
			"SELECT * FROM users WHERE name = @name AND id = @id",
			[]database.Param{
				database.P("id", 42),
				database.P("name", "ada"),
			})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users WHERE name = $1 AND id = $2", sql)
		assert.Equal(t, []any{"ada", 42}, args)
	})

	t.Run("repeated marker reuses one ordinal", func(t *testing.T) {
		sql, args, err := rewriteQuery(
			"SELECT * FROM t WHERE a = @v OR b = @v",
			[]database.Param{database.P("v", 1)})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE a = $1 OR b = $1", sql)
		assert.Equal(t, []any{1}, args)
	})

	t.Run("marker names match case-insensitively", func(t *testing.T) {
		sql, args, err := rewriteQuery(
			"SELECT * FROM t WHERE a = @UserId",
			[]database.Param{database.P("userid", 9)})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE a = $1", sql)
		assert.Equal(t, []any{9}, args)
	})

	t.Run("explicit type becomes a cast", func(t *testing.T) {
		sql, _, err := rewriteQuery(
			"SELECT * FROM t WHERE ts < @cutoff",
			[]database.Param{database.PT("cutoff", "2026-01-01", database.TypeDateTime)})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE ts < $1::timestamptz", sql)
	})

	t.Run("literals keep their markers", func(t *testing.T) {
		sql, args, err := rewriteQuery(
			"SELECT '@keep' WHERE a = @a",
			[]database.Param{database.P("a", 1)})
		require.NoError(t, err)
		assert.Equal(t, "SELECT '@keep' WHERE a = $1", sql)
		assert.Len(t, args, 1)
	})

	t.Run("unbound marker fails as execution error", func(t *testing.T) {
		_, _, err := rewriteQuery("WHERE a = @ghost", nil)
		require.Error(t, err)
		assert.True(t, database.IsExecution(err))
	})

	t.Run("no params and no markers", func(t *testing.T) {
		sql, args, err := rewriteQuery("SELECT 1", nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", sql)
		assert.Empty(t, args)
	})
}

func TestProcArgs(t *testing.T) {
	ph, args := procArgs([]database.Param{
		database.P("a", 1),
		database.PT("b", "x", database.TypeVarChar),
	})
	assert.Equal(t, "$1, $2::text", ph)
	assert.Equal(t, []any{1, "x"}, args)

	ph, args = procArgs(nil)
	assert.Empty(t, ph)
	assert.Empty(t, args)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Id"`, quoteIdent("Id"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestIdentitySuffix(t *testing.T) {
	d := New()
	assert.Equal(t, ` RETURNING "Id"`, d.IdentitySuffix("Id"))
	assert.Equal(t, "postgres", d.Name())
}
