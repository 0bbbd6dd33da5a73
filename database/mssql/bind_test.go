package mssql

import (
	"database/sql"
	"testing"
	"time"

	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/QueryDeck/database"
)

func TestBindArgs(t *testing.T) {
	args := bindArgs([]database.Param{
		database.P("id", 42),
		database.P("name", "ada"),
	})

	require.Len(t, args, 2)
	named, ok := args[0].(sql.NamedArg)
	require.True(t, ok)
	assert.Equal(t, "id", named.Name)
	assert.Equal(t, 42, named.Value)
}

func TestCoerce(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		param database.Param
		want  any
	}{
		{
			name:  "varchar wraps strings",
			param: database.PT("s", "plain", database.TypeVarChar),
			want:  mssqldb.VarChar("plain"),
		},
		{
			name:  "nvarchar wraps strings",
			param: database.PT("s", "ünïcode", database.TypeNVarChar),
			want:  mssqldb.NVarCharMax("ünïcode"),
		},
		{
			name:  "datetime wraps times",
			param: database.PT("t", now, database.TypeDateTime),
			want:  mssqldb.DateTime1(now),
		},
		{
			name:  "numeric tags pass the native value",
			param: database.PT("n", int64(7), database.TypeBigInt),
			want:  int64(7),
		},
		{
			name:  "no tag passes through",
			param: database.P("b", true),
			want:  true,
		},
		{
			name:  "tag mismatching the value passes through",
			param: database.PT("s", 5, database.TypeVarChar),
			want:  5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, coerce(tc.param))
		})
	}
}
