package mssql

import (
	"database/sql"
	"time"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/koustreak/QueryDeck/database"
)

// bindArgs turns the façade's parameters into named driver arguments.
// An explicit type tag overrides the driver's inference; without one the
// Go value decides.
func bindArgs(params []database.Param) []any {
	args := make([]any, 0, len(params))
	for _, p := range params {
		args = append(args, sql.Named(p.Name, coerce(p)))
	}
	return args
}

// coerce applies an explicit type tag. go-mssqldb distinguishes varchar,
// nvarchar and the legacy datetime through dedicated Go types; the numeric
// tags need no wrapping because the native Go value already binds exactly.
func coerce(p database.Param) any {
	switch p.Type {
	case database.TypeVarChar:
		if s, ok := p.Value.(string); ok {
			return mssqldb.VarChar(s)
		}
	case database.TypeNVarChar:
		if s, ok := p.Value.(string); ok {
			return mssqldb.NVarCharMax(s)
		}
	case database.TypeDateTime:
		if t, ok := p.Value.(time.Time); ok {
			return mssqldb.DateTime1(t)
		}
	}
	return p.Value
}
