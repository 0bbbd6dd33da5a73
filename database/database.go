// Package database is a pooled query-execution façade over a relational
// database. A Client owns one lazily created, process-shared connection pool
// and exposes a single execution primitive plus thin result-shaping helpers
// (dataset, single row, scalar, insert-with-identity, row counts, exists,
// count, procedure return values).
//
// The engine-specific work lives in the driver subpackages (mssql, postgres,
// mysql); callers talk only to this package.
package database

// CommandKind tells the driver how to interpret the query string.
type CommandKind int

const (
	// Text executes the query as a literal SQL batch.
	Text CommandKind = iota

	// StoredProcedure executes the query string as a procedure name.
	StoredProcedure
)

func (k CommandKind) String() string {
	switch k {
	case Text:
		return "text"
	case StoredProcedure:
		return "stored_procedure"
	default:
		return "unknown"
	}
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Recordset is one ordered sequence of rows produced by a single statement.
// A multi-statement batch may produce several.
type Recordset []Row

// Result is the normalized outcome of one execution. It is produced fresh
// per call and never cached.
type Result struct {
	// Recordsets holds every result set the batch produced, in order.
	Recordsets []Recordset

	// RowsAffected is the affected-row count of the statement. Drivers that
	// cannot report it on the row-returning path leave it at zero; the
	// Update/Delete helpers use the dedicated Exec path instead.
	RowsAffected int64

	// ReturnValue is the procedure return status, when one was requested.
	ReturnValue int64
}

// firstRecordset returns the first record set, or nil when the batch
// produced none.
func (r *Result) firstRecordset() Recordset {
	if r == nil || len(r.Recordsets) == 0 {
		return nil
	}
	return r.Recordsets[0]
}
