// Package postgres implements the database.Driver contract for PostgreSQL
// on top of jackc/pgx/v5 and pgxpool.
//
// Query text keeps the façade's @name convention; this driver rewrites it to
// $n placeholders before execution. PostgreSQL's extended protocol runs one
// statement per call, so the identity fetch rides on a RETURNING clause
// instead of a batch suffix, and stored routines are invoked as functions
// (SELECT) or procedures (CALL) depending on the entry point.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/QueryDeck/database"
)

// Driver implements database.Driver for PostgreSQL.
type Driver struct{}

// New returns the PostgreSQL driver.
func New() *Driver { return &Driver{} }

func (d *Driver) Name() string { return "postgres" }

// IdentitySuffix returns the RETURNING clause that yields the generated
// identity column of the preceding INSERT.
func (d *Driver) IdentitySuffix(column string) string {
	return " RETURNING " + quoteIdent(column)
}

// Connect establishes the shared pgxpool and verifies it with a ping.
func (d *Driver) Connect(ctx context.Context, cfg *database.Config) (database.Pool, error) {
	pool, err := buildPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapConnectError(err)
	}
	return &pgPool{exec: exec{q: pool}, pool: pool}, nil
}

// Open establishes a private single connection outside the shared pool.
func (d *Driver) Open(ctx context.Context, cfg *database.Config) (database.Conn, error) {
	conn, err := pgx.Connect(ctx, buildDSN(cfg))
	if err != nil {
		return nil, mapConnectError(err)
	}
	return &pgConn{exec: exec{q: conn}, conn: conn}, nil
}

// pgQuerier is the overlap of pgxpool.Pool and pgx.Conn the driver needs.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type exec struct {
	q pgQuerier
}

// Query runs the command and returns its record set. A single pgx call
// yields exactly one result set; the affected-row count comes from the
// command tag once the rows are drained.
func (e *exec) Query(ctx context.Context, kind database.CommandKind, query string, params []database.Param) (*database.Result, error) {
	var (
		sql  string
		args []any
		err  error
	)
	if kind == database.StoredProcedure {
		var ph string
		ph, args = procArgs(params)
		sql = fmt.Sprintf("SELECT * FROM %s(%s)", query, ph)
	} else {
		sql, args, err = rewriteQuery(query, params)
		if err != nil {
			return nil, err
		}
	}

	rows, err := e.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := make(database.Recordset, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, mapError(err)
		}
		row := make(database.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		rs = append(rs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return &database.Result{
		Recordsets:   []database.Recordset{rs},
		RowsAffected: rows.CommandTag().RowsAffected(),
	}, nil
}

// Exec runs the command and returns the affected-row count. Procedures go
// through CALL here.
func (e *exec) Exec(ctx context.Context, kind database.CommandKind, query string, params []database.Param) (int64, error) {
	var (
		sql  string
		args []any
		err  error
	)
	if kind == database.StoredProcedure {
		var ph string
		ph, args = procArgs(params)
		sql = fmt.Sprintf("CALL %s(%s)", query, ph)
	} else {
		sql, args, err = rewriteQuery(query, params)
		if err != nil {
			return 0, err
		}
	}

	tag, err := e.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

// CallReturn invokes a function by name and reads its integer result.
// PostgreSQL routines signal status through return values, not a separate
// status channel; a NULL result reads as 0.
func (e *exec) CallReturn(ctx context.Context, proc string, params []database.Param) (int64, error) {
	ph, args := procArgs(params)
	sql := fmt.Sprintf("SELECT %s(%s) AS %s", proc, ph, database.ScalarColumn)

	var status *int64
	if err := e.q.QueryRow(ctx, sql, args...).Scan(&status); err != nil {
		return 0, mapError(err)
	}
	if status == nil {
		return 0, nil
	}
	return *status, nil
}

type pgPool struct {
	exec
	pool interface {
		Ping(ctx context.Context) error
		Close()
	}
}

func (p *pgPool) Ping(ctx context.Context) error {
	return mapConnectError(p.pool.Ping(ctx))
}

func (p *pgPool) Close() {
	p.pool.Close()
}

type pgConn struct {
	exec
	conn *pgx.Conn
}

func (c *pgConn) Close() error {
	return c.conn.Close(context.Background())
}
