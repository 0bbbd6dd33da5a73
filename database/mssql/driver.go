// Package mssql implements the database.Driver contract for Microsoft SQL
// Server on top of github.com/microsoft/go-mssqldb and database/sql.
//
// SQL Server is the primary engine of this module: @name markers in query
// text bind natively, multi-statement batches produce multiple record sets,
// and stored procedures carry a real integer return status.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/koustreak/QueryDeck/database"
)

// Driver implements database.Driver for SQL Server.
type Driver struct{}

// New returns the SQL Server driver.
func New() *Driver { return &Driver{} }

func (d *Driver) Name() string { return "mssql" }

// IdentitySuffix returns the batch suffix that fetches the identity value
// generated by the preceding INSERT.
func (d *Driver) IdentitySuffix(column string) string {
	return fmt.Sprintf("; SELECT SCOPE_IDENTITY() AS [%s]", column)
}

// Connect establishes the shared pool and verifies it with a ping bounded
// by the configured connect timeout.
func (d *Driver) Connect(ctx context.Context, cfg *database.Config) (database.Pool, error) {
	db, err := buildDB(cfg, int(cfg.Pool.MaxConns))
	if err != nil {
		return nil, err
	}
	if err := ping(ctx, db, cfg); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlPool{exec: exec{db: db}}, nil
}

// Open establishes a private single connection outside the shared pool.
func (d *Driver) Open(ctx context.Context, cfg *database.Config) (database.Conn, error) {
	db, err := buildDB(cfg, 1)
	if err != nil {
		return nil, err
	}
	if err := ping(ctx, db, cfg); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlConn{exec: exec{db: db}}, nil
}

func ping(ctx context.Context, db *sql.DB, cfg *database.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Pool.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return mapConnectError(err)
	}
	return nil
}

// exec carries the shared execution logic; sqlPool and sqlConn only differ
// in lifecycle.
type exec struct {
	db *sql.DB
}

// Query runs the command and drains every record set. go-mssqldb dispatches
// on the query text itself: a bare identifier goes through the RPC path as a
// stored procedure, anything else is a literal batch, so both CommandKinds
// flow through the same call.
func (e *exec) Query(ctx context.Context, _ database.CommandKind, query string, params []database.Param) (*database.Result, error) {
	rows, err := e.db.QueryContext(ctx, query, bindArgs(params)...)
	if err != nil {
		return nil, mapError(err)
	}
	sets, err := database.ScanRecordsets(rows)
	if err != nil {
		return nil, err
	}
	return &database.Result{Recordsets: sets}, nil
}

// Exec runs the command and returns the affected-row count.
func (e *exec) Exec(ctx context.Context, _ database.CommandKind, query string, params []database.Param) (int64, error) {
	res, err := e.db.ExecContext(ctx, query, bindArgs(params)...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// CallReturn executes the procedure and captures its return status through
// the driver's out-argument. A procedure that sets no status reads as 0.
func (e *exec) CallReturn(ctx context.Context, proc string, params []database.Param) (int64, error) {
	var status mssqldb.ReturnStatus
	args := append(bindArgs(params), &status)
	if _, err := e.db.ExecContext(ctx, proc, args...); err != nil {
		return 0, mapError(err)
	}
	return int64(status), nil
}

type sqlPool struct {
	exec
}

func (p *sqlPool) Ping(ctx context.Context) error {
	return mapConnectError(p.db.PingContext(ctx))
}

func (p *sqlPool) Close() {
	p.db.Close()
}

type sqlConn struct {
	exec
}

func (c *sqlConn) Close() error {
	return c.db.Close()
}
