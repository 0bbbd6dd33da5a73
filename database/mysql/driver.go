// Package mysql implements the database.Driver contract for MySQL on top of
// go-sql-driver/mysql and database/sql.
//
// @name markers are rewritten to positional ? placeholders. MySQL stored
// procedures carry no integer return status, so CallReturn always yields 0
// after a successful CALL.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // register driver

	"github.com/koustreak/QueryDeck/database"
)

// Driver implements database.Driver for MySQL.
type Driver struct{}

// New returns the MySQL driver.
func New() *Driver { return &Driver{} }

func (d *Driver) Name() string { return "mysql" }

// IdentitySuffix returns the batch suffix that fetches the identity value
// generated by the preceding INSERT.
func (d *Driver) IdentitySuffix(column string) string {
	return fmt.Sprintf("; SELECT LAST_INSERT_ID() AS `%s`", column)
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

type exec struct {
	db *sql.DB
}

// Query runs the command and drains every record set.
func (e *exec) Query(ctx context.Context, kind database.CommandKind, query string, params []database.Param) (*database.Result, error) {
	stmt, args, err := e.prepare(kind, query, params)
	if err != nil {
		return nil, err
	}
	rows, err := e.db.QueryContext(ctx, stmt, args...)
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
func (e *exec) Exec(ctx context.Context, kind database.CommandKind, query string, params []database.Param) (int64, error) {
	stmt, args, err := e.prepare(kind, query, params)
	if err != nil {
		return 0, err
	}
	res, err := e.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// CallReturn executes the procedure and yields 0: MySQL has no procedure
// return status.
func (e *exec) CallReturn(ctx context.Context, proc string, params []database.Param) (int64, error) {
	stmt, args := callStatement(proc, params)
	if _, err := e.db.ExecContext(ctx, stmt, args...); err != nil {
		return 0, mapError(err)
	}
	return 0, nil
}

func (e *exec) prepare(kind database.CommandKind, query string, params []database.Param) (string, []any, error) {
	if kind == database.StoredProcedure {
		stmt, args := callStatement(query, params)
		return stmt, args, nil
	}
	return rewriteQuery(query, params)
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
