package database

import "context"

// Driver is implemented once per database engine (see the mssql, postgres and
// mysql subpackages). Callers never import those packages for query work —
// they construct a driver once and hand it to New.
type Driver interface {
	// Name identifies the engine for logging.
	Name() string

	// Connect establishes the shared connection pool.
	Connect(ctx context.Context, cfg *Config) (Pool, error)

	// Open establishes a private, one-off connection outside the shared
	// pool. The caller owns it and must Close it.
	Open(ctx context.Context, cfg *Config) (Conn, error)

	// IdentitySuffix returns the engine's identity-fetch clause for the
	// given column, appended to plain-text INSERT statements.
	IdentitySuffix(column string) string
}

// Querier is the execution surface shared by pools and one-off connections.
type Querier interface {
	// Query runs the command and returns every record set it produced.
	Query(ctx context.Context, kind CommandKind, query string, params []Param) (*Result, error)

	// Exec runs the command and returns the affected-row count.
	Exec(ctx context.Context, kind CommandKind, query string, params []Param) (int64, error)

	// CallReturn executes a stored procedure and returns its integer return
	// status, 0 when the procedure sets none.
	CallReturn(ctx context.Context, proc string, params []Param) (int64, error)
}

// Pool is a shared, long-lived handle to the engine's connection pool.
type Pool interface {
	Querier

	// Ping verifies the pool can reach the database.
	Ping(ctx context.Context) error

	// Close releases all resources held by the pool.
	Close()
}

// Conn is a private single connection returned by Driver.Open.
type Conn interface {
	Querier
	Close() error
}
