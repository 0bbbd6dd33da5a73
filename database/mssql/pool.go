package mssql

import (
	"database/sql"
	"fmt"
	"net/url"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/koustreak/QueryDeck/database"
)

const defaultPort = 1433

// buildDB configures a *sql.DB over a go-mssqldb connector. The pool is not
// connected yet; callers ping it themselves.
func buildDB(cfg *database.Config, maxOpen int) (*sql.DB, error) {
	connector, err := mssqldb.NewConnector(buildDSN(cfg))
	if err != nil {
		return nil, &database.DBError{
			Kind:    database.ErrKindConfiguration,
			Message: "invalid sql server connection settings",
			Cause:   err,
		}
	}
	if cfg.Options.EnableArithAbortOrDefault() {
		// Applied once per physical session, matching what SSMS sets.
		connector.SessionInitSQL = "SET ARITHABORT ON"
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(int(cfg.Pool.MinConns), maxOpen))
	db.SetConnMaxIdleTime(cfg.Pool.IdleTimeout)
	return db, nil
}

// buildDSN constructs the sqlserver:// connection URL.
func buildDSN(cfg *database.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	u := &url.URL{
		Scheme: "sqlserver",
		Host:   fmt.Sprintf("%s:%d", cfg.Server, port),
	}

	q := url.Values{}
	q.Set("database", cfg.Database)
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else if cfg.Options.TrustedConnectionOrDefault() {
		// No credentials: fall back to integrated authentication.
		q.Set("trusted_connection", "yes")
	}
	if cfg.Options.TrustServerCertificateOrDefault() {
		q.Set("TrustServerCertificate", "true")
	}
	for k, v := range cfg.Options.Extra {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
