package mysql

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/koustreak/QueryDeck/database"
)

const defaultPort = 3306

// buildDB configures a *sql.DB with pool settings. multiStatements stays on:
// the identity-fetch suffix rides in the same batch as its INSERT, which is
// what guarantees LAST_INSERT_ID() runs on the same connection.
func buildDB(cfg *database.Config, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, &database.DBError{
			Kind:    database.ErrKindConfiguration,
			Message: "invalid mysql connection settings",
			Cause:   err,
		}
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(int(cfg.Pool.MinConns), maxOpen))
	db.SetConnMaxIdleTime(cfg.Pool.IdleTimeout)
	return db, nil
}

// buildDSN constructs the MySQL DSN string.
// format: user:pass@tcp(host:port)/dbname?parseTime=true&multiStatements=true
func buildDSN(cfg *database.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	flags := []string{"parseTime=true", "multiStatements=true"}
	extras := make([]string, 0, len(cfg.Options.Extra))
	for k, v := range cfg.Options.Extra {
		extras = append(extras, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(extras)

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User, cfg.Password, cfg.Server, port, cfg.Database,
		strings.Join(append(flags, extras...), "&"),
	)
}
