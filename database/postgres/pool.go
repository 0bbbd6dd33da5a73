package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/QueryDeck/database"
)

const defaultPort = 5432

// buildPool creates a pgxpool from the façade configuration.
func buildPool(ctx context.Context, cfg *database.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, &database.DBError{
			Kind:    database.ErrKindConfiguration,
			Message: "invalid postgres connection settings",
			Cause:   err,
		}
	}

	poolCfg.MaxConns = cfg.Pool.MaxConns
	poolCfg.MinConns = cfg.Pool.MinConns
	poolCfg.MaxConnIdleTime = cfg.Pool.IdleTimeout
	poolCfg.ConnConfig.ConnectTimeout = cfg.Pool.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, mapConnectError(err)
	}
	return pool, nil
}

// buildDSN constructs the postgres key/value connection string.
func buildDSN(cfg *database.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	sslMode := cfg.Options.Extra["sslmode"]
	if sslMode == "" {
		if cfg.Options.TrustServerCertificateOrDefault() {
			sslMode = "prefer"
		} else {
			sslMode = "verify-full"
		}
	}

	parts := []string{
		fmt.Sprintf("host=%s", cfg.Server),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("user=%s", cfg.User),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", sslMode),
	}

	extras := make([]string, 0, len(cfg.Options.Extra))
	for k, v := range cfg.Options.Extra {
		if k == "sslmode" {
			continue
		}
		extras = append(extras, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(extras)

	return strings.Join(append(parts, extras...), " ")
}
