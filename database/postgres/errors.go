package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/QueryDeck/database"
)

// SQLSTATE class prefixes.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	classConnection = "08" // connection exception
	classAuth       = "28" // invalid authorization
)

// mapError converts a pgx error into the module's DBError.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &database.DBError{
			Kind:    database.ErrKindExecution,
			Message: "query cancelled or timed out",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, classConnection) || strings.HasPrefix(pgErr.Code, classAuth) {
			return &database.DBError{
				Kind:    database.ErrKindConnection,
				Message: fmt.Sprintf("postgres connection failed: %s", pgErr.Message),
				Cause:   err,
			}
		}
		return &database.DBError{
			Kind:    database.ErrKindExecution,
			Message: fmt.Sprintf("postgres error %s: %s", pgErr.Code, pgErr.Message),
			Cause:   err,
		}
	}

	return &database.DBError{
		Kind:    database.ErrKindExecution,
		Message: err.Error(),
		Cause:   err,
	}
}

// mapConnectError classifies failures on the connect path.
func mapConnectError(err error) error {
	if err == nil {
		return nil
	}
	var dbErr *database.DBError
	if errors.As(err, &dbErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapError(err)
	}
	return &database.DBError{
		Kind:    database.ErrKindConnection,
		Message: "cannot reach postgres",
		Cause:   err,
	}
}
