package mssql

import (
	"context"
	"errors"
	"fmt"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/koustreak/QueryDeck/database"
)

// SQL Server error numbers this driver cares about.
// Full list: https://learn.microsoft.com/sql/relational-databases/errors-events/
const (
	sqlErrLoginFailed     = 18456
	sqlErrLoginFailedUser = 18452
	sqlErrCannotOpenDB    = 4060
	sqlErrSyntax          = 102
	sqlErrBadObjectName   = 208
	sqlErrProcNotFound    = 2812
	sqlErrMissingParam    = 201
)

// mapError converts a go-mssqldb error into the module's DBError.
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

	var sqlErr mssqldb.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.SQLErrorNumber() {
		case sqlErrLoginFailed, sqlErrLoginFailedUser, sqlErrCannotOpenDB:
			return &database.DBError{
				Kind:    database.ErrKindConnection,
				Message: fmt.Sprintf("sql server connection failed: %s", sqlErr.SQLErrorMessage()),
				Cause:   err,
			}
		default:
			return &database.DBError{
				Kind:    database.ErrKindExecution,
				Message: fmt.Sprintf("sql server error %d: %s", sqlErr.SQLErrorNumber(), sqlErr.SQLErrorMessage()),
				Cause:   err,
			}
		}
	}

	return &database.DBError{
		Kind:    database.ErrKindExecution,
		Message: err.Error(),
		Cause:   err,
	}
}

// mapConnectError classifies failures on the connect path, where anything
// that is not already a DBError means the server was unreachable.
func mapConnectError(err error) error {
	if err == nil {
		return nil
	}
	var dbErr *database.DBError
	if errors.As(err, &dbErr) {
		return err
	}
	var sqlErr mssqldb.Error
	if errors.As(err, &sqlErr) {
		return mapError(err)
	}
	return &database.DBError{
		Kind:    database.ErrKindConnection,
		Message: "cannot reach sql server",
		Cause:   err,
	}
}
