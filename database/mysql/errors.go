package mysql

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/koustreak/QueryDeck/database"
)

// MySQL error numbers this driver cares about.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errConnRefused     = 2003
	errSyntax          = 1064
	errBadField        = 1054
	errNoSuchTable     = 1146
	errProcNotFound    = 1305
)

// mapError converts a MySQL driver error into the module's DBError.
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

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errAccessDenied, errUnknownDatabase, errConnRefused:
			return &database.DBError{
				Kind:    database.ErrKindConnection,
				Message: fmt.Sprintf("mysql connection failed: %s", mysqlErr.Message),
				Cause:   err,
			}
		default:
			return &database.DBError{
				Kind:    database.ErrKindExecution,
				Message: fmt.Sprintf("mysql error %d: %s", mysqlErr.Number, mysqlErr.Message),
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

// mapConnectError classifies failures on the connect path.
func mapConnectError(err error) error {
	if err == nil {
		return nil
	}
	var dbErr *database.DBError
	if errors.As(err, &dbErr) {
		return err
	}
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mapError(err)
	}
	return &database.DBError{
		Kind:    database.ErrKindConnection,
		Message: "cannot reach mysql",
		Cause:   err,
	}
}
