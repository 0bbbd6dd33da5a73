package database

import (
	"errors"
	"fmt"
)

// ErrKind categorises a database error without exposing driver-specific codes.
type ErrKind int

const (
	ErrKindUnknown       ErrKind = iota
	ErrKindConfiguration         // configuration absent or invalid at first use
	ErrKindConnection            // pool or connection establishment failure
	ErrKindExecution             // statement/procedure execution failure, including binding
	ErrKindInvalidInput          // caller passed bad arguments
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindConnection:
		return "connection_failed"
	case ErrKindExecution:
		return "execution_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// DBError is the single error type returned by all operations in this module.
// Drivers translate their native errors into DBError before returning them.
type DBError struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *DBError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// --- Constructor helpers ---

func errConfiguration(msg string) *DBError {
	return &DBError{Kind: ErrKindConfiguration, Message: msg}
}

func errConnection(msg string, cause error) *DBError {
	return &DBError{Kind: ErrKindConnection, Message: msg, Cause: cause}
}

func errExecution(msg string, cause error) *DBError {
	return &DBError{Kind: ErrKindExecution, Message: msg, Cause: cause}
}

func errInvalidInput(msg string) *DBError {
	return &DBError{Kind: ErrKindInvalidInput, Message: msg}
}

// --- Public predicates for callers ---

// IsConfiguration reports whether err was caused by absent or invalid configuration.
func IsConfiguration(err error) bool {
	return kindOf(err) == ErrKindConfiguration
}

// IsConnection reports whether err is a connectivity or auth failure.
func IsConnection(err error) bool {
	return kindOf(err) == ErrKindConnection
}

// IsExecution reports whether err is a statement or procedure execution failure.
func IsExecution(err error) bool {
	return kindOf(err) == ErrKindExecution
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

func kindOf(err error) ErrKind {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return ErrKindUnknown
}
