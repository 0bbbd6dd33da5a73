package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koustreak/QueryDeck/database"
	"github.com/koustreak/QueryDeck/internal/sqltext"
)

// rewriteQuery translates @name markers into $n placeholders and collects
// the argument slice in first-occurrence order. Repeated markers reuse one
// ordinal. An explicit parameter type becomes a cast on the placeholder.
func rewriteQuery(query string, params []database.Param) (string, []any, error) {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[strings.ToLower(database.StripMarker(p.Name))] = i
	}

	ordinals := make(map[string]int, len(params))
	var args []any

	out, err := sqltext.ReplaceNamed(query, func(name string) (string, error) {
		key := strings.ToLower(name)
		n, seen := ordinals[key]
		if !seen {
			i, ok := index[key]
			if !ok {
				return "", fmt.Errorf("no value bound for parameter @%s", name)
			}
			args = append(args, params[i].Value)
			n = len(args)
			ordinals[key] = n

			if cast := castFor(params[i].Type); cast != "" {
				return "$" + strconv.Itoa(n) + "::" + cast, nil
			}
		}
		return "$" + strconv.Itoa(n), nil
	})
	if err != nil {
		return "", nil, &database.DBError{
			Kind:    database.ErrKindExecution,
			Message: "parameter binding failed",
			Cause:   err,
		}
	}
	return out, args, nil
}

// procArgs builds the positional call expression for a stored procedure or
// function invoked by bare name: markers never appear in the text, so the
// parameter list order decides the ordinals.
func procArgs(params []database.Param) (string, []any) {
	placeholders := make([]string, len(params))
	args := make([]any, len(params))
	for i, p := range params {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		if cast := castFor(p.Type); cast != "" {
			placeholders[i] += "::" + cast
		}
		args[i] = p.Value
	}
	return strings.Join(placeholders, ", "), args
}

// castFor maps an explicit parameter type tag onto a postgres cast.
func castFor(t database.NativeType) string {
	switch t {
	case database.TypeBit:
		return "boolean"
	case database.TypeInt:
		return "integer"
	case database.TypeBigInt:
		return "bigint"
	case database.TypeFloat:
		return "double precision"
	case database.TypeVarChar, database.TypeNVarChar:
		return "text"
	case database.TypeDateTime:
		return "timestamptz"
	case database.TypeBinary:
		return "bytea"
	default:
		return ""
	}
}

// quoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
