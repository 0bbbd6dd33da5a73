package mysql

import (
	"fmt"
	"strings"

	"github.com/koustreak/QueryDeck/database"
	"github.com/koustreak/QueryDeck/internal/sqltext"
)

// rewriteQuery translates @name markers into ? placeholders. MySQL
// placeholders are purely positional, so a marker that repeats duplicates
// its argument.
func rewriteQuery(query string, params []database.Param) (string, []any, error) {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[strings.ToLower(database.StripMarker(p.Name))] = i
	}

	var args []any
	out, err := sqltext.ReplaceNamed(query, func(name string) (string, error) {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("no value bound for parameter @%s", name)
		}
		args = append(args, params[i].Value)
		return "?", nil
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

// callStatement builds `CALL name(?, …)` with arguments in parameter-list
// order.
func callStatement(proc string, params []database.Param) (string, []any) {
	placeholders := make([]string, len(params))
	args := make([]any, len(params))
	for i, p := range params {
		placeholders[i] = "?"
		args[i] = p.Value
	}
	return fmt.Sprintf("CALL %s(%s)", proc, strings.Join(placeholders, ", ")), args
}
