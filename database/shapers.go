package database

import (
	"context"
	"fmt"
	"strconv"
)

// ScalarColumn is the column name the Scalar helper projects. Queries used
// with Scalar must alias their single column to it.
const ScalarColumn = "value"

// Raw marks a SQL fragment (table name, WHERE clause) that is interpolated
// into a statement verbatim. No escaping is performed: fragments must come
// from trusted code, never from user input. Bind anything user-supplied as
// a Param instead.
type Raw string

// Dataset returns every row of the first record set. The result is never
// nil: a query matching nothing yields an empty slice.
func (c *Client) Dataset(ctx context.Context, kind CommandKind, query string, params ...Param) (Recordset, error) {
	res, err := c.Execute(ctx, kind, query, params...)
	if err != nil {
		return nil, err
	}
	rs := res.firstRecordset()
	if rs == nil {
		return Recordset{}, nil
	}
	return rs, nil
}

// Datasets returns every record set of the batch, in order. Never nil.
func (c *Client) Datasets(ctx context.Context, kind CommandKind, query string, params ...Param) ([]Recordset, error) {
	res, err := c.Execute(ctx, kind, query, params...)
	if err != nil {
		return nil, err
	}
	if res.Recordsets == nil {
		return []Recordset{}, nil
	}
	return res.Recordsets, nil
}

// Single returns the first row of the first record set, or nil when the
// query matched nothing. Absence of data is not an error.
func (c *Client) Single(ctx context.Context, kind CommandKind, query string, params ...Param) (Row, error) {
	res, err := c.Execute(ctx, kind, query, params...)
	if err != nil {
		return nil, err
	}
	rs := res.firstRecordset()
	if len(rs) == 0 {
		return nil, nil
	}
	return rs[0], nil
}

// Scalar returns the ScalarColumn field of the first row, or nil when the
// query matched nothing. A row whose value is NULL is indistinguishable
// from no row at all; callers that care should use Single.
func (c *Client) Scalar(ctx context.Context, kind CommandKind, query string, params ...Param) (any, error) {
	row, err := c.Single(ctx, kind, query, params...)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return row[ScalarColumn], nil
}

// Insert runs an INSERT and returns the generated identity value, 0 when
// none was produced. For Text commands exactly one engine-specific
// identity-fetch clause is appended before execution; stored procedures are
// executed unmodified and must return the identity column themselves.
func (c *Client) Insert(ctx context.Context, kind CommandKind, query, identityColumn string, params ...Param) (int64, error) {
	if kind == Text {
		query += c.driver.IdentitySuffix(identityColumn)
	}
	res, err := c.Execute(ctx, kind, query, params...)
	if err != nil {
		return 0, err
	}
	rs := res.firstRecordset()
	if len(rs) == 0 {
		return 0, nil
	}
	row := rs[0]
	v, ok := row[identityColumn]
	if !ok && len(row) == 1 {
		// Engines differ on how the alias round-trips; a single-column row
		// is unambiguous either way.
		for _, only := range row {
			v = only
		}
	}
	return toInt64(v), nil
}

// Update runs an UPDATE and returns the affected-row count.
func (c *Client) Update(ctx context.Context, kind CommandKind, query string, params ...Param) (int64, error) {
	return c.exec(ctx, kind, query, params)
}

// Delete runs a DELETE and returns the affected-row count.
func (c *Client) Delete(ctx context.Context, kind CommandKind, query string, params ...Param) (int64, error) {
	return c.exec(ctx, kind, query, params)
}

// Exists reports whether any row of table matches the where fragment.
func (c *Client) Exists(ctx context.Context, table, where Raw, params ...Param) (bool, error) {
	n, err := c.Count(ctx, table, where, params...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of rows of table matching the where fragment.
// An empty fragment counts the whole table.
func (c *Client) Count(ctx context.Context, table, where Raw, params ...Param) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(1) AS %s FROM %s", ScalarColumn, table)
	if where != "" {
		query += fmt.Sprintf(" WHERE %s", where)
	}
	v, err := c.Scalar(ctx, Text, query, params...)
	if err != nil {
		return 0, err
	}
	return toInt64(v), nil
}

// toInt64 coerces the numeric shapes drivers hand back (identity values,
// counts) into int64, defaulting to 0 for anything absent or non-numeric.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case []byte:
		// SQL Server returns SCOPE_IDENTITY() as a decimal, which the
		// driver surfaces as text.
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			return int64(f)
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}
