package database

import "database/sql"

// ScanRecordsets drains every result set of a database/sql query into
// map-keyed rows. It is shared by the drivers built on database/sql (mssql,
// mysql); the pgx driver has its own scanning.
//
// The returned slice holds one Recordset per row-producing result set, in
// order, each a non-nil slice. Statements that produce no result set (a bare
// INSERT inside a batch) are skipped. ScanRecordsets always closes rows.
func ScanRecordsets(rows *sql.Rows) ([]Recordset, error) {
	defer rows.Close()

	var sets []Recordset
	for {
		columns, err := rows.Columns()
		if err != nil {
			// No result set at the current position.
			if !rows.NextResultSet() {
				break
			}
			continue
		}

		rs, err := scanRecordset(rows, columns)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)

		if !rows.NextResultSet() {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errExecution("error during row iteration", err)
	}
	return sets, nil
}

func scanRecordset(rows *sql.Rows, columns []string) (Recordset, error) {
	rs := make(Recordset, 0)
	for rows.Next() {
		// Scan through *any so the driver can write whatever type it has.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, errExecution("failed to scan row", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = dest[i]
		}
		rs = append(rs, row)
	}
	return rs, nil
}
