package mcpquery

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"strings"
)

// renderRowsAsCSV drains rows into a CSV string, column header first.
// Grounded on the teacher's mcp_data.queryDuckDB row-scanning loop: scan
// into []any, render []byte columns as strings, fall back to fmt.Sprintf
// for everything else, NULL as an empty cell.
func renderRowsAsCSV(rows *sql.Rows, columns []string) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", err
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}

		record := make([]string, len(columns))
		for i, v := range values {
			switch t := v.(type) {
			case nil:
				record[i] = ""
			case []byte:
				record[i] = string(t)
			default:
				record[i] = fmt.Sprintf("%v", t)
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
