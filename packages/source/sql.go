package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// queryResult holds the rows of a query in column order.
type queryResult struct {
	columns []string
	rows    [][]any
}

func (l *Loader) loadSQL(ctx context.Context, ref Ref) (any, error) {
	path, err := parseConnectionString(ref.SQL)
	if err != nil {
		return nil, err
	}
	path, err = l.resolve(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	result, err := query(ctx, db, ref.Query)
	if err != nil {
		return nil, err
	}

	values, err := result.project(ref.Column)
	if err != nil {
		return nil, err
	}
	return Normalize(values)
}

func query(ctx context.Context, db *sql.DB, q string) (*queryResult, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &queryResult{columns: columns, rows: make([][]any, 0)}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.rows = append(result.rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// project returns the named column as a sequence. Without a column name a
// single-column result is returned as its values and a wider result as one
// object per row.
func (r *queryResult) project(column string) ([]any, error) {
	out := make([]any, 0, len(r.rows))

	if column == "" && len(r.columns) != 1 {
		for _, row := range r.rows {
			obj := make(map[string]any, len(r.columns))
			for i, col := range r.columns {
				obj[col] = row[i]
			}
			out = append(out, obj)
		}
		return out, nil
	}

	idx := 0
	if column != "" {
		idx = -1
		for i, col := range r.columns {
			if strings.EqualFold(col, column) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("column %q not found in result (columns: %s)", column, strings.Join(r.columns, ", "))
		}
	}
	for _, row := range r.rows {
		out = append(out, row[idx])
	}
	return out, nil
}

// parseConnectionString returns the database path of a sqlite connection
// string. Supported forms are sqlite://path and sqlite:path.
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)
	var path string
	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		path = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		path = strings.TrimPrefix(connStr, "sqlite:")
	default:
		return "", fmt.Errorf("unsupported database connection %q (want sqlite://path)", connStr)
	}
	if path == "" {
		return "", fmt.Errorf("connection %q has no database path", connStr)
	}
	return path, nil
}
