package data

import (
	"database/sql"
	"fmt"
)

// rowScanner is the subset of *sql.Rows a scan func needs.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryList runs query and scans every row with scan. The returned slice is
// never nil so it encodes as an empty JSON array.
func queryList[T any](db *sql.DB, what, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	list := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		list = append(list, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", what, err)
	}

	return list, nil
}
