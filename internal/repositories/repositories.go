package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence advances and returns the per-table sequence counter.
//
// Sequences give rows a stable human-readable ordinal (user #42) alongside
// their uuid; they never appear in API responses. The single UPDATE with
// RETURNING is atomic, so concurrent creates cannot observe the same value.
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}

	return sequence, nil
}
