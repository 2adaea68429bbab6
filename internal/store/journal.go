package store

import (
	"database/sql"
	"fmt"
)

// ErrorRecord is an append-only failure log entry.
type ErrorRecord struct {
	ID         int64
	Action     string
	Error      string
	Context    string
	CreatedAt  float64
	Resolved   bool
	Resolution string
}

// LogError appends an error record and returns its id. Ids are the
// AUTOINCREMENT rowids, so they only ever grow.
func (db *DB) LogError(action, errMsg, context string) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO errors (action, error, context, created_at)
		VALUES (?, ?, ?, ?)
	`, action, errMsg, context, now())
	if err != nil {
		return 0, fmt.Errorf("log error: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("log error id: %w", err)
	}
	return id, nil
}

// ResolveError marks an error resolved and records the resolution text.
// Returns false, without error, when the id does not exist.
func (db *DB) ResolveError(id int64, resolution string) (bool, error) {
	if err := db.guard(); err != nil {
		return false, err
	}

	result, err := db.Exec(`
		UPDATE errors SET resolved = 1, resolution = ? WHERE id = ?
	`, resolution, id)
	if err != nil {
		return false, fmt.Errorf("resolve error %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve rows affected: %w", err)
	}
	return n > 0, nil
}

// RecentErrors returns the newest error records, most recent first.
// With unresolvedOnly, resolved records are excluded.
func (db *DB) RecentErrors(limit int, unresolvedOnly bool) ([]ErrorRecord, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	query := `
		SELECT id, action, error, context, created_at, resolved, resolution
		FROM errors ORDER BY created_at DESC, id DESC LIMIT ?
	`
	if unresolvedOnly {
		query = `
			SELECT id, action, error, context, created_at, resolved, resolution
			FROM errors WHERE resolved = 0 ORDER BY created_at DESC, id DESC LIMIT ?
		`
	}

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent errors: %w", err)
	}
	defer rows.Close()

	var records []ErrorRecord
	for rows.Next() {
		var r ErrorRecord
		var resolved int
		var resolution sql.NullString
		if err := rows.Scan(&r.ID, &r.Action, &r.Error, &r.Context, &r.CreatedAt, &resolved, &resolution); err != nil {
			return nil, fmt.Errorf("scan error record: %w", err)
		}
		r.Resolved = resolved != 0
		r.Resolution = resolution.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountUnresolvedErrors returns the number of unresolved error records.
func (db *DB) CountUnresolvedErrors() (int, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM errors WHERE resolved = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unresolved errors: %w", err)
	}
	return count, nil
}
