package store

import (
	"fmt"
	"strings"
)

// Turn is one conversational exchange in the session log.
type Turn struct {
	ID        int64
	Role      string
	Content   string
	Timestamp float64
}

// AppendTurn records a conversational turn.
func (db *DB) AppendTurn(role, content string) (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(role) == "" {
		return 0, fmt.Errorf("%w: role is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}

	result, err := db.Exec(`
		INSERT INTO session (role, content, timestamp) VALUES (?, ?, ?)
	`, role, content, now())
	if err != nil {
		return 0, fmt.Errorf("append turn: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append turn id: %w", err)
	}
	return id, nil
}

// RecentTurns returns the newest session turns, most recent first.
func (db *DB) RecentTurns(limit int) ([]Turn, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	rows, err := db.Query(`
		SELECT id, role, content, timestamp FROM session
		ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
