package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Memory is a short, timestamped, taggable text note.
type Memory struct {
	ID         string
	Content    string
	Tags       []string
	CreatedAt  float64 // fractional unix seconds
	Importance string

	// Populated by Recall only.
	AgeDays float64
	Recency float64
}

// validImportance are the allowed importance levels.
var validImportance = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// Remember stores a memory and returns its id. The FTS trigger indexes
// content+tags in the same transaction as the insert.
func (db *DB) Remember(content string, tags []string, importance string) (string, error) {
	if err := db.guard(); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}
	if importance == "" {
		importance = "medium"
	}
	if !validImportance[importance] {
		return "", fmt.Errorf("%w: importance %q (want low, medium, or high)", ErrInvalidInput, importance)
	}

	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}

	id := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO memories (id, content, tags, created_at, importance)
		VALUES (?, ?, ?, ?, ?)
	`, id, content, string(tagsJSON), now(), importance)
	if err != nil {
		return "", fmt.Errorf("insert memory: %w", err)
	}
	return id, nil
}

// Recall searches the full-text index and ranks matches by recency score
// 1/(1+age_days*0.1), newest first. Ties fall back to FTS rank. The query
// string is passed straight through as FTS5 query syntax.
func (db *DB) Recall(query string, limit int) ([]Memory, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	rows, err := db.Query(`
		SELECT m.id, m.content, m.tags, m.created_at, m.importance,
			(julianday('now') - julianday(m.created_at, 'unixepoch')) AS age_days,
			1.0 / (1.0 + (julianday('now') - julianday(m.created_at, 'unixepoch')) * 0.1) AS recency_score
		FROM memories m
		JOIN memories_fts ON m.rowid = memories_fts.rowid
		WHERE memories_fts MATCH ?
		ORDER BY recency_score DESC, memories_fts.rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recall %q: %w", query, err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// Forget deletes every memory whose content contains query as a
// case-sensitive substring and returns the number deleted. instr() is used
// instead of LIKE, which is ASCII case-insensitive in SQLite. The delete
// trigger drops the index entries in the same transaction.
func (db *DB) Forget(query string) (int, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(query) == "" {
		return 0, fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}

	result, err := db.Exec(`DELETE FROM memories WHERE instr(content, ?) > 0`, query)
	if err != nil {
		return 0, fmt.Errorf("forget %q: %w", query, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("forget rows affected: %w", err)
	}
	return int(n), nil
}

// RecentMemories returns the newest memories by created_at, for context
// compilation. No full-text matching.
func (db *DB) RecentMemories(limit int) ([]Memory, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	rows, err := db.Query(`
		SELECT id, content, tags, created_at, importance, 0, 0
		FROM memories ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// CountMemories returns the number of stored memories.
func (db *DB) CountMemories() (int, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM memories").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count memories: %w", err)
	}
	return count, nil
}

func scanMemories(rows *sql.Rows) ([]Memory, error) {
	var memories []Memory
	for rows.Next() {
		var m Memory
		var tagsJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.Content, &tagsJSON, &m.CreatedAt, &m.Importance, &m.AgeDays, &m.Recency); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &m.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags for %s: %w", m.ID, err)
			}
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
