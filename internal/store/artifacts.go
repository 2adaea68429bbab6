package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Artifact is a larger named text blob, at most one per name.
type Artifact struct {
	ID        string
	Name      string
	Content   string
	Size      int
	CreatedAt float64
}

// PutArtifact stores an artifact, replacing any existing one with the same
// name (the replacement gets a fresh id and timestamp). Returns the id.
func (db *DB) PutArtifact(name, content string) (string, error) {
	if err := db.guard(); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT OR REPLACE INTO artifacts (id, name, content, size, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, content, len(content), now())
	if err != nil {
		return "", fmt.Errorf("put artifact %q: %w", name, err)
	}
	return id, nil
}

// GetArtifact returns the artifact with the given name, or nil if absent.
func (db *DB) GetArtifact(name string) (*Artifact, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}

	var a Artifact
	err := db.QueryRow(`
		SELECT id, name, content, size, created_at FROM artifacts WHERE name = ?
	`, name).Scan(&a.ID, &a.Name, &a.Content, &a.Size, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %q: %w", name, err)
	}
	return &a, nil
}

// ListArtifactNames returns all artifact names, ordered by name.
func (db *DB) ListArtifactNames() ([]string, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT name FROM artifacts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountArtifacts returns the number of stored artifacts.
func (db *DB) CountArtifacts() (int, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM artifacts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count artifacts: %w", err)
	}
	return count, nil
}
