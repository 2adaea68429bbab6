package store

import (
	"database/sql"
	"fmt"
)

const modeKey = "current_mode"

// GetSetting returns the config value for key, or "" when unset.
func (db *DB) GetSetting(key string) (string, error) {
	if err := db.guard(); err != nil {
		return "", err
	}

	var value string
	err := db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a config value.
func (db *DB) SetSetting(key, value string) error {
	if err := db.guard(); err != nil {
		return err
	}

	_, err := db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Mode returns the persisted working mode, defaulting to "coding".
func (db *DB) Mode() (string, error) {
	m, err := db.GetSetting(modeKey)
	if err != nil {
		return "", err
	}
	if m == "" {
		return "coding", nil
	}
	return m, nil
}

// SetMode persists the working mode.
func (db *DB) SetMode(m string) error {
	return db.SetSetting(modeKey, m)
}

// Status is a point-in-time snapshot of the store.
type Status struct {
	Memories         int    `json:"memories"`
	Artifacts        int    `json:"artifacts"`
	UnresolvedErrors int    `json:"unresolved_errors"`
	Mode             string `json:"mode"`
	DBPath           string `json:"db_path"`
}

// Status reports entity counts, the current mode, and the database path.
// Pure read, no side effects.
func (db *DB) Status() (*Status, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}

	memories, err := db.CountMemories()
	if err != nil {
		return nil, err
	}
	artifacts, err := db.CountArtifacts()
	if err != nil {
		return nil, err
	}
	unresolved, err := db.CountUnresolvedErrors()
	if err != nil {
		return nil, err
	}
	mode, err := db.Mode()
	if err != nil {
		return nil, err
	}

	return &Status{
		Memories:         memories,
		Artifacts:        artifacts,
		UnresolvedErrors: unresolved,
		Mode:             mode,
		DBPath:           db.Path,
	}, nil
}
