package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "core tables: memories, artifacts, errors, session, config",
		SQL: `
CREATE TABLE memories (
    id         TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    tags       TEXT,
    created_at REAL,
    importance TEXT DEFAULT 'medium'
);

CREATE TABLE artifacts (
    id         TEXT PRIMARY KEY,
    name       TEXT UNIQUE NOT NULL,
    content    TEXT NOT NULL,
    size       INTEGER,
    created_at REAL
);

CREATE TABLE errors (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    action     TEXT,
    error      TEXT,
    context    TEXT,
    created_at REAL,
    resolved   INTEGER DEFAULT 0
);

CREATE TABLE session (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    role      TEXT,
    content   TEXT,
    timestamp REAL
);

CREATE TABLE config (
    key   TEXT PRIMARY KEY,
    value TEXT
);

CREATE INDEX idx_memories_created ON memories(created_at DESC);
CREATE INDEX idx_errors_created   ON errors(created_at DESC);
CREATE INDEX idx_session_ts       ON session(timestamp DESC);
`,
	},
	{
		Version:     2,
		Description: "memories_fts: full-text index over content+tags, trigger-synced",
		SQL: `
CREATE VIRTUAL TABLE memories_fts USING fts5(
    content, tags, content='memories', content_rowid='rowid'
);

-- External-content FTS5 requires the 'delete' command form; the triggers
-- run inside the same transaction as the row mutation, so the index and
-- the memories table can never diverge for live rows.
CREATE TRIGGER memories_ai AFTER INSERT ON memories BEGIN
    INSERT INTO memories_fts(rowid, content, tags)
    VALUES (new.rowid, new.content, new.tags);
END;

CREATE TRIGGER memories_ad AFTER DELETE ON memories BEGIN
    INSERT INTO memories_fts(memories_fts, rowid, content, tags)
    VALUES ('delete', old.rowid, old.content, old.tags);
END;

CREATE TRIGGER memories_au AFTER UPDATE ON memories BEGIN
    INSERT INTO memories_fts(memories_fts, rowid, content, tags)
    VALUES ('delete', old.rowid, old.content, old.tags);
    INSERT INTO memories_fts(rowid, content, tags)
    VALUES (new.rowid, new.content, new.tags);
END;
`,
	},
	{
		Version:     3,
		Description: "errors.resolution: persist how an error was fixed",
		SQL: `
ALTER TABLE errors ADD COLUMN resolution TEXT;
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
