package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Sentinel errors for the storage taxonomy. Engine-level failures are
// wrapped with %w and surface unchanged; "not found" is represented as a
// nil result, not an error.
var (
	// ErrInvalidInput is returned for empty or out-of-range caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned for operations issued after Close.
	ErrClosed = errors.New("store is closed")
)

// DB wraps a sql.DB connection to the retain SQLite database. It is the
// single owner of the connection — every other layer receives a *DB and
// never opens its own handle.
type DB struct {
	*sql.DB
	Path string

	closed atomic.Bool
}

// DefaultDBPath returns the default database path: ~/.retain/retain.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".retain", "retain.db"), nil
}

// Open opens (or creates) the SQLite database at the given path,
// configures pragmas, and runs migrations. New database files get
// owner-only permissions; a failed chmod is logged, not fatal.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage unavailable: create db dir: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage unavailable: open sqlite: %w", err)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("storage unavailable: migrate: %w", err)
	}

	if isNew {
		if err := os.Chmod(path, 0600); err != nil {
			log.Printf("store: chmod %s: %v", path, err)
		}
	}
	return db, nil
}

// OpenMemory opens an in-memory SQLite database for testing.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage unavailable: open sqlite memory: %w", err)
	}
	// Each pooled connection would otherwise see its own empty database.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, Path: ":memory:"}
	if err := db.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("storage unavailable: migrate: %w", err)
	}
	return db, nil
}

func (db *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

// guard returns ErrClosed once Close has been called. Every exported
// operation checks it before touching the connection.
func (db *DB) guard() error {
	if db.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close releases the connection. Safe to call more than once.
func (db *DB) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	return db.DB.Close()
}

// now returns the current time as fractional unix seconds, the REAL
// timestamp format shared by every table.
func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
