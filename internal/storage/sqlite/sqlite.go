// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface using Go's standard database/sql package.
//
// The whole store is a single two-column table:
//
//	kv(key TEXT PRIMARY KEY, value TEXT)
//
// Values are kept exactly as the caller wrote them (JSON text), so the
// file can be inspected with the sqlite3 shell.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/attendance-api/internal/config"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Store.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the path specified in cfg.StoragePath.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open opens (or creates) the database file at path, creates the kv
// table if it does not already exist, and returns a ready-to-use *SQLite.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// One connection: every caller sees the same database, including
	// ":memory:" where each connection would otherwise get its own.
	db.SetMaxOpenConns(1)

	// CREATE TABLE IF NOT EXISTS is idempotent: safe to run on every
	// startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Get fetches one value by key.
//
// sql.ErrNoRows is not a failure here: an absent key is reported through
// ok=false so the schema layer can fall back to its default.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Get(key string) (string, bool, error) {
	var value string

	err := s.Db.QueryRow("SELECT value FROM kv WHERE key = ? LIMIT 1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("Get: scan: %w", err)
	}

	return value, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Set writes value under key.
//
// ON CONFLICT turns the INSERT into an UPDATE when the key already exists,
// so a second write simply replaces the first (last write wins).
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Set(key, value string) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
	)
	if err != nil {
		return fmt.Errorf("Set: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(key, value); err != nil {
		return fmt.Errorf("Set: exec: %w", err)
	}

	return nil
}

// Remove deletes key. Deleting a missing row affects zero rows and is not
// an error.
func (s *SQLite) Remove(key string) error {
	stmt, err := s.Db.Prepare("DELETE FROM kv WHERE key = ?")
	if err != nil {
		return fmt.Errorf("Remove: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(key); err != nil {
		return fmt.Errorf("Remove: exec: %w", err)
	}

	return nil
}

// Keys returns every key in ascending order.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.Db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("Keys: query: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("Keys: scan row: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Keys: rows iteration: %w", err)
	}

	return keys, nil
}
