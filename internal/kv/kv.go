// ABOUTME: SQLite-backed durable key-value store holding one JSON document per key
// ABOUTME: Load validates blobs against a schema and clears corrupt keys silently

package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Lz027/palette/internal/schema"
)

// Store is a durable key-value medium for JSON documents. It is the
// crash-safe read/write primitive behind every entity store: reads are
// schema-validated before any value reaches application state, and
// corrupt or mis-shaped blobs are discarded rather than trusted.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a store at the given path. The schema is created if it
// doesn't exist; parent directories are created as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return open(path)
}

// OpenMemory creates an in-memory store, primarily for tests.
func OpenMemory() (*Store, error) {
	return open(":memory:")
}

func open(path string) (*Store, error) {
	logger := slog.Default().With("component", "kv")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_entries (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the JSON document at key, validates it against sch, and
// decodes it into out. It returns false when the caller should fall back
// to its default value: the key is absent, the stored blob is not valid
// JSON, or the blob fails schema validation. In the latter two cases the
// offending key is cleared so the bad data cannot resurface. Load never
// lets a malformed blob escape as an error or a panic.
func (s *Store) Load(ctx context.Context, key string, sch schema.Schema, out any) bool {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		s.logger.Warn("reading key failed", "key", key, "error", err)
		return false
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Warn("discarding corrupt value", "key", key, "error", err)
		s.Delete(ctx, key)
		return false
	}

	if err := sch.Validate(decoded); err != nil {
		s.logger.Warn("discarding mis-shaped value", "key", key, "error", err)
		s.Delete(ctx, key)
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("decoding validated value failed", "key", key, "error", err)
		s.Delete(ctx, key)
		return false
	}
	return true
}

// Save serializes value and writes it at key. Write failures are logged
// and swallowed: the caller's in-memory state stays authoritative for the
// session even when persistence fails, so a full disk or a broken
// database never turns a completed mutation into an error.
func (s *Store) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("serializing value failed", "key", key, "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Warn("persisting value failed", "key", key, "error", err)
	}
}

// Delete removes the document at key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		s.logger.Warn("deleting key failed", "key", key, "error", err)
	}
}

// Has reports whether a document exists at key.
func (s *Store) Has(ctx context.Context, key string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM kv_entries WHERE key = ?`, key).Scan(&one)
	return err == nil
}

// putRaw writes a raw string at key without serialization, bypassing
// validation. Used by tests to simulate corrupt storage.
func (s *Store) putRaw(ctx context.Context, key, raw string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, raw, time.Now().UTC().Format(time.RFC3339))
	return err
}
