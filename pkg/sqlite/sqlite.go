package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rule_documents (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// DB stores rule documents in a single SQLite file
type DB struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and ensures the schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would see its own empty database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Opened sqlite rule store", zap.String("path", path))

	return &DB{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// GetDocument retrieves the rule document stored under key
func (d *DB) GetDocument(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := d.db.QueryRowContext(ctx, `SELECT payload FROM rule_documents WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query rule document %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

// PutDocument creates or replaces the rule document stored under key
func (d *DB) PutDocument(ctx context.Context, key string, payload []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO rule_documents (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, string(payload), d.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert rule document %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when the document under key was last written
func (d *DB) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var updatedAt string
	err := d.db.QueryRowContext(ctx, `SELECT updated_at FROM rule_documents WHERE key = ?`, key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query rule document %s: %w", key, err)
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse updated_at for %s: %w", key, err)
	}
	return t, true, nil
}
