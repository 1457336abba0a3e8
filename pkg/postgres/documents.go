package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetDocument retrieves the rule document stored under key
func (db *DB) GetDocument(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx, `
		SELECT payload FROM rule_documents WHERE key = $1
	`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query rule document %s: %w", key, err)
	}
	return payload, true, nil
}

// PutDocument upserts a rule document and, in the same transaction, notifies
// listeners with the key as payload
func (db *DB) PutDocument(ctx context.Context, key string, payload []byte) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO rule_documents (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert rule document %s: %w", key, err)
	}

	if db.notifyChannel != "" {
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, db.notifyChannel, key); err != nil {
			return fmt.Errorf("failed to notify %s: %w", db.notifyChannel, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rule document %s: %w", key, err)
	}

	return nil
}
