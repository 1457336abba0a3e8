package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Listen blocks until ctx is done, calling fn with the document key of every
// notification received on the configured channel
func (db *DB) Listen(ctx context.Context, fn func(key string)) error {
	if db.notifyChannel == "" {
		return fmt.Errorf("no notify channel configured")
	}

	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{db.notifyChannel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", db.notifyChannel, err)
	}

	db.logger.Info("Listening for rule changes", zap.String("channel", db.notifyChannel))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		db.logger.Debug("Rule change notification",
			zap.String("channel", notification.Channel),
			zap.String("key", notification.Payload))
		fn(notification.Payload)
	}
}
