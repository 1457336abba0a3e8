// Package redis broadcasts rule configuration changes between processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/internal/config"
)

// Change announces that rule documents were written
type Change struct {
	Source string   `json:"source"`
	Keys   []string `json:"keys"`
	SentAt string   `json:"sentAt"`
}

// Bus publishes and receives configuration changes on a redis channel.
// Messages published by this bus are not delivered back to its own subscribers.
type Bus struct {
	rdb     *goredis.Client
	channel string
	source  string
	logger  *zap.Logger
	now     func() time.Time
}

// NewBus connects to redis and checks the connection with a ping
func NewBus(cfg *config.RedisConfig, logger *zap.Logger) (*Bus, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = config.DefaultRedisChannel
	}

	logger.Info("Connected to redis", zap.String("addr", cfg.Addr), zap.String("channel", channel))

	return newBus(rdb, channel, logger), nil
}

func newBus(rdb *goredis.Client, channel string, logger *zap.Logger) *Bus {
	return &Bus{
		rdb:     rdb,
		channel: channel,
		source:  uuid.New().String(),
		logger:  logger,
		now:     time.Now,
	}
}

// Publish announces that the given rule documents changed
func (b *Bus) Publish(ctx context.Context, keys []string) error {
	payload, err := b.encode(keys)
	if err != nil {
		return err
	}

	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}

	b.logger.Debug("Published configuration change", zap.Strings("keys", keys))
	return nil
}

// Subscribe calls fn for every change published by other processes until ctx is done
func (b *Bus) Subscribe(ctx context.Context, fn func(Change)) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	b.logger.Info("Subscribed to configuration changes", zap.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(msg.Payload, fn)
		}
	}
}

// Close closes the redis connection
func (b *Bus) Close() error {
	return b.rdb.Close()
}

func (b *Bus) encode(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(Change{
		Source: b.source,
		Keys:   keys,
		SentAt: b.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode change: %w", err)
	}
	return string(data), nil
}

// handle decodes a message and passes it on unless it came from this bus
func (b *Bus) handle(payload string, fn func(Change)) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		b.logger.Warn("Ignoring malformed configuration change", zap.Error(err))
		return
	}
	if change.Source == b.source {
		return
	}

	b.logger.Debug("Received configuration change",
		zap.String("source", change.Source),
		zap.Strings("keys", change.Keys))
	fn(change)
}
