package db

import (
	"context"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
)

// ErrNotConfigured is returned when no document has been stored for a rule key
var ErrNotConfigured = configcache.ErrNotConfigured

// DocumentStore persists rule configuration as one JSON document per key.
// Both postgres.DB and sqlite.DB implement this interface.
type DocumentStore interface {
	// GetDocument returns the payload for key. ok is false when nothing is stored.
	GetDocument(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// PutDocument creates or replaces the payload for key
	PutDocument(ctx context.Context, key string, payload []byte) error
}
