package ports

import (
	"context"
	"errors"
	"time"
)

var ErrKeyNotFound = errors.New("kv: key not found")

// Minimal key-value persistence with expiry.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	// ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
