package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KVStore is the durable key-value storage the client keeps its state in.
// Put writes all given entries atomically.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
