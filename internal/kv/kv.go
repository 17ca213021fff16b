// Package kv defines the key-value store contract used by the embedding
// cache. The store is optional infrastructure: the pipeline runs without it,
// it just pays the provider for every embedding.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("kv: key not found")

// Op constants map to store command names for error context.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpPing   = "PING"
	OpExpire = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Store is a minimal key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close()
}
