package repo

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// KV is a string-keyed store of string values.
type KV interface {
	// Get returns the value for key. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Put writes every entry. Backends that support it apply the writes atomically.
	Put(ctx context.Context, entries map[string]string) error
	Ping(ctx context.Context) error
	Close() error
}
