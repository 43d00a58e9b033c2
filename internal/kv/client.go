package kv

import (
	"context"
	"errors"
	"time"
)

// ErrMiss means the key does not exist. Callers treat it as a cache miss.
var ErrMiss = errors.New("kv: key not found")

// ErrUnavailable means the store could not be reached or the command failed
// at the connection level. The caller decides whether to degrade or fail.
var ErrUnavailable = errors.New("kv: store unavailable")

// Pipe collects writes to be issued as a single batch. There is no cross-key
// atomicity guarantee beyond "all issued together".
type Pipe interface {
	Set(key, value string, ttl time.Duration)
}

// Stats is a snapshot of store-level statistics for the health surface.
type Stats struct {
	TotalKeys   int64
	MemoryUsage string
}

// Client is the key-value store contract the data layer is written against.
type Client interface {
	// Get returns the value at key, ErrMiss if absent, ErrUnavailable on
	// connection failure.
	Get(ctx context.Context, key string) (string, error)
	// Set writes a value. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Pipeline runs fn to collect writes, then executes them in one round trip.
	Pipeline(ctx context.Context, fn func(Pipe)) error
	// Ping probes connectivity.
	Ping(ctx context.Context) error
	// Stats reports key count and memory usage.
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
