package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the Client contract. One long-lived
// client is shared for the process; go-redis dials lazily on first command
// and retries transparently on stale connections.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an already-configured go-redis client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

type redisPipe struct {
	ctx context.Context
	p   redis.Pipeliner
}

func (p redisPipe) Set(key, value string, ttl time.Duration) {
	p.p.Set(p.ctx, key, value, ttl)
}

func (r *Redis) Pipeline(ctx context.Context, fn func(Pipe)) error {
	pipe := r.rdb.Pipeline()
	fn(redisPipe{ctx: ctx, p: pipe})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: pipeline exec: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

var usedMemoryRe = regexp.MustCompile(`used_memory_human:(\S+)`)

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	size, err := r.rdb.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("%w: dbsize: %v", ErrUnavailable, err)
	}
	memory := "unknown"
	if info, err := r.rdb.Info(ctx, "memory").Result(); err == nil {
		if m := usedMemoryRe.FindStringSubmatch(info); m != nil {
			memory = m[1]
		}
	}
	return Stats{TotalKeys: size, MemoryUsage: memory}, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
