package store

import (
	"context"
	"sync"
	"time"

	"github.com/nft1025/task/internal/kv"
)

// fakeKV is an in-memory kv.Client. Setting down simulates an unreachable
// store: every command fails with kv.ErrUnavailable.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return "", kv.ErrUnavailable
	}
	v, ok := f.data[key]
	if !ok {
		return "", kv.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return kv.ErrUnavailable
	}
	f.data[key] = value
	return nil
}

type fakePipe struct {
	ops map[string]string
}

func (p *fakePipe) Set(key, value string, _ time.Duration) {
	p.ops[key] = value
}

func (f *fakeKV) Pipeline(_ context.Context, fn func(kv.Pipe)) error {
	p := &fakePipe{ops: make(map[string]string)}
	fn(p)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return kv.ErrUnavailable
	}
	for k, v := range p.ops {
		f.data[k] = v
	}
	return nil
}

func (f *fakeKV) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return kv.ErrUnavailable
	}
	return nil
}

func (f *fakeKV) Stats(context.Context) (kv.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return kv.Stats{}, kv.ErrUnavailable
	}
	return kv.Stats{TotalKeys: int64(len(f.data)), MemoryUsage: "0B"}, nil
}

func (f *fakeKV) Close() error { return nil }
