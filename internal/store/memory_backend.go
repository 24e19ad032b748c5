package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps blobs in a map. Two stores sharing one MemoryBackend
// behave like two browser tabs sharing local storage.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend wraps data, which may be nil.
func NewMemoryBackend(data map[string][]byte) *MemoryBackend {
	if data == nil {
		data = make(map[string][]byte)
	}
	return &MemoryBackend{data: data}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	b.data[key] = v
	return nil
}

func (b *MemoryBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Close(context.Context) error { return nil }
