package persistence

import (
	"context"
	"sync"
)

// MemoryBackend keeps the encoded document in process memory.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	failWith error
	saves    int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, nil
	}
	return append([]byte{}, b.data...), nil
}

func (b *MemoryBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return b.failWith
	}
	b.data = append([]byte{}, data...)
	b.saves++
	return nil
}

// SetFailure makes subsequent saves fail with err, or succeed when err is nil.
func (b *MemoryBackend) SetFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = err
}

// Saves returns the number of successful writes.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func (b *MemoryBackend) Ping(_ context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
