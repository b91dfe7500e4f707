package repository

import (
	"context"
	"sync"
)

// MemorySessionRepository keeps session entries in process memory.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemorySessionRepository constructs an empty in-memory store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{entries: make(map[string]string)}
}

func (r *MemorySessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.entries[key]
	return value, ok, nil
}

func (r *MemorySessionRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.entries, key)
	}
	return nil
}

// Len reports how many entries are stored.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
