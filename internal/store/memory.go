package store

import (
	"context"
	"sync"
)

// Memory is a process-local Store backed by nested maps.  It is the
// default backend in tests and single-node deployments.  All methods
// are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return nil, ErrKeyNotFound
	}
	v, ok := b[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, bucket, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		m.buckets[bucket] = b
	}
	v := make([]byte, len(value))
	copy(v, value)
	b[key] = v
	return nil
}

func (m *Memory) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[bucket]; ok {
		delete(b, key)
	}
	return nil
}

// ForEach iterates over a snapshot of the bucket so fn may call back
// into the store without deadlocking.
func (m *Memory) ForEach(_ context.Context, bucket string, fn func(key string, value []byte) error) error {
	m.mu.RLock()
	b := m.buckets[bucket]
	snapshot := make(map[string][]byte, len(b))
	for k, v := range b {
		snapshot[k] = v
	}
	m.mu.RUnlock()
	for k, v := range snapshot {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}
