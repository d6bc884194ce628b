package repository

import (
	"context"
	"encoding/json"
	"sync"
)

type MemoryRecordStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{values: make(map[string][]byte)}
}

func (m *MemoryRecordStore) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	value := m.values[collection]
	m.mu.RUnlock()
	return decodeCollection(value)
}

func (m *MemoryRecordStore) Set(ctx context.Context, collection string, records []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := encodeCollection(records)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[collection] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryRecordStore) Close() error {
	return nil
}
