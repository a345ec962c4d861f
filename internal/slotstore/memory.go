// Package slotstore provides named-slot byte storage backends for the
// analysis history: in memory, a JSON file, a remote pathstore key/value
// service, and PostgreSQL.
package slotstore

import (
	"context"
	"sync"
)

// Memory keeps slots in process memory. It is always available.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Save(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Available(context.Context) bool { return true }

func (m *Memory) Close() error { return nil }
