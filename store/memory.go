// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	doc *engine.Snapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored snapshot, or the default snapshot if nothing has
// been saved yet.
func (m *Memory) Load(_ context.Context) (engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return engine.DefaultSnapshot(), nil
	}
	s := m.doc.Clone()
	s.Normalize()
	return s, nil
}

// Save replaces the stored snapshot wholesale.
func (m *Memory) Save(_ context.Context, s engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.doc = &c
	return nil
}
