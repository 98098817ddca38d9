package store

import (
	"sync"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// MemoryBackend is a concurrent map-backed PatternDatabase, the ACTIVE
// tier's natural implementation. Adapted from the teacher's
// InMemoryEventNetwork: a single RWMutex guards a plain map, readers take
// RLock, writers take Lock.
type MemoryBackend struct {
	mu       sync.RWMutex
	patterns map[patterncore.PatternID]*patterncore.PatternNode
}

// NewMemoryBackend constructs an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		patterns: make(map[patterncore.PatternID]*patterncore.PatternNode),
	}
}

func (b *MemoryBackend) Store(node *patterncore.PatternNode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patterns[node.GetID()] = node
	return nil
}

func (b *MemoryBackend) Load(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	node, ok := b.patterns[id]
	return node, ok
}

func (b *MemoryBackend) Update(node *patterncore.PatternNode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.patterns[node.GetID()]; !ok {
		return patterncore.ErrNotFound
	}
	b.patterns[node.GetID()] = node
	return nil
}

func (b *MemoryBackend) Remove(id patterncore.PatternID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.patterns[id]; !ok {
		return false
	}
	delete(b.patterns, id)
	return true
}

func (b *MemoryBackend) FindAll() []patterncore.PatternID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]patterncore.PatternID, 0, len(b.patterns))
	for id := range b.patterns {
		ids = append(ids, id)
	}
	return ids
}

func (b *MemoryBackend) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.patterns)
}
