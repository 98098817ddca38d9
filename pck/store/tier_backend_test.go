package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

type fakeTier struct {
	patterns map[patterncore.PatternID]*patterncore.PatternNode
}

func newFakeTier() *fakeTier {
	return &fakeTier{patterns: make(map[patterncore.PatternID]*patterncore.PatternNode)}
}

func (f *fakeTier) StorePattern(node *patterncore.PatternNode) bool {
	f.patterns[node.GetID()] = node
	return true
}

func (f *fakeTier) LoadPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	node, ok := f.patterns[id]
	return node, ok
}

func (f *fakeTier) RemovePattern(id patterncore.PatternID) bool {
	if _, ok := f.patterns[id]; !ok {
		return false
	}
	delete(f.patterns, id)
	return true
}

func (f *fakeTier) HasPattern(id patterncore.PatternID) bool {
	_, ok := f.patterns[id]
	return ok
}

func (f *fakeTier) PatternIDs() []patterncore.PatternID {
	ids := make([]patterncore.PatternID, 0, len(f.patterns))
	for id := range f.patterns {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeTier) PatternCount() int { return len(f.patterns) }

func newBackendNode() *patterncore.PatternNode {
	id := patterncore.NewPatternID()
	data := patterncore.NewPatternData(patterncore.ModalityNumeric, patterncore.NewFeatureVector([]float32{1}), nil)
	return patterncore.NewPatternNode(id, data, patterncore.PatternAtomic)
}

func TestTierBackend_StoreLoadRemove(t *testing.T) {
	backend := NewTierBackend(newFakeTier())
	node := newBackendNode()

	require.NoError(t, backend.Store(node))
	got, ok := backend.Load(node.GetID())
	require.True(t, ok)
	require.Equal(t, node.GetID(), got.GetID())
	require.Equal(t, 1, backend.Count())

	require.True(t, backend.Remove(node.GetID()))
	_, ok = backend.Load(node.GetID())
	require.False(t, ok)
}

func TestTierBackend_UpdateMissingReturnsErrNotFound(t *testing.T) {
	backend := NewTierBackend(newFakeTier())
	node := newBackendNode()

	require.ErrorIs(t, backend.Update(node), patterncore.ErrNotFound)
}

func TestTierBackend_FindAllListsStoredIDs(t *testing.T) {
	backend := NewTierBackend(newFakeTier())
	a, b := newBackendNode(), newBackendNode()
	require.NoError(t, backend.Store(a))
	require.NoError(t, backend.Store(b))

	ids := backend.FindAll()
	require.Len(t, ids, 2)
	require.ElementsMatch(t, []patterncore.PatternID{a.GetID(), b.GetID()}, ids)
}
