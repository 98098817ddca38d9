package store

import (
	"sync"
	"testing"

	"github.com/jtomasevic/patterndb/pck/patterncore"
	"github.com/stretchr/testify/require"
)

func newTestNode() *patterncore.PatternNode {
	id := patterncore.NewPatternID()
	data := patterncore.NewPatternData(patterncore.ModalityNumeric, patterncore.NewFeatureVector([]float32{1, 2, 3}), nil)
	return patterncore.NewPatternNode(id, data, patterncore.PatternAtomic)
}

func TestMemoryBackend_StoreAndLoad(t *testing.T) {
	b := NewMemoryBackend()
	node := newTestNode()

	require.NoError(t, b.Store(node))

	got, ok := b.Load(node.GetID())
	require.True(t, ok)
	require.Equal(t, node.GetID(), got.GetID())
}

func TestMemoryBackend_LoadMissing(t *testing.T) {
	b := NewMemoryBackend()
	_, ok := b.Load(patterncore.NewPatternID())
	require.False(t, ok)
}

func TestMemoryBackend_UpdateMissingReturnsErrNotFound(t *testing.T) {
	b := NewMemoryBackend()
	node := newTestNode()
	require.ErrorIs(t, b.Update(node), patterncore.ErrNotFound)
}

func TestMemoryBackend_UpdateExisting(t *testing.T) {
	b := NewMemoryBackend()
	node := newTestNode()
	require.NoError(t, b.Store(node))

	node.SetBaseActivation(0.9)
	require.NoError(t, b.Update(node))

	got, _ := b.Load(node.GetID())
	require.Equal(t, float32(0.9), got.GetBaseActivation())
}

func TestMemoryBackend_Remove(t *testing.T) {
	b := NewMemoryBackend()
	node := newTestNode()
	require.NoError(t, b.Store(node))

	require.True(t, b.Remove(node.GetID()))
	require.False(t, b.Remove(node.GetID()))

	_, ok := b.Load(node.GetID())
	require.False(t, ok)
}

func TestMemoryBackend_FindAllAndCount(t *testing.T) {
	b := NewMemoryBackend()
	a, c := newTestNode(), newTestNode()
	require.NoError(t, b.Store(a))
	require.NoError(t, b.Store(c))

	require.Equal(t, 2, b.Count())
	ids := b.FindAll()
	require.ElementsMatch(t, []patterncore.PatternID{a.GetID(), c.GetID()}, ids)
}

func TestMemoryBackend_ConcurrentAccess(t *testing.T) {
	b := NewMemoryBackend()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			node := newTestNode()
			require.NoError(t, b.Store(node))
			_, _ = b.Load(node.GetID())
		}()
	}
	wg.Wait()

	require.Equal(t, 50, b.Count())
}
