package lru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c := New[string, int](10)
	_, ok := c.Get("missing")
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Misses())
}

func TestCache_MinimumCapacityClampedToOne(t *testing.T) {
	c := New[string, int](0)
	require.Equal(t, 1, c.Capacity())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Put("x", 1)
	c.Put("y", 2)
	c.Put("z", 3) // evicts x

	require.False(t, c.Contains("x"))
	require.True(t, c.Contains("y"))
	require.True(t, c.Contains("z"))
	require.Equal(t, uint64(1), c.Evictions())
}

func TestCache_GetPromotesToMostRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Put("x", 1)
	c.Put("y", 2)

	_, _ = c.Get("x") // x is now MRU, y is LRU

	c.Put("z", 3) // evicts y, not x

	require.True(t, c.Contains("x"))
	require.False(t, c.Contains("y"))
	require.True(t, c.Contains("z"))
}

func TestCache_PutExistingKeyUpdatesValueAndRecency(t *testing.T) {
	c := New[string, int](2)
	c.Put("x", 1)
	c.Put("y", 2)
	c.Put("x", 100) // update + promote x

	c.Put("z", 3) // evicts y, not x

	require.True(t, c.Contains("x"))
	v, ok := c.Get("x")
	require.True(t, ok)
	require.Equal(t, 100, v)
	require.False(t, c.Contains("y"))
}

func TestCache_Remove(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)

	require.True(t, c.Remove("a"))
	require.False(t, c.Remove("a"))
	require.False(t, c.Contains("a"))
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	c.Clear()

	require.Equal(t, 0, c.Size())
	require.Equal(t, uint64(0), c.Hits())
	require.Equal(t, uint64(0), c.Misses())
	require.Equal(t, uint64(0), c.Evictions())
}

func TestCache_HitsPlusMissesEqualsGetCalls(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)

	_, _ = c.Get("a")
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	stats := c.GetStats()
	require.Equal(t, uint64(3), stats.Hits+stats.Misses)
}

func TestCache_EvictionsNeverExceedPutsMinusSize(t *testing.T) {
	c := New[string, int](3)
	keys := []string{"a", "b", "c", "d", "e", "f"}
	for _, k := range keys {
		c.Put(k, 0)
	}

	stats := c.GetStats()
	require.LessOrEqual(t, int(stats.Evictions), len(keys)-stats.Size)
}

func TestCache_HitRate(t *testing.T) {
	c := New[string, int](10)
	require.Equal(t, 0.0, c.GetStats().HitRate())

	c.Put("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	require.InDelta(t, 0.5, c.GetStats().HitRate(), 1e-9)
}

func TestCache_SetCapacityClears(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)
	c.SetCapacity(5)

	require.Equal(t, 5, c.Capacity())
	require.Equal(t, 0, c.Size())
}
