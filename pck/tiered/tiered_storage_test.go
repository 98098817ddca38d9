package tiered

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

func newTestStorage(t *testing.T) (*TieredStorage, *TierManager, *association.Matrix) {
	t.Helper()
	manager := newTestManager(t)
	matrix := association.NewMatrix(0.0)

	storage, err := NewTieredStorage(manager, matrix, DefaultConfig(), nil, nil)
	require.NoError(t, err)
	return storage, manager, matrix
}

func TestTieredStorage_StoreAndGetFromActive(t *testing.T) {
	storage, _, _ := newTestStorage(t)
	node := newNode()

	require.True(t, storage.StorePattern(node))

	got, ok := storage.GetPattern(node.GetID())
	require.True(t, ok)
	require.Equal(t, node.GetID(), got.GetID())
}

func TestTieredStorage_GetPatternTransparentlyReadsThroughArchive(t *testing.T) {
	storage, manager, _ := newTestStorage(t)
	node := newNode()
	require.True(t, manager.Put(node, TierArchive))

	got, ok := storage.GetPattern(node.GetID())
	require.True(t, ok)
	require.Equal(t, node.GetID(), got.GetID())

	stats := storage.GetCacheStats()
	require.Equal(t, uint64(1), stats.Misses)
}

func TestTieredStorage_CacheHitOnSecondGet(t *testing.T) {
	storage, _, _ := newTestStorage(t)
	node := newNode()
	storage.StorePattern(node)

	storage.GetPattern(node.GetID())
	storage.GetPattern(node.GetID())

	stats := storage.GetCacheStats()
	require.Equal(t, uint64(1), stats.Hits)
}

func TestTieredStorage_PromotesAfterThreshold(t *testing.T) {
	storage, manager, _ := newTestStorage(t)
	node := newNode()
	require.True(t, manager.Put(node, TierWarm))

	cfg := DefaultConfig()
	cfg.PromotionAccessThreshold = 2
	require.NoError(t, storage.SetConfig(cfg))

	storage.GetPatternWithPromotion(node.GetID())
	level, _ := manager.FindTier(node.GetID())
	require.Equal(t, TierWarm, level)

	storage.GetPatternWithPromotion(node.GetID())
	level, _ = manager.FindTier(node.GetID())
	require.Equal(t, TierActive, level)
}

func TestTieredStorage_RemovePatternPurgesAssociations(t *testing.T) {
	storage, _, matrix := newTestStorage(t)
	a, b := newNode(), newNode()
	storage.StorePattern(a)
	storage.StorePattern(b)
	matrix.AddOrReinforce(a.GetID(), b.GetID(), 0.5)

	require.True(t, storage.RemovePattern(a.GetID()))
	require.False(t, storage.HasPattern(a.GetID()))
	require.Empty(t, matrix.OutgoingOf(a.GetID()))
}

func TestTieredStorage_PrefetchAssociationsLoadsNeighborsIntoCache(t *testing.T) {
	storage, manager, matrix := newTestStorage(t)
	a, b, c := newNode(), newNode(), newNode()
	manager.Put(a, TierActive)
	manager.Put(b, TierWarm)
	manager.Put(c, TierCold)
	matrix.AddOrReinforce(a.GetID(), b.GetID(), 0.9)
	matrix.AddOrReinforce(a.GetID(), c.GetID(), 0.1)

	storage.PrefetchAssociations(a.GetID(), 1)

	require.True(t, storage.cache.Contains(b.GetID()))
	require.True(t, storage.cache.Contains(c.GetID()))
	stats := storage.GetCacheStats()
	require.Equal(t, uint64(2), stats.PrefetchPatternsLoaded)
}

func TestTieredStorage_PrefetchMaxDepthZeroDisables(t *testing.T) {
	storage, manager, matrix := newTestStorage(t)
	a, b := newNode(), newNode()
	manager.Put(a, TierActive)
	manager.Put(b, TierWarm)
	matrix.AddOrReinforce(a.GetID(), b.GetID(), 0.9)

	storage.PrefetchAssociations(a.GetID(), 0)

	require.False(t, storage.cache.Contains(b.GetID()))
	require.Equal(t, uint64(0), storage.GetCacheStats().PrefetchPatternsLoaded)
}

func TestTieredStorage_PrefetchMaxDepthStopsAtNHops(t *testing.T) {
	storage, manager, matrix := newTestStorage(t)
	a, b, c := newNode(), newNode(), newNode()
	manager.Put(a, TierActive)
	manager.Put(b, TierWarm)
	manager.Put(c, TierCold)
	matrix.AddOrReinforce(a.GetID(), b.GetID(), 0.9)
	matrix.AddOrReinforce(b.GetID(), c.GetID(), 0.9)

	storage.PrefetchAssociations(a.GetID(), 1)

	require.True(t, storage.cache.Contains(b.GetID()))
	require.False(t, storage.cache.Contains(c.GetID()), "depth 1 must not cross b's own edge to c")
	require.Equal(t, uint64(1), storage.GetCacheStats().PrefetchPatternsLoaded)
}

func TestTieredStorage_GetPatternWithPromotionDrivesPrefetchFromConfig(t *testing.T) {
	storage, manager, matrix := newTestStorage(t)
	a, b := newNode(), newNode()
	manager.Put(a, TierActive)
	manager.Put(b, TierWarm)
	matrix.AddOrReinforce(a.GetID(), b.GetID(), 0.9)

	_, ok := storage.GetPatternWithPromotion(a.GetID())
	require.True(t, ok)

	require.True(t, storage.cache.Contains(b.GetID()))
}

func TestTieredStorage_InvalidConfigRejected(t *testing.T) {
	fs := afero.NewMemMapFs()
	warm, _ := NewWarmTier(fs, "/warm")
	cold, _ := NewColdTier(fs, "/cold")
	archive, _ := NewArchiveTier(fs, "/archive")
	manager := NewTierManager(NewActiveTier(), warm, cold, archive)

	cfg := DefaultConfig()
	cfg.CacheCapacity = 0
	_, err := NewTieredStorage(manager, nil, cfg, nil, nil)
	require.ErrorIs(t, err, patterncore.ErrInvalidConfig)
}

func TestTieredStorage_ClearCacheDoesNotAffectTiers(t *testing.T) {
	storage, _, _ := newTestStorage(t)
	node := newNode()
	storage.StorePattern(node)
	storage.GetPattern(node.GetID())

	storage.ClearCache()
	require.Equal(t, 0, storage.GetCacheSize())
	require.True(t, storage.HasPattern(node.GetID()))
}
