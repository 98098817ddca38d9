package tiered

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jtomasevic/patterndb/internal/telemetry"
	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/lru"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// Config configures a TieredStorage instance. Defaults mirror the original
// tiered storage layer's defaults (SPEC_FULL §4.5/§9).
type Config struct {
	CacheCapacity            int  `validate:"min=1"`
	EnableAutoPromotion      bool
	PromotionAccessThreshold int `validate:"min=1"`
	EnablePrefetching        bool
	PrefetchMaxDepth         int `validate:"min=0"`
	PrefetchMaxPatterns      int `validate:"min=0"`
}

// DefaultConfig returns the original implementation's defaults: 10000-entry
// cache, auto-promotion after 3 accesses, depth-1 prefetch capped at 10
// patterns.
func DefaultConfig() Config {
	return Config{
		CacheCapacity:            10000,
		EnableAutoPromotion:      true,
		PromotionAccessThreshold: 3,
		EnablePrefetching:        true,
		PrefetchMaxDepth:         1,
		PrefetchMaxPatterns:      10,
	}
}

var configValidator = validator.New()

// Validate reports ErrInvalidConfig if the configuration is structurally
// unusable (non-positive cache capacity or promotion threshold).
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("tiered: invalid config: %w: %s", patterncore.ErrInvalidConfig, err.Error())
	}
	return nil
}

// CacheStats reports cache and promotion counters. Hits, Misses and
// Evictions count since the last ClearCache/SetCacheCapacity reset;
// Promotions and the prefetch counters are never reset.
type CacheStats struct {
	Hits                   uint64
	Misses                 uint64
	Evictions              uint64
	Promotions             uint64
	PrefetchRequests       uint64
	PrefetchPatternsLoaded uint64
}

// GetHitRate returns Hits / (Hits + Misses), or 0 if there have been no
// lookups yet.
func (s CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// TieredStorage is the transparent read-through and prefetching layer over
// a TierManager (writes go straight to the tier): GetPattern checks the LRU cache
// first, then falls through ACTIVE -> WARM -> COLD -> ARCHIVE, optionally
// promoting frequently-accessed patterns and prefetching their associated
// neighbors. Grounded on tiered_storage.hpp.
type TieredStorage struct {
	config  Config
	manager *TierManager
	matrix  *association.Matrix // optional: nil disables prefetching
	cache   *lru.Cache[patterncore.PatternID, *patterncore.PatternNode]
	metrics *telemetry.Metrics // optional: nil disables Prometheus reporting
	logger  *zap.Logger

	accessMu     sync.RWMutex
	accessCounts map[patterncore.PatternID]uint32

	promotions             uint64
	promotionsMu           sync.Mutex
	prefetchRequests       uint64
	prefetchPatternsLoaded uint64
	prefetchMu             sync.Mutex
}

// NewTieredStorage validates config and wires manager (required), matrix
// (optional, needed only for PrefetchAssociations), metrics (optional), and
// logger (optional, defaults to a no-op logger).
func NewTieredStorage(manager *TierManager, matrix *association.Matrix, config Config, metrics *telemetry.Metrics, logger *zap.Logger) (*TieredStorage, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = telemetry.Noop()
	}

	return &TieredStorage{
		config:       config,
		manager:      manager,
		matrix:       matrix,
		cache:        lru.New[patterncore.PatternID, *patterncore.PatternNode](config.CacheCapacity),
		metrics:      metrics,
		logger:       logger,
		accessCounts: make(map[patterncore.PatternID]uint32),
	}, nil
}

// GetPattern checks the cache, then falls through the tiers. A tier hit is
// stashed in the cache before returning.
func (s *TieredStorage) GetPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	if node, ok := s.cache.Get(id); ok {
		s.recordCacheHit()
		return node, true
	}
	s.recordCacheMiss()

	node, ok := s.loadFromTiers(id)
	if !ok {
		return nil, false
	}
	s.cache.Put(id, node)
	return node, true
}

// GetPatternWithPromotion behaves like GetPattern but also records the
// access for promotion bookkeeping, promotes the pattern to ACTIVE once it
// crosses PromotionAccessThreshold accesses (if auto-promotion is on), and
// prefetches its associated neighbors out to PrefetchMaxDepth hops (if
// prefetching is on) — the "hit -> promotion -> prefetch" path from
// SPEC_FULL §4.7.
func (s *TieredStorage) GetPatternWithPromotion(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	node, ok := s.GetPattern(id)
	if !ok {
		return nil, false
	}

	s.recordAccess(id)
	if s.config.EnableAutoPromotion && s.shouldPromote(id) {
		s.promotePattern(id, node)
	}
	if s.config.EnablePrefetching {
		s.PrefetchAssociations(id, s.config.PrefetchMaxDepth)
	}
	return node, true
}

// loadFromTiers fetches id from the manager and clones it before handing it
// back: ACTIVE stores pointers directly, so without cloning here the cache
// and ACTIVE's own map would share one *PatternNode, letting a mutation via
// one residency (e.g. RecordAccess through the cached copy) leak into the
// other. Cloning enforces "ownership is exclusive per node" at the cache
// boundary.
func (s *TieredStorage) loadFromTiers(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	node, _, ok := s.manager.Get(id)
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

func (s *TieredStorage) recordCacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
}

func (s *TieredStorage) recordCacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}
}

func (s *TieredStorage) recordAccess(id patterncore.PatternID) {
	s.accessMu.Lock()
	defer s.accessMu.Unlock()
	s.accessCounts[id]++
}

func (s *TieredStorage) shouldPromote(id patterncore.PatternID) bool {
	s.accessMu.RLock()
	defer s.accessMu.RUnlock()
	return s.accessCounts[id] >= uint32(s.config.PromotionAccessThreshold)
}

func (s *TieredStorage) promotePattern(id patterncore.PatternID, node *patterncore.PatternNode) {
	level, ok := s.manager.FindTier(id)
	if !ok || level == TierActive {
		return
	}
	if err := s.manager.Migrate(id, level, TierActive); err != nil {
		s.logger.Warn("promotion migration failed", zap.String("pattern", id.String()), zap.Error(err))
		return
	}

	s.promotionsMu.Lock()
	s.promotions++
	s.promotionsMu.Unlock()

	if s.metrics != nil {
		s.metrics.Promotions.Inc()
	}

	s.accessMu.Lock()
	delete(s.accessCounts, id)
	s.accessMu.Unlock()

	s.cache.Put(id, node)
	s.sampleTierGauge()
}

// StorePattern stores node in the ACTIVE tier, the convenience form used
// when a caller has no tier-placement opinion.
func (s *TieredStorage) StorePattern(node *patterncore.PatternNode) bool {
	return s.StorePatternInTier(node, TierActive)
}

// StorePatternInTier stores node directly in the given tier and, if it
// replaces a cached copy, refreshes the cache entry with an independent
// clone (ACTIVE keeps node itself; the cache must not share that pointer).
func (s *TieredStorage) StorePatternInTier(node *patterncore.PatternNode, tier MemoryTier) bool {
	if !s.manager.Put(node, tier) {
		return false
	}
	if s.cache.Contains(node.GetID()) {
		s.cache.Put(node.GetID(), node.Clone())
	}
	s.sampleTierGauge()
	return true
}

// sampleTierGauge refreshes the per-tier pattern-count gauge. It's called
// after every operation that changes tier residency (store, remove,
// promote) rather than on a timer, so the gauge never lags a mutation the
// caller can already observe through GetPatternTier/GetCacheStats.
func (s *TieredStorage) sampleTierGauge() {
	if s.metrics == nil {
		return
	}
	for level := TierActive; level <= TierArchive; level++ {
		tier := s.manager.Tier(level)
		if tier == nil {
			continue
		}
		s.metrics.TierPatternCount.WithLabelValues(tier.Name()).Set(float64(tier.PatternCount()))
	}
}

// RemovePattern deletes id from every tier and the cache, plus its
// association edges if a matrix was wired in.
func (s *TieredStorage) RemovePattern(id patterncore.PatternID) bool {
	removed := s.manager.Remove(id)
	s.cache.Remove(id)
	s.accessMu.Lock()
	delete(s.accessCounts, id)
	s.accessMu.Unlock()
	if s.matrix != nil {
		s.matrix.RemovePattern(id)
	}
	s.sampleTierGauge()
	return removed
}

// HasPattern reports whether id exists anywhere: cache or any tier.
func (s *TieredStorage) HasPattern(id patterncore.PatternID) bool {
	if s.cache.Contains(id) {
		return true
	}
	_, ok := s.manager.FindTier(id)
	return ok
}

// GetPatternTier returns the tier currently holding id, ignoring the cache
// (the cache is not a tier of record).
func (s *TieredStorage) GetPatternTier(id patterncore.PatternID) (MemoryTier, bool) {
	return s.manager.FindTier(id)
}

// PrefetchAssociations loads the patterns associated with id into the
// cache, recursively out to maxDepth hops on the association graph
// (maxDepth == 0 disables prefetching entirely) and capped at
// PrefetchMaxPatterns total. No-op if prefetching is disabled or no
// association matrix was wired in.
func (s *TieredStorage) PrefetchAssociations(id patterncore.PatternID, maxDepth int) {
	if !s.config.EnablePrefetching || s.matrix == nil {
		return
	}

	s.prefetchMu.Lock()
	s.prefetchRequests++
	s.prefetchMu.Unlock()

	visited := map[patterncore.PatternID]struct{}{id: {}}
	loaded := 0
	s.prefetchRecursive(id, 0, maxDepth, visited, &loaded)
}

func (s *TieredStorage) prefetchRecursive(id patterncore.PatternID, depth, maxDepth int, visited map[patterncore.PatternID]struct{}, loaded *int) {
	if depth >= maxDepth || *loaded >= s.config.PrefetchMaxPatterns {
		return
	}

	for _, neighbor := range s.matrix.OutgoingOf(id) {
		if *loaded >= s.config.PrefetchMaxPatterns {
			return
		}
		if _, seen := visited[neighbor.Neighbor]; seen {
			continue
		}
		visited[neighbor.Neighbor] = struct{}{}

		if _, ok := s.GetPattern(neighbor.Neighbor); ok {
			*loaded++
			s.prefetchMu.Lock()
			s.prefetchPatternsLoaded++
			s.prefetchMu.Unlock()
			if s.metrics != nil {
				s.metrics.PrefetchPatternsLoaded.Inc()
			}
		}

		s.prefetchRecursive(neighbor.Neighbor, depth+1, maxDepth, visited, loaded)
	}
}

// PrefetchPatterns loads every id in ids into the cache.
func (s *TieredStorage) PrefetchPatterns(ids []patterncore.PatternID) {
	for _, id := range ids {
		s.GetPattern(id)
	}
}

// ClearCache empties the LRU cache without touching tier storage.
func (s *TieredStorage) ClearCache() {
	s.cache.Clear()
}

// GetCacheStats returns the cumulative cache/promotion/prefetch counters.
func (s *TieredStorage) GetCacheStats() CacheStats {
	lruStats := s.cache.GetStats()

	s.promotionsMu.Lock()
	promotions := s.promotions
	s.promotionsMu.Unlock()

	s.prefetchMu.Lock()
	prefetchRequests := s.prefetchRequests
	prefetchPatternsLoaded := s.prefetchPatternsLoaded
	s.prefetchMu.Unlock()

	return CacheStats{
		Hits:                   lruStats.Hits,
		Misses:                 lruStats.Misses,
		Evictions:              lruStats.Evictions,
		Promotions:             promotions,
		PrefetchRequests:       prefetchRequests,
		PrefetchPatternsLoaded: prefetchPatternsLoaded,
	}
}

// GetCacheSize returns the number of patterns currently cached.
func (s *TieredStorage) GetCacheSize() int { return s.cache.Size() }

// GetCacheCapacity returns the cache's configured capacity.
func (s *TieredStorage) GetCacheCapacity() int { return s.cache.Capacity() }

// SetCacheCapacity resizes the cache, clearing it in the process (matches
// lru.Cache.SetCapacity's semantics).
func (s *TieredStorage) SetCacheCapacity(capacity int) {
	s.cache.SetCapacity(capacity)
	s.config.CacheCapacity = capacity
}

// GetConfig returns the current configuration.
func (s *TieredStorage) GetConfig() Config { return s.config }

// SetConfig validates and replaces the configuration. The cache is resized
// (and cleared) if CacheCapacity changed.
func (s *TieredStorage) SetConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if config.CacheCapacity != s.config.CacheCapacity {
		s.cache.SetCapacity(config.CacheCapacity)
	}
	s.config = config
	return nil
}
