package tiered

import (
	"fmt"
	"sync"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// migrationShards is the width of the per-id mutex table guarding Migrate
// critical sections. A fixed shard count keeps memory bounded while still
// letting unrelated ids migrate concurrently.
const migrationShards = 64

// TierManager owns one Tier per MemoryTier level and mediates lookup,
// placement, and migration across them. It never runs policy (promotion
// thresholds, prefetch) itself — that is TieredStorage's job, layered on
// top.
type TierManager struct {
	tiers [4]Tier

	shardLocks [migrationShards]sync.Mutex
}

// NewTierManager wires the four tier implementations into a manager. Any
// tier may be nil except active, in which case lookups simply skip it.
func NewTierManager(active, warm, cold, archive Tier) *TierManager {
	return &TierManager{
		tiers: [4]Tier{active, warm, cold, archive},
	}
}

// Tier returns the Tier implementation backing level, or nil if none was
// wired.
func (m *TierManager) Tier(level MemoryTier) Tier {
	if int(level) >= len(m.tiers) {
		return nil
	}
	return m.tiers[level]
}

func (m *TierManager) shardFor(id patterncore.PatternID) *sync.Mutex {
	return &m.shardLocks[id.Hi%migrationShards]
}

// FindTier searches ACTIVE -> WARM -> COLD -> ARCHIVE and reports the first
// tier holding id.
func (m *TierManager) FindTier(id patterncore.PatternID) (MemoryTier, bool) {
	for level, tier := range m.tiers {
		if tier == nil {
			continue
		}
		if tier.HasPattern(id) {
			return MemoryTier(level), true
		}
	}
	return 0, false
}

// Get loads id from whichever tier holds it first, searching in tier
// order.
func (m *TierManager) Get(id patterncore.PatternID) (*patterncore.PatternNode, MemoryTier, bool) {
	for level, tier := range m.tiers {
		if tier == nil {
			continue
		}
		if node, ok := tier.LoadPattern(id); ok {
			return node, MemoryTier(level), true
		}
	}
	return nil, 0, false
}

// Put stores node directly into the given tier.
func (m *TierManager) Put(node *patterncore.PatternNode, level MemoryTier) bool {
	tier := m.Tier(level)
	if tier == nil {
		return false
	}
	return tier.StorePattern(node)
}

// Remove deletes id from every tier it is present in, reporting whether it
// was found anywhere.
func (m *TierManager) Remove(id patterncore.PatternID) bool {
	removed := false
	for _, tier := range m.tiers {
		if tier == nil {
			continue
		}
		if tier.RemovePattern(id) {
			removed = true
		}
	}
	return removed
}

// Migrate moves id from one tier to another: load from `from`, store into
// `to`, and only then remove from `from`, so a failed store never loses the
// pattern. The whole operation is serialized per-id via a shard lock so a
// concurrent migration of the same id can't race.
//
// Returns patterncore.ErrNotFound if id isn't present in `from`.
func (m *TierManager) Migrate(id patterncore.PatternID, from, to MemoryTier) error {
	lock := m.shardFor(id)
	lock.Lock()
	defer lock.Unlock()

	fromTier := m.Tier(from)
	toTier := m.Tier(to)
	if fromTier == nil || toTier == nil {
		return fmt.Errorf("tiered: migrate %s: tier not wired: %w", id, patterncore.ErrInvalidConfig)
	}

	node, ok := fromTier.LoadPattern(id)
	if !ok {
		return fmt.Errorf("tiered: migrate %s from %s: %w", id, from, patterncore.ErrNotFound)
	}

	if !toTier.StorePattern(node) {
		return fmt.Errorf("tiered: migrate %s to %s: %w", id, to, patterncore.ErrIoError)
	}

	fromTier.RemovePattern(id)
	return nil
}

// ResolveDuplicates handles the crash-recovery case where id ended up
// stored in more than one tier (e.g. a migration that stored into `to` but
// crashed before removing from `from`). It keeps the copy in the lowest
// (closest-to-ACTIVE) tier and removes the rest, per the tier-manager
// duplicate-resolution decision in SPEC_FULL §9.
func (m *TierManager) ResolveDuplicates(id patterncore.PatternID) (kept MemoryTier, resolved bool) {
	lock := m.shardFor(id)
	lock.Lock()
	defer lock.Unlock()

	found := false
	for level, tier := range m.tiers {
		if tier == nil {
			continue
		}
		if tier.HasPattern(id) {
			if !found {
				kept = MemoryTier(level)
				found = true
				continue
			}
			tier.RemovePattern(id)
		}
	}
	return kept, found
}
