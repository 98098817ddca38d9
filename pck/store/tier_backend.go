package store

import "github.com/jtomasevic/patterndb/pck/patterncore"

// tier is the slice of pck/tiered.Tier this package needs. Declared locally
// (rather than importing pck/tiered for the whole interface) so store stays
// the narrow, tier-agnostic contract SPEC_FULL §4.4 describes: "any
// IMemoryTier via an adapter."
type tier interface {
	StorePattern(node *patterncore.PatternNode) bool
	LoadPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool)
	RemovePattern(id patterncore.PatternID) bool
	HasPattern(id patterncore.PatternID) bool
	PatternIDs() []patterncore.PatternID
	PatternCount() int
}

// TierBackend adapts any single pck/tiered.Tier (ActiveTier, WarmTier,
// ColdTier, ArchiveTier all satisfy `tier`) to PatternDatabase, letting a
// policy layer written against PatternDatabase address one storage level
// directly without going through TieredStorage's cache/promotion/prefetch
// policy.
type TierBackend struct {
	tier tier
}

// NewTierBackend wraps t as a PatternDatabase.
func NewTierBackend(t tier) *TierBackend {
	return &TierBackend{tier: t}
}

func (b *TierBackend) Store(node *patterncore.PatternNode) error {
	if !b.tier.StorePattern(node) {
		return patterncore.ErrIoError
	}
	return nil
}

func (b *TierBackend) Load(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	return b.tier.LoadPattern(id)
}

func (b *TierBackend) Update(node *patterncore.PatternNode) error {
	if !b.tier.HasPattern(node.GetID()) {
		return patterncore.ErrNotFound
	}
	if !b.tier.StorePattern(node) {
		return patterncore.ErrIoError
	}
	return nil
}

func (b *TierBackend) Remove(id patterncore.PatternID) bool {
	return b.tier.RemovePattern(id)
}

func (b *TierBackend) FindAll() []patterncore.PatternID {
	return b.tier.PatternIDs()
}

func (b *TierBackend) Count() int {
	return b.tier.PatternCount()
}
