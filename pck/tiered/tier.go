// Package tiered implements the ACTIVE/WARM/COLD/ARCHIVE memory hierarchy
// and the transparent, LRU-fronted access layer over it (SPEC_FULL §4.5-§4.8).
package tiered

import (
	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// MemoryTier identifies a level in the storage hierarchy, from fastest
// (ACTIVE, RAM) to slowest (ARCHIVE, compressed disk).
type MemoryTier uint8

const (
	TierActive MemoryTier = iota
	TierWarm
	TierCold
	TierArchive
)

// String names the tier the way logs and metrics label it.
func (t MemoryTier) String() string {
	switch t {
	case TierActive:
		return "Active"
	case TierWarm:
		return "Warm"
	case TierCold:
		return "Cold"
	case TierArchive:
		return "Archive"
	default:
		return "Unknown"
	}
}

// ParseMemoryTier is the inverse of String, used by the CLI's tier flags.
func ParseMemoryTier(s string) (MemoryTier, bool) {
	switch s {
	case "Active":
		return TierActive, true
	case "Warm":
		return TierWarm, true
	case "Cold":
		return TierCold, true
	case "Archive":
		return TierArchive, true
	default:
		return 0, false
	}
}

// Tier is the contract every storage level implements: patterns and
// associations, single and batch, plus size/maintenance operations. The
// ACTIVE tier is a bare in-memory map; WARM/COLD/ARCHIVE are file-per-entity
// disk tiers built on afero, differing only in root directory, file
// extension, and (for ARCHIVE) compression codec.
type Tier interface {
	StorePattern(node *patterncore.PatternNode) bool
	LoadPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool)
	RemovePattern(id patterncore.PatternID) bool
	HasPattern(id patterncore.PatternID) bool

	StoreAssociation(edge *association.Edge) bool
	LoadAssociation(source, target patterncore.PatternID) (*association.Edge, bool)
	RemoveAssociation(source, target patterncore.PatternID) bool
	HasAssociation(source, target patterncore.PatternID) bool

	StorePatternsBatch(nodes []*patterncore.PatternNode) int
	LoadPatternsBatch(ids []patterncore.PatternID) []*patterncore.PatternNode
	RemovePatternsBatch(ids []patterncore.PatternID) int
	StoreAssociationsBatch(edges []*association.Edge) int

	PatternCount() int
	AssociationCount() int
	EstimateMemoryUsage() int64
	PatternIDs() []patterncore.PatternID

	Level() MemoryTier
	Name() string

	Compact()
	Clear()
	Flush() error
}
