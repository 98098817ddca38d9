// Package store defines the pattern persistence contract consumed by the
// tiered storage and policy layers, and provides a concurrent in-memory
// implementation of it.
package store

import "github.com/jtomasevic/patterndb/pck/patterncore"

// PatternDatabase is the persistence contract every storage backend
// (in-memory, disk-tier-backed, or tiered) implements. Policy layers above
// it (similarity, association, discovery) never depend on a concrete
// backend, only on this interface.
type PatternDatabase interface {
	// Store inserts node, replacing any existing entry with the same id.
	Store(node *patterncore.PatternNode) error

	// Load returns the node for id, or ok=false if it isn't present.
	Load(id patterncore.PatternID) (node *patterncore.PatternNode, ok bool)

	// Update replaces the stored node for node.GetID(). It returns
	// ErrNotFound if no such pattern exists yet.
	Update(node *patterncore.PatternNode) error

	// Remove deletes id, reporting whether it was present.
	Remove(id patterncore.PatternID) bool

	// FindAll returns every id currently stored, in no particular order.
	FindAll() []patterncore.PatternID

	// Count returns the number of patterns stored.
	Count() int
}
