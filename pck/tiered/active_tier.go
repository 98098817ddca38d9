package tiered

import (
	"sync"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

type assocKey struct {
	source patterncore.PatternID
	target patterncore.PatternID
}

// ActiveTier is the RAM-resident tier: two plain maps guarded by a single
// RWMutex, the fastest level in the hierarchy (<100ns target per SPEC_FULL
// §4.5). Compact and Flush are no-ops, per the original tier's contract.
type ActiveTier struct {
	mu           sync.RWMutex
	patterns     map[patterncore.PatternID]*patterncore.PatternNode
	associations map[assocKey]*association.Edge
}

// NewActiveTier constructs an empty ActiveTier.
func NewActiveTier() *ActiveTier {
	return &ActiveTier{
		patterns:     make(map[patterncore.PatternID]*patterncore.PatternNode),
		associations: make(map[assocKey]*association.Edge),
	}
}

func (t *ActiveTier) StorePattern(node *patterncore.PatternNode) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.patterns[node.GetID()] = node
	return true
}

func (t *ActiveTier) LoadPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	node, ok := t.patterns[id]
	return node, ok
}

func (t *ActiveTier) RemovePattern(id patterncore.PatternID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.patterns[id]; !ok {
		return false
	}
	delete(t.patterns, id)
	return true
}

func (t *ActiveTier) HasPattern(id patterncore.PatternID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.patterns[id]
	return ok
}

func (t *ActiveTier) StoreAssociation(edge *association.Edge) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.associations[assocKey{edge.GetSource(), edge.GetTarget()}] = edge
	return true
}

func (t *ActiveTier) LoadAssociation(source, target patterncore.PatternID) (*association.Edge, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	edge, ok := t.associations[assocKey{source, target}]
	return edge, ok
}

func (t *ActiveTier) RemoveAssociation(source, target patterncore.PatternID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := assocKey{source, target}
	if _, ok := t.associations[key]; !ok {
		return false
	}
	delete(t.associations, key)
	return true
}

func (t *ActiveTier) HasAssociation(source, target patterncore.PatternID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.associations[assocKey{source, target}]
	return ok
}

func (t *ActiveTier) StorePatternsBatch(nodes []*patterncore.PatternNode) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, node := range nodes {
		t.patterns[node.GetID()] = node
	}
	return len(nodes)
}

func (t *ActiveTier) LoadPatternsBatch(ids []patterncore.PatternID) []*patterncore.PatternNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]*patterncore.PatternNode, 0, len(ids))
	for _, id := range ids {
		if node, ok := t.patterns[id]; ok {
			result = append(result, node)
		}
	}
	return result
}

func (t *ActiveTier) RemovePatternsBatch(ids []patterncore.PatternID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, id := range ids {
		if _, ok := t.patterns[id]; ok {
			delete(t.patterns, id)
			count++
		}
	}
	return count
}

func (t *ActiveTier) StoreAssociationsBatch(edges []*association.Edge) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, edge := range edges {
		t.associations[assocKey{edge.GetSource(), edge.GetTarget()}] = edge
	}
	return len(edges)
}

func (t *ActiveTier) PatternCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.patterns)
}

func (t *ActiveTier) AssociationCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.associations)
}

// EstimateMemoryUsage sums each pattern's own estimate; associations are
// fixed-size and small enough to ignore relative to pattern payloads.
func (t *ActiveTier) EstimateMemoryUsage() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var total int64
	for _, node := range t.patterns {
		total += int64(node.EstimateMemoryUsage())
	}
	return total
}

// PatternIDs returns every pattern id currently resident, in no particular
// order.
func (t *ActiveTier) PatternIDs() []patterncore.PatternID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]patterncore.PatternID, 0, len(t.patterns))
	for id := range t.patterns {
		ids = append(ids, id)
	}
	return ids
}

func (t *ActiveTier) Level() MemoryTier { return TierActive }
func (t *ActiveTier) Name() string      { return TierActive.String() }

// Compact is a no-op: there is no fragmentation to reclaim in a Go map.
func (t *ActiveTier) Compact() {}

func (t *ActiveTier) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.patterns = make(map[patterncore.PatternID]*patterncore.PatternNode)
	t.associations = make(map[assocKey]*association.Edge)
}

// Flush is a no-op: ACTIVE has no backing store to sync.
func (t *ActiveTier) Flush() error { return nil }
