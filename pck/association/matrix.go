package association

import (
	"sort"
	"sync"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// Matrix is a sparse directed adjacency index of AssociationEdges, keyed
// source -> target -> edge. A single reader-writer lock guards the whole
// structure, the same discipline the teacher's InMemoryStructuralMemory
// uses for its revision/motif maps (SPEC_FULL §9: "prefer reader-writer
// locks"; concurrent reads, exclusive writes).
type Matrix struct {
	mu      sync.RWMutex
	forward map[patterncore.PatternID]map[patterncore.PatternID]*Edge

	// reverse mirrors forward so IncomingOf doesn't have to scan every
	// source bucket; it is kept in lockstep under the same lock.
	reverse map[patterncore.PatternID]map[patterncore.PatternID]struct{}

	defaultDecayRate float32
}

// NewMatrix constructs an empty association matrix. defaultDecayRate is
// used by AddOrReinforce when creating a brand-new edge.
func NewMatrix(defaultDecayRate float32) *Matrix {
	return &Matrix{
		forward:          make(map[patterncore.PatternID]map[patterncore.PatternID]*Edge),
		reverse:          make(map[patterncore.PatternID]map[patterncore.PatternID]struct{}),
		defaultDecayRate: defaultDecayRate,
	}
}

// AddOrReinforce creates the (source, target) edge if absent (with the
// matrix's default decay rate and EdgeTemporal type) or reinforces the
// existing one by delta.
func (m *Matrix) AddOrReinforce(source, target patterncore.PatternID, delta float32) *Edge {
	now := patterncore.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.forward[source]
	if !ok {
		bucket = make(map[patterncore.PatternID]*Edge)
		m.forward[source] = bucket
	}

	edge, ok := bucket[target]
	if !ok {
		edge = NewEdge(source, target, EdgeTemporal, delta, m.defaultDecayRate)
		bucket[target] = edge

		rbucket, ok := m.reverse[target]
		if !ok {
			rbucket = make(map[patterncore.PatternID]struct{})
			m.reverse[target] = rbucket
		}
		rbucket[source] = struct{}{}
		return edge
	}

	edge.Reinforce(delta, now)
	return edge
}

// Get returns the edge for (source, target), if any.
func (m *Matrix) Get(source, target patterncore.PatternID) (*Edge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket, ok := m.forward[source]
	if !ok {
		return nil, false
	}
	edge, ok := bucket[target]
	return edge, ok
}

// RemoveEdge deletes the (source, target) edge, reporting whether it was
// present.
func (m *Matrix) RemoveEdge(source, target patterncore.PatternID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.forward[source]
	if !ok {
		return false
	}
	if _, ok := bucket[target]; !ok {
		return false
	}
	delete(bucket, target)
	if len(bucket) == 0 {
		delete(m.forward, source)
	}
	if rbucket, ok := m.reverse[target]; ok {
		delete(rbucket, source)
		if len(rbucket) == 0 {
			delete(m.reverse, target)
		}
	}
	return true
}

// RemovePattern deletes every edge touching id, in either direction. Used
// by TieredStorage.RemovePattern to keep the association graph consistent
// with pattern deletion.
func (m *Matrix) RemovePattern(id patterncore.PatternID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for target := range m.forward[id] {
		if rbucket, ok := m.reverse[target]; ok {
			delete(rbucket, id)
			if len(rbucket) == 0 {
				delete(m.reverse, target)
			}
		}
	}
	delete(m.forward, id)

	for source := range m.reverse[id] {
		if bucket, ok := m.forward[source]; ok {
			delete(bucket, id)
			if len(bucket) == 0 {
				delete(m.forward, source)
			}
		}
	}
	delete(m.reverse, id)
}

// WeightedEdge pairs a neighbor id with its decayed strength as of the
// moment OutgoingOf/IncomingOf was called.
type WeightedEdge struct {
	Neighbor patterncore.PatternID
	Strength float32
}

// OutgoingOf returns id's outbound edges, sorted by descending strength
// (the order the prefetcher in pck/tiered consumes).
func (m *Matrix) OutgoingOf(id patterncore.PatternID) []WeightedEdge {
	now := patterncore.Now()

	m.mu.RLock()
	bucket := m.forward[id]
	out := make([]WeightedEdge, 0, len(bucket))
	for target, edge := range bucket {
		out = append(out, WeightedEdge{Neighbor: target, Strength: edge.GetStrength(now)})
	}
	m.mu.RUnlock()

	sortByStrengthDesc(out)
	return out
}

// IncomingOf returns the ids with an edge pointing at id, sorted by
// descending strength. Requires the reverse index maintained alongside
// forward.
func (m *Matrix) IncomingOf(id patterncore.PatternID) []WeightedEdge {
	now := patterncore.Now()

	m.mu.RLock()
	sources := m.reverse[id]
	out := make([]WeightedEdge, 0, len(sources))
	for source := range sources {
		edge := m.forward[source][id]
		out = append(out, WeightedEdge{Neighbor: source, Strength: edge.GetStrength(now)})
	}
	m.mu.RUnlock()

	sortByStrengthDesc(out)
	return out
}

func sortByStrengthDesc(edges []WeightedEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Strength != edges[j].Strength {
			return edges[i].Strength > edges[j].Strength
		}
		return edges[i].Neighbor.Less(edges[j].Neighbor)
	})
}

// PruneBelow removes every edge whose current decayed strength is below
// minStrength. Policy layers (pattern creator/refiner) call this; the
// matrix itself never prunes on its own.
func (m *Matrix) PruneBelow(minStrength float32) int {
	now := patterncore.Now()
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()

	for source, bucket := range m.forward {
		for target, edge := range bucket {
			if edge.GetStrength(now) < minStrength {
				delete(bucket, target)
				if rbucket, ok := m.reverse[target]; ok {
					delete(rbucket, source)
					if len(rbucket) == 0 {
						delete(m.reverse, target)
					}
				}
				removed++
			}
		}
		if len(bucket) == 0 {
			delete(m.forward, source)
		}
	}
	return removed
}

// Each calls fn for every edge currently in the matrix. fn must not call
// back into the matrix (the lock is held for the duration of iteration).
func (m *Matrix) Each(fn func(edge *Edge)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, bucket := range m.forward {
		for _, edge := range bucket {
			fn(edge)
		}
	}
}

// Count returns the total number of edges in the matrix.
func (m *Matrix) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, bucket := range m.forward {
		total += len(bucket)
	}
	return total
}
