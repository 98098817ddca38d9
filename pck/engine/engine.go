// Package engine wires tiered storage, the association matrix, and the
// temporal learner into a single activation-stream entry point. Adapted
// from the teacher's SynapseRuntime: where SynapseRuntime ingests an event,
// runs it through registered rules, and derives+wires new nodes, Engine
// observes a pattern activation, runs it through the temporal learner, and
// reinforces the association edge to whatever preceded it.
package engine

import (
	"sync"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
	"github.com/jtomasevic/patterndb/pck/tiered"
)

// reinforcementDelta is how much a temporally-correlated (predecessor,
// successor) pair's edge strengthens per co-occurrence.
const reinforcementDelta float32 = 0.1

// Engine is the orchestration point a caller streams pattern activations
// through. It owns no storage of its own; TieredStorage, the Matrix, and
// the TemporalLearner are supplied at construction and remain directly
// usable on their own for callers that need finer control.
type Engine struct {
	storage *tiered.TieredStorage
	matrix  *association.Matrix

	// learner is explicitly not thread-safe (SPEC_FULL §5); learnerMu
	// serializes every access to it through the engine.
	learnerMu sync.Mutex
	learner   *association.TemporalLearner
	lastID    patterncore.PatternID
	hasLast   bool
}

// NewEngine wires the three collaborators together.
func NewEngine(storage *tiered.TieredStorage, matrix *association.Matrix, learner *association.TemporalLearner) *Engine {
	return &Engine{
		storage: storage,
		matrix:  matrix,
		learner: learner,
	}
}

// Observe records that node activated at timestamp at: it stores the
// pattern (so it's retrievable), records the access, feeds the activation
// to the temporal learner, and — if the learner now considers this pattern
// temporally correlated with whatever activated immediately before it —
// reinforces the association edge between them.
func (e *Engine) Observe(node *patterncore.PatternNode, at patterncore.Timestamp) {
	e.storage.StorePattern(node)
	node.RecordAccess()

	e.learnerMu.Lock()
	defer e.learnerMu.Unlock()

	if e.hasLast && e.learner.IsTemporallyCorrelated(e.lastID, node.GetID()) {
		e.matrix.AddOrReinforce(e.lastID, node.GetID(), reinforcementDelta)
	}

	e.learner.RecordActivation(node.GetID(), at)
	e.lastID = node.GetID()
	e.hasLast = true
}

// GetPattern fetches a pattern through the storage layer, promoting it on
// access.
func (e *Engine) GetPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	return e.storage.GetPatternWithPromotion(id)
}

// PredictNext returns the patterns the temporal learner expects to follow
// id, sorted by descending correlation.
func (e *Engine) PredictNext(id patterncore.PatternID, minCorrelation float32) []association.PatternCorrelation {
	e.learnerMu.Lock()
	defer e.learnerMu.Unlock()
	return e.learner.GetSuccessors(id, minCorrelation)
}

// AssociationsOf returns id's outbound association edges, sorted by
// descending strength.
func (e *Engine) AssociationsOf(id patterncore.PatternID) []association.WeightedEdge {
	return e.matrix.OutgoingOf(id)
}

// Reset clears the engine's activation-sequence state (the temporal
// learner and the "last observed" pointer), without touching storage or
// the association matrix.
func (e *Engine) Reset() {
	e.learnerMu.Lock()
	defer e.learnerMu.Unlock()
	e.learner.Clear()
	e.hasLast = false
}
