package similarity

import "github.com/jtomasevic/patterndb/pck/patterncore"

// TypeSimilarity scores two patterns by their PatternType. In strict mode
// only identical types score 1.0; otherwise related types (ATOMIC and
// COMPOSITE, as components of a larger structure) score a partial match.
type TypeSimilarity struct {
	Strict bool
}

func (TypeSimilarity) Name() string      { return "Type" }
func (TypeSimilarity) IsSymmetric() bool { return true }

// ComputeFromTypes scores t1 against t2.
func (s TypeSimilarity) ComputeFromTypes(t1, t2 patterncore.PatternType) float32 {
	if t1 == t2 {
		return 1.0
	}
	if s.Strict {
		return 0.0
	}
	if areRelatedTypes(t1, t2) {
		return 0.5
	}
	return 0.0
}

// areRelatedTypes treats ATOMIC/COMPOSITE as related (a composite is built
// from atomics) but META as unrelated to either, since it describes
// patterns-about-patterns rather than a structural component.
func areRelatedTypes(t1, t2 patterncore.PatternType) bool {
	return (t1 == patterncore.PatternAtomic && t2 == patterncore.PatternComposite) ||
		(t1 == patterncore.PatternComposite && t2 == patterncore.PatternAtomic)
}

func (s TypeSimilarity) Compute(a, b *patterncore.PatternNode) float32 {
	return s.ComputeFromTypes(a.GetType(), b.GetType())
}
