package similarity

import "github.com/jtomasevic/patterndb/pck/patterncore"

// HierarchicalSimilarity scores two patterns by the Jaccard similarity of
// their sub-pattern sets: |A ∩ B| / |A ∪ B|.
type HierarchicalSimilarity struct{}

func (HierarchicalSimilarity) Name() string      { return "Hierarchical" }
func (HierarchicalSimilarity) IsSymmetric() bool { return true }

// ComputeFromSubPatterns computes Jaccard similarity between two id sets.
func (HierarchicalSimilarity) ComputeFromSubPatterns(a, b []patterncore.PatternID) float32 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	setA := make(map[patterncore.PatternID]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}

	intersection := 0
	union := len(setA)
	for _, id := range b {
		if _, ok := setA[id]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 1
	}
	return float32(intersection) / float32(union)
}

func (h HierarchicalSimilarity) Compute(a, b *patterncore.PatternNode) float32 {
	return h.ComputeFromSubPatterns(a.GetSubPatterns(), b.GetSubPatterns())
}
