// Package similarity implements the pluggable pattern-similarity metrics
// described in SPEC_FULL §4.10: context-vector cosine similarity, temporal
// proximity, hierarchical (sub-pattern) Jaccard similarity, statistical
// usage-profile similarity, type similarity, and a weighted composite of
// all of them. Grounded on contextual_similarity.hpp.
package similarity

import "github.com/jtomasevic/patterndb/pck/patterncore"

// Metric scores two patterns in [0, 1], where 1 means maximally similar.
// Every metric in this package is symmetric: Compute(a, b) == Compute(b, a).
type Metric interface {
	Compute(a, b *patterncore.PatternNode) float32
	Name() string
	IsSymmetric() bool
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
