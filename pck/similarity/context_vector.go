package similarity

import "github.com/jtomasevic/patterndb/pck/patterncore"

// ContextVectorSimilarity compares two patterns' feature vectors by cosine
// similarity. Patterns carry no separate sparse ContextVector, so Compute
// adapts ComputeFromContext's shape to the dense FeatureVector every
// PatternNode already has; ComputeFromContext itself remains available for
// callers working directly with sparse tag/metadata vectors.
type ContextVectorSimilarity struct{}

func (ContextVectorSimilarity) Name() string      { return "ContextVector" }
func (ContextVectorSimilarity) IsSymmetric() bool { return true }

// ComputeFromContext compares two sparse context vectors by cosine
// similarity.
func (ContextVectorSimilarity) ComputeFromContext(a, b patterncore.ContextVector) float32 {
	return a.CosineSimilarity(b)
}

// ComputeFromFeatures compares two dense feature vectors by cosine
// similarity, returning 0 on dimension mismatch rather than propagating an
// error (a similarity metric has no error channel).
func (ContextVectorSimilarity) ComputeFromFeatures(a, b patterncore.FeatureVector) float32 {
	sim, err := a.CosineSimilarity(b)
	if err != nil {
		return 0
	}
	return clamp01(sim)
}

func (c ContextVectorSimilarity) Compute(a, b *patterncore.PatternNode) float32 {
	return c.ComputeFromFeatures(a.GetData().GetFeatures(), b.GetData().GetFeatures())
}
