package similarity

import "github.com/jtomasevic/patterndb/pck/patterncore"

// Profile is a pattern's usage-statistics snapshot: access count,
// confidence, base activation, and age. StatisticalProfileSimilarity
// compares two profiles component-wise.
type Profile struct {
	AccessCount     uint32
	ConfidenceScore float32
	BaseActivation  float32
	AgeMillis       int64
}

// ProfileFromNode snapshots a PatternNode's current usage statistics.
func ProfileFromNode(node *patterncore.PatternNode) Profile {
	return Profile{
		AccessCount:     node.GetAccessCount(),
		ConfidenceScore: node.GetConfidenceScore(),
		BaseActivation:  node.GetBaseActivation(),
		AgeMillis:       node.GetAge().Milliseconds(),
	}
}

// StatisticalProfileSimilarity compares two Profiles using a weighted,
// normalized combination of their [access, confidence, activation, age]
// components. Weights default to {1.0, 1.0, 0.5, 0.5}, matching the
// original implementation.
type StatisticalProfileSimilarity struct {
	weights [4]float32
}

// NewStatisticalProfileSimilarity normalizes weights to sum to 1; a
// mis-sized slice falls back to the default weights.
func NewStatisticalProfileSimilarity(weights []float32) StatisticalProfileSimilarity {
	w := [4]float32{1.0, 1.0, 0.5, 0.5}
	if len(weights) == 4 {
		copy(w[:], weights)
	}

	var sum float32
	for _, v := range w {
		sum += v
	}
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
	return StatisticalProfileSimilarity{weights: w}
}

func (StatisticalProfileSimilarity) Name() string      { return "StatisticalProfile" }
func (StatisticalProfileSimilarity) IsSymmetric() bool { return true }

func componentSimilarity(a, b float64) float32 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	denom := a + b
	if denom == 0 {
		return 1
	}
	return clamp01(float32(1.0 - diff/denom))
}

// ComputeFromProfiles scores two profiles component-wise, weighting each
// component's [0,1] similarity by s.weights.
func (s StatisticalProfileSimilarity) ComputeFromProfiles(a, b Profile) float32 {
	accessSim := componentSimilarity(float64(a.AccessCount), float64(b.AccessCount))
	confidenceSim := componentSimilarity(float64(a.ConfidenceScore), float64(b.ConfidenceScore))
	activationSim := componentSimilarity(float64(a.BaseActivation), float64(b.BaseActivation))
	ageSim := componentSimilarity(float64(a.AgeMillis), float64(b.AgeMillis))

	return clamp01(
		s.weights[0]*accessSim +
			s.weights[1]*confidenceSim +
			s.weights[2]*activationSim +
			s.weights[3]*ageSim,
	)
}

func (s StatisticalProfileSimilarity) Compute(a, b *patterncore.PatternNode) float32 {
	return s.ComputeFromProfiles(ProfileFromNode(a), ProfileFromNode(b))
}
