package similarity

import (
	"time"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// TemporalSimilarity scores two patterns by how close together their
// creation times are: 1.0 at zero distance, linearly falling to 0.0 at
// TimeWindow and beyond.
type TemporalSimilarity struct {
	TimeWindow time.Duration
}

// NewTemporalSimilarity mirrors the original's 1000ms default window.
func NewTemporalSimilarity(window time.Duration) TemporalSimilarity {
	if window <= 0 {
		window = time.Second
	}
	return TemporalSimilarity{TimeWindow: window}
}

func (TemporalSimilarity) Name() string      { return "Temporal" }
func (TemporalSimilarity) IsSymmetric() bool { return true }

// ComputeFromTimestamps scores the temporal proximity of t1 and t2.
func (s TemporalSimilarity) ComputeFromTimestamps(t1, t2 patterncore.Timestamp) float32 {
	delta := t1.Sub(t2)
	if delta < 0 {
		delta = -delta
	}
	if delta >= s.TimeWindow {
		return 0
	}
	return clamp01(1.0 - float32(delta)/float32(s.TimeWindow))
}

func (s TemporalSimilarity) Compute(a, b *patterncore.PatternNode) float32 {
	return s.ComputeFromTimestamps(a.GetCreationTime(), b.GetCreationTime())
}
