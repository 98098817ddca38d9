package association

import (
	"math"
	"sort"
	"time"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// TemporalStats holds the running, monotone statistics for an ordered
// pattern pair (predecessor, successor), per SPEC_FULL §3/§4.9. Stats are
// cumulative: PruneOldActivations only trims the activation history used
// to form *future* pairs, it never rolls back stats already recorded.
type TemporalStats struct {
	OccurrenceCount  uint32
	MeanDelayMicros  int64
	StddevDelayMicros int64
	LastUpdated      patterncore.Timestamp

	// welfordMean/welfordM2 carry full float64 precision for the running
	// computation; MeanDelayMicros/StddevDelayMicros are the rounded
	// public view of the same state.
	welfordMean float64
	welfordM2   float64
}

// Correlation derives τ = 1 / (1 + σ/μ) from the current mean/stddev, or 0
// if the pair hasn't reached minOccurrences yet or has a non-positive mean.
func (s TemporalStats) Correlation(minOccurrences uint32) float32 {
	if s.OccurrenceCount < minOccurrences || s.MeanDelayMicros <= 0 {
		return 0
	}
	ratio := float64(s.StddevDelayMicros) / float64(s.MeanDelayMicros)
	return float32(1.0 / (1.0 + ratio))
}

// LearnerConfig configures a TemporalLearner.
type LearnerConfig struct {
	// MaxDelay is the longest gap between two activations that still
	// counts as a candidate causal pair.
	MaxDelay time.Duration
	// MinOccurrences is how many observations a pair needs before its
	// statistics are considered reliable.
	MinOccurrences uint32
	// MinCorrelation is the τ threshold IsTemporallyCorrelated uses.
	MinCorrelation float32
	// TrackingWindow bounds how far back in time RecordActivation looks
	// for predecessor candidates.
	TrackingWindow time.Duration
}

// DefaultLearnerConfig mirrors the original implementation's defaults:
// 10s max delay, 3 minimum occurrences, 0.5 minimum correlation, 5 minute
// tracking window.
func DefaultLearnerConfig() LearnerConfig {
	return LearnerConfig{
		MaxDelay:       10 * time.Second,
		MinOccurrences: 3,
		MinCorrelation: 0.5,
		TrackingWindow: 5 * time.Minute,
	}
}

type activation struct {
	timestamp patterncore.Timestamp
	pattern   patterncore.PatternID
}

type pairKey struct {
	predecessor patterncore.PatternID
	successor   patterncore.PatternID
}

// TemporalLearner derives causal-timing statistics over a stream of
// pattern activations within a sliding window. It is NOT thread-safe: the
// caller must provide external synchronization, per SPEC_FULL §5.
type TemporalLearner struct {
	config LearnerConfig

	// activations is time-ordered, oldest first, trimmed from the front
	// as RecordActivation advances the window.
	activations []activation

	stats map[pairKey]*TemporalStats
}

// NewTemporalLearner constructs a learner with the given configuration.
func NewTemporalLearner(config LearnerConfig) *TemporalLearner {
	return &TemporalLearner{
		config: config,
		stats:  make(map[pairKey]*TemporalStats),
	}
}

// RecordActivation records that pattern activated at timestamp. It drops
// activations that have fallen out of the tracking window, updates
// temporal statistics for every still-in-window predecessor within
// MaxDelay, then appends the new activation.
func (l *TemporalLearner) RecordActivation(pattern patterncore.PatternID, timestamp patterncore.Timestamp) {
	cutoff := timestamp.Add(-l.config.TrackingWindow)
	i := 0
	for i < len(l.activations) && l.activations[i].timestamp.Before(cutoff) {
		i++
	}
	l.activations = l.activations[i:]

	for _, prior := range l.activations {
		delay := timestamp.Sub(prior.timestamp)
		if delay < 0 {
			continue
		}
		if delay > l.config.MaxDelay {
			continue
		}
		l.updateStats(prior.pattern, pattern, delay, timestamp)
	}

	l.activations = append(l.activations, activation{timestamp: timestamp, pattern: pattern})
}

// RecordSequence records a pre-sorted (by timestamp, ascending) batch of
// activations in one call. Recovered from the original TemporalLearner's
// bulk ingestion entry point (SPEC_FULL §4.9).
func (l *TemporalLearner) RecordSequence(sequence []struct {
	Timestamp patterncore.Timestamp
	Pattern   patterncore.PatternID
}) {
	for _, item := range sequence {
		l.RecordActivation(item.Pattern, item.Timestamp)
	}
}

// updateStats applies Welford's online algorithm to the (predecessor,
// successor) pair's running mean/variance of delay in microseconds.
func (l *TemporalLearner) updateStats(predecessor, successor patterncore.PatternID, delay time.Duration, now patterncore.Timestamp) {
	key := pairKey{predecessor: predecessor, successor: successor}
	st, ok := l.stats[key]
	if !ok {
		st = &TemporalStats{}
		l.stats[key] = st
	}

	d := float64(delay.Microseconds())
	st.OccurrenceCount++
	n := float64(st.OccurrenceCount)

	delta := d - st.welfordMean
	st.welfordMean += delta / n
	delta2 := d - st.welfordMean
	st.welfordM2 += delta * delta2

	st.MeanDelayMicros = int64(math.Round(st.welfordMean))
	variance := 0.0
	if st.OccurrenceCount > 0 {
		variance = st.welfordM2 / n
	}
	st.StddevDelayMicros = int64(math.Round(math.Sqrt(variance)))
	st.LastUpdated = now
}

// GetTemporalStats returns the stats for (p1, p2), or false if the pair
// hasn't reached MinOccurrences yet.
func (l *TemporalLearner) GetTemporalStats(p1, p2 patterncore.PatternID) (TemporalStats, bool) {
	st, ok := l.stats[pairKey{predecessor: p1, successor: p2}]
	if !ok || st.OccurrenceCount < l.config.MinOccurrences {
		return TemporalStats{}, false
	}
	return *st, true
}

// GetTemporalCorrelation returns τ for (p1, p2), or 0 if there isn't
// enough data yet.
func (l *TemporalLearner) GetTemporalCorrelation(p1, p2 patterncore.PatternID) float32 {
	st, ok := l.GetTemporalStats(p1, p2)
	if !ok {
		return 0
	}
	return st.Correlation(l.config.MinOccurrences)
}

// IsTemporallyCorrelated reports whether (p1, p2)'s correlation meets the
// configured MinCorrelation threshold.
func (l *TemporalLearner) IsTemporallyCorrelated(p1, p2 patterncore.PatternID) bool {
	return l.GetTemporalCorrelation(p1, p2) >= l.config.MinCorrelation
}

// GetMeanDelay returns the mean delay in microseconds for (p1, p2), or 0
// if there's no data.
func (l *TemporalLearner) GetMeanDelay(p1, p2 patterncore.PatternID) int64 {
	st, ok := l.stats[pairKey{predecessor: p1, successor: p2}]
	if !ok {
		return 0
	}
	return st.MeanDelayMicros
}

// PatternCorrelation pairs a neighbor pattern with its correlation to the
// query pattern.
type PatternCorrelation struct {
	Pattern     patterncore.PatternID
	Correlation float32
	Occurrences uint32
}

// GetSuccessors returns the patterns that follow pattern with correlation
// at least minCorrelation, sorted by descending correlation, ties broken
// by higher occurrence count, then by smaller id.
func (l *TemporalLearner) GetSuccessors(pattern patterncore.PatternID, minCorrelation float32) []PatternCorrelation {
	var out []PatternCorrelation
	for key, st := range l.stats {
		if key.predecessor != pattern {
			continue
		}
		if st.OccurrenceCount < l.config.MinOccurrences {
			continue
		}
		corr := st.Correlation(l.config.MinOccurrences)
		if corr < minCorrelation {
			continue
		}
		out = append(out, PatternCorrelation{Pattern: key.successor, Correlation: corr, Occurrences: st.OccurrenceCount})
	}
	sortCorrelations(out)
	return out
}

// GetPredecessors returns the patterns that precede pattern, with the same
// ordering as GetSuccessors.
func (l *TemporalLearner) GetPredecessors(pattern patterncore.PatternID, minCorrelation float32) []PatternCorrelation {
	var out []PatternCorrelation
	for key, st := range l.stats {
		if key.successor != pattern {
			continue
		}
		if st.OccurrenceCount < l.config.MinOccurrences {
			continue
		}
		corr := st.Correlation(l.config.MinOccurrences)
		if corr < minCorrelation {
			continue
		}
		out = append(out, PatternCorrelation{Pattern: key.predecessor, Correlation: corr, Occurrences: st.OccurrenceCount})
	}
	sortCorrelations(out)
	return out
}

func sortCorrelations(items []PatternCorrelation) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Correlation != items[j].Correlation {
			return items[i].Correlation > items[j].Correlation
		}
		if items[i].Occurrences != items[j].Occurrences {
			return items[i].Occurrences > items[j].Occurrences
		}
		return items[i].Pattern.Less(items[j].Pattern)
	})
}

// PruneOldActivations drops activation history older than cutoff. It does
// not touch already-recorded TemporalStats, which remain monotone
// cumulative per SPEC_FULL §4.9/§9.
func (l *TemporalLearner) PruneOldActivations(cutoff patterncore.Timestamp) {
	i := 0
	for i < len(l.activations) && l.activations[i].timestamp.Before(cutoff) {
		i++
	}
	l.activations = l.activations[i:]
}

// Clear discards all activation history and pair statistics.
func (l *TemporalLearner) Clear() {
	l.activations = nil
	l.stats = make(map[pairKey]*TemporalStats)
}

// GetActivationCount returns the number of activations currently tracked
// in the sliding window.
func (l *TemporalLearner) GetActivationCount() int {
	return len(l.activations)
}

// GetUniquePatternCount returns the number of distinct patterns present in
// the current activation window.
func (l *TemporalLearner) GetUniquePatternCount() int {
	seen := make(map[patterncore.PatternID]struct{})
	for _, a := range l.activations {
		seen[a.pattern] = struct{}{}
	}
	return len(seen)
}

// GetPairCount returns the number of pattern pairs with any recorded
// statistics (including pairs below MinOccurrences).
func (l *TemporalLearner) GetPairCount() int {
	return len(l.stats)
}

// GetConfig returns the learner's configuration.
func (l *TemporalLearner) GetConfig() LearnerConfig { return l.config }

// SetConfig replaces the learner's configuration.
func (l *TemporalLearner) SetConfig(config LearnerConfig) { l.config = config }
