package similarity

import (
	"testing"
	"time"

	"github.com/jtomasevic/patterndb/pck/patterncore"
	"github.com/stretchr/testify/require"
)

func makeNode(features []float32) *patterncore.PatternNode {
	id := patterncore.NewPatternID()
	data := patterncore.NewPatternData(patterncore.ModalityNumeric, patterncore.NewFeatureVector(features), nil)
	return patterncore.NewPatternNode(id, data, patterncore.PatternAtomic)
}

func TestContextVectorSimilarity_IdenticalFeaturesScoreOne(t *testing.T) {
	s := ContextVectorSimilarity{}
	a := makeNode([]float32{1, 2, 3})
	b := makeNode([]float32{1, 2, 3})
	require.InDelta(t, 1.0, s.Compute(a, b), 1e-5)
}

func TestContextVectorSimilarity_OrthogonalFeaturesScoreZero(t *testing.T) {
	s := ContextVectorSimilarity{}
	a := makeNode([]float32{1, 0})
	b := makeNode([]float32{0, 1})
	require.InDelta(t, 0.0, s.Compute(a, b), 1e-5)
}

func TestContextVectorSimilarity_ComputeFromContext(t *testing.T) {
	s := ContextVectorSimilarity{}
	a := patterncore.ContextVector{"color": 1.0}
	b := patterncore.ContextVector{"color": 1.0}
	require.InDelta(t, 1.0, s.ComputeFromContext(a, b), 1e-5)
}

func TestTemporalSimilarity_CloseInTimeScoresHigh(t *testing.T) {
	s := NewTemporalSimilarity(1000 * time.Millisecond)
	t1 := patterncore.FromMicros(0)
	t2 := patterncore.FromMicros(10_000)
	require.Greater(t, s.ComputeFromTimestamps(t1, t2), float32(0.9))
}

func TestTemporalSimilarity_OutsideWindowScoresZero(t *testing.T) {
	s := NewTemporalSimilarity(100 * time.Millisecond)
	t1 := patterncore.FromMicros(0)
	t2 := t1.Add(time.Second)
	require.Equal(t, float32(0), s.ComputeFromTimestamps(t1, t2))
}

func TestHierarchicalSimilarity_IdenticalSetsScoreOne(t *testing.T) {
	s := HierarchicalSimilarity{}
	a := patterncore.NewPatternID()
	b := patterncore.NewPatternID()
	require.Equal(t, float32(1.0), s.ComputeFromSubPatterns([]patterncore.PatternID{a, b}, []patterncore.PatternID{a, b}))
}

func TestHierarchicalSimilarity_PartialOverlap(t *testing.T) {
	s := HierarchicalSimilarity{}
	a, b, c := patterncore.NewPatternID(), patterncore.NewPatternID(), patterncore.NewPatternID()
	// intersection {a} = 1, union {a,b,c} = 3
	require.InDelta(t, 1.0/3.0, s.ComputeFromSubPatterns([]patterncore.PatternID{a, b}, []patterncore.PatternID{a, c}), 1e-5)
}

func TestHierarchicalSimilarity_BothEmptyScoresOne(t *testing.T) {
	s := HierarchicalSimilarity{}
	require.Equal(t, float32(1.0), s.ComputeFromSubPatterns(nil, nil))
}

func TestStatisticalProfileSimilarity_IdenticalProfilesScoreOne(t *testing.T) {
	s := NewStatisticalProfileSimilarity(nil)
	p := Profile{AccessCount: 5, ConfidenceScore: 0.8, BaseActivation: 0.3, AgeMillis: 1000}
	require.InDelta(t, 1.0, s.ComputeFromProfiles(p, p), 1e-5)
}

func TestStatisticalProfileSimilarity_DivergentProfilesScoreLower(t *testing.T) {
	s := NewStatisticalProfileSimilarity(nil)
	a := Profile{AccessCount: 0, ConfidenceScore: 0, BaseActivation: 0, AgeMillis: 0}
	b := Profile{AccessCount: 1000, ConfidenceScore: 1, BaseActivation: 1, AgeMillis: 100000}
	require.Less(t, s.ComputeFromProfiles(a, b), float32(0.5))
}

func TestTypeSimilarity_StrictExactMatch(t *testing.T) {
	s := TypeSimilarity{Strict: true}
	require.Equal(t, float32(1.0), s.ComputeFromTypes(patterncore.PatternAtomic, patterncore.PatternAtomic))
	require.Equal(t, float32(0.0), s.ComputeFromTypes(patterncore.PatternAtomic, patterncore.PatternComposite))
}

func TestTypeSimilarity_NonStrictRelatedTypes(t *testing.T) {
	s := TypeSimilarity{Strict: false}
	require.Equal(t, float32(0.5), s.ComputeFromTypes(patterncore.PatternAtomic, patterncore.PatternComposite))
	require.Equal(t, float32(0.0), s.ComputeFromTypes(patterncore.PatternAtomic, patterncore.PatternMeta))
	require.Equal(t, float32(0.0), s.ComputeFromTypes(patterncore.PatternMeta, patterncore.PatternAtomic))
	require.Equal(t, float32(0.0), s.ComputeFromTypes(patterncore.PatternMeta, patterncore.PatternComposite))
}

func TestMetadataSimilarity_EmptyRegistryScoresZero(t *testing.T) {
	m := NewMetadataSimilarity()
	a, b := makeNode([]float32{1}), makeNode([]float32{1})
	require.Equal(t, float32(0), m.Compute(a, b))
}

func TestMetadataSimilarity_WeightedCombination(t *testing.T) {
	m := NewMetadataSimilarity()
	m.AddMetric(TypeSimilarity{Strict: true}, 1.0)
	a, b := makeNode([]float32{1}), makeNode([]float32{1})
	require.Equal(t, float32(1.0), m.Compute(a, b))
}

func TestMetadataSimilarity_ClearResetsRegistry(t *testing.T) {
	m := NewMetadataSimilarity()
	m.AddMetric(TypeSimilarity{Strict: true}, 1.0)
	m.Clear()
	a, b := makeNode([]float32{1}), makeNode([]float32{1})
	require.Equal(t, float32(0), m.Compute(a, b))
}

func TestNewDefaultMetadataSimilarity_IdenticalNodesScoreHigh(t *testing.T) {
	m := NewDefaultMetadataSimilarity()
	a := makeNode([]float32{1, 2, 3})
	require.Greater(t, m.Compute(a, a), float32(0.9))
}
