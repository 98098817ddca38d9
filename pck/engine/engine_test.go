package engine

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
	"github.com/jtomasevic/patterndb/pck/tiered"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	fs := afero.NewMemMapFs()
	warm, err := tiered.NewWarmTier(fs, "/warm")
	require.NoError(t, err)
	cold, err := tiered.NewColdTier(fs, "/cold")
	require.NoError(t, err)
	archive, err := tiered.NewArchiveTier(fs, "/archive")
	require.NoError(t, err)
	manager := tiered.NewTierManager(tiered.NewActiveTier(), warm, cold, archive)
	matrix := association.NewMatrix(0.0)

	cfg := tiered.DefaultConfig()
	storage, err := tiered.NewTieredStorage(manager, matrix, cfg, nil, nil)
	require.NoError(t, err)

	learnerCfg := association.DefaultLearnerConfig()
	learnerCfg.MinOccurrences = 2
	learner := association.NewTemporalLearner(learnerCfg)

	return NewEngine(storage, matrix, learner)
}

func newNode() *patterncore.PatternNode {
	id := patterncore.NewPatternID()
	data := patterncore.NewPatternData(patterncore.ModalityNumeric, patterncore.NewFeatureVector([]float32{1}), nil)
	return patterncore.NewPatternNode(id, data, patterncore.PatternAtomic)
}

func TestEngine_ObserveStoresPattern(t *testing.T) {
	e := newTestEngine(t)
	node := newNode()

	e.Observe(node, patterncore.Now())

	got, ok := e.GetPattern(node.GetID())
	require.True(t, ok)
	require.Equal(t, node.GetID(), got.GetID())
}

func TestEngine_ReinforcesCorrelatedSuccessors(t *testing.T) {
	e := newTestEngine(t)
	a, b := newNode(), newNode()

	base := patterncore.FromMicros(0)
	for i := 0; i < 3; i++ {
		t0 := base.Add(time.Duration(i) * time.Minute)
		e.Observe(a, t0)
		e.Observe(b, t0.Add(1000*time.Microsecond))
	}

	successors := e.PredictNext(a.GetID(), 0.5)
	require.Len(t, successors, 1)
	require.Equal(t, b.GetID(), successors[0].Pattern)

	edges := e.AssociationsOf(a.GetID())
	require.NotEmpty(t, edges)
	require.Equal(t, b.GetID(), edges[0].Neighbor)
}

func TestEngine_ResetClearsSequenceState(t *testing.T) {
	e := newTestEngine(t)
	a := newNode()
	e.Observe(a, patterncore.Now())

	e.Reset()
	require.Empty(t, e.PredictNext(a.GetID(), 0))
}
