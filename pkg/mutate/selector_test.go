package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

type scriptedRNG struct {
	floats []float64
	fIdx   int
	choice int
}

func (s *scriptedRNG) Float64() float64 {
	v := s.floats[s.fIdx]
	s.fIdx++
	return v
}
func (s *scriptedRNG) RandBelow(n int) int                { return 0 }
func (s *scriptedRNG) RandRange(start, stop int) int      { return start }
func (s *scriptedRNG) ChoiceIndex(length int) int         { return s.choice }
func (s *scriptedRNG) SampleIndices(popSize, k int) []int { return []int{0, 1}[:k] }
func (s *scriptedRNG) ShuffleN(length int, swap func(i, j int)) {}

func handles(ids ...string) []mutate.OperatorHandle {
	out := make([]mutate.OperatorHandle, len(ids))
	for i, id := range ids {
		out[i] = mutate.OperatorHandle{OpID: id, Meta: testMeta(id, nil, nil)}
	}
	return out
}

func TestUniformSelector_NoneWhenEmpty(t *testing.T) {
	s := mutate.NewUniformSelector()
	_, ok := s.Choose(nil, "B", &scriptedRNG{})
	assert.False(t, ok)
}

func TestUniformSelector_PicksFromCandidates(t *testing.T) {
	s := mutate.NewUniformSelector()
	cands := handles("op_a", "op_b", "op_c")
	dec, ok := s.Choose(cands, "B", &scriptedRNG{choice: 1})
	require.True(t, ok)
	assert.Equal(t, "op_b", dec.OpID)
}

func TestWeightedSelector_AppliesRepeatPenalty(t *testing.T) {
	stats := mutate.NewOperatorStatsByBucket()
	sel := mutate.NewWeightedSelector(stats, nil)
	cands := handles("op_a", "op_b")

	// First pick: both equal weight 1.0, cumulative [1,2]; target=0 -> idx0
	first, ok := sel.Choose(cands, "B", &scriptedRNG{floats: []float64{0.0}})
	require.True(t, ok)
	assert.Equal(t, "op_a", first.OpID)

	// _recent_ops is the scheduler's responsibility (spec.md §4.6 step f),
	// not Choose's — simulate the scheduler recording the applied op.
	sel.RecentOps().Append("B", first.OpID)

	// Second pick: op_a now penalized to 0.5, op_b stays 1.0, cumulative [0.5, 1.5]
	// target just above 0.5 should land on op_b.
	second, ok := sel.Choose(cands, "B", &scriptedRNG{floats: []float64{0.6}})
	require.True(t, ok)
	assert.Equal(t, "op_b", second.OpID)
}

func TestWeightedSelector_RecentOpsAccessor(t *testing.T) {
	sel := mutate.NewWeightedSelector(nil, nil)
	assert.NotNil(t, sel.RecentOps())
}

func TestUniformSelector_RecentOpsIsNil(t *testing.T) {
	s := mutate.NewUniformSelector()
	assert.Nil(t, s.RecentOps())
}

func TestWeightedSelector_NoveltyAccessor(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	sel := mutate.NewWeightedSelector(nil, nt)
	assert.Same(t, nt, sel.Novelty())
}

func TestUniformSelector_NoveltyIsNil(t *testing.T) {
	s := mutate.NewUniformSelector()
	assert.Nil(t, s.Novelty())
}
