package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

type fakeRNG struct{}

func (fakeRNG) Float64() float64                         { return 0 }
func (fakeRNG) RandBelow(n int) int                       { return 0 }
func (fakeRNG) RandRange(start, stop int) int             { return start }
func (fakeRNG) ChoiceIndex(length int) int                { return 0 }
func (fakeRNG) SampleIndices(popSize, k int) []int        { return []int{0, 1}[:k] }
func (fakeRNG) ShuffleN(length int, swap func(i, j int)) {}

func noopOperator(meta mutate.OperatorMeta) mutate.Builder {
	return mutate.Builder{
		ModuleID: meta.OpID,
		Meta:     meta,
		Apply: func(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
			return mutate.ApplyResult{
				Status:    mutate.StatusOK,
				ChildText: seedText + "!",
				Trace:     mutate.TraceEntry{"params": map[string]any{}},
			}
		},
	}
}

func testMeta(opID string, buckets, surfaces []string) mutate.OperatorMeta {
	return mutate.OperatorMeta{
		OpID:          opID,
		BucketTags:    buckets,
		SurfaceCompat: surfaces,
		RiskLevel:     mutate.RiskLow,
		StrengthMin:   1,
		StrengthMax:   5,
	}
}

func TestRegistry_LoadSortsAndRejectsDuplicates(t *testing.T) {
	builders := []mutate.Builder{
		noopOperator(testMeta("op_b", []string{"BUCKET"}, []string{"PROMPT_TEXT"})),
		noopOperator(testMeta("op_a", []string{"BUCKET"}, []string{"PROMPT_TEXT"})),
		noopOperator(testMeta("op_a", []string{"BUCKET"}, []string{"PROMPT_TEXT"})),
	}
	r, err := mutate.Load(builders, false)
	require.NoError(t, err)
	ops := r.ListOps()
	require.Len(t, ops, 2)
	assert.Equal(t, "op_a", ops[0].OpID)
	assert.Equal(t, "op_b", ops[1].OpID)
	assert.NotEmpty(t, r.LoadErrors)
}

func TestRegistry_LoadStrictFailsFast(t *testing.T) {
	builders := []mutate.Builder{
		noopOperator(testMeta("op_a", []string{"BUCKET"}, []string{"PROMPT_TEXT"})),
		noopOperator(testMeta("op_a", []string{"BUCKET"}, []string{"PROMPT_TEXT"})),
	}
	_, err := mutate.Load(builders, true)
	assert.Error(t, err)
}

func TestRegistry_ApplyUnknownOpReturnsInvalid(t *testing.T) {
	r, err := mutate.Load(nil, false)
	require.NoError(t, err)
	res := r.Apply("missing_op", "hello", mutate.Context{}, fakeRNG{})
	assert.Equal(t, mutate.StatusInvalid, res.Status)
	assert.Equal(t, "hello", res.ChildText)
	assert.Equal(t, "missing_op", res.Trace["op_id"])
}

func TestRegistry_ApplyBucketMismatchSkips(t *testing.T) {
	builders := []mutate.Builder{noopOperator(testMeta("op_a", []string{"BUCKET_X"}, []string{"PROMPT_TEXT"}))}
	r, err := mutate.Load(builders, true)
	require.NoError(t, err)

	res := r.Apply("op_a", "hello", mutate.Context{BucketID: "BUCKET_Y", Surface: "PROMPT_TEXT"}, fakeRNG{})
	assert.Equal(t, mutate.StatusSkipped, res.Status)
	assert.Equal(t, "hello", res.ChildText)
}

func TestRegistry_ApplySurfaceMismatchSkips(t *testing.T) {
	builders := []mutate.Builder{noopOperator(testMeta("op_a", []string{"BUCKET_X"}, []string{"PROMPT_TEXT"}))}
	r, err := mutate.Load(builders, true)
	require.NoError(t, err)

	res := r.Apply("op_a", "hello", mutate.Context{BucketID: "BUCKET_X", Surface: "TOOL_CALL"}, fakeRNG{})
	assert.Equal(t, mutate.StatusSkipped, res.Status)
}

func TestRegistry_ApplyOverwritesTraceIdentityFields(t *testing.T) {
	builders := []mutate.Builder{{
		ModuleID: "op_lie",
		Meta:     testMeta("op_lie", []string{"BUCKET_X"}, []string{"PROMPT_TEXT"}),
		Apply: func(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
			return mutate.ApplyResult{
				Status:    mutate.StatusOK,
				ChildText: "mutated",
				Trace: mutate.TraceEntry{
					"op_id":      "some_other_op",
					"status":     "SKIPPED",
					"len_before": 999,
					"len_after":  999,
					"params":     map[string]any{},
				},
			}
		},
	}}
	r, err := mutate.Load(builders, true)
	require.NoError(t, err)

	res := r.Apply("op_lie", "seed", mutate.Context{BucketID: "BUCKET_X", Surface: "PROMPT_TEXT"}, fakeRNG{})
	assert.Equal(t, "op_lie", res.Trace["op_id"])
	assert.Equal(t, "OK", res.Trace["status"])
	assert.Equal(t, 4, res.Trace["len_before"])
	assert.Equal(t, 7, res.Trace["len_after"])
}

func TestRegistry_ApplyRecoversFromPanic(t *testing.T) {
	builders := []mutate.Builder{{
		ModuleID: "op_panics",
		Meta:     testMeta("op_panics", []string{"BUCKET_X"}, []string{"PROMPT_TEXT"}),
		Apply: func(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
			panic("boom")
		},
	}}
	r, err := mutate.Load(builders, true)
	require.NoError(t, err)

	res := r.Apply("op_panics", "seed", mutate.Context{BucketID: "BUCKET_X", Surface: "PROMPT_TEXT"}, fakeRNG{})
	assert.Equal(t, mutate.StatusInvalid, res.Status)
	assert.Equal(t, "seed", res.ChildText)
	assert.Error(t, res.Err)
}

func TestRegistry_Filter(t *testing.T) {
	builders := []mutate.Builder{
		noopOperator(testMeta("op_low", []string{"B"}, []string{"PROMPT_TEXT"})),
		{
			ModuleID: "op_high",
			Meta: mutate.OperatorMeta{
				OpID: "op_high", BucketTags: []string{"B"}, SurfaceCompat: []string{"PROMPT_TEXT"},
				RiskLevel: mutate.RiskHigh, StrengthMin: 1, StrengthMax: 5,
			},
			Apply: noopOperator(testMeta("ignored", nil, nil)).Apply,
		},
	}
	r, err := mutate.Load(builders, true)
	require.NoError(t, err)

	all := r.Filter("B", "PROMPT_TEXT", "")
	assert.Len(t, all, 2)

	lowOnly := r.Filter("B", "PROMPT_TEXT", "LOW")
	require.Len(t, lowOnly, 1)
	assert.Equal(t, "op_low", lowOnly[0].OpID)
}
