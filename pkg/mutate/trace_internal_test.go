package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonAppliedTriple_SortsByKindDetailIndex(t *testing.T) {
	applied := []any{
		[]any{"insert", 3, "b"},
		[]any{"insert", 1, "a"},
		[]any{"delete", 0, "z"},
	}

	got := canonAppliedTriple(applied)
	require_ := assert.New(t)
	require_.Len(got, 3)

	first := got[0].([]any)
	require_.Equal("delete", first[0])
	second := got[1].([]any)
	require_.Equal("insert", second[0])
	require_.Equal(1, second[1])
	third := got[2].([]any)
	require_.Equal(3, third[1])
}

func TestCanonAppliedTriple_MalformedEntriesSortLastInOriginalOrder(t *testing.T) {
	applied := []any{
		"not-a-triple",
		[]any{"insert", 1, "a"},
		42,
	}
	got := canonAppliedTriple(applied)
	assert.Equal(t, []any{"insert", 1, "a"}, got[0])
	assert.Equal(t, "not-a-triple", got[1])
	assert.Equal(t, 42, got[2])
}

func TestCanonicalizeApplied_NoopWhenAbsent(t *testing.T) {
	trace := TraceEntry{"op_id": "op_x", "status": "OK", "params": map[string]any{}, "len_before": 0, "len_after": 0}
	before := len(trace)
	canonicalizeApplied(trace)
	assert.Equal(t, before, len(trace))
}

func TestCanonicalizeApplied_SortsInPlace(t *testing.T) {
	trace := TraceEntry{
		"params": map[string]any{
			"applied": []any{
				[]any{"b_kind", 0, "x"},
				[]any{"a_kind", 0, "y"},
			},
		},
	}
	canonicalizeApplied(trace)
	applied := trace["params"].(map[string]any)["applied"].([]any)
	first := applied[0].([]any)
	assert.Equal(t, "a_kind", first[0])
}
