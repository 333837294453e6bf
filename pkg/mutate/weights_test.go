package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func TestWeightFor_KnownBucketOpPair(t *testing.T) {
	assert.Equal(t, 2.2, mutate.WeightFor("LLM01_PROMPT_INJECTION", "op_lex_instruction_override"))
}

func TestWeightFor_UnknownOpDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, mutate.WeightFor("LLM01_PROMPT_INJECTION", "op_never_heard_of_it"))
}

func TestWeightFor_UnknownBucketDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, mutate.WeightFor("LLM10_DOS", "op_comp_expand_context"))
}

func TestWeightFor_SharedOpAcrossBuckets(t *testing.T) {
	assert.Equal(t, 1.2, mutate.WeightFor("LLM01_PROMPT_INJECTION", "op_fmt_markdown_wrapper"))
	assert.Equal(t, 1.2, mutate.WeightFor("LLM05_INPUT_ROBUSTNESS", "op_fmt_markdown_wrapper"))
}
