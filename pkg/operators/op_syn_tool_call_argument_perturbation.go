package operators

import (
	"encoding/json"
	"sort"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_syn_tool_call_argument_perturbation",
		Meta: mutate.OperatorMeta{
			OpID:          "op_syn_tool_call_argument_perturbation",
			BucketTags:    []string{"LLM08_TOOL_MISUSE", "LLM05_OUTPUT_HANDLING"},
			SurfaceCompat: []string{"TOOL_CALL", "TOOL_ARGUMENTS"},
			RiskLevel:     mutate.RiskHigh,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applySynToolCallArgumentPerturbation,
	})
}

// applySynToolCallArgumentPerturbation parses the seed as a flat JSON
// object of tool-call arguments and swaps the values of two rng-sampled
// keys, probing whether a downstream executor validates argument
// semantics rather than just argument shape.
func applySynToolCallArgumentPerturbation(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	var args map[string]any
	if err := json.Unmarshal([]byte(seedText), &args); err != nil {
		return skip("not_json_object", seedText)
	}
	if len(args) < 2 {
		return skip("too_few_keys", seedText)
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	picked := rng.SampleIndices(len(keys), 2)
	k1, k2 := keys[picked[0]], keys[picked[1]]
	args[k1], args[k2] = args[k2], args[k1]

	encoded, err := json.Marshal(args)
	if err != nil {
		return skip("encode_error", seedText)
	}
	child := string(encoded)

	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	strength := clampStrength(ctx.Strength, 1, 5)
	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "argument_swap",
		"applied":  []any{appliedTriple("swap", 0, k1+"<->"+k2)},
	})
}
