package operators

import (
	"encoding/json"
	"sort"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_constraint_schema_preserving_mutation",
		Meta: mutate.OperatorMeta{
			OpID:          "op_constraint_schema_preserving_mutation",
			BucketTags:    []string{"LLM05_OUTPUT_HANDLING", "LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT", "TOOL_ARGUMENTS"},
			RiskLevel:     mutate.RiskMedium,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyConstraintSchemaPreservingMutation,
	})
}

// applyConstraintSchemaPreservingMutation mutates string values in a flat
// JSON object while preserving every key and value type, so schema
// validators that only check shape see no difference.
func applyConstraintSchemaPreservingMutation(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	var args map[string]any
	if err := json.Unmarshal([]byte(seedText), &args); err != nil {
		return skip("not_json_object", seedText)
	}
	if len(args) == 0 {
		return skip("empty_object", seedText)
	}

	strength := clampStrength(ctx.Strength, 1, 5)

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applied := make([]any, 0)
	for idx, k := range keys {
		if s, isStr := args[k].(string); isStr && s != "" {
			suffix := string(rune('a' + rng.RandBelow(26)))
			args[k] = s + suffix
			applied = append(applied, appliedTriple("mutate_value", idx, k))
		}
	}

	if len(applied) == 0 {
		return skip("no_string_values", seedText)
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return skip("encode_error", seedText)
	}
	child := string(encoded)

	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "schema_preserving_mutation",
		"applied":  applied,
	})
}
