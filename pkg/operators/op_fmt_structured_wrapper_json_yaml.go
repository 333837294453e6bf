package operators

import (
	"encoding/json"
	"fmt"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_fmt_structured_wrapper_json_yaml",
		Meta: mutate.OperatorMeta{
			OpID:          "op_fmt_structured_wrapper_json_yaml",
			BucketTags:    []string{"LLM05_OUTPUT_HANDLING", "LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskMedium,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyFmtStructuredWrapperJSONYAML,
	})
}

// applyFmtStructuredWrapperJSONYAML re-renders the seed as the payload of
// a structured envelope, JSON below strength 4 and a YAML-ish block at or
// above it, probing for parsers that trust structured-looking input.
func applyFmtStructuredWrapperJSONYAML(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	if seedText == "" {
		return skip("empty_input", seedText)
	}
	strength := clampStrength(ctx.Strength, 1, 5)

	var child, mode string
	if strength < 4 {
		encoded, err := json.Marshal(map[string]string{"instruction": seedText})
		if err != nil {
			return skip("encode_error", seedText)
		}
		child = string(encoded)
		mode = "json_wrapper"
	} else {
		child = fmt.Sprintf("instruction: |\n  %s", indentContinuationLines(seedText))
		mode = "yaml_wrapper"
	}

	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     mode,
		"applied":  []any{appliedTriple("wrap", 0, mode)},
	})
}

func indentContinuationLines(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, r)
		if r == '\n' {
			out = append(out, ' ', ' ')
		}
	}
	return string(out)
}
