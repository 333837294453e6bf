package operators

import (
	"fmt"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_fmt_markdown_wrapper",
		Meta: mutate.OperatorMeta{
			OpID:          "op_fmt_markdown_wrapper",
			BucketTags:    []string{"LLM01_PROMPT_INJECTION", "LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskLow,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyFmtMarkdownWrapper,
	})
}

func applyFmtMarkdownWrapper(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	if seedText == "" {
		return skip("empty_input", seedText)
	}
	strength := clampStrength(ctx.Strength, 1, 5)

	var child string
	switch {
	case strength <= 2:
		child = fmt.Sprintf("```\n%s\n```", seedText)
	case strength <= 4:
		child = fmt.Sprintf("# Instructions\n\n```text\n%s\n```", seedText)
	default:
		child = fmt.Sprintf("# Instructions\n\n> %s\n\n```text\n%s\n```", firstLine(seedText), seedText)
	}

	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "markdown_wrapper",
		"applied":  []any{appliedTriple("wrap", 0, "markdown")},
	})
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
