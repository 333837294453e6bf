package operators

import (
	"strings"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

var fillerSentence = "This is additional context that should not change the requested outcome. "

func init() {
	register(mutate.Builder{
		ModuleID: "op_comp_expand_context",
		Meta: mutate.OperatorMeta{
			OpID:          "op_comp_expand_context",
			BucketTags:    []string{"LLM10_DOS"},
			SurfaceCompat: []string{"PROMPT_TEXT", "SYSTEM_MESSAGE"},
			RiskLevel:     mutate.RiskMedium,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyCompExpandContext,
	})
}

// applyCompExpandContext pads the seed with filler repeated a
// strength-scaled number of times, probing cost/latency amplification
// under naive context-window handling. It always respects
// constraints.max_chars rather than growing unbounded.
func applyCompExpandContext(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	if seedText == "" {
		return skip("empty_input", seedText)
	}
	strength := clampStrength(ctx.Strength, 1, 5)
	repeats := strength * 10

	maxChars := ctx.Constraints.MaxChars
	if maxChars <= 0 {
		maxChars = 8000
	}

	var b strings.Builder
	b.WriteString(seedText)
	b.WriteString("\n\n")
	for i := 0; i < repeats; i++ {
		if len([]rune(b.String()))+len([]rune(fillerSentence)) > maxChars {
			break
		}
		b.WriteString(fillerSentence)
	}

	child := strings.TrimRight(b.String(), " ")
	if child == seedText {
		return skip("no_change", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "expand_context",
		"applied":  []any{appliedTriple("pad", 0, "filler_repeat")},
	})
}
