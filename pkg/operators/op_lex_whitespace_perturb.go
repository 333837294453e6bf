package operators

import (
	"strings"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_lex_whitespace_perturb",
		Meta: mutate.OperatorMeta{
			OpID:          "op_lex_whitespace_perturb",
			BucketTags:    []string{"LLM01_PROMPT_INJECTION", "LLM02_INSECURE_OUTPUT"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskLow,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyLexWhitespacePerturb,
	})
}

// applyLexWhitespacePerturb replaces single spaces between words with a
// strength-scaled run of spaces, chosen per-gap from the rng stream so the
// perturbation is reproducible.
func applyLexWhitespacePerturb(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	words := strings.Fields(seedText)
	if len(words) < 2 {
		return skip("too_short", seedText)
	}
	strength := clampStrength(ctx.Strength, 1, 5)
	maxExtra := strength

	var b strings.Builder
	applied := make([]any, 0, len(words)-1)
	b.WriteString(words[0])
	for i := 1; i < len(words); i++ {
		extra := rng.RandBelow(maxExtra + 1)
		b.WriteString(strings.Repeat(" ", 1+extra))
		b.WriteString(words[i])
		if extra > 0 {
			applied = append(applied, appliedTriple("whitespace", i, "extra_spaces"))
		}
	}

	child := b.String()
	if child == seedText {
		return skip("no_change", seedText)
	}
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "whitespace_perturb",
		"applied":  applied,
	})
}
