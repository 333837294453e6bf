package operators

import (
	"strings"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_lex_shorten",
		Meta: mutate.OperatorMeta{
			OpID:          "op_lex_shorten",
			BucketTags:    []string{"LLM01_PROMPT_INJECTION", "LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskMedium,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyLexShorten,
	})
}

// shortenFraction maps strength to the fraction of words kept, strongest
// strength keeping the fewest.
var shortenFraction = map[int]float64{1: 0.9, 2: 0.75, 3: 0.6, 4: 0.4, 5: 0.25}

func applyLexShorten(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	words := strings.Fields(seedText)
	if len(words) < 2 {
		return skip("too_short", seedText)
	}

	strength := clampStrength(ctx.Strength, 1, 5)
	keep := int(float64(len(words)) * shortenFraction[strength])
	if keep < 1 {
		keep = 1
	}
	if keep >= len(words) {
		return skip("no_change", seedText)
	}

	child := strings.Join(words[:keep], " ")
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "truncate_words",
		"applied":  []any{appliedTriple("truncate", keep, "word_count")},
	})
}
