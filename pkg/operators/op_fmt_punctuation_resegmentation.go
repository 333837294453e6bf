package operators

import (
	"strings"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_fmt_punctuation_resegmentation",
		Meta: mutate.OperatorMeta{
			OpID:          "op_fmt_punctuation_resegmentation",
			BucketTags:    []string{"LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskLow,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyFmtPunctuationResegmentation,
	})
}

// applyFmtPunctuationResegmentation breaks sentences at '.', '!', '?' onto
// their own lines, a common robustness-probe mutation that should not
// change meaning but does change tokenization boundaries.
func applyFmtPunctuationResegmentation(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	if !strings.ContainsAny(seedText, ".!?") {
		return skip("no_sentence_boundaries", seedText)
	}

	var b strings.Builder
	breaks := 0
	for _, r := range seedText {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			b.WriteRune('\n')
			breaks++
		}
	}
	child := strings.TrimRight(b.String(), "\n")

	if child == seedText {
		return skip("no_change", seedText)
	}
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"mode":    "punctuation_resegmentation",
		"applied": []any{appliedTriple("resegment", 0, "sentence_breaks")},
	})
}
