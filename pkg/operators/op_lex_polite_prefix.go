package operators

import "github.com/llmsec/mutation-engine/pkg/mutate"

var politePrefixes = []string{
	"Hello, ",
	"Hi there, ",
	"Good day, ",
	"Hey, ",
	"Greetings, ",
}

func init() {
	register(mutate.Builder{
		ModuleID: "op_lex_polite_prefix",
		Meta: mutate.OperatorMeta{
			OpID:          "op_lex_polite_prefix",
			BucketTags:    []string{"LLM01_PROMPT_INJECTION", "LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskLow,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyLexPolitePrefix,
	})
}

func applyLexPolitePrefix(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	if seedText == "" {
		return skip("empty_input", seedText)
	}

	idx := rng.ChoiceIndex(len(politePrefixes))
	prefix := politePrefixes[idx]

	child := prefix + lowerFirst(seedText)
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"mode":    "prefix",
		"applied": []any{appliedTriple("prefix", 0, prefix)},
	})
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
