package operators

import (
	"strings"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

var noiseChars = []string{" ", "\t", " "}

func init() {
	register(mutate.Builder{
		ModuleID: "op_fmt_whitespace_noise",
		Meta: mutate.OperatorMeta{
			OpID:          "op_fmt_whitespace_noise",
			BucketTags:    []string{"LLM05_INPUT_ROBUSTNESS"},
			SurfaceCompat: []string{"PROMPT_TEXT", "SYSTEM_MESSAGE", "TOOL_ARGUMENTS"},
			RiskLevel:     mutate.RiskLow,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyFmtWhitespaceNoise,
	})
}

// applyFmtWhitespaceNoise inserts a noise character (space, tab or
// non-breaking space, chosen from the rng stream) after every Nth
// character, where N shrinks as strength rises.
func applyFmtWhitespaceNoise(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	r := []rune(seedText)
	if len(r) < 2 {
		return skip("too_short", seedText)
	}
	strength := clampStrength(ctx.Strength, 1, 5)
	every := 6 - strength // strength 5 -> every 1, strength 1 -> every 5
	if every < 1 {
		every = 1
	}

	var b strings.Builder
	inserted := 0
	for i, c := range r {
		b.WriteRune(c)
		if i > 0 && i%every == 0 && i != len(r)-1 {
			idx := rng.RandBelow(len(noiseChars))
			b.WriteString(noiseChars[idx])
			inserted++
		}
	}

	if inserted == 0 {
		return skip("no_change", seedText)
	}
	child := b.String()
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("would_exceed_max_chars", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "whitespace_noise",
		"applied":  []any{appliedTriple("noise", inserted, "whitespace_insertions")},
	})
}
