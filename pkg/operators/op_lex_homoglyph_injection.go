package operators

import (
	"fmt"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func init() {
	register(mutate.Builder{
		ModuleID: "op_lex_homoglyph_injection",
		Meta: mutate.OperatorMeta{
			OpID:          "op_lex_homoglyph_injection",
			BucketTags:    []string{"LLM01_PROMPT_INJECTION"},
			SurfaceCompat: []string{"PROMPT_TEXT"},
			RiskLevel:     mutate.RiskMedium,
			StrengthMin:   1,
			StrengthMax:   5,
		},
		Apply: applyLexHomoglyphInjection,
	})
}

// homoglyphs maps a Latin letter to its Cyrillic/Greek/fullwidth
// look-alikes.
var homoglyphs = map[rune][]rune{
	'A': {'Α', 'А'},
	'B': {'Β', 'В'},
	'C': {'С', 'Ϲ'},
	'E': {'Ε', 'Е'},
	'H': {'Η', 'Н'},
	'I': {'Ι', 'І'},
	'J': {'Ј'},
	'K': {'Κ', 'К'},
	'M': {'Μ', 'М'},
	'N': {'Ν', 'Ｎ'},
	'O': {'Ο', 'О'},
	'P': {'Ρ', 'Р'},
	'S': {'Ѕ', 'Ｓ'},
	'T': {'Τ', 'Т'},
	'X': {'Χ', 'Х'},
	'Y': {'Υ', 'У'},
	'a': {'а', 'ɑ'},
	'c': {'с', 'ϲ'},
	'e': {'е', '℮'},
	'i': {'і', 'ι'},
	'j': {'ј'},
	'o': {'о', 'ο'},
	'p': {'р'},
	's': {'ѕ'},
	'x': {'х'},
	'y': {'у'},
}

// zeroWidthChars are the candidate insertion characters: ZWSP, ZWNJ, ZWJ.
var zeroWidthChars = []rune{'​', '‌', '‍'}

// applyLexHomoglyphInjection perturbs seedText with a mix of homoglyph
// substitutions and zero-width insertions. The strength budget (strength
// + 1, capped to text length) splits into a replacement share
// (strength - 1) and an insertion share (the remainder); at strength 1
// the whole budget goes to insertion, matching spec.md §8 Scenario E's
// reference derivation.
func applyLexHomoglyphInjection(seedText string, ctx mutate.Context, rng mutate.RNG) mutate.ApplyResult {
	strength := clampStrength(ctx.Strength, 1, 5)

	if ctx.Surface != "" && ctx.Surface != "PROMPT_TEXT" {
		return skip("surface_mismatch", seedText)
	}
	if seedText == "" {
		return skip("empty", seedText)
	}

	chars := runes(seedText)

	var replaceCandidates []int
	for i, ch := range chars {
		if _, ok := homoglyphs[ch]; ok {
			replaceCandidates = append(replaceCandidates, i)
		}
	}

	budget := strength + 1
	if budget > len(chars) {
		budget = len(chars)
	}
	replacementTarget := strength - 1
	if replacementTarget < 0 {
		replacementTarget = 0
	}
	if replacementTarget > budget {
		replacementTarget = budget
	}
	insertionTarget := budget - replacementTarget

	var applied []any
	replaced := 0
	inserted := 0

	if len(replaceCandidates) > 0 && replacementTarget > 0 {
		rng.ShuffleN(len(replaceCandidates), func(i, j int) {
			replaceCandidates[i], replaceCandidates[j] = replaceCandidates[j], replaceCandidates[i]
		})
		n := replacementTarget
		if n > len(replaceCandidates) {
			n = len(replaceCandidates)
		}
		for _, idx := range replaceCandidates[:n] {
			orig := chars[idx]
			alts := homoglyphs[orig]
			alt := alts[rng.ChoiceIndex(len(alts))]
			if alt != orig {
				chars[idx] = alt
				replaced++
				applied = append(applied, appliedTriple("homoglyph_replace", idx, fmt.Sprintf("%c->%c", orig, alt)))
			}
		}
	}

	for i := 0; i < insertionTarget; i++ {
		zw := zeroWidthChars[rng.ChoiceIndex(len(zeroWidthChars))]
		pos := rng.RandRange(1, len(chars)+1)
		chars = append(chars, 0)
		copy(chars[pos+1:], chars[pos:])
		chars[pos] = zw
		inserted++
		applied = append(applied, appliedTriple("zw_insert", pos, fmt.Sprintf("%q", string(zw))))
	}

	child := string(chars)
	if child == seedText {
		return skip("no_change", seedText)
	}
	if wouldExceed(child, ctx.Constraints.MaxChars) {
		return skip("max_chars_exceeded", seedText)
	}

	return ok(child, map[string]any{
		"strength": strength,
		"mode":     "homoglyph_or_zwsp",
		"budget":   budget,
		"replaced": replaced,
		"inserted": inserted,
		"applied":  applied,
	})
}
