// Package operators is the concrete mutation library: one file per op_id,
// each self-registering its metadata and apply function at init() time.
// Load turns the accumulated set into a mutate.Registry with deterministic
// (sorted by module id) discovery order.
package operators

import "github.com/llmsec/mutation-engine/pkg/mutate"

var builders []mutate.Builder

func register(b mutate.Builder) {
	builders = append(builders, b)
}

// Load builds a mutate.Registry from every operator that registered itself
// via this package's init() functions.
func Load(strict bool) (*mutate.Registry, error) {
	return mutate.Load(builders, strict)
}

// clampStrength intersects the requested strength with [1,5] and with the
// operator's own strength_range, per spec.md §4.7.
func clampStrength(strength, rangeMin, rangeMax int) int {
	if strength < 1 {
		strength = 1
	}
	if strength > 5 {
		strength = 5
	}
	if strength < rangeMin {
		strength = rangeMin
	}
	if strength > rangeMax {
		strength = rangeMax
	}
	return strength
}

func skip(reason string, text string) mutate.ApplyResult {
	return mutate.ApplyResult{
		Status:    "SKIPPED",
		ChildText: text,
		Trace: mutate.TraceEntry{
			"params": map[string]any{"reason": reason},
		},
	}
}

func ok(text string, params map[string]any) mutate.ApplyResult {
	if params == nil {
		params = map[string]any{}
	}
	return mutate.ApplyResult{
		Status:    "OK",
		ChildText: text,
		Trace:     mutate.TraceEntry{"params": params},
	}
}

func appliedTriple(kind string, index int, detail string) []any {
	return []any{kind, index, detail}
}

func runes(s string) []rune { return []rune(s) }

func wouldExceed(text string, maxChars int) bool {
	return maxChars > 0 && len([]rune(text)) > maxChars
}
