package mutate

import "strings"

// GuardConfig drives the engine's single validity-normalization exit
// point ("Policy A"). No operator output — and no seed text — bypasses
// it.
type GuardConfig struct {
	MaxLen      int
	SchemaMode  bool
	Placeholder string
}

// DefaultGuardConfig mirrors spec.md §4.3's documented defaults.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{MaxLen: 8000, SchemaMode: false, Placeholder: "N/A"}
}

// GuardConfigFromConstraints centralizes the constraints -> GuardConfig
// mapping, the way the teacher's original mutator.go keeps this in one
// place rather than scattering it across call sites.
func GuardConfigFromConstraints(c Constraints) GuardConfig {
	cfg := DefaultGuardConfig()
	if c.MaxChars > 0 {
		cfg.MaxLen = c.MaxChars
	}
	cfg.SchemaMode = c.SchemaMode
	if c.Placeholder != "" {
		cfg.Placeholder = c.Placeholder
	}
	return cfg
}

// GuardMeta reports which normalization steps fired, for embedding into a
// trace entry's params.guard_meta.
type GuardMeta struct {
	GuardApplied                    bool `json:"guard_applied"`
	RemovedControlChars              bool `json:"removed_control_chars"`
	SchemaPlaceholderApplied         bool `json:"schema_placeholder_applied"`
	SchemaPlaceholderSuffixAppended  bool `json:"schema_placeholder_suffix_appended"`
	Truncated                        bool `json:"truncated"`
	MaxLen                           int  `json:"max_len"`
}

// isForbiddenControl reports whether r is one of the control code points
// the guard strips: 0-8, 11, 12, 14-31, 127. Tab (9), LF (10) and CR (13)
// are preserved.
func isForbiddenControl(r rune) bool {
	switch {
	case r >= 0 && r <= 8:
		return true
	case r == 11 || r == 12:
		return true
	case r >= 14 && r <= 31:
		return true
	case r == 127:
		return true
	default:
		return false
	}
}

func stripControlChars(s string) (string, bool) {
	changed := false
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isForbiddenControl(r) {
			changed = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), changed
}

// truncateRunes truncates s to at most n runes (the spec's "length"
// always means character/code-point count, not bytes).
func truncateRunes(s string, n int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}

func runeLen(s string) int {
	return len([]rune(s))
}

// Guard implements guard(text, cfg) -> (text, meta) per spec.md §4.3. It
// is idempotent: Guard(Guard(x, cfg), cfg) == Guard(x, cfg).
func Guard(text string, cfg *GuardConfig) (string, GuardMeta) {
	if cfg == nil {
		panic("mutate: Guard called with nil GuardConfig")
	}

	meta := GuardMeta{MaxLen: cfg.MaxLen}

	cleaned, removedControl := stripControlChars(text)
	meta.RemovedControlChars = removedControl

	if cfg.SchemaMode {
		if cleaned == "" {
			cleaned = cfg.Placeholder
			meta.SchemaPlaceholderApplied = true
		} else if !strings.HasSuffix(cleaned, cfg.Placeholder) {
			cleaned = cleaned + "\n" + cfg.Placeholder
			meta.SchemaPlaceholderSuffixAppended = true
		}
	}

	if cfg.MaxLen > 0 && runeLen(cleaned) > cfg.MaxLen {
		truncated, didTruncate := truncateRunes(cleaned, cfg.MaxLen)
		cleaned = truncated
		meta.Truncated = didTruncate

		if cfg.SchemaMode && !strings.HasSuffix(cleaned, cfg.Placeholder) {
			cleaned = reapplySchemaSuffixWithinBudget(cleaned, cfg)
			meta.SchemaPlaceholderSuffixAppended = true
		}
	}

	meta.GuardApplied = meta.RemovedControlChars || meta.SchemaPlaceholderApplied ||
		meta.SchemaPlaceholderSuffixAppended || meta.Truncated

	return cleaned, meta
}

// reapplySchemaSuffixWithinBudget implements spec.md §4.3 rule 4's
// best-effort re-application: preserve as much prefix as fits, then
// append "\n"+placeholder; if the budget is too small even for that,
// emit a prefix of the placeholder itself.
func reapplySchemaSuffixWithinBudget(text string, cfg *GuardConfig) string {
	suffix := "\n" + cfg.Placeholder
	budget := cfg.MaxLen

	if runeLen(suffix) >= budget {
		ph, _ := truncateRunes(cfg.Placeholder, budget)
		return ph
	}

	prefixBudget := budget - runeLen(suffix)
	prefix, _ := truncateRunes(text, prefixBudget)
	return prefix + suffix
}
