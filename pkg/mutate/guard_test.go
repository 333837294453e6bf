package mutate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func TestGuard_StripsControlChars(t *testing.T) {
	cfg := mutate.DefaultGuardConfig()
	out, meta := mutate.Guard("hello\x00\x01world", &cfg)
	assert.Equal(t, "helloworld", out)
	assert.True(t, meta.RemovedControlChars)
	assert.True(t, meta.GuardApplied)
}

func TestGuard_PreservesTabNewlineCR(t *testing.T) {
	cfg := mutate.DefaultGuardConfig()
	out, meta := mutate.Guard("a\tb\nc\rd", &cfg)
	assert.Equal(t, "a\tb\nc\rd", out)
	assert.False(t, meta.RemovedControlChars)
}

func TestGuard_SchemaModeEmptyUsesPlaceholder(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 100, SchemaMode: true, Placeholder: "N/A"}
	out, meta := mutate.Guard("", &cfg)
	assert.Equal(t, "N/A", out)
	assert.True(t, meta.SchemaPlaceholderApplied)
}

func TestGuard_SchemaModeAppendsSuffixWhenMissing(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 100, SchemaMode: true, Placeholder: "N/A"}
	out, meta := mutate.Guard("some output", &cfg)
	assert.Equal(t, "some output\nN/A", out)
	assert.True(t, meta.SchemaPlaceholderSuffixAppended)
}

func TestGuard_SchemaModeNoopWhenSuffixAlreadyPresent(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 100, SchemaMode: true, Placeholder: "N/A"}
	out, meta := mutate.Guard("some output\nN/A", &cfg)
	assert.Equal(t, "some output\nN/A", out)
	assert.False(t, meta.SchemaPlaceholderSuffixAppended)
}

func TestGuard_TruncatesToMaxLen(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 5, SchemaMode: false, Placeholder: "N/A"}
	out, meta := mutate.Guard("abcdefgh", &cfg)
	assert.Equal(t, "abcde", out)
	assert.True(t, meta.Truncated)
}

func TestGuard_TruncationReappliesSchemaSuffix(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 10, SchemaMode: true, Placeholder: "N/A"}
	out, meta := mutate.Guard(strings.Repeat("x", 50), &cfg)
	assert.True(t, meta.Truncated)
	assert.True(t, strings.HasSuffix(out, "N/A"))
	assert.LessOrEqual(t, len([]rune(out)), 10)
}

func TestGuard_TruncationBudgetTooSmallForSuffixFallsBackToPlaceholderPrefix(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 2, SchemaMode: true, Placeholder: "N/A"}
	out, _ := mutate.Guard(strings.Repeat("x", 50), &cfg)
	assert.LessOrEqual(t, len([]rune(out)), 2)
}

func TestGuard_Idempotent(t *testing.T) {
	cfg := mutate.GuardConfig{MaxLen: 20, SchemaMode: true, Placeholder: "N/A"}
	once, _ := mutate.Guard("hello world this is long", &cfg)
	twice, _ := mutate.Guard(once, &cfg)
	assert.Equal(t, once, twice)
}

func TestGuard_PanicsOnNilConfig(t *testing.T) {
	require.Panics(t, func() {
		mutate.Guard("x", nil)
	})
}

func TestGuardConfigFromConstraints_DefaultsMaxLenWhenUnset(t *testing.T) {
	cfg := mutate.GuardConfigFromConstraints(mutate.Constraints{})
	assert.Equal(t, 8000, cfg.MaxLen)
	assert.Equal(t, "N/A", cfg.Placeholder)
}

func TestGuardConfigFromConstraints_HonorsMaxChars(t *testing.T) {
	cfg := mutate.GuardConfigFromConstraints(mutate.Constraints{MaxChars: 42, SchemaMode: true, Placeholder: "EMPTY"})
	assert.Equal(t, 42, cfg.MaxLen)
	assert.True(t, cfg.SchemaMode)
	assert.Equal(t, "EMPTY", cfg.Placeholder)
}
