// Package snapshot implements the regression-testing file format from
// spec.md §6: a declarative set of generate_children cases with expected
// outputs, compared via canonical JSON, regenerable via UPDATE_SNAPSHOTS=1.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

// Case is one snapshot case: a complete generate_children request plus
// its expected outputs.
type Case struct {
	CaseID      string             `json:"case_id"`
	SeedText    string             `json:"seed_text"`
	BucketID    string             `json:"bucket_id"`
	Surface     string             `json:"surface"`
	N           int                `json:"n"`
	K           int                `json:"k"`
	SeedBase    int64              `json:"seed_base"`
	Strength    int                `json:"strength"`
	RiskMax     string             `json:"risk_max,omitempty"`
	Constraints *CaseConstraints   `json:"constraints,omitempty"`
	Expect      ExpectedOutputs    `json:"expect"`
}

// CaseConstraints is the JSON-facing form of mutate.Constraints.
type CaseConstraints struct {
	MaxChars    int  `json:"max_chars"`
	SchemaMode  bool `json:"schema_mode"`
	Placeholder string `json:"placeholder"`
}

func (c *CaseConstraints) toMutate() mutate.Constraints {
	if c == nil {
		return mutate.DefaultConstraints()
	}
	out := mutate.Constraints{MaxChars: c.MaxChars, SchemaMode: c.SchemaMode, Placeholder: c.Placeholder}
	if out.MaxChars == 0 {
		out.MaxChars = 8000
	}
	if out.Placeholder == "" {
		out.Placeholder = "N/A"
	}
	return out
}

// ExpectedOutputs wraps the expected child outputs for a case.
type ExpectedOutputs struct {
	Outputs []ExpectedOutput `json:"outputs"`
}

// ExpectedOutput is one expected generated child.
type ExpectedOutput struct {
	ChildText     string             `json:"child_text"`
	LastStatus    string             `json:"last_status"`
	MutationTrace []mutate.TraceEntry `json:"mutation_trace"`
}

// File is the top-level snapshots.json document.
type File struct {
	Cases []Case `json:"cases"`
}

// Load reads a snapshots.json file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f to path as canonical JSON (stable key order, no
// whitespace) matching spec.md §6's comparison format.
func Save(path string, f *File) error {
	data, err := mutate.CanonicalJSON(f)
	if err != nil {
		return fmt.Errorf("snapshot: canonicalize: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// Run executes a case against registry/selector and returns its actual
// ExpectedOutput-shaped results, for comparison or regeneration.
func Run(c Case, registry *mutate.Registry, selector mutate.Selector) []ExpectedOutput {
	req := mutate.GenerateRequest{
		SeedText:    c.SeedText,
		SeedID:      c.CaseID,
		BucketID:    c.BucketID,
		Surface:     c.Surface,
		Strength:    c.Strength,
		Constraints: c.Constraints.toMutate(),
		SeedBase:    c.SeedBase,
		N:           c.N,
		K:           c.K,
		RiskMax:     c.RiskMax,
	}

	m := mutate.NewMutator(registry, selector)
	outputs := m.GenerateChildren(req)

	results := make([]ExpectedOutput, len(outputs))
	for i, o := range outputs {
		lastStatus := ""
		if len(o.Trace) > 0 {
			if s, ok := o.Trace[len(o.Trace)-1]["status"].(string); ok {
				lastStatus = s
			}
		}
		results[i] = ExpectedOutput{ChildText: o.ChildText, LastStatus: lastStatus, MutationTrace: o.Trace}
	}
	return results
}

// Compare reports whether actual matches expected under canonical JSON
// equality.
func Compare(expected, actual []ExpectedOutput) (bool, error) {
	expJSON, err := mutate.CanonicalJSON(expected)
	if err != nil {
		return false, err
	}
	actJSON, err := mutate.CanonicalJSON(actual)
	if err != nil {
		return false, err
	}
	return string(expJSON) == string(actJSON), nil
}

// ShouldUpdate reports whether UPDATE_SNAPSHOTS=1 is set in the
// environment, per spec.md §6.
func ShouldUpdate() bool {
	return os.Getenv("UPDATE_SNAPSHOTS") == "1"
}
