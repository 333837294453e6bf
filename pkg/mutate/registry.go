package mutate

import (
	"errors"
	"fmt"
	"sort"
)

// Builder is the self-registration unit an operator file contributes:
// metadata plus its apply function. Operator packages build a sorted
// slice of these at init() time; Load turns them into a Registry.
type Builder struct {
	ModuleID string
	Meta     OperatorMeta
	Apply    ApplyFunc
}

// OperatorHandle is a validated, registered operator.
type OperatorHandle struct {
	OpID   string
	Meta   OperatorMeta
	Apply  ApplyFunc
	Module string
}

// LoadError records why a candidate operator failed to register.
type LoadError struct {
	ModuleID string
	Reason   string
}

func (e LoadError) Error() string { return fmt.Sprintf("%s: %s", e.ModuleID, e.Reason) }

// Registry holds the read-only, load-time-populated set of operators.
type Registry struct {
	ops        map[string]OperatorHandle
	LoadErrors []LoadError
}

// NewRegistry returns an empty registry. Use Load to populate it from a
// sorted set of Builders.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]OperatorHandle{}}
}

// Load registers builders in ModuleID order (discovery MUST be
// deterministic). Every failure is recorded in LoadErrors. When strict is
// true, Load stops at the first failure and returns it; otherwise the
// failing builders are skipped and the returned error is nil.
func Load(builders []Builder, strict bool) (*Registry, error) {
	sorted := append([]Builder(nil), builders...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ModuleID < sorted[j].ModuleID })

	r := NewRegistry()
	var errs []error
	for _, b := range sorted {
		if err := r.registerBuilder(b, strict); err != nil {
			errs = append(errs, err)
			if strict {
				return r, errors.Join(errs...)
			}
		}
	}
	return r, nil
}

func (r *Registry) registerBuilder(b Builder, strict bool) error {
	meta := b.Meta
	meta.normalize()

	if err := meta.validate(); err != nil {
		le := LoadError{ModuleID: b.ModuleID, Reason: "meta invalid: " + err.Error()}
		r.LoadErrors = append(r.LoadErrors, le)
		return le
	}
	if b.Apply == nil {
		le := LoadError{ModuleID: b.ModuleID, Reason: "apply is nil"}
		r.LoadErrors = append(r.LoadErrors, le)
		return le
	}

	if _, exists := r.ops[meta.OpID]; exists {
		le := LoadError{ModuleID: b.ModuleID, Reason: "duplicate op_id: " + meta.OpID}
		r.LoadErrors = append(r.LoadErrors, le)
		return le
	}

	r.ops[meta.OpID] = OperatorHandle{OpID: meta.OpID, Meta: meta, Apply: b.Apply, Module: b.ModuleID}
	return nil
}

// ListOps returns every registered operator sorted by OpID.
func (r *Registry) ListOps() []OperatorHandle {
	out := make([]OperatorHandle, 0, len(r.ops))
	for _, h := range r.ops {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpID < out[j].OpID })
	return out
}

// Get returns the handle for opID, or false if unregistered.
func (r *Registry) Get(opID string) (OperatorHandle, bool) {
	h, ok := r.ops[opID]
	return h, ok
}

// Filter returns registered operators matching bucket membership, surface
// membership and risk(h) <= riskMax, sorted by OpID. Empty bucketID /
// surface / riskMax mean "no constraint" on that dimension.
func (r *Registry) Filter(bucketID, surface, riskMax string) []OperatorHandle {
	riskCap := 999
	if riskMax != "" {
		if rank, ok := riskRank[RiskLevel(toUpper(riskMax))]; ok {
			riskCap = rank
		}
	}

	out := r.ListOps()
	filtered := out[:0:0]
	for _, h := range out {
		if bucketID != "" && !containsString(h.Meta.BucketTags, bucketID) {
			continue
		}
		if surface != "" && !containsString(h.Meta.SurfaceCompat, surface) {
			continue
		}
		if riskMax != "" && riskRank[h.Meta.RiskLevel] > riskCap {
			continue
		}
		filtered = append(filtered, h)
	}
	return filtered
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Apply is the registry's apply wrapper (spec.md §4.1): it enforces
// bucket/surface eligibility, catches operator panics, and overwrites
// trace.op_id/status/len_before/len_after regardless of what the operator
// set, so no operator can violate the trace contract.
func (r *Registry) Apply(opID, seedText string, ctx Context, rng RNG) (result ApplyResult) {
	h, ok := r.Get(opID)
	if !ok {
		return ApplyResult{
			Status:    StatusInvalid,
			ChildText: seedText,
			Trace: TraceEntry{
				"op_id":      opID,
				"status":     string(StatusInvalid),
				"params":     map[string]any{},
				"len_before": len([]rune(seedText)),
				"len_after":  len([]rune(seedText)),
				"notes":      "operator not found",
			},
			Err: errOf("operator not found"),
		}
	}

	if ctx.BucketID != "" && !containsString(h.Meta.BucketTags, ctx.BucketID) {
		return ApplyResult{
			Status:    StatusSkipped,
			ChildText: seedText,
			Trace: TraceEntry{
				"op_id":      h.OpID,
				"status":     string(StatusSkipped),
				"params":     map[string]any{"reason": "bucket_mismatch"},
				"len_before": len([]rune(seedText)),
				"len_after":  len([]rune(seedText)),
			},
		}
	}
	if ctx.Surface != "" && !containsString(h.Meta.SurfaceCompat, ctx.Surface) {
		return ApplyResult{
			Status:    StatusSkipped,
			ChildText: seedText,
			Trace: TraceEntry{
				"op_id":      h.OpID,
				"status":     string(StatusSkipped),
				"params":     map[string]any{"reason": "surface_mismatch"},
				"len_before": len([]rune(seedText)),
				"len_after":  len([]rune(seedText)),
			},
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = ApplyResult{
				Status:    StatusInvalid,
				ChildText: seedText,
				Trace: TraceEntry{
					"op_id":      h.OpID,
					"status":     string(StatusInvalid),
					"params":     map[string]any{},
					"len_before": len([]rune(seedText)),
					"len_after":  len([]rune(seedText)),
					"notes":      "exception",
				},
				Err: fmt.Errorf("%v", rec),
			}
		}
	}()

	res := h.Apply(seedText, ctx, rng)
	res.Trace = ensureMinTraceFields(res.Trace)

	// Contract invariant enforcement: the wrapper has final say over the
	// trace's identifying fields regardless of what the operator set.
	res.Trace["op_id"] = h.OpID
	res.Trace["status"] = string(res.Status)
	res.Trace["len_before"] = len([]rune(seedText))
	res.Trace["len_after"] = len([]rune(res.ChildText))

	canonicalizeApplied(res.Trace)

	return res
}
