package mutate

// MutationOutput is one generated child: its final text, the ordered
// trace of operator applications that produced it, and the testcase ID
// its RNG stream was derived from.
type MutationOutput struct {
	TestcaseID string       `json:"testcase_id"`
	ChildText  string       `json:"child_text"`
	Trace      []TraceEntry `json:"mutation_trace"`
}

// GenerateRequest bundles everything generate_children needs: the seed
// text and metadata, how many children to produce, how many operator
// applications to chain per child, and the bucket/surface/strength/
// constraints/operator-set that the whole run is pinned to.
type GenerateRequest struct {
	SeedText    string
	SeedID      string
	BucketID    string
	Surface     string
	Strength    int
	Constraints Constraints
	SeedBase    int64
	N           int
	K           int
	RiskMax     string
}

// Mutator is the deterministic scheduler: given a Registry and Selector,
// it derives a per-child RNG stream from (seedBase, testcaseID) and
// chains K operator applications, guarding every text that crosses the
// engine boundary.
type Mutator struct {
	Registry *Registry
	Selector Selector
}

// NewMutator builds a scheduler over the given registry and selector.
func NewMutator(registry *Registry, selector Selector) *Mutator {
	return &Mutator{Registry: registry, Selector: selector}
}

// GenerateChildren implements spec.md §4.6's n x k loop.
func (m *Mutator) GenerateChildren(req GenerateRequest) []MutationOutput {
	guardCfg := GuardConfigFromConstraints(req.Constraints)

	seedText, seedMeta := Guard(req.SeedText, &guardCfg)
	seedGuardTrace := func() []TraceEntry {
		if !seedMeta.GuardApplied {
			return nil
		}
		return []TraceEntry{guardTraceEntry(seedMeta, len([]rune(req.SeedText)), len([]rune(seedText)))}
	}()

	candidates := m.Registry.Filter(req.BucketID, req.Surface, req.RiskMax)

	outputs := make([]MutationOutput, 0, req.N)
	for i := 0; i < req.N; i++ {
		testcaseID := TestcaseID(req.SeedID, i)
		rng := DeriveRNG(req.SeedBase, testcaseID)

		child := seedText
		trace := append([]TraceEntry(nil), seedGuardTrace...)

		ctxBase := Context{
			BucketID:    req.BucketID,
			Surface:     req.Surface,
			Strength:    req.Strength,
			Constraints: req.Constraints,
			Metadata:    map[string]any{"seed_id": req.SeedID, "testcase_id": testcaseID},
		}

		for step := 0; step < req.K; step++ {
			sel, ok := m.Selector.Choose(candidates, req.BucketID, rng)
			if !ok {
				trace = append(trace, TraceEntry{
					"op_id":      "NO_OP_AVAILABLE",
					"status":     string(StatusSkipped),
					"params":     map[string]any{},
					"len_before": len([]rune(child)),
					"len_after":  len([]rune(child)),
					"notes":      "no eligible operator for bucket/surface",
				})
				break
			}

			ctx := ctxBase
			ctx.Params = sel.Params

			res := m.Registry.Apply(sel.OpID, child, ctx, rng)

			if res.Status == StatusOK {
				guarded, gmeta := Guard(res.ChildText, &guardCfg)
				if guarded != res.ChildText {
					res.ChildText = guarded
					res.Trace["len_after"] = len([]rune(guarded))
					if _, has := res.Trace["notes"]; !has {
						res.Trace["notes"] = "guard_applied"
					}
					res.Trace.Params()["guard_meta"] = gmeta
				}
				child = res.ChildText
			}

			trace = append(trace, res.Trace)

			if ro := m.Selector.RecentOps(); ro != nil {
				ro.Append(req.BucketID, sel.OpID)
			}
		}

		child, finalMeta := Guard(child, &guardCfg)
		if finalMeta.GuardApplied {
			trace = append(trace, guardTraceEntry(finalMeta, 0, len([]rune(child))))
		}

		if nov := m.Selector.Novelty(); nov != nil && len(trace) > 0 {
			seenBefore := !nov.MarkSeen(req.BucketID, child)
			last := trace[len(trace)-1]
			last.Params()["novelty"] = map[string]any{
				"seen_before": seenBefore,
				"snapshot":    nov.SnapshotOne(req.BucketID),
			}
		}

		outputs = append(outputs, MutationOutput{TestcaseID: testcaseID, ChildText: child, Trace: trace})
	}

	return outputs
}

// guardTraceEntry synthesizes the "__guard__" trace entry spec.md §4.6
// calls for at the seed- and final-guard steps (as opposed to the
// in-place notes annotation used for per-operator-output guarding).
func guardTraceEntry(meta GuardMeta, lenBefore, lenAfter int) TraceEntry {
	return TraceEntry{
		"op_id":      "__guard__",
		"status":     string(StatusOK),
		"params":     map[string]any{"guard_meta": meta},
		"len_before": lenBefore,
		"len_after":  lenAfter,
	}
}
