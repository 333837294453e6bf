package mutate

// SelectionDecision is what a Selector hands back to the scheduler: which
// operator to invoke next, and any selection-time parameter overrides to
// merge into the operator's Context.
type SelectionDecision struct {
	OpID   string
	Params map[string]any
}

// Selector chooses the next operator to apply from the eligible candidate
// set, or returns a zero SelectionDecision and false when nothing is
// eligible (NO_OP_AVAILABLE).
type Selector interface {
	Choose(candidates []OperatorHandle, bucketID string, rng RNG) (SelectionDecision, bool)
	// Novelty exposes the selector's novelty feedback source, if it has
	// one, as an explicit capability rather than a type assertion
	// (spec.md §9's resolution of the "should novelty be selector-visible"
	// open question).
	Novelty() *NoveltyTracker
	// RecentOps exposes the selector's stats_by_bucket[bucket]._recent_ops
	// FIFO, if it has one, so the scheduler can append the op_id applied
	// each step (spec.md §4.6 step f) without the selector needing to
	// infer it from its own Choose return value.
	RecentOps() *RecentOpsByBucket
}

// UniformSelector picks uniformly among eligible candidates, mirroring
// selector.DefaultWeightedHook's unweighted mode.
type UniformSelector struct{}

func NewUniformSelector() *UniformSelector { return &UniformSelector{} }

func (s *UniformSelector) Choose(candidates []OperatorHandle, bucketID string, rng RNG) (SelectionDecision, bool) {
	if len(candidates) == 0 {
		return SelectionDecision{}, false
	}
	idx := rng.ChoiceIndex(len(candidates))
	return SelectionDecision{OpID: candidates[idx].OpID, Params: map[string]any{}}, true
}

func (s *UniformSelector) Novelty() *NoveltyTracker      { return nil }
func (s *UniformSelector) RecentOps() *RecentOpsByBucket { return nil }

// WeightedSelector picks among eligible candidates proportional to
// WeightFor(bucket, op), with an anti-repetition penalty (x0.5) against
// any operator whose op_id is the last entry of
// stats_by_bucket[bucket]._recent_ops, and feeds back into a
// NoveltyTracker so later generations can read unique-ratio signal per
// bucket. Per spec.md §4.4, weight carries no pass-rate term: stats is
// kept for metrics/logging, not for nudging selection probability.
type WeightedSelector struct {
	stats     *OperatorStatsByBucket
	novelty   *NoveltyTracker
	recentOps *RecentOpsByBucket
}

// NewWeightedSelector builds a selector backed by the given stats table.
// stats/novelty may be nil, in which case the corresponding adjustment is
// skipped (stats is retained only for external reporting; pure
// base-weight selection or no novelty tracking respectively).
func NewWeightedSelector(stats *OperatorStatsByBucket, novelty *NoveltyTracker) *WeightedSelector {
	return &WeightedSelector{stats: stats, novelty: novelty, recentOps: NewRecentOpsByBucket()}
}

func (s *WeightedSelector) Novelty() *NoveltyTracker      { return s.novelty }
func (s *WeightedSelector) RecentOps() *RecentOpsByBucket { return s.recentOps }

const repeatPenalty = 0.5

// weightOf computes a candidate's selection weight per spec.md §4.4:
// the bucket/op base weight, halved if its op_id is the last entry of
// this bucket's _recent_ops FIFO.
func (s *WeightedSelector) weightOf(h OperatorHandle, bucketID string) float64 {
	w := WeightFor(bucketID, h.OpID)

	if last, ok := s.recentOps.Last(bucketID); ok && last == h.OpID {
		w *= repeatPenalty
	}

	if w < 0 {
		w = 0
	}
	return w
}

func (s *WeightedSelector) Choose(candidates []OperatorHandle, bucketID string, rng RNG) (SelectionDecision, bool) {
	if len(candidates) == 0 {
		return SelectionDecision{}, false
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, h := range candidates {
		weights[i] = s.weightOf(h, bucketID)
		total += weights[i]
	}

	var chosen OperatorHandle
	if total <= 0 {
		chosen = candidates[rng.ChoiceIndex(len(candidates))]
	} else {
		// Scale rng.Float64() (uniform on [0,1)) by the weight sum and
		// walk the cumulative distribution; deterministic given rng's
		// stream, matching the weighted-choice approach used throughout
		// the original implementation's reliance on a single draw.
		target := rng.Float64() * total
		acc := 0.0
		chosen = candidates[len(candidates)-1]
		for i, h := range candidates {
			acc += weights[i]
			if target < acc {
				chosen = h
				break
			}
		}
	}

	// Recording chosen.OpID into recentOps is the scheduler's job (spec.md
	// §4.6 step f fires after guard re-application, not at selection
	// time) — see Mutator.GenerateChildren.
	return SelectionDecision{OpID: chosen.OpID, Params: map[string]any{}}, true
}
