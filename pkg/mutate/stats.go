package mutate

import (
	"sort"
	"strings"
	"sync"
)

// Verdict is a normalized oracle verdict for one operator invocation.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictFail    Verdict = "FAIL"
	VerdictUnknown Verdict = "UNKNOWN"
)

// normVerdict loosely maps common spellings onto the three verdict
// buckets, matching operator_stats._norm_verdict's tolerant parsing.
func normVerdict(raw string) Verdict {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PASS", "OK", "SUCCESS", "TRUE", "1":
		return VerdictPass
	case "FAIL", "FAILURE", "FALSE", "0", "ERROR":
		return VerdictFail
	default:
		return VerdictUnknown
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

const emaAlpha = 0.2

// OpBucketStats accumulates outcomes for one (op_id, bucket) pair: simple
// online counts and mean, plus an exponential moving average of the
// oracle score (the SPEC_FULL addition beyond the plain mean the original
// implementation computes).
type OpBucketStats struct {
	N             int
	NPass         int
	NFail         int
	NUnknown      int
	NScore        int
	AvgOracleScore float64
	EmaOracleScore float64
	LastUpdatedTS  int64
}

// PassRate is NPass/N, or 0 when no observations exist yet.
func (s *OpBucketStats) PassRate() float64 {
	if s.N == 0 {
		return 0
	}
	return float64(s.NPass) / float64(s.N)
}

func (s *OpBucketStats) reportResult(verdict Verdict, score float64, hasScore bool, ts int64) {
	s.N++
	switch verdict {
	case VerdictPass:
		s.NPass++
	case VerdictFail:
		s.NFail++
	default:
		s.NUnknown++
	}
	if hasScore {
		score = clamp01(score)
		s.NScore++
		s.AvgOracleScore += (score - s.AvgOracleScore) / float64(s.NScore)
		if s.NScore == 1 {
			s.EmaOracleScore = score
		} else {
			s.EmaOracleScore = emaAlpha*score + (1-emaAlpha)*s.EmaOracleScore
		}
	}
	s.LastUpdatedTS = ts
}

type statsKey struct{ opID, bucketID string }

// OperatorStatsByBucket is a goroutine-safe table of per-(operator,
// bucket) outcome statistics, read by metrics export. WeightedSelector
// holds a reference to it but does not use it when computing weights.
type OperatorStatsByBucket struct {
	mu    sync.Mutex
	stats map[statsKey]*OpBucketStats
}

// NewOperatorStatsByBucket returns an empty stats table.
func NewOperatorStatsByBucket() *OperatorStatsByBucket {
	return &OperatorStatsByBucket{stats: map[statsKey]*OpBucketStats{}}
}

func (t *OperatorStatsByBucket) ensure(opID, bucketID string) *OpBucketStats {
	k := statsKey{opID, bucketID}
	s, ok := t.stats[k]
	if !ok {
		s = &OpBucketStats{}
		t.stats[k] = s
	}
	return s
}

// Get returns the current stats for (opID, bucketID), or zero-value stats
// if none have been recorded yet.
func (t *OperatorStatsByBucket) Get(opID, bucketID string) OpBucketStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[statsKey{opID, bucketID}]; ok {
		return *s
	}
	return OpBucketStats{}
}

// ReportResult folds a single operator outcome into its (opID, bucketID)
// stats. ts is a caller-supplied timestamp (e.g. unix seconds); the
// engine core never calls time.Now() itself so callers stay in control of
// determinism in tests.
func (t *OperatorStatsByBucket) ReportResult(opID, bucketID string, verdictRaw string, score float64, hasScore bool, ts int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensure(opID, bucketID).reportResult(normVerdict(verdictRaw), score, hasScore, ts)
}

// StatsSnapshot is a JSON-friendly, deterministically ordered rendering of
// one (op_id, bucket) pair's stats.
type StatsSnapshot struct {
	OpID           string  `json:"op_id"`
	BucketID       string  `json:"bucket_id"`
	N              int     `json:"n"`
	NPass          int     `json:"n_pass"`
	NFail          int     `json:"n_fail"`
	NUnknown       int     `json:"n_unknown"`
	PassRate       float64 `json:"pass_rate"`
	AvgOracleScore float64 `json:"avg_oracle_score"`
	EmaOracleScore float64 `json:"ema_oracle_score"`
	LastUpdatedTS  int64   `json:"last_updated_ts"`
}

const statsSchemaVersion = "operator_stats_by_bucket.v0.1"

// Snapshot returns every (op_id, bucket) pair's stats sorted by
// (op_id, bucket_id).
func (t *OperatorStatsByBucket) Snapshot() []StatsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StatsSnapshot, 0, len(t.stats))
	for k, s := range t.stats {
		out = append(out, StatsSnapshot{
			OpID: k.opID, BucketID: k.bucketID,
			N: s.N, NPass: s.NPass, NFail: s.NFail, NUnknown: s.NUnknown,
			PassRate: s.PassRate(), AvgOracleScore: s.AvgOracleScore,
			EmaOracleScore: s.EmaOracleScore, LastUpdatedTS: s.LastUpdatedTS,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpID != out[j].OpID {
			return out[i].OpID < out[j].OpID
		}
		return out[i].BucketID < out[j].BucketID
	})
	return out
}

// DumpJSON renders the full table as {"schema_version": ..., "entries": [...]}.
func (t *OperatorStatsByBucket) DumpJSON() (any, error) {
	return map[string]any{
		"schema_version": statsSchemaVersion,
		"entries":        t.Snapshot(),
	}, nil
}
