package mutate

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
)

func hashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// BucketNoveltyStats tracks the distinct-content ratio observed for a
// single bucket, per spec.md's novelty feedback design.
type BucketNoveltyStats struct {
	Total    int
	Unique   int
	SeenHits int
	hashes   map[string]struct{}
}

func newBucketNoveltyStats() *BucketNoveltyStats {
	return &BucketNoveltyStats{hashes: map[string]struct{}{}}
}

// Mark records text as observed, returning true if it was novel.
func (b *BucketNoveltyStats) Mark(text string) bool {
	h := hashText(text)
	b.Total++
	if _, seen := b.hashes[h]; seen {
		b.SeenHits++
		return false
	}
	b.hashes[h] = struct{}{}
	b.Unique++
	return true
}

// UniqueRatio is Unique/Total, or 1.0 when nothing has been observed yet
// (an empty bucket has not yet demonstrated repetition).
func (b *BucketNoveltyStats) UniqueRatio() float64 {
	if b.Total == 0 {
		return 1.0
	}
	return float64(b.Unique) / float64(b.Total)
}

// NoveltyTracker is a goroutine-safe map of bucket ID to its novelty
// stats, mirroring novelty.NoveltyTracker in the original implementation.
type NoveltyTracker struct {
	mu      sync.Mutex
	byBucket map[string]*BucketNoveltyStats
}

// NewNoveltyTracker returns an empty tracker.
func NewNoveltyTracker() *NoveltyTracker {
	return &NoveltyTracker{byBucket: map[string]*BucketNoveltyStats{}}
}

func (t *NoveltyTracker) get(bucketID string) *BucketNoveltyStats {
	b, ok := t.byBucket[bucketID]
	if !ok {
		b = newBucketNoveltyStats()
		t.byBucket[bucketID] = b
	}
	return b
}

// MarkSeen records text under bucketID and returns whether it was novel.
func (t *NoveltyTracker) MarkSeen(bucketID, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(bucketID).Mark(text)
}

// UniqueRatio returns the current unique ratio for bucketID without
// mutating tracker state.
func (t *NoveltyTracker) UniqueRatio(bucketID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.byBucket[bucketID]
	if !ok {
		return 1.0
	}
	return b.UniqueRatio()
}

// NoveltySnapshot is a point-in-time, JSON-friendly rendering of one
// bucket's novelty stats.
type NoveltySnapshot struct {
	BucketID    string  `json:"bucket_id"`
	Total       int     `json:"total"`
	Unique      int     `json:"unique"`
	SeenHits    int     `json:"seen_hits"`
	UniqueRatio float64 `json:"unique_ratio"`
}

// SnapshotOne returns the snapshot for a single bucket.
func (t *NoveltyTracker) SnapshotOne(bucketID string) NoveltySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.byBucket[bucketID]
	if !ok {
		return NoveltySnapshot{BucketID: bucketID, UniqueRatio: 1.0}
	}
	return NoveltySnapshot{
		BucketID:    bucketID,
		Total:       b.Total,
		Unique:      b.Unique,
		SeenHits:    b.SeenHits,
		UniqueRatio: b.UniqueRatio(),
	}
}

// Snapshot returns every bucket's snapshot, sorted by bucket ID for
// deterministic serialization.
func (t *NoveltyTracker) Snapshot() []NoveltySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]NoveltySnapshot, 0, len(t.byBucket))
	for id, b := range t.byBucket {
		out = append(out, NoveltySnapshot{
			BucketID:    id,
			Total:       b.Total,
			Unique:      b.Unique,
			SeenHits:    b.SeenHits,
			UniqueRatio: b.UniqueRatio(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketID < out[j].BucketID })
	return out
}
