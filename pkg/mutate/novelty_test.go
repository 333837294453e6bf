package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmsec/mutation-engine/pkg/mutate"
)

func TestNoveltyTracker_MarksFirstOccurrenceNovel(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	assert.True(t, nt.MarkSeen("B", "hello"))
	assert.False(t, nt.MarkSeen("B", "hello"))
	assert.True(t, nt.MarkSeen("B", "world"))
}

func TestNoveltyTracker_UniqueRatioEmptyBucketIsOne(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	assert.Equal(t, 1.0, nt.UniqueRatio("unseen-bucket"))
}

func TestNoveltyTracker_UniqueRatioReflectsRepeats(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	nt.MarkSeen("B", "a")
	nt.MarkSeen("B", "a")
	nt.MarkSeen("B", "b")
	assert.InDelta(t, 2.0/3.0, nt.UniqueRatio("B"), 1e-9)
}

func TestNoveltyTracker_BucketsAreIndependent(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	nt.MarkSeen("B1", "x")
	nt.MarkSeen("B2", "x")
	assert.Equal(t, 1.0, nt.UniqueRatio("B1"))
	assert.Equal(t, 1.0, nt.UniqueRatio("B2"))
}

func TestNoveltyTracker_SnapshotSortedByBucket(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	nt.MarkSeen("Z", "x")
	nt.MarkSeen("A", "y")
	snap := nt.Snapshot()
	assert_ := assert.New(t)
	assert_.Len(snap, 2)
	assert_.Equal("A", snap[0].BucketID)
	assert_.Equal("Z", snap[1].BucketID)
}

func TestNoveltyTracker_SnapshotOneUnknownBucket(t *testing.T) {
	nt := mutate.NewNoveltyTracker()
	snap := nt.SnapshotOne("never-seen")
	assert.Equal(t, 0, snap.Total)
	assert.Equal(t, 1.0, snap.UniqueRatio)
}
