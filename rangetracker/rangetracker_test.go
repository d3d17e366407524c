package rangetracker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/barriertrack/access"
	"github.com/vkngwrapper/barriertrack/rangetracker"
)

func rng(resource uint64, start, end uint32) rangetracker.AddressRange {
	return rangetracker.AddressRange{Resource: resource, RangeStart: start, RangeEnd: end}
}

func TestEmptyTrackerNeverConflicts(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.True(t, tr.Empty())
	require.False(t, tr.FindRange(rng(1, 0, 100), access.Read))
	require.False(t, tr.FindRange(rng(1, 0, 100), access.Write))
}

func TestReadAfterWriteConflicts(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.NoError(t, tr.InsertRange(rng(1, 0, 99), access.Write))
	require.NoError(t, tr.Validate())

	require.True(t, tr.FindRange(rng(1, 50, 60), access.Read))
	require.True(t, tr.FindRange(rng(1, 50, 60), access.Write))
	require.False(t, tr.FindRange(rng(1, 200, 300), access.Read))
}

func TestReadAfterReadDoesNotConflict(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.NoError(t, tr.InsertRange(rng(1, 0, 99), access.Read))
	require.NoError(t, tr.Validate())

	require.False(t, tr.FindRange(rng(1, 50, 60), access.Read))
	require.True(t, tr.FindRange(rng(1, 50, 60), access.Write))
}

func TestInsertCollapsesDominatedRanges(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.NoError(t, tr.InsertRange(rng(1, 0, 9), access.Write))
	require.NoError(t, tr.InsertRange(rng(1, 20, 29), access.Write))
	require.NoError(t, tr.InsertRange(rng(1, 40, 49), access.Write))
	require.NoError(t, tr.Validate())

	// A range covering all three plus the gaps between them must
	// collapse them into a single node, not grow the tree.
	require.NoError(t, tr.InsertRange(rng(1, 0, 49), access.Write))
	require.NoError(t, tr.Validate())

	require.True(t, tr.FindRange(rng(1, 10, 19), access.Read))
	require.True(t, tr.FindRange(rng(1, 30, 39), access.Read))
}

func TestInsertMergesOverlapWithoutFullContainment(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.NoError(t, tr.InsertRange(rng(1, 0, 19), access.Write))
	require.NoError(t, tr.InsertRange(rng(1, 10, 29), access.Write))
	require.NoError(t, tr.Validate())

	require.True(t, tr.FindRange(rng(1, 25, 28), access.Read))
	require.False(t, tr.FindRange(rng(1, 100, 110), access.Read))
}

func TestDistinctResourcesDoNotConflict(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	require.NoError(t, tr.InsertRange(rng(1, 0, 99), access.Write))
	require.False(t, tr.FindRange(rng(2, 0, 99), access.Read))
}

func TestClearRemovesEverything(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	for i := uint64(0); i < 128; i++ {
		require.NoError(t, tr.InsertRange(rng(i, 0, 9), access.Write))
	}
	require.False(t, tr.Empty())

	tr.Clear()
	require.True(t, tr.Empty())
	require.NoError(t, tr.Validate())
	require.False(t, tr.FindRange(rng(5, 0, 9), access.Read))
}

func TestManyResourcesHashIntoDistinctBucketsAndStayValid(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	const n = 500
	for i := uint64(0); i < n; i++ {
		require.NoError(t, tr.InsertRange(rng(i, 0, 63), access.Write))
	}
	require.NoError(t, tr.Validate())

	for i := uint64(0); i < n; i++ {
		require.True(t, tr.FindRange(rng(i, 0, 10), access.Read), "resource %d", i)
	}
}

func TestRepeatedInsertOnSameRangeIsIdempotent(t *testing.T) {
	tr := rangetracker.NewRangeTracker(nil)
	for i := 0; i < 20; i++ {
		require.NoError(t, tr.InsertRange(rng(1, 0, 99), access.Write))
	}
	require.NoError(t, tr.Validate())
	require.True(t, tr.FindRange(rng(1, 0, 99), access.Read))
}
