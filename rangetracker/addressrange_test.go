package rangetracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRangeContains(t *testing.T) {
	outer := AddressRange{Resource: 1, RangeStart: 0, RangeEnd: 99}
	inner := AddressRange{Resource: 1, RangeStart: 10, RangeEnd: 20}
	other := AddressRange{Resource: 2, RangeStart: 10, RangeEnd: 20}

	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))
	require.False(t, outer.Contains(other), "ranges on different resources can never contain each other")
}

func TestAddressRangeOverlaps(t *testing.T) {
	a := AddressRange{Resource: 1, RangeStart: 0, RangeEnd: 9}
	b := AddressRange{Resource: 1, RangeStart: 9, RangeEnd: 20}
	c := AddressRange{Resource: 1, RangeStart: 10, RangeEnd: 20}

	require.True(t, a.Overlaps(b), "touching at a single address is an overlap")
	require.False(t, a.Overlaps(c), "adjacent, non-touching ranges must not overlap")
}

func TestAddressRangeUnion(t *testing.T) {
	a := AddressRange{Resource: 1, RangeStart: 10, RangeEnd: 20}
	b := AddressRange{Resource: 1, RangeStart: 5, RangeEnd: 15}

	u := a.union(b)
	require.Equal(t, uint32(5), u.RangeStart)
	require.Equal(t, uint32(20), u.RangeEnd)
}

func TestAddressRangeLt(t *testing.T) {
	a := AddressRange{Resource: 1, RangeStart: 10}
	b := AddressRange{Resource: 1, RangeStart: 20}
	c := AddressRange{Resource: 2, RangeStart: 0}

	require.True(t, a.lt(b), "expected a < b by RangeStart")
	require.False(t, b.lt(a))
	require.True(t, b.lt(c), "expected lower resource to order first regardless of RangeStart")
}
