package rangetracker

// AddressRange identifies a byte range on a buffer, or a range of
// encoded subresource indices on an image, scoped to a resource
// handle. Both endpoints are inclusive.
//
// For buffers, RangeStart/RangeEnd are byte offsets, with
// RangeEnd = offset + size - 1. For images, the caller encodes
// subresource indices into the 32-bit fields; this package never
// interprets them beyond ordering and overlap.
type AddressRange struct {
	Resource   uint64
	RangeStart uint32
	RangeEnd   uint32
}

// Contains returns true if r fully covers other: same resource, and
// r's bounds are at or outside other's bounds.
func (r AddressRange) Contains(other AddressRange) bool {
	return r.Resource == other.Resource &&
		r.RangeStart <= other.RangeStart &&
		r.RangeEnd >= other.RangeEnd
}

// Overlaps returns true if r and other share at least one address on
// the same resource.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.Resource == other.Resource &&
		r.RangeEnd >= other.RangeStart &&
		r.RangeStart <= other.RangeEnd
}

// lt defines the strict ordering used to lay out the tree: lexicographic
// on (Resource, RangeStart).
func (r AddressRange) lt(other AddressRange) bool {
	return r.Resource < other.Resource ||
		(r.Resource == other.Resource && r.RangeStart < other.RangeStart)
}

// union returns the smallest AddressRange containing both r and other.
// The two ranges must share a resource; callers are responsible for
// that invariant, since it is always established before union is called
// (see RangeTracker.InsertRange).
func (r AddressRange) union(other AddressRange) AddressRange {
	result := r
	if other.RangeStart < result.RangeStart {
		result.RangeStart = other.RangeStart
	}
	if other.RangeEnd > result.RangeEnd {
		result.RangeEnd = other.RangeEnd
	}
	return result
}
