// Package barrier implements the collaborator layer spec.md §1 calls
// "plumbing...not specified here beyond their interface to the
// tracker": the barrier set that decides when a newly recorded command
// needs a pipeline barrier before it can safely touch a buffer or
// image resource, and the barrier batch that accumulates the resulting
// Vulkan barrier descriptions for a single flush.
package barrier

import (
	"golang.org/x/exp/slog"

	"github.com/vkngwrapper/barriertrack/access"
	"github.com/vkngwrapper/barriertrack/rangetracker"
)

// AddressRange identifies a byte range on a buffer, or an encoded
// subresource range on an image, scoped to a resource handle. It is
// an alias for rangetracker.AddressRange so that callers of this
// package never need to import rangetracker directly for the common
// case of driving a Tracker.
type AddressRange = rangetracker.AddressRange

// Tracker is the range-tracker core exposed as a standalone,
// independently usable type: the hash-indexed red-black forest that
// answers "does this pending range conflict with anything already
// recorded?" (spec.md §4.1-§4.2). It is the same data structure
// DxvkBarrierTracker describes in the original source, kept separate
// from Set below, since Set tracks buffer/image access with the
// subresource set instead and never needs Tracker's interval-tree
// machinery.
type Tracker struct {
	rt *rangetracker.RangeTracker
}

// NewTracker constructs an empty Tracker. logger may be nil.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{rt: rangetracker.NewRangeTracker(logger)}
}

// FindRange reports whether r conflicts with a previously inserted,
// not-yet-cleared range under the conflict rule in spec.md §4.1.
func (t *Tracker) FindRange(r AddressRange, a access.Access) bool {
	return t.rt.FindRange(r, a)
}

// InsertRange records r as pending for access class a.
func (t *Tracker) InsertRange(r AddressRange, a access.Access) error {
	return t.rt.InsertRange(r, a)
}

// Clear discards every pending range.
func (t *Tracker) Clear() { t.rt.Clear() }

// Empty reports whether the tracker holds no pending ranges.
func (t *Tracker) Empty() bool { return t.rt.Empty() }

// Validate checks the tracker's internal red-black invariants.
func (t *Tracker) Validate() error { return t.rt.Validate() }
