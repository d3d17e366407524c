// Package resourceslice implements the two concrete slice types the
// subresource set is instantiated over: a buffer byte range and an
// image subresource box, each paired with the access class that
// touched them. See spec.md §3.6.
package resourceslice

import (
	"github.com/vkngwrapper/barriertrack/access"
)

// Buffer is a half-open byte range on a buffer resource, plus the
// access class recorded against it.
type Buffer struct {
	lo, hi uint64
	acc    access.Flags
}

// NewBuffer constructs a Buffer slice covering [offset, offset+length).
func NewBuffer(offset, length int, acc access.Flags) Buffer {
	return Buffer{lo: uint64(offset), hi: uint64(offset + length), acc: acc}
}

// Access returns the access flags recorded against this slice.
func (b Buffer) Access() access.Flags { return b.acc }

// Overlaps reports whether b and other share at least one byte.
func (b Buffer) Overlaps(other Buffer) bool {
	return b.hi > other.lo && b.lo < other.hi
}

// CanMerge reports whether b and other can be combined into a single
// representative slice: either they carry the same access and overlap
// or touch, or they cover the exact same byte range with differing
// access (in which case the merged slice carries both).
func (b Buffer) CanMerge(other Buffer) bool {
	if b.acc == other.acc {
		return b.hi >= other.lo && b.lo <= other.hi
	}
	return b.lo == other.lo && b.hi == other.hi
}

// Merge returns the union of b and other: the widest byte range
// covering both, with the union of their access flags.
func (b Buffer) Merge(other Buffer) Buffer {
	return Buffer{
		lo:  minU64(b.lo, other.lo),
		hi:  maxU64(b.hi, other.hi),
		acc: b.acc.Union(other.acc),
	}
}

// ScanOverflowListOnInsert reports false: buffer slices rarely coalesce
// in practice, and the original source skips the overflow-list merge
// scan for buffers because the scan cost outweighs the savings (see
// spec.md §4.5). Every Buffer value returns the same constant, so this
// is a single dispatch on the type rather than a per-call decision.
func (b Buffer) ScanOverflowListOnInsert() bool { return false }

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
