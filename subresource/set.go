// Package subresource implements the versioned, open-addressed hash
// set of per-resource access slices described in spec.md §3.5-§4.7: a
// hash table from a 64-bit resource handle to a representative slice,
// with an overflow singly-linked list of further slices for the same
// resource, and a version stamp that makes Clear an O(1) operation.
package subresource

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	pkgerrors "github.com/pkg/errors"

	"github.com/vkngwrapper/barriertrack/access"
	"github.com/vkngwrapper/barriertrack/internal/debugutil"
)

// ErrVersionOverflow is reserved for a caller-visible signal on the
// (practically unreachable) path where the 64-bit version counter
// would wrap and the self-healing full-clear in Clear cannot run. No
// code in this package currently returns it; see Clear.
var ErrVersionOverflow error = pkgerrors.New("subresource: version counter overflow")

// noEntry terminates an overflow list chain.
const noEntry = ^uint32(0)

// Slice is the access-descriptor algebra a subresource.Set is
// instantiated over. T is the slice's own concrete type (resourceslice
// .Buffer or resourceslice.Image), so Merge and Overlaps operate
// without any interface-to-concrete downcast.
//
// ScanOverflowListOnInsert is a single, compile-time dispatch on the
// slice type (every value of a given T returns the same constant) that
// decides whether Set.Insert attempts to merge into an existing
// overflow-list entry before appending, per spec.md §4.5 and §9's
// note on template specialization.
type Slice[T any] interface {
	Overlaps(other T) bool
	CanMerge(other T) bool
	Merge(other T) T
	Access() access.Flags
	ScanOverflowListOnInsert() bool
}

type hashEntry[K ~uint64, T Slice[T]] struct {
	version uint64
	key     K
	slice   T
	next    uint32
}

type listEntry[T any] struct {
	slice T
	next  uint32
}

// minCapacity is the smallest hash-table capacity Set ever runs at;
// capacity is always a power of two.
const minCapacity = 64

// loadFactorNum / loadFactorDen express the 0.7 load-factor growth
// bound from spec.md §3.5 (10*used >= 7*capacity) without floats.
const (
	loadFactorNum = 7
	loadFactorDen = 10
)

// Set is the subresource set of spec.md §3.5, parametric over a
// resource-handle type K and a slice type T.
//
// The zero value is not usable; construct with NewSet.
type Set[K ~uint64, T Slice[T]] struct {
	hashMap   []hashEntry[K, T]
	list      []listEntry[T]
	version   uint64
	used      int
	indexMask uint64
}

// NewSet constructs an empty Set with the minimum table capacity.
func NewSet[K ~uint64, T Slice[T]]() *Set[K, T] {
	s := &Set[K, T]{version: 1}
	s.hashMap = make([]hashEntry[K, T], minCapacity)
	s.indexMask = minCapacity - 1
	return s
}

func hashKey[K ~uint64](key K) uint64 {
	h := uint64(key) * 93887
	h ^= h >> 16
	return h
}

// Empty reports whether the set holds no live entries.
func (s *Set[K, T]) Empty() bool { return s.used == 0 }

func (s *Set[K, T]) isLive(i uint64) bool {
	return s.hashMap[i].version == s.version
}

// findLive returns the slot holding resource's live hash entry, if
// any, by linear probing from its hash bucket until it either finds a
// live matching key or a vacant slot (which terminates the chain: this
// resource was never inserted since the last Clear/grow).
func (s *Set[K, T]) findLive(resource K) (uint64, bool) {
	i := hashKey(resource) & s.indexMask
	for {
		if !s.isLive(i) {
			return 0, false
		}
		if s.hashMap[i].key == resource {
			return i, true
		}
		i = (i + 1) & s.indexMask
	}
}

// GetAccess returns the union of access flags of every stored slice
// for resource that overlaps slice (spec.md §4.3).
func (s *Set[K, T]) GetAccess(resource K, slice T) access.Flags {
	i, ok := s.findLive(resource)
	if !ok {
		return 0
	}
	entry := &s.hashMap[i]
	if !entry.slice.Overlaps(slice) {
		return 0
	}
	if entry.next == noEntry {
		return entry.slice.Access()
	}

	var flags access.Flags
	summary := entry.slice.Access()
	for cur := entry.next; cur != noEntry; cur = s.list[cur].next {
		le := &s.list[cur]
		if le.slice.Overlaps(slice) {
			flags = flags.Union(le.slice.Access())
			if flags == summary {
				break
			}
		}
	}
	return flags
}

// IsDirty reports whether some stored slice for resource overlaps
// slice where either side carries Write access (spec.md §4.4).
func (s *Set[K, T]) IsDirty(resource K, slice T) bool {
	i, ok := s.findLive(resource)
	if !ok {
		return false
	}
	entry := &s.hashMap[i]
	if !isDirtyPair(entry.slice, slice) {
		return false
	}
	if entry.next == noEntry {
		return true
	}

	for cur := entry.next; cur != noEntry; cur = s.list[cur].next {
		if isDirtyPair(s.list[cur].slice, slice) {
			return true
		}
	}
	return false
}

// isDirtyPair reports whether a and b overlap and at least one of
// them carries Write access.
func isDirtyPair[T Slice[T]](a, b T) bool {
	return a.Access().Union(b.Access()).Test(access.Write) && a.Overlaps(b)
}

// Insert records slice as having been accessed on resource (spec.md
// §4.5), growing the table first if it has already reached the load
// factor bound.
func (s *Set[K, T]) Insert(resource K, slice T) {
	s.insert(resource, slice)
	debugutil.DebugValidate(s)
}

func (s *Set[K, T]) insert(resource K, slice T) {
	s.growIfNeeded()

	i := hashKey(resource) & s.indexMask
	for s.isLive(i) && s.hashMap[i].key != resource {
		i = (i + 1) & s.indexMask
	}

	if !s.isLive(i) {
		s.hashMap[i] = hashEntry[K, T]{version: s.version, key: resource, slice: slice, next: noEntry}
		s.used++
		return
	}

	entry := &s.hashMap[i]
	switch {
	case entry.next != noEntry:
		if slice.ScanOverflowListOnInsert() && s.mergeIntoList(entry.next, slice) {
			break
		}
		s.pushListHead(entry, slice)
	case !entry.slice.CanMerge(slice):
		s.pushRepresentativeThenSlice(entry, slice)
	}
	entry.slice = entry.slice.Merge(slice)
}

// mergeIntoList scans the overflow list headed at head for an entry
// that can absorb slice, merging in place and returning true on the
// first match.
func (s *Set[K, T]) mergeIntoList(head uint32, slice T) bool {
	for cur := head; cur != noEntry; cur = s.list[cur].next {
		le := &s.list[cur]
		if le.slice.CanMerge(slice) {
			le.slice = le.slice.Merge(slice)
			return true
		}
	}
	return false
}

// pushListHead prepends slice to entry's overflow list.
func (s *Set[K, T]) pushListHead(entry *hashEntry[K, T], slice T) {
	s.list = append(s.list, listEntry[T]{slice: slice, next: entry.next})
	entry.next = uint32(len(s.list) - 1)
}

// pushRepresentativeThenSlice moves entry's own slice into a new
// overflow list (since it could not absorb the incoming slice), then
// prepends the incoming slice ahead of it.
func (s *Set[K, T]) pushRepresentativeThenSlice(entry *hashEntry[K, T], slice T) {
	s.list = append(s.list, listEntry[T]{slice: entry.slice, next: noEntry})
	repIdx := uint32(len(s.list) - 1)
	s.list = append(s.list, listEntry[T]{slice: slice, next: repIdx})
	entry.next = uint32(len(s.list) - 1)
}

// Clear discards every stored slice in O(1) by advancing the version
// stamp; existing hash slots are left in place but read as vacant
// because their version no longer matches.
func (s *Set[K, T]) Clear() {
	if s.version == ^uint64(0) {
		for i := range s.hashMap {
			s.hashMap[i] = hashEntry[K, T]{}
		}
		s.version = 1
	} else {
		s.version++
	}
	s.used = 0
	s.list = s.list[:0]
}

func (s *Set[K, T]) growIfNeeded() {
	capacity := s.indexMask + 1
	if loadFactorDen*uint64(s.used) < loadFactorNum*capacity {
		return
	}
	s.grow(capacity * 2)
}

// grow doubles the hash table's capacity and re-probes every live
// entry into a fresh array. The overflow list array is untouched:
// its indices are stable across a hash-table rehash since only the
// hashMap slots move.
func (s *Set[K, T]) grow(newCapacity uint64) {
	newMap := make([]hashEntry[K, T], newCapacity)
	newMask := newCapacity - 1

	for i := range s.hashMap {
		if !s.isLive(uint64(i)) {
			continue
		}
		old := s.hashMap[i]
		j := hashKey(old.key) & newMask
		for newMap[j].version == s.version {
			j = (j + 1) & newMask
		}
		newMap[j] = old
	}

	s.hashMap = newMap
	s.indexMask = newMask
	debugutil.DebugCheckPow2(s.indexMask+1, "capacity")
}

// Validate checks the superset invariant from spec.md §8: every live
// hash entry's slice must overlap every slice reachable from it via
// the overflow list, since insertion always folds new slices into the
// hash entry's summary.
func (s *Set[K, T]) Validate() error {
	debugutil.DebugCheckPow2(s.indexMask+1, "capacity")

	live := 0
	for i := range s.hashMap {
		if !s.isLive(uint64(i)) {
			continue
		}
		live++
		entry := &s.hashMap[i]
		for cur := entry.next; cur != noEntry; cur = s.list[cur].next {
			if !entry.slice.Overlaps(s.list[cur].slice) {
				return errors.Errorf("subresource: hash entry for key %v does not cover overflow-list entry at %d", entry.key, cur)
			}
		}
	}
	if live != s.used {
		return errors.Errorf("subresource: used=%d but counted %d live hash entries", s.used, live)
	}
	return nil
}

// WriteStatistics reports the set's occupancy, mirroring
// BlockMetadata.BlockJsonData's pattern of writing plain diagnostic
// counters into a caller-owned JSON object.
func (s *Set[K, T]) WriteStatistics(json jwriter.ObjectState) {
	json.Name("Used").Int(s.used)
	json.Name("Capacity").Int(int(s.indexMask + 1))
	json.Name("OverflowListLength").Int(len(s.list))
}
