// Package rangetracker implements the hash-indexed forest of red-black
// interval trees that answers "does this pending address range, with
// this access class, conflict with anything a command list has already
// recorded but not yet synchronized?"
//
// A RangeTracker owns 64 buckets: 32 for pending reads, 32 for pending
// writes, selected by hashing the resource handle. Each bucket is the
// root of an independent red-black tree keyed on (resource, rangeStart),
// with nodes addressed by 21-bit indices packed into a single pooled
// array. The tracker is not safe for concurrent use; callers serialize
// access to one instance externally (see package barrier).
package rangetracker

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/vkngwrapper/barriertrack/access"
	"github.com/vkngwrapper/barriertrack/internal/debugutil"
)

// hashTableSize is the number of buckets set aside for each access
// class (read, write); the tracker has 2*hashTableSize buckets total.
const hashTableSize = 32

// RangeTracker is the range-tracker core described in spec.md §4.1-§4.2:
// a fixed 64-bucket hash table of red-black interval trees, plus the
// summary bitmask used for O(1) empty-bucket early exit.
//
// The zero value is an empty tracker without a logger; NewRangeTracker
// constructs one with a logger attached.
type RangeTracker struct {
	pool nodePool

	// roots[b] is the index of the root node of bucket b's tree, or 0
	// if the bucket is empty. Index 0 of this array is never used;
	// buckets are numbered 1..2*hashTableSize per the hash formula in
	// bucketIndex.
	roots [1 + 2*hashTableSize]uint32

	// rootMask has bit (b-1) set iff bucket b's tree is non-empty.
	// spec.md §9 notes the original source also carries a parallel
	// rootMaskSubtree that is never read distinctly from rootMaskValid;
	// this implementation collapses the two into this single mask (see
	// DESIGN.md's Open Question decision).
	rootMask uint64

	logger *slog.Logger
}

// NewRangeTracker constructs an empty RangeTracker. logger may be nil;
// when non-nil it receives a debug-level event when the node pool runs
// out of indices, but never error-level events, since every error this
// package can produce is also returned to the caller.
func NewRangeTracker(logger *slog.Logger) *RangeTracker {
	return &RangeTracker{logger: logger}
}

// bucketIndex implements the hash formula from spec.md §3.4: buckets
// 1..hashTableSize hold pending reads, hashTableSize+1..2*hashTableSize
// hold pending writes.
func bucketIndex(resource uint64, a access.Access) uint32 {
	h := resource * 93887
	h ^= h >> 16
	bucket := 1 + uint32(h%hashTableSize)
	if a == access.Write {
		bucket += hashTableSize
	}
	return bucket
}

func (t *RangeTracker) maskBit(bucket uint32) uint64 { return uint64(1) << (bucket - 1) }

func (t *RangeTracker) bucketValid(bucket uint32) bool {
	return t.rootMask&t.maskBit(bucket) != 0
}

func (t *RangeTracker) setBucketValid(bucket uint32, valid bool) {
	if valid {
		t.rootMask |= t.maskBit(bucket)
	} else {
		t.rootMask &^= t.maskBit(bucket)
	}
}

// Empty reports whether the tracker holds no pending ranges at all,
// across every bucket.
func (t *RangeTracker) Empty() bool {
	return t.rootMask == 0
}

// FindRange reports whether r, about to be accessed with access class
// a, conflicts with any range previously passed to InsertRange and not
// yet cleared.
//
// Per spec.md §4.1: a pending write conflicts with any prior read or
// write; a pending read conflicts only with a prior write. The write
// bucket is always consulted; the read bucket is consulted only when a
// is Write.
func (t *RangeTracker) FindRange(r AddressRange, a access.Access) bool {
	if t.findInBucket(bucketIndex(r.Resource, access.Write), r) {
		return true
	}
	if a == access.Write && t.findInBucket(bucketIndex(r.Resource, access.Read), r) {
		return true
	}
	return false
}

// findInBucket walks bucket's tree looking for a node whose range
// contains query, per the descent in spec.md §4.1 step 2.
func (t *RangeTracker) findInBucket(bucket uint32, query AddressRange) bool {
	if !t.bucketValid(bucket) {
		return false
	}

	cur := t.roots[bucket]
	for cur != 0 {
		n := &t.pool.nodes[cur]
		switch {
		case n.addressRange.Contains(query):
			return true
		case query.lt(n.addressRange):
			cur = t.left(cur)
		default:
			cur = t.right(cur)
		}
	}
	return false
}

// InsertRange records r as pending for access class a, merging it with
// any already-pending range it contains or overlaps (spec.md §4.2).
// It returns ErrNodeCapacityExceeded if doing so would exceed the
// tracker's 21-bit node index space; the tracker is left unmodified in
// that case.
func (t *RangeTracker) InsertRange(r AddressRange, a access.Access) error {
	err := t.insertRange(r, a)
	if err == nil {
		debugutil.DebugValidate(t)
	}
	return err
}

func (t *RangeTracker) insertRange(r AddressRange, a access.Access) error {
	bucket := bucketIndex(r.Resource, a)

	for {
		root := t.roots[bucket]
		if root == 0 {
			return t.insertAsRoot(bucket, r)
		}

		cur := root
		for {
			n := &t.pool.nodes[cur]
			switch {
			case n.addressRange.Contains(r):
				// Already fully covered by a pending range; nothing to do.
				return nil
			case r.Contains(n.addressRange) || r.Overlaps(n.addressRange):
				// r dominates this node: widen r to the union and remove
				// the now-redundant node, then restart the descent from
				// the (possibly new) root, since removal may have
				// rebalanced the tree.
				r = r.union(n.addressRange)
				t.removeNode(bucket, cur)
				break
			case r.lt(n.addressRange):
				if left := t.left(cur); left != 0 {
					cur = left
					continue
				}
				return t.attachNewLeaf(bucket, cur, r, false)
			default:
				if right := t.right(cur); right != 0 {
					cur = right
					continue
				}
				return t.attachNewLeaf(bucket, cur, r, true)
			}
			break
		}
	}
}

func (t *RangeTracker) insertAsRoot(bucket uint32, r AddressRange) error {
	idx, err := t.pool.allocate()
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("range tracker node pool exhausted", slog.Int("liveNodes", t.pool.liveCount()))
		}
		return err
	}
	t.pool.nodes[idx].addressRange = r
	t.pool.nodes[idx].setRed(false)
	t.roots[bucket] = idx
	t.setBucketValid(bucket, true)
	return nil
}

func (t *RangeTracker) attachNewLeaf(bucket, parent uint32, r AddressRange, isRight bool) error {
	idx, err := t.pool.allocate()
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("range tracker node pool exhausted", slog.Int("liveNodes", t.pool.liveCount()))
		}
		return err
	}
	t.pool.nodes[idx].addressRange = r
	t.attachLeaf(bucket, parent, idx, !isRight)
	t.setBucketValid(bucket, true)
	return nil
}

// Clear discards every pending range in every bucket. It is O(1)
// amortized: the underlying node array's storage is retained and
// reused by subsequent insertions rather than released.
func (t *RangeTracker) Clear() {
	t.pool.nodes = t.pool.nodes[:0]
	t.pool.freeList = t.pool.freeList[:0]
	for i := range t.roots {
		t.roots[i] = 0
	}
	t.rootMask = 0
}

// Validate walks every bucket's tree and checks the red-black
// invariants from spec.md §8: no red node has a red parent, every
// root-to-sentinel path within a tree has equal black height, every
// bucket root is black, and rootMask exactly tracks which buckets have
// a non-empty tree. It is intended for use from tests and from
// debug-build consistency checks (see debugutil.DebugValidate), not from
// production hot paths.
func (t *RangeTracker) Validate() error {
	for bucket := uint32(1); bucket < uint32(len(t.roots)); bucket++ {
		root := t.roots[bucket]
		valid := t.bucketValid(bucket)
		if (root != 0) != valid {
			return errors.Errorf("rangetracker: bucket %d root=%d but validity bit=%v", bucket, root, valid)
		}
		if root == 0 {
			continue
		}
		if t.colorRed(root) {
			return errors.Errorf("rangetracker: bucket %d root %d is red", bucket, root)
		}
		if _, err := t.validateSubtree(bucket, root, 0); err != nil {
			return err
		}
	}
	return nil
}

// validateSubtree recursively checks idx's subtree and returns its
// black height.
func (t *RangeTracker) validateSubtree(bucket, idx, parent uint32) (int, error) {
	if idx == 0 {
		return 0, nil
	}
	n := &t.pool.nodes[idx]
	if n.parent() != parent {
		return 0, errors.Errorf("rangetracker: bucket %d node %d has parent %d, expected %d", bucket, idx, n.parent(), parent)
	}
	if t.colorRed(idx) && t.colorRed(parent) {
		return 0, errors.Errorf("rangetracker: bucket %d node %d is red with red parent %d", bucket, idx, parent)
	}

	leftHeight, err := t.validateSubtree(bucket, t.left(idx), idx)
	if err != nil {
		return 0, err
	}
	rightHeight, err := t.validateSubtree(bucket, t.right(idx), idx)
	if err != nil {
		return 0, err
	}
	if leftHeight != rightHeight {
		return 0, errors.Errorf("rangetracker: bucket %d node %d has unequal black heights %d/%d", bucket, idx, leftHeight, rightHeight)
	}

	height := leftHeight
	if !t.colorRed(idx) {
		height++
	}
	return height, nil
}

// WriteStatistics reports the tracker's node-pool occupancy and bucket
// fan-out, mirroring BlockMetadata.BlockJsonData's pattern of writing
// plain diagnostic counters into a caller-owned JSON object.
func (t *RangeTracker) WriteStatistics(json jwriter.ObjectState) {
	liveBuckets := 0
	for bucket := uint32(1); bucket < uint32(len(t.roots)); bucket++ {
		if t.bucketValid(bucket) {
			liveBuckets++
		}
	}

	json.Name("LiveNodes").Int(t.pool.liveCount())
	json.Name("FreeListLength").Int(len(t.pool.freeList))
	json.Name("LiveBuckets").Int(liveBuckets)
	json.Name("TotalBuckets").Int(2 * hashTableSize)
}
