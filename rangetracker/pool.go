package rangetracker

import "github.com/cockroachdb/errors"

// nodePool is the single contiguous array backing every bucket's tree.
// Freed nodes are recycled through freeList rather than released back
// to the runtime, so the whole pool can be dropped in one allocation
// when the tracker itself is discarded.
type nodePool struct {
	nodes    []node
	freeList []uint32
}

func (p *nodePool) ensureSentinel() {
	if len(p.nodes) == 0 {
		p.nodes = append(p.nodes, node{})
	}
}

// allocate returns the index of a fresh, zeroed node. It never returns
// index 0, which is permanently reserved for the null sentinel.
func (p *nodePool) allocate() (uint32, error) {
	p.ensureSentinel()

	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.nodes[idx] = node{}
		return idx, nil
	}

	newIndex := len(p.nodes)
	if uint64(newIndex) > maxNodeIndex {
		return 0, errors.Wrapf(ErrNodeCapacityExceeded, "live node count %d", p.liveCount())
	}

	p.nodes = append(p.nodes, node{})
	return uint32(newIndex), nil
}

func (p *nodePool) free(idx uint32) {
	if idx == 0 {
		panic("rangetracker: node index 0 is the null sentinel and cannot be freed")
	}
	p.nodes[idx] = node{}
	p.freeList = append(p.freeList, idx)
}

// liveCount returns the number of allocated, non-freed nodes, not
// counting the reserved sentinel at index 0.
func (p *nodePool) liveCount() int {
	if len(p.nodes) == 0 {
		return 0
	}
	return len(p.nodes) - 1 - len(p.freeList)
}
