package barrier

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// MemoryBarrier is a generic (non-image) Vulkan memory barrier
// described by accumulated pipeline-stage and access-flag masks,
// mirroring VkMemoryBarrier2's src/dst fields.
type MemoryBarrier struct {
	SrcStages core1_0.PipelineStageFlags
	DstStages core1_0.PipelineStageFlags
	SrcAccess core1_0.AccessFlags
	DstAccess core1_0.AccessFlags
}

func (m *MemoryBarrier) absorb(other MemoryBarrier) {
	m.SrcStages |= other.SrcStages
	m.DstStages |= other.DstStages
	m.SrcAccess |= other.SrcAccess
	m.DstAccess |= other.DstAccess
}

// Batch accumulates barriers that should be recorded into a command
// buffer in a single step, mirroring DxvkBarrierBatch. Unlike Set, it
// has no opinion about whether a barrier is needed - it only merges
// whatever barriers its caller decided to add, to minimize the number
// of real Vulkan barrier calls issued.
type Batch struct {
	memBarrier     MemoryBarrier
	haveMemBarrier bool

	// Host access is accumulated separately and only folded into the
	// flushed barrier set at Finalize, not at every Flush, mirroring
	// the original's note that "host read access will only be flushed
	// at the end of a command list".
	hostSrcStages core1_0.PipelineStageFlags
	hostDstAccess core1_0.AccessFlags

	imgBarriers []ImageBarrier
}

// NewBatch constructs an empty Batch.
func NewBatch() *Batch {
	return &Batch{}
}

// AddMemoryBarrier merges barrier into the batch's single accumulated
// generic memory barrier.
func (b *Batch) AddMemoryBarrier(barrier MemoryBarrier) {
	b.haveMemBarrier = true
	b.memBarrier.absorb(barrier)
}

// AddHostBarrier records a host-visibility requirement to be folded
// into the generic memory barrier at the next Finalize.
func (b *Batch) AddHostBarrier(srcStages core1_0.PipelineStageFlags, dstAccess core1_0.AccessFlags) {
	b.hostSrcStages |= srcStages
	b.hostDstAccess |= dstAccess
}

// AddImageBarrier adds an image barrier. A barrier with no layout
// transition degrades into a plain memory barrier, since the only
// thing an image memory barrier offers beyond a generic one is the
// layout transition itself (queue family ownership transfer encoding
// is out of scope, spec.md §1).
func (b *Batch) AddImageBarrier(barrier ImageBarrier) {
	if barrier.SrcLayout == barrier.DstLayout {
		b.AddMemoryBarrier(MemoryBarrier{
			SrcStages: barrier.SrcStages,
			DstStages: barrier.DstStages,
			SrcAccess: barrier.SrcAccess,
			DstAccess: barrier.DstAccess,
		})
		return
	}
	b.imgBarriers = append(b.imgBarriers, barrier)
}

// Empty reports whether the batch has nothing to flush.
func (b *Batch) Empty() bool {
	return !b.haveMemBarrier && len(b.imgBarriers) == 0
}

// Flush hands the accumulated memory and image barriers to sink, then
// clears them. It does not touch the pending host barrier state; see
// Finalize.
func (b *Batch) Flush(sink func(mem MemoryBarrier, haveMem bool, img []ImageBarrier)) {
	sink(b.memBarrier, b.haveMemBarrier, b.imgBarriers)
	b.memBarrier = MemoryBarrier{}
	b.haveMemBarrier = false
	b.imgBarriers = b.imgBarriers[:0]
}

// Finalize folds any pending host barrier into the generic memory
// barrier, then flushes everything to sink, mirroring
// DxvkBarrierBatch::finalize.
func (b *Batch) Finalize(sink func(mem MemoryBarrier, haveMem bool, img []ImageBarrier)) {
	if b.hostSrcStages != 0 || b.hostDstAccess != 0 {
		b.AddMemoryBarrier(MemoryBarrier{SrcStages: b.hostSrcStages, DstAccess: b.hostDstAccess})
		b.hostSrcStages = 0
		b.hostDstAccess = 0
	}
	b.Flush(sink)
}
