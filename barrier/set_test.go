package barrier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/core/v2/core1_0"

	"github.com/vkngwrapper/barriertrack/access"
	"github.com/vkngwrapper/barriertrack/barrier"
	"github.com/vkngwrapper/barriertrack/resourceslice"
)

func TestFreshBufferAccessNeedsNoBarrier(t *testing.T) {
	s := barrier.NewSet(nil)
	slice := resourceslice.NewBuffer(0, 100, 0)

	needsBarrier := s.AccessBuffer(1, slice,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)
	require.False(t, needsBarrier)
	require.True(t, s.HasResourceBarriers())
}

func TestReadAfterWriteBufferAccessNeedsBarrier(t *testing.T) {
	s := barrier.NewSet(nil)

	writeSlice := resourceslice.NewBuffer(0, 100, barrier.AccessTypesOf(core1_0.AccessTransferWrite))
	s.AccessBuffer(1, writeSlice,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)

	readSlice := resourceslice.NewBuffer(0, 100, barrier.AccessTypesOf(core1_0.AccessShaderRead))
	needsBarrier := s.AccessBuffer(1, readSlice,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageFragmentShader,
		core1_0.AccessTransferWrite, core1_0.AccessShaderRead)
	require.True(t, needsBarrier)

	srcStages, dstStages, srcAccess, dstAccess, ok := s.PendingMemoryBarrier()
	require.True(t, ok)
	require.Equal(t, core1_0.PipelineStageTransfer, srcStages)
	require.Equal(t, core1_0.PipelineStageFragmentShader, dstStages)
	require.Equal(t, core1_0.AccessTransferWrite, srcAccess)
	require.Equal(t, core1_0.AccessShaderRead, dstAccess)
}

func TestReadAfterReadBufferAccessNeedsNoBarrier(t *testing.T) {
	s := barrier.NewSet(nil)

	readSlice := resourceslice.NewBuffer(0, 100, barrier.AccessTypesOf(core1_0.AccessShaderRead))
	s.AccessBuffer(1, readSlice,
		core1_0.PipelineStageFragmentShader, core1_0.PipelineStageFragmentShader,
		core1_0.AccessShaderRead, core1_0.AccessShaderRead)

	needsBarrier := s.AccessBuffer(1, readSlice,
		core1_0.PipelineStageFragmentShader, core1_0.PipelineStageFragmentShader,
		core1_0.AccessShaderRead, core1_0.AccessShaderRead)
	require.False(t, needsBarrier)

	_, _, _, _, ok := s.PendingMemoryBarrier()
	require.False(t, ok)
}

func TestImageLayoutTransitionAlwaysNeedsBarrier(t *testing.T) {
	s := barrier.NewSet(nil)

	rng := core1_0.ImageSubresourceRange{AspectMask: core1_0.ImageAspectColor, LayerCount: 1, LevelCount: 1}
	needsBarrier := s.AccessImage(1, rng,
		core1_0.ImageLayoutUndefined, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.PipelineStageTopOfPipe, core1_0.PipelineStageTransfer,
		0, core1_0.AccessTransferWrite)
	require.True(t, needsBarrier)
	require.Len(t, s.PendingImageBarriers(), 1)
}

func TestImageAccessWithoutTransitionFollowsDirtyTracking(t *testing.T) {
	s := barrier.NewSet(nil)
	rng := core1_0.ImageSubresourceRange{AspectMask: core1_0.ImageAspectColor, LayerCount: 1, LevelCount: 1}

	s.AccessImage(1, rng,
		core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)

	needsBarrier := s.AccessImage(1, rng,
		core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)
	require.True(t, needsBarrier, "second write must still barrier against the first")
}

func TestResetClearsAccumulatedState(t *testing.T) {
	s := barrier.NewSet(nil)
	slice := resourceslice.NewBuffer(0, 100, barrier.AccessTypesOf(core1_0.AccessTransferWrite))
	s.AccessBuffer(1, slice,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)
	s.AccessBuffer(1, slice,
		core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer,
		core1_0.AccessTransferWrite, core1_0.AccessTransferWrite)

	require.True(t, s.HasResourceBarriers())
	s.Reset()
	require.False(t, s.HasResourceBarriers())

	_, _, _, _, ok := s.PendingMemoryBarrier()
	require.False(t, ok)
	require.Empty(t, s.PendingImageBarriers())
}

func TestAccessTypesOfClassifiesReadAndWrite(t *testing.T) {
	require.True(t, barrier.AccessTypesOf(core1_0.AccessTransferWrite).Test(access.Write))
	require.False(t, barrier.AccessTypesOf(core1_0.AccessTransferWrite).Test(access.Read))
	require.True(t, barrier.AccessTypesOf(core1_0.AccessShaderRead).Test(access.Read))
	require.False(t, barrier.AccessTypesOf(core1_0.AccessShaderRead).Test(access.Write))

	both := barrier.AccessTypesOf(core1_0.AccessTransferWrite | core1_0.AccessShaderRead)
	require.True(t, both.Test(access.Read))
	require.True(t, both.Test(access.Write))
}
