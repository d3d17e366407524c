package resourceslice

import (
	"github.com/vkngwrapper/core/v2/core1_0"

	"github.com/vkngwrapper/barriertrack/access"
)

// Image is a box of an image's subresources - an aspect mask crossed
// with a half-open array-layer range and a half-open mip-level range -
// plus the access class recorded against it.
type Image struct {
	aspects            core1_0.ImageAspectFlags
	minLayer, maxLayer int
	minLevel, maxLevel int
	acc                access.Flags
}

// NewImage constructs an Image slice from a Vulkan subresource range.
func NewImage(r core1_0.ImageSubresourceRange, acc access.Flags) Image {
	return Image{
		aspects:  r.AspectMask,
		minLayer: r.BaseArrayLayer,
		maxLayer: r.BaseArrayLayer + r.LayerCount,
		minLevel: r.BaseMipLevel,
		maxLevel: r.BaseMipLevel + r.LevelCount,
		acc:      acc,
	}
}

// Access returns the access flags recorded against this slice.
func (i Image) Access() access.Flags { return i.acc }

func (i Image) sameLayers(other Image) bool {
	return i.minLayer == other.minLayer && i.maxLayer == other.maxLayer
}

func (i Image) sameLevels(other Image) bool {
	return i.minLevel == other.minLevel && i.maxLevel == other.maxLevel
}

func (i Image) touchesLayers(other Image) bool {
	return i.maxLayer >= other.minLayer && i.minLayer <= other.maxLayer
}

func (i Image) touchesLevels(other Image) bool {
	return i.maxLevel >= other.minLevel && i.minLevel <= other.maxLevel
}

// Overlaps reports whether i and other share an aspect and overlap in
// both the layer and the level dimension.
func (i Image) Overlaps(other Image) bool {
	return i.aspects&other.aspects != 0 &&
		i.maxLayer > other.minLayer && i.minLayer < other.maxLayer &&
		i.maxLevel > other.minLevel && i.minLevel < other.maxLevel
}

// CanMerge reports whether i and other can be combined: identical
// boxes always merge, boxes that differ on both axes never do, and a
// box that matches on exactly one axis merges only if the two carry
// the same access and touch along the other axis. This is a direct
// port of DxvkBarrierImageSlice::canMerge, including its comment that
// it is a simplified check for adjacent subresources in one dimension.
func (i Image) CanMerge(other Image) bool {
	sameLayers := i.sameLayers(other)
	sameLevels := i.sameLevels(other)
	if sameLayers == sameLevels {
		return sameLayers
	}
	if i.acc != other.acc {
		return false
	}
	if sameLayers {
		return i.touchesLevels(other)
	}
	return i.touchesLayers(other)
}

// Merge returns the union of i and other: the widest box covering
// both axes, the union of their aspect masks, and the union of their
// access flags.
func (i Image) Merge(other Image) Image {
	return Image{
		aspects:  i.aspects | other.aspects,
		minLayer: minInt(i.minLayer, other.minLayer),
		maxLayer: maxInt(i.maxLayer, other.maxLayer),
		minLevel: minInt(i.minLevel, other.minLevel),
		maxLevel: maxInt(i.maxLevel, other.maxLevel),
		acc:      i.acc.Union(other.acc),
	}
}

// ScanOverflowListOnInsert reports true: image slices merge often
// enough along the layer or level axis that scanning the overflow
// list before appending is worth its cost (see spec.md §4.5). Every
// Image value returns the same constant, so this is a single dispatch
// on the type rather than a per-call decision.
func (i Image) ScanOverflowListOnInsert() bool { return true }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
