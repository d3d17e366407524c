package barrier

import (
	"github.com/vkngwrapper/core/v2/core1_0"

	"github.com/vkngwrapper/barriertrack/access"
)

// writeAccessMask is the union of Vulkan access flags that denote a
// write hazard. Any other bit observed in an AccessFlags value is
// treated as a read. This mirrors DxvkBarrierSet::getAccessTypes,
// which classifies raw VkAccessFlags bits into the tracker's
// Read/Write vocabulary - the in-scope translation spec.md §6 expects
// this package to own, as distinct from the higher-level API's own
// resource-state mapping into these Vulkan bits, which spec.md §1
// excludes.
const writeAccessMask = core1_0.AccessShaderWrite |
	core1_0.AccessColorAttachmentWrite |
	core1_0.AccessDepthStencilAttachmentWrite |
	core1_0.AccessTransferWrite |
	core1_0.AccessHostWrite |
	core1_0.AccessMemoryWrite

// AccessTypesOf classifies a Vulkan access flag set into the
// tracker's Read/Write vocabulary. A flag set with both read-only and
// write-capable bits set yields both classes.
func AccessTypesOf(flags core1_0.AccessFlags) access.Flags {
	var result access.Flags
	if flags&writeAccessMask != 0 {
		result = result.Set(access.Write)
	}
	if flags&^writeAccessMask != 0 {
		result = result.Set(access.Read)
	}
	return result
}
