package render

import (
	"fmt"
	"unsafe"

	"github.com/vulkan-go/vulkan"
)

// UniformBuffers is the allocator collaborator's per-frame-slot uniform
// surface. Write must complete before the slot's command buffer is submitted
// so the GPU reads a consistent camera.
type UniformBuffers interface {
	Write(slot int, data []float32) error
}

// MappedUniformBuffers writes through persistently mapped pointers the
// bootstrap supplies, one per frame slot. The memory stays mapped for the
// process lifetime; no map/unmap churn on the hot path.
type MappedUniformBuffers struct {
	mapped []unsafe.Pointer
	size   vulkan.DeviceSize
}

func NewMappedUniformBuffers(mapped []unsafe.Pointer, size vulkan.DeviceSize) *MappedUniformBuffers {
	return &MappedUniformBuffers{mapped: mapped, size: size}
}

// Write copies data into the slot's mapped buffer. A missing slot or a short
// buffer is an AllocError: the tick is lost, the allocator may recover later.
func (u *MappedUniformBuffers) Write(slot int, data []float32) error {
	if slot < 0 || slot >= len(u.mapped) || u.mapped[slot] == nil {
		return &AllocError{Resource: fmt.Sprintf("uniform buffer for slot %d", slot)}
	}
	byteLen := len(data) * 4
	if vulkan.DeviceSize(byteLen) > u.size {
		return &AllocError{
			Resource: fmt.Sprintf("uniform buffer for slot %d: need %d bytes, mapped %d", slot, byteLen, u.size),
		}
	}
	if byteLen == 0 {
		return nil
	}
	vulkan.Memcopy(u.mapped[slot], unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), byteLen))
	return nil
}
