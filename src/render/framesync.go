package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/vulkan-go/vulkan"
)

// FrameSlot owns the synchronization primitives and the command buffer for
// one in-flight frame: a completion fence, the image-available and
// render-finished semaphores, and the buffer re-recorded each time the slot
// comes around. Slots are created once and never resized.
type FrameSlot struct {
	index          int
	fence          vulkan.Fence
	imageAvailable vulkan.Semaphore
	renderFinished vulkan.Semaphore
	buffer         vulkan.CommandBuffer
	inFlight       bool
}

func (s *FrameSlot) Index() int                          { return s.index }
func (s *FrameSlot) Fence() vulkan.Fence                 { return s.fence }
func (s *FrameSlot) ImageAvailable() vulkan.Semaphore    { return s.imageAvailable }
func (s *FrameSlot) RenderFinished() vulkan.Semaphore    { return s.renderFinished }
func (s *FrameSlot) CommandBuffer() vulkan.CommandBuffer { return s.buffer }

// InFlight reports whether the slot's last submission has not yet been waited
// on. A slot in flight must never be re-recorded.
func (s *FrameSlot) InFlight() bool { return s.inFlight }

// syncDevice is the slice of the device FrameSync needs. The vulkan
// implementation is below; tests substitute a fake.
type syncDevice interface {
	createFence(signaled bool) (vulkan.Fence, error)
	createSemaphore() (vulkan.Semaphore, error)
	waitForFence(fence vulkan.Fence) error
	resetFence(fence vulkan.Fence) error
	destroyFence(fence vulkan.Fence)
	destroySemaphore(semaphore vulkan.Semaphore)
}

// FrameSync rotates a fixed arena of frame slots round-robin and owns their
// primitives from startup to shutdown.
type FrameSync struct {
	dev     syncDevice
	slots   []FrameSlot
	counter uint64
}

// NewFrameSync builds one slot per command buffer; len(buffers) is the number
// of frames in flight. Fences are created signaled so the first pass over the
// arena never blocks.
func NewFrameSync(device vulkan.Device, buffers []vulkan.CommandBuffer) (*FrameSync, error) {
	return newFrameSync(&vkSyncDevice{device: device}, buffers)
}

func newFrameSync(dev syncDevice, buffers []vulkan.CommandBuffer) (*FrameSync, error) {
	if len(buffers) == 0 {
		return nil, errors.New("render: need at least one frame in flight")
	}

	s := &FrameSync{dev: dev, slots: make([]FrameSlot, len(buffers))}
	for i := range s.slots {
		fence, err := dev.createFence(true)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("slot %d fence: %w", i, err)
		}
		s.slots[i].fence = fence

		acquire, err := dev.createSemaphore()
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("slot %d image-available semaphore: %w", i, err)
		}
		s.slots[i].imageAvailable = acquire

		release, err := dev.createSemaphore()
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("slot %d render-finished semaphore: %w", i, err)
		}
		s.slots[i].renderFinished = release

		s.slots[i].index = i
		s.slots[i].buffer = buffers[i]
	}

	Logger().Info("frame sync created", "frames_in_flight", len(buffers))
	return s, nil
}

// Destroy tears down every slot's primitives. Safe on a partially built sync.
func (s *FrameSync) Destroy() {
	for i := range s.slots {
		slot := &s.slots[i]
		if slot.fence != vulkan.NullFence {
			s.dev.destroyFence(slot.fence)
		}
		if slot.imageAvailable != vulkan.NullSemaphore {
			s.dev.destroySemaphore(slot.imageAvailable)
		}
		if slot.renderFinished != vulkan.NullSemaphore {
			s.dev.destroySemaphore(slot.renderFinished)
		}
	}
	s.slots = nil
}

// AcquireSlot returns the slot for this frame in round-robin order
// (counter mod N) and advances the counter. Frames abandoned to a resize
// still consume a slot index so a pending image-available semaphore is never
// handed out twice in a row.
func (s *FrameSync) AcquireSlot() *FrameSlot {
	slot := &s.slots[int(s.counter%uint64(len(s.slots)))]
	s.counter++
	return slot
}

// WaitAndReset blocks until the GPU signals the slot's fence (when a
// submission is actually pending) and leaves the fence unsignaled for the
// next submission. This is the pipeline's only blocking point; it bounds how
// far the CPU runs ahead of the GPU to the number of frames in flight.
func (s *FrameSync) WaitAndReset(slot *FrameSlot) error {
	if slot.inFlight {
		if err := s.dev.waitForFence(slot.fence); err != nil {
			return fmt.Errorf("slot %d fence wait: %w", slot.index, err)
		}
		slot.inFlight = false
	}
	if err := s.dev.resetFence(slot.fence); err != nil {
		return fmt.Errorf("slot %d fence reset: %w", slot.index, err)
	}
	return nil
}

// ArmForSubmit marks the slot in flight. Call it only after a submission
// carrying the slot's fence was queued successfully; a failed submission
// never signals the fence, and an armed slot would block WaitAndReset on it
// forever.
func (s *FrameSync) ArmForSubmit(slot *FrameSlot) {
	slot.inFlight = true
}

// FramesInFlight returns the arena size N.
func (s *FrameSync) FramesInFlight() int { return len(s.slots) }

// FrameCount returns how many slots have been acquired since startup.
func (s *FrameSync) FrameCount() uint64 { return s.counter }

type vkSyncDevice struct {
	device vulkan.Device
}

func (d *vkSyncDevice) createFence(signaled bool) (vulkan.Fence, error) {
	info := vulkan.FenceCreateInfo{
		SType: vulkan.StructureTypeFenceCreateInfo,
	}
	if signaled {
		info.Flags = vulkan.FenceCreateFlags(vulkan.FenceCreateSignaledBit)
	}
	var fence vulkan.Fence
	if res := vulkan.CreateFence(d.device, &info, nil, &fence); IsError(res) {
		return vulkan.NullFence, NewError(res)
	}
	return fence, nil
}

func (d *vkSyncDevice) createSemaphore() (vulkan.Semaphore, error) {
	info := vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vulkan.Semaphore
	if res := vulkan.CreateSemaphore(d.device, &info, nil, &semaphore); IsError(res) {
		return vulkan.NullSemaphore, NewError(res)
	}
	return semaphore, nil
}

func (d *vkSyncDevice) waitForFence(fence vulkan.Fence) error {
	return NewError(vulkan.WaitForFences(d.device, 1, []vulkan.Fence{fence}, vulkan.True, math.MaxUint64))
}

func (d *vkSyncDevice) resetFence(fence vulkan.Fence) error {
	return NewError(vulkan.ResetFences(d.device, 1, []vulkan.Fence{fence}))
}

func (d *vkSyncDevice) destroyFence(fence vulkan.Fence) {
	vulkan.DestroyFence(d.device, fence, nil)
}

func (d *vkSyncDevice) destroySemaphore(semaphore vulkan.Semaphore) {
	vulkan.DestroySemaphore(d.device, semaphore, nil)
}
