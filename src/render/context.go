package render

import (
	"math"

	"github.com/vulkan-go/vulkan"
)

// Context is the device/swapchain bootstrap collaborator as the frame
// pipeline sees it. The bootstrap owns instance, device, swapchain and queue
// creation; the pipeline only acquires, submits and presents through it.
//
// AcquireNextImage and PresentImage report a stale swapchain through the
// outdated flag rather than an error; the orchestrator abandons the frame and
// asks the window collaborator for recreation.
type Context interface {
	Device() vulkan.Device
	SwapchainExtent() vulkan.Extent2D
	SwapchainImageCount() int
	AcquireNextImage(imageAvailable vulkan.Semaphore) (imageIndex int, outdated bool, err error)
	Submit(buffer vulkan.CommandBuffer, wait vulkan.Semaphore, signal vulkan.Semaphore, fence vulkan.Fence) error
	PresentImage(imageIndex int, renderFinished vulkan.Semaphore) (outdated bool, err error)
}

// SwapchainContext implements Context over handles the bootstrap supplies.
// It never creates or destroys any of them.
type SwapchainContext struct {
	device        vulkan.Device
	swapchain     vulkan.Swapchain
	graphicsQueue vulkan.Queue
	presentQueue  vulkan.Queue
	extent        vulkan.Extent2D
	imageCount    int
}

func NewSwapchainContext(
	device vulkan.Device,
	swapchain vulkan.Swapchain,
	graphicsQueue vulkan.Queue,
	presentQueue vulkan.Queue,
	extent vulkan.Extent2D,
	imageCount int,
) *SwapchainContext {
	return &SwapchainContext{
		device:        device,
		swapchain:     swapchain,
		graphicsQueue: graphicsQueue,
		presentQueue:  presentQueue,
		extent:        extent,
		imageCount:    imageCount,
	}
}

// UpdateSwapchain re-points the context after the bootstrap recreated the
// swapchain. Queues and device are stable for the process lifetime.
func (c *SwapchainContext) UpdateSwapchain(swapchain vulkan.Swapchain, extent vulkan.Extent2D, imageCount int) {
	c.swapchain = swapchain
	c.extent = extent
	c.imageCount = imageCount
}

func (c *SwapchainContext) Device() vulkan.Device {
	return c.device
}

func (c *SwapchainContext) SwapchainExtent() vulkan.Extent2D {
	return c.extent
}

func (c *SwapchainContext) SwapchainImageCount() int {
	return c.imageCount
}

// AcquireNextImage blocks until the presentation engine hands out an image
// index and arms imageAvailable to signal once that image is actually free.
// A suboptimal swapchain still yields a usable image, so it is treated as
// success here and only reported at present time.
func (c *SwapchainContext) AcquireNextImage(imageAvailable vulkan.Semaphore) (int, bool, error) {
	var imageIndex uint32
	res := vulkan.AcquireNextImage(
		c.device, c.swapchain, math.MaxUint64,
		imageAvailable, vulkan.NullFence, &imageIndex,
	)
	switch res {
	case vulkan.Success, vulkan.Suboptimal:
		return int(imageIndex), false, nil
	case vulkan.ErrorOutOfDate:
		return 0, true, nil
	default:
		return 0, false, NewError(res)
	}
}

// Submit hands the recorded buffer to the graphics queue, gated to wait on
// the image-available semaphore at color-attachment output and to signal the
// render-finished semaphore plus the slot fence on completion.
func (c *SwapchainContext) Submit(buffer vulkan.CommandBuffer, wait vulkan.Semaphore, signal vulkan.Semaphore, fence vulkan.Fence) error {
	submitInfo := vulkan.SubmitInfo{
		SType:              vulkan.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{wait},
		PWaitDstStageMask: []vulkan.PipelineStageFlags{
			vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vulkan.CommandBuffer{buffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vulkan.Semaphore{signal},
	}
	return NewError(vulkan.QueueSubmit(c.graphicsQueue, 1, []vulkan.SubmitInfo{submitInfo}, fence))
}

// PresentImage queues the acquired image for presentation, gated on the
// render-finished semaphore. Out-of-date and suboptimal both report outdated
// so the caller requests recreation.
func (c *SwapchainContext) PresentImage(imageIndex int, renderFinished vulkan.Semaphore) (bool, error) {
	presentInfo := vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vulkan.Swapchain{c.swapchain},
		PImageIndices:      []uint32{uint32(imageIndex)},
	}
	res := vulkan.QueuePresent(c.presentQueue, &presentInfo)
	switch res {
	case vulkan.Success:
		return false, nil
	case vulkan.ErrorOutOfDate, vulkan.Suboptimal:
		return true, nil
	default:
		return false, NewError(res)
	}
}
