package render

import (
	"unsafe"

	"github.com/vulkan-go/vulkan"
)

// PipelineHandles is what the shader/pipeline collaborator hands over: a
// compiled pipeline whose vertex stage expects push constants
// {transform mat4, color vec3} and a uniform block {view mat4, proj mat4},
// the render pass it was built against, one framebuffer per swapchain image
// and one descriptor set per frame slot.
type PipelineHandles struct {
	RenderPass     vulkan.RenderPass
	Pipeline       vulkan.Pipeline
	Layout         vulkan.PipelineLayout
	Framebuffers   []vulkan.Framebuffer
	DescriptorSets []vulkan.DescriptorSet
	Extent         vulkan.Extent2D
	ClearColor     [4]float32
}

// PipelineCommands writes the recorder's command sequence with vulkan-go.
type PipelineCommands struct {
	handles PipelineHandles
}

func NewPipelineCommands(handles PipelineHandles) *PipelineCommands {
	return &PipelineCommands{handles: handles}
}

// SetTarget re-points framebuffers and extent after swapchain recreation.
// Pipeline, layout and render pass survive a resize.
func (c *PipelineCommands) SetTarget(framebuffers []vulkan.Framebuffer, extent vulkan.Extent2D) {
	c.handles.Framebuffers = framebuffers
	c.handles.Extent = extent
}

func (c *PipelineCommands) Reset(buffer vulkan.CommandBuffer) error {
	return NewError(vulkan.ResetCommandBuffer(buffer, 0))
}

func (c *PipelineCommands) Begin(buffer vulkan.CommandBuffer) error {
	beginInfo := vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
	}
	return NewError(vulkan.BeginCommandBuffer(buffer, &beginInfo))
}

func (c *PipelineCommands) BeginRenderPass(buffer vulkan.CommandBuffer, imageIndex int) {
	clearValues := []vulkan.ClearValue{
		vulkan.NewClearValue(c.handles.ClearColor[:]),
	}
	beginInfo := vulkan.RenderPassBeginInfo{
		SType:       vulkan.StructureTypeRenderPassBeginInfo,
		RenderPass:  c.handles.RenderPass,
		Framebuffer: c.handles.Framebuffers[imageIndex],
		RenderArea: vulkan.Rect2D{
			Offset: vulkan.Offset2D{},
			Extent: c.handles.Extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vulkan.CmdBeginRenderPass(buffer, &beginInfo, vulkan.SubpassContentsInline)
}

func (c *PipelineCommands) BindPipeline(buffer vulkan.CommandBuffer) {
	vulkan.CmdBindPipeline(buffer, vulkan.PipelineBindPointGraphics, c.handles.Pipeline)
}

func (c *PipelineCommands) SetViewport(buffer vulkan.CommandBuffer) {
	viewport := vulkan.Viewport{
		Width:    float32(c.handles.Extent.Width),
		Height:   float32(c.handles.Extent.Height),
		MaxDepth: 1,
	}
	vulkan.CmdSetViewport(buffer, 0, 1, []vulkan.Viewport{viewport})
}

func (c *PipelineCommands) SetScissor(buffer vulkan.CommandBuffer) {
	scissor := vulkan.Rect2D{
		Offset: vulkan.Offset2D{},
		Extent: c.handles.Extent,
	}
	vulkan.CmdSetScissor(buffer, 0, 1, []vulkan.Rect2D{scissor})
}

func (c *PipelineCommands) BindDescriptorSet(buffer vulkan.CommandBuffer, slot int) {
	if len(c.handles.DescriptorSets) == 0 {
		return
	}
	vulkan.CmdBindDescriptorSets(
		buffer, vulkan.PipelineBindPointGraphics, c.handles.Layout,
		0, 1, []vulkan.DescriptorSet{c.handles.DescriptorSets[slot]}, 0, nil,
	)
}

func (c *PipelineCommands) BindMesh(buffer vulkan.CommandBuffer, mesh MeshHandle) {
	vulkan.CmdBindVertexBuffers(buffer, 0, 1, []vulkan.Buffer{mesh.VertexBuffer}, []vulkan.DeviceSize{0})
	vulkan.CmdBindIndexBuffer(buffer, mesh.IndexBuffer, 0, vulkan.IndexTypeUint16)
}

func (c *PipelineCommands) PushConstants(buffer vulkan.CommandBuffer, data []float32) {
	vulkan.CmdPushConstants(
		buffer, c.handles.Layout,
		vulkan.ShaderStageFlags(vulkan.ShaderStageVertexBit),
		0, uint32(len(data)*4), unsafe.Pointer(&data[0]),
	)
}

func (c *PipelineCommands) DrawIndexed(buffer vulkan.CommandBuffer, mesh MeshHandle) {
	vulkan.CmdDrawIndexed(buffer, mesh.IndexCount, 1, mesh.FirstIndex, mesh.VertexOffset, 0)
}

func (c *PipelineCommands) EndRenderPass(buffer vulkan.CommandBuffer) {
	vulkan.CmdEndRenderPass(buffer)
}

func (c *PipelineCommands) End(buffer vulkan.CommandBuffer) error {
	return NewError(vulkan.EndCommandBuffer(buffer))
}
