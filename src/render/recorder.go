package render

import (
	"fmt"

	"github.com/vulkan-go/vulkan"
)

// CommandWriter is the narrow surface CommandRecorder drives. The vulkan
// implementation is PipelineCommands; tests substitute a recording fake to
// assert command order.
type CommandWriter interface {
	Reset(buffer vulkan.CommandBuffer) error
	Begin(buffer vulkan.CommandBuffer) error
	BeginRenderPass(buffer vulkan.CommandBuffer, imageIndex int)
	BindPipeline(buffer vulkan.CommandBuffer)
	SetViewport(buffer vulkan.CommandBuffer)
	SetScissor(buffer vulkan.CommandBuffer)
	BindDescriptorSet(buffer vulkan.CommandBuffer, slot int)
	BindMesh(buffer vulkan.CommandBuffer, mesh MeshHandle)
	PushConstants(buffer vulkan.CommandBuffer, data []float32)
	DrawIndexed(buffer vulkan.CommandBuffer, mesh MeshHandle)
	EndRenderPass(buffer vulkan.CommandBuffer)
	End(buffer vulkan.CommandBuffer) error
}

// CommandRecorder turns a draw-pool snapshot into a recorded command buffer.
// The command sequence is fixed: buffer begin and end bracket everything, and
// every draw sits strictly between render-pass begin and end.
type CommandRecorder struct {
	cmds CommandWriter
}

func NewCommandRecorder(cmds CommandWriter) *CommandRecorder {
	return &CommandRecorder{cmds: cmds}
}

// Record re-records the slot's command buffer against the acquired swapchain
// image. The caller must have waited out and reset the slot's fence first;
// recording a slot still in flight is a contract violation reported as
// RecordError, never attempted.
func (r *CommandRecorder) Record(slot *FrameSlot, imageIndex int, pool DrawPool) error {
	if slot.InFlight() {
		return &RecordError{Slot: slot.Index()}
	}

	buffer := slot.CommandBuffer()
	if err := r.cmds.Reset(buffer); err != nil {
		return fmt.Errorf("reset slot %d buffer: %w", slot.Index(), err)
	}
	if err := r.cmds.Begin(buffer); err != nil {
		return fmt.Errorf("begin slot %d buffer: %w", slot.Index(), err)
	}

	r.cmds.BeginRenderPass(buffer, imageIndex)
	r.cmds.BindPipeline(buffer)
	r.cmds.SetViewport(buffer)
	r.cmds.SetScissor(buffer)
	r.cmds.BindDescriptorSet(buffer, slot.Index())

	for i := range pool.Records() {
		rec := &pool.Records()[i]
		r.cmds.BindMesh(buffer, rec.Mesh)
		data := pushData(rec)
		r.cmds.PushConstants(buffer, data[:])
		r.cmds.DrawIndexed(buffer, rec.Mesh)
	}

	r.cmds.EndRenderPass(buffer)

	if err := r.cmds.End(buffer); err != nil {
		return fmt.Errorf("end slot %d buffer: %w", slot.Index(), err)
	}

	Logger().Debug("recorded frame", "slot", slot.Index(), "image", imageIndex, "draws", pool.Len())
	return nil
}
