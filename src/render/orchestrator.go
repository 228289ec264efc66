package render

import (
	"fmt"
)

// TickState names the stage a render tick last reached.
type TickState int

const (
	StateIdle TickState = iota
	StateAcquiring
	StateRecording
	StateSubmitting
	StatePresenting
	StateNeedsResize
)

func (s TickState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateRecording:
		return "recording"
	case StateSubmitting:
		return "submitting"
	case StatePresenting:
		return "presenting"
	case StateNeedsResize:
		return "needs-resize"
	default:
		return fmt.Sprintf("tickstate(%d)", int(s))
	}
}

// FrameOrchestrator drives one frame at a time through acquire, wait/reset,
// record, submit and present, rotating per-frame resources through FrameSync.
// A single thread drives it; nothing here locks.
type FrameOrchestrator struct {
	ctx      Context
	sync     *FrameSync
	recorder *CommandRecorder
	camera   *Camera
	uniforms UniformBuffers
	stats    *RenderStats

	state        TickState
	onInvalidate func()
}

func NewFrameOrchestrator(
	ctx Context,
	sync *FrameSync,
	recorder *CommandRecorder,
	camera *Camera,
	uniforms UniformBuffers,
) *FrameOrchestrator {
	return &FrameOrchestrator{
		ctx:      ctx,
		sync:     sync,
		recorder: recorder,
		camera:   camera,
		uniforms: uniforms,
		stats:    NewRenderStats(),
		state:    StateIdle,
	}
}

// SetOnInvalidate registers the window collaborator's callback for rebuilding
// swapchain-dependent resources. The orchestrator fires it whenever acquire
// or present reports the swapchain stale, then abandons that tick.
func (o *FrameOrchestrator) SetOnInvalidate(onInvalidate func()) {
	o.onInvalidate = onInvalidate
}

func (o *FrameOrchestrator) LastState() TickState { return o.state }
func (o *FrameOrchestrator) Camera() *Camera      { return o.camera }
func (o *FrameOrchestrator) Stats() *RenderStats  { return o.stats }
func (o *FrameOrchestrator) Sync() *FrameSync     { return o.sync }

// DrawRequest runs one render tick against the given pool snapshot. The pool
// must not be touched until DrawRequest returns.
//
// A stale swapchain abandons the frame wholesale and returns nil: nothing was
// submitted, the slot's fence was never touched, and the invalidate callback
// has been fired. Every error return likewise happens before present, so a
// degraded frame is never shown.
func (o *FrameOrchestrator) DrawRequest(pool DrawPool) error {
	o.stats.BeginRequest()

	o.state = StateAcquiring
	slot := o.sync.AcquireSlot()
	imageIndex, outdated, err := o.ctx.AcquireNextImage(slot.ImageAvailable())
	if err != nil {
		return fmt.Errorf("acquire image: %w", err)
	}
	if outdated {
		o.invalidate("acquire")
		return nil
	}

	if err := o.sync.WaitAndReset(slot); err != nil {
		return err
	}

	o.camera.Update(o.ctx.SwapchainExtent())
	uniform := o.camera.UniformData()
	if err := o.uniforms.Write(slot.Index(), uniform[:]); err != nil {
		return fmt.Errorf("camera uniform: %w", err)
	}

	o.state = StateRecording
	o.stats.BeginRecord()
	if err := o.recorder.Record(slot, imageIndex, pool); err != nil {
		return err
	}
	o.stats.EndRecord(pool.Len())

	o.state = StateSubmitting
	if err := o.ctx.Submit(slot.CommandBuffer(), slot.ImageAvailable(), slot.RenderFinished(), slot.Fence()); err != nil {
		return fmt.Errorf("submit slot %d: %w", slot.Index(), err)
	}
	o.sync.ArmForSubmit(slot)

	o.state = StatePresenting
	outdated, err = o.ctx.PresentImage(imageIndex, slot.RenderFinished())
	if err != nil {
		return fmt.Errorf("present image %d: %w", imageIndex, err)
	}
	o.stats.EndRequest()
	if outdated {
		o.invalidate("present")
		return nil
	}

	o.state = StateIdle
	return nil
}

func (o *FrameOrchestrator) invalidate(stage string) {
	o.state = StateNeedsResize
	Logger().Warn("swapchain out of date", "stage", stage)
	if o.onInvalidate != nil {
		o.onInvalidate()
	}
}
