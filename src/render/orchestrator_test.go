package render

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"
)

type fakeContext struct {
	log *oplog

	extent     vulkan.Extent2D
	imageIndex int

	acquireOutdated bool
	acquireErr      error
	submitErr       error
	presentOutdated bool
	presentErr      error

	submittedWait   vulkan.Semaphore
	submittedSignal vulkan.Semaphore
	submittedFence  vulkan.Fence
	presentedWait   vulkan.Semaphore
}

func (c *fakeContext) Device() vulkan.Device {
	return vulkan.Device(vulkan.NullHandle)
}

func (c *fakeContext) SwapchainExtent() vulkan.Extent2D {
	return c.extent
}

func (c *fakeContext) SwapchainImageCount() int {
	return 3
}

func (c *fakeContext) AcquireNextImage(imageAvailable vulkan.Semaphore) (int, bool, error) {
	c.log.add("acquire")
	if c.acquireErr != nil {
		return 0, false, c.acquireErr
	}
	return c.imageIndex, c.acquireOutdated, nil
}

func (c *fakeContext) Submit(buffer vulkan.CommandBuffer, wait vulkan.Semaphore, signal vulkan.Semaphore, fence vulkan.Fence) error {
	c.log.add("submit")
	c.submittedWait = wait
	c.submittedSignal = signal
	c.submittedFence = fence
	return c.submitErr
}

func (c *fakeContext) PresentImage(imageIndex int, renderFinished vulkan.Semaphore) (bool, error) {
	c.log.add("present image=%d", imageIndex)
	c.presentedWait = renderFinished
	if c.presentErr != nil {
		return false, c.presentErr
	}
	return c.presentOutdated, nil
}

type fakeUniforms struct {
	log    *oplog
	err    error
	writes []int
}

func (u *fakeUniforms) Write(slot int, data []float32) error {
	u.log.add("uniform slot=%d", slot)
	if u.err != nil {
		return u.err
	}
	u.writes = append(u.writes, slot)
	return nil
}

type orchestratorHarness struct {
	log         *oplog
	ctx         *fakeContext
	writer      *fakeWriter
	uniforms    *fakeUniforms
	orch        *FrameOrchestrator
	invalidated int
}

func newOrchestratorHarness(t *testing.T, frames int) *orchestratorHarness {
	t.Helper()

	log := &oplog{}
	sync, err := newFrameSync(newFakeSyncDevice(log), make([]vulkan.CommandBuffer, frames))
	require.NoError(t, err)

	h := &orchestratorHarness{
		log:      log,
		ctx:      &fakeContext{log: log, extent: vulkan.Extent2D{Width: 800, Height: 600}},
		writer:   &fakeWriter{log: log},
		uniforms: &fakeUniforms{log: log},
	}
	h.orch = NewFrameOrchestrator(
		h.ctx, sync, NewCommandRecorder(h.writer), NewCamera(mgl32.Vec3{}), h.uniforms,
	)
	h.orch.SetOnInvalidate(func() { h.invalidated++ })
	return h
}

func (h *orchestratorHarness) mark() int {
	return len(h.log.ops)
}

func onePool() DrawPool {
	return SnapshotPool([]Instance{{
		Scale: mgl32.Vec3{1, 1, 1},
		Color: mgl32.Vec3{1, 1, 1},
		Mesh:  MeshHandle{IndexCount: 3},
	}})
}

func TestDrawRequestHappyPath(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.ctx.imageIndex = 2
	mark := h.mark()

	require.NoError(t, h.orch.DrawRequest(onePool()))
	require.Equal(t, []string{
		"acquire",
		"reset f0",
		"uniform slot=0",
		"cmd-reset",
		"cmd-begin",
		"render-pass image=2",
		"bind-pipeline",
		"set-viewport",
		"set-scissor",
		"bind-descriptors slot=0",
		"bind-mesh indices=3",
		"push-constants",
		"draw indices=3",
		"end-render-pass",
		"cmd-end",
		"submit",
		"present image=2",
	}, h.log.since(mark))

	require.Equal(t, StateIdle, h.orch.LastState())
	require.Equal(t, uint64(1), h.orch.Sync().FrameCount())
	require.Equal(t, 1, h.orch.Stats().LastPoolSize())
	require.Zero(t, h.invalidated)

	// The submission is wired to the slot's own primitives: wait on
	// image-available, signal render-finished plus the fence, and present
	// gated on render-finished.
	slot := &h.orch.Sync().slots[0]
	require.Equal(t, slot.ImageAvailable(), h.ctx.submittedWait)
	require.Equal(t, slot.RenderFinished(), h.ctx.submittedSignal)
	require.Equal(t, slot.Fence(), h.ctx.submittedFence)
	require.Equal(t, slot.RenderFinished(), h.ctx.presentedWait)
}

func TestDrawRequestWaitsOnceSlotComesAround(t *testing.T) {
	h := newOrchestratorHarness(t, 1)

	require.NoError(t, h.orch.DrawRequest(onePool()))
	mark := h.mark()
	require.NoError(t, h.orch.DrawRequest(onePool()))

	ops := h.log.since(mark)
	require.Equal(t, "acquire", ops[0])
	require.Equal(t, "wait f0", ops[1])
	require.Equal(t, "reset f0", ops[2])
}

func TestDrawRequestEmptyPool(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	mark := h.mark()

	require.NoError(t, h.orch.DrawRequest(SnapshotPool(nil)))

	ops := h.log.since(mark)
	require.NotContains(t, ops, "push-constants")
	require.Contains(t, ops, "submit")
	require.Contains(t, ops, "present image=0")
}

func TestDrawRequestAcquireOutdatedAbandonsFrame(t *testing.T) {
	h := newOrchestratorHarness(t, 2)
	h.ctx.acquireOutdated = true
	mark := h.mark()

	require.NoError(t, h.orch.DrawRequest(onePool()))

	// Nothing beyond the acquire: the slot's fence is never waited on or
	// reset, so the abandoned frame can't deadlock a later visit.
	require.Equal(t, []string{"acquire"}, h.log.since(mark))
	require.Equal(t, StateNeedsResize, h.orch.LastState())
	require.Equal(t, 1, h.invalidated)

	// The abandoned frame still consumed a slot index.
	require.Equal(t, uint64(1), h.orch.Sync().FrameCount())

	// Recovery: the next tick runs the full pipeline on the next slot.
	h.ctx.acquireOutdated = false
	require.NoError(t, h.orch.DrawRequest(onePool()))
	require.Equal(t, StateIdle, h.orch.LastState())
	require.Equal(t, []int{1}, h.uniforms.writes)
}

func TestDrawRequestAcquireError(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.ctx.acquireErr = errors.New("device lost")
	mark := h.mark()

	require.Error(t, h.orch.DrawRequest(onePool()))
	require.Equal(t, []string{"acquire"}, h.log.since(mark))
	require.Zero(t, h.invalidated)
}

func TestDrawRequestUniformFailureAbortsBeforeSubmit(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.uniforms.err = &AllocError{Resource: "uniform buffer for slot 0"}

	err := h.orch.DrawRequest(onePool())
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	require.NotContains(t, h.log.ops, "submit")
	require.NotContains(t, h.log.ops, "cmd-begin")

	// The slot was never armed, so the retry doesn't block on its fence.
	h.uniforms.err = nil
	mark := h.mark()
	require.NoError(t, h.orch.DrawRequest(onePool()))
	require.NotContains(t, h.log.since(mark), "wait f0")
}

func TestDrawRequestRecordFailureAbortsBeforeSubmit(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.writer.beginErr = errors.New("boom")

	require.Error(t, h.orch.DrawRequest(onePool()))
	require.NotContains(t, h.log.ops, "submit")
}

func TestDrawRequestSubmitFailureAbortsBeforePresent(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.ctx.submitErr = errors.New("queue failure")

	require.Error(t, h.orch.DrawRequest(onePool()))
	for _, op := range h.log.ops {
		require.NotContains(t, op, "present")
	}

	// A failed submission never signals the fence, so the slot must not be
	// left armed: the retry records again without blocking on the fence.
	h.ctx.submitErr = nil
	mark := h.mark()
	require.NoError(t, h.orch.DrawRequest(onePool()))
	require.NotContains(t, h.log.since(mark), "wait f0")
}

func TestDrawRequestPresentOutdatedInvalidates(t *testing.T) {
	h := newOrchestratorHarness(t, 1)
	h.ctx.presentOutdated = true

	require.NoError(t, h.orch.DrawRequest(onePool()))
	require.Contains(t, h.log.ops, "present image=0")
	require.Equal(t, StateNeedsResize, h.orch.LastState())
	require.Equal(t, 1, h.invalidated)
}

func TestDrawRequestRotatesSlots(t *testing.T) {
	h := newOrchestratorHarness(t, 3)

	for i := 0; i < 7; i++ {
		require.NoError(t, h.orch.DrawRequest(onePool()))
	}
	require.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, h.uniforms.writes)
	require.Equal(t, uint64(7), h.orch.Sync().FrameCount())
}
