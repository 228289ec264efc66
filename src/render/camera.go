package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"
)

// Camera holds the view/projection pair the vertex stage reads through the
// camera uniform buffer. Update recomputes the pair once per tick; recording
// for that tick then sees one consistent camera.
type Camera struct {
	position mgl32.Vec3
	zoom     float32
	view     mgl32.Mat4
	proj     mgl32.Mat4
}

func NewCamera(position mgl32.Vec3) *Camera {
	return &Camera{
		position: position,
		zoom:     1,
		view:     mgl32.Ident4(),
		proj:     mgl32.Ident4(),
	}
}

func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// Shift moves the camera on the X and Y axes.
func (c *Camera) Shift(delta mgl32.Vec2) {
	c.position = c.position.Add(mgl32.Vec3{delta.X(), delta.Y(), 0})
}

// Zoom scales the visible world extent; factor > 1 zooms in. Non-positive
// factors are ignored.
func (c *Camera) Zoom(factor float32) {
	if factor > 0 {
		c.zoom *= factor
	}
}

// Update recomputes view and projection for the current swapchain extent.
// The projection is an aspect-corrected orthographic box with the Y axis
// flipped for Vulkan clip space.
func (c *Camera) Update(extent vulkan.Extent2D) {
	c.view = mgl32.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z())

	aspect := float32(1)
	if extent.Height != 0 {
		aspect = float32(extent.Width) / float32(extent.Height)
	}
	half := 1 / c.zoom
	c.proj = mgl32.Ortho(-half*aspect, half*aspect, -half, half, -1, 1)
	c.proj[5] *= -1
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.proj
}

// UniformData packs {view, proj} in the uniform block layout the pipeline
// collaborator declares: two column-major mat4s, view first.
func (c *Camera) UniformData() [32]float32 {
	var data [32]float32
	copy(data[:16], c.view[:])
	copy(data[16:], c.proj[:])
	return data
}
