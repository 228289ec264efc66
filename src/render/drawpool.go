package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"
)

// MeshHandle identifies geometry owned by the allocator collaborator: where
// the vertices live and which index range to draw. The pipeline only binds
// it; allocation and release happen elsewhere.
type MeshHandle struct {
	VertexBuffer vulkan.Buffer
	IndexBuffer  vulkan.Buffer
	IndexCount   uint32
	FirstIndex   uint32
	VertexOffset int32
}

// Instance describes one object to draw this tick, in simulation terms:
// where it is, how it is oriented and scaled, what color, which mesh.
type Instance struct {
	Position mgl32.Vec3
	Rotation float32 // radians about Z
	Scale    mgl32.Vec3
	Color    mgl32.Vec3
	Mesh     MeshHandle
}

// DrawableRecord is one frozen draw in a pool snapshot: the baked transform,
// the per-draw push color and the mesh to bind.
type DrawableRecord struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec3
	Mesh      MeshHandle
}

// DrawPool is the per-tick ordered snapshot handed from simulation to
// command recording. Build a fresh one every tick and leave it untouched
// until recording for that frame returns; never persist one across frames.
type DrawPool struct {
	records []DrawableRecord
}

// SnapshotPool freezes instances into a pool. Records come out in input
// order, so draw order is exactly the caller's (and therefore the object
// table's) iteration order. An empty input yields a valid empty pool that
// renders a cleared frame.
func SnapshotPool(instances []Instance) DrawPool {
	records := make([]DrawableRecord, len(instances))
	for i := range instances {
		records[i] = DrawableRecord{
			Transform: instanceTransform(&instances[i]),
			Color:     instances[i].Color,
			Mesh:      instances[i].Mesh,
		}
	}
	return DrawPool{records: records}
}

func instanceTransform(inst *Instance) mgl32.Mat4 {
	translate := mgl32.Translate3D(inst.Position.X(), inst.Position.Y(), inst.Position.Z())
	rotate := mgl32.HomogRotate3DZ(inst.Rotation)
	scale := mgl32.Scale3D(inst.Scale.X(), inst.Scale.Y(), inst.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

func (p DrawPool) Len() int {
	return len(p.records)
}

// Records exposes the snapshot for recording. Treat it as read-only.
func (p DrawPool) Records() []DrawableRecord {
	return p.records
}

// pushDataFloats is the vertex-stage push-constant block the pipeline
// collaborator declares: a mat4 transform followed by a vec3 color.
const pushDataFloats = 16 + 3

// PushConstantSize is the byte size of the per-draw push-constant block, for
// sizing the pipeline layout's push-constant range.
const PushConstantSize = pushDataFloats * 4

// pushData packs a record for CmdPushConstants, column-major mat4 first,
// color immediately after, matching the shader block layout byte for byte.
func pushData(rec *DrawableRecord) [pushDataFloats]float32 {
	var data [pushDataFloats]float32
	copy(data[:16], rec.Transform[:])
	data[16] = rec.Color.X()
	data[17] = rec.Color.Y()
	data[18] = rec.Color.Z()
	return data
}
