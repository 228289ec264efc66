package physics

import (
	"glide/src/physics/geometry"
)

// Body is one simulated object. The world owns every body exclusively;
// renderers only ever see value copies taken by World.Snapshot.
type Body struct {
	ID          uint64
	Position    geometry.Vector2
	Velocity    geometry.Vector2
	Orientation geometry.Scalar // radians about Z
	Mass        geometry.Scalar // <= 0 means immovable
	Radius      geometry.Scalar // circle collider
	Restitution geometry.Scalar // bounciness in [0, 1]
}

// InvMass returns 1/Mass, or 0 for immovable bodies so they absorb no
// correction and no impulse.
func (b Body) InvMass() geometry.Scalar {
	if b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b Body) isFinite() bool {
	return b.Position.IsFinite() &&
		b.Velocity.IsFinite() &&
		geometry.IsFinite(b.Orientation)
}
