package geometry

import "math"

// Scalar is the simulation's float width. Collision response only ever needs
// single precision and the render side consumes float32 transforms directly.
type Scalar = float32

const (
	Infinity = Scalar(math.MaxFloat32)
	Epsilon  = Scalar(1.19209e-07) // defined by clang for x86
)

// IsFinite reports whether s is neither NaN nor an infinity.
func IsFinite(s Scalar) bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
