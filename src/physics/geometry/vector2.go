package geometry

import "math"

type Vector2 struct {
	X Scalar
	Y Scalar
}

func NewVector2(x Scalar, y Scalar) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(s Scalar) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) Dot(o Vector2) Scalar {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector2) LengthSq() Scalar {
	return v.Dot(v)
}

func (v Vector2) Length() Scalar {
	return Scalar(math.Sqrt(float64(v.LengthSq())))
}

// Normalized returns the unit vector pointing the same way as v. A vector
// shorter than Epsilon normalizes to the zero vector instead of NaN.
func (v Vector2) Normalized() Vector2 {
	l := v.Length()
	if l <= Epsilon {
		return Vector2{}
	}
	return v.Scale(1 / l)
}

func (v Vector2) Distance(o Vector2) Scalar {
	return o.Sub(v).Length()
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}
