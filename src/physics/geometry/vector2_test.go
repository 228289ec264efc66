package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVector2Arithmetic(t *testing.T) {
	a := NewVector2(3, 4)
	b := NewVector2(-1, 2)

	require.Equal(t, Vector2{X: 2, Y: 6}, a.Add(b))
	require.Equal(t, Vector2{X: 4, Y: 2}, a.Sub(b))
	require.Equal(t, Vector2{X: 6, Y: 8}, a.Scale(2))
	require.Equal(t, Scalar(5), a.Dot(b))
	require.Equal(t, Scalar(25), a.LengthSq())
	require.Equal(t, Scalar(5), a.Length())
	require.InDelta(t, 4.472136, float64(a.Distance(b)), 1e-5)
}

func TestVector2Normalized(t *testing.T) {
	for idx, tc := range []struct {
		in   Vector2
		want Vector2
	}{
		{Vector2{X: 5, Y: 0}, Vector2{X: 1, Y: 0}},
		{Vector2{X: 0, Y: -2}, Vector2{X: 0, Y: -1}},
		{Vector2{X: 3, Y: 4}, Vector2{X: 0.6, Y: 0.8}},
		{Vector2{}, Vector2{}},
		{Vector2{X: Epsilon / 2}, Vector2{}},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			got := tc.in.Normalized()
			require.InDelta(t, float64(tc.want.X), float64(got.X), 1e-6)
			require.InDelta(t, float64(tc.want.Y), float64(got.Y), 1e-6)
		})
	}
}

func TestVector2IsFinite(t *testing.T) {
	nan := Scalar(math.NaN())
	inf := Scalar(math.Inf(1))

	require.True(t, Vector2{X: 1, Y: -2}.IsFinite())
	require.True(t, Vector2{}.IsFinite())
	require.False(t, Vector2{X: nan}.IsFinite())
	require.False(t, Vector2{Y: inf}.IsFinite())
}

func TestVector2IsZero(t *testing.T) {
	require.True(t, Vector2{}.IsZero())
	require.False(t, Vector2{X: Epsilon}.IsZero())
}
