package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVectorOperations exercises the basic vector arithmetic in a
// table-style shape.
func TestVectorOperations(t *testing.T) {
	v1 := NewVector(1, 2, 3)
	v2 := NewVector(4, 5, 6)

	assert.Equal(t, NewVector(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVector(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVector(2, 4, 6), v1.Scale(2))
	assert.Equal(t, Val(32), v1.Dot(v2))

	right := NewVector(1, 0, 0)
	up := NewVector(0, 1, 0)
	front := NewVector(0, 0, 1)
	assert.Equal(t, front, right.Cross(up))
}

func TestNormalizeFailsOnZeroVector(t *testing.T) {
	_, ok := VectorZero.Normalize()
	assert.False(t, ok, "normalizing the zero vector must fail, not panic or return NaN")
}

func TestNormalizeUnitLength(t *testing.T) {
	u, ok := NewVector(3, 0, 0).Normalize()
	require.True(t, ok)
	assert.InDelta(t, 1.0, u.Vector().Length().Float64(), 1e-9)
	assert.Equal(t, UnitVector{1, 0, 0}, u)
}

func TestValTotalOrderingNaNLast(t *testing.T) {
	nan := Val(0).Sqrt().Pow(-1).Sub(Val(0).Sqrt().Pow(-1)) // inf - inf = NaN
	assert.True(t, nan.IsNaN())
	assert.Equal(t, 1, nan.Cmp(INFINITY), "NaN must order after +Inf")
	assert.Equal(t, -1, INFINITY.Cmp(nan))
}

func TestQuaternionRotatesXQuarterTurnAboutY(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVector(0, 1, 0), PI/2)
	v := NewVector(1, 0, 0)
	r := q.RotateVector(v)
	assert.InDelta(t, 0.0, r.X.Float64(), 1e-9)
	assert.InDelta(t, 0.0, r.Y.Float64(), 1e-9)
	assert.InDelta(t, -1.0, r.Z.Float64(), 1e-9)
}

func TestDistanceRangeIntersect(t *testing.T) {
	a := Bounded(10)
	b := DistanceRange{Min: 2, Max: 20, MinClosed: true, MaxClosed: false}
	out, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, Val(2), out.Min)
	assert.Equal(t, Val(10), out.Max)
}
