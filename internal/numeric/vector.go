package numeric

// Vector is a free 3-tuple of Val; field ops only, no normalization
// invariant — kept distinct from the point and unit-vector types.
type Vector struct {
	X, Y, Z Val
}

var VectorZero = Vector{0, 0, 0}

func NewVector(x, y, z Val) Vector { return Vector{x, y, z} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Neg() Vector         { return Vector{-v.X, -v.Y, -v.Z} }
func (v Vector) Scale(s Val) Vector  { return Vector{v.X * s, v.Y * s, v.Z * s} }

func (v Vector) Dot(o Vector) Val {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector) LengthSq() Val { return v.Dot(v) }
func (v Vector) Length() Val   { return v.LengthSq().Sqrt() }

// Normalize fails (ok=false) on the zero vector rather than returning
// a NaN-filled UnitVector.
func (v Vector) Normalize() (UnitVector, bool) {
	l := v.Length()
	if l.Abs() < Epsilon {
		return UnitVector{}, false
	}
	inv := 1 / l
	return UnitVector{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// UnitVector carries the invariant |v| = 1±ε. It is only ever produced
// by Normalize or by operations proven to preserve unit length
// (Negate, reflection, the rotation half of a transform).
type UnitVector struct {
	X, Y, Z Val
}

func (u UnitVector) Vector() Vector { return Vector{u.X, u.Y, u.Z} }

func (u UnitVector) Negate() UnitVector { return UnitVector{-u.X, -u.Y, -u.Z} }

func (u UnitVector) Dot(o UnitVector) Val { return u.Vector().Dot(o.Vector()) }
func (u UnitVector) DotVector(o Vector) Val { return u.Vector().Dot(o) }

func (u UnitVector) Cross(o UnitVector) Vector { return u.Vector().Cross(o.Vector()) }

func (u UnitVector) Scale(s Val) Vector { return u.Vector().Scale(s) }

// Reflect reflects u about the normal n (both unit), returning a unit
// vector: standard r = u - 2(u.n)n identity, which preserves length
// when u and n are already unit.
func (u UnitVector) Reflect(n UnitVector) UnitVector {
	d := u.Dot(n)
	r := u.Vector().Sub(n.Vector().Scale(2 * d))
	uv, _ := r.Normalize()
	return uv
}

// ApproxEqual reports whether two unit vectors are within eps of each
// other component-wise — used by the transform round-trip property
// test.
func (u UnitVector) ApproxEqual(o UnitVector, eps Val) bool {
	return (u.X - o.X).Abs() < eps && (u.Y-o.Y).Abs() < eps && (u.Z-o.Z).Abs() < eps
}

// Point is an affine point: Point-Point=Vector, Point±Vector=Point,
// and points never support Dot/Cross/Normalize directly.
type Point struct {
	X, Y, Z Val
}

func NewPoint(x, y, z Val) Point { return Point{x, y, z} }

func (p Point) Sub(o Point) Vector   { return Vector{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point) Add(v Vector) Point   { return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z} }
func (p Point) Minus(v Vector) Point { return Point{p.X - v.X, p.Y - v.Y, p.Z - v.Z} }

func (p Point) ApproxEqual(o Point, eps Val) bool {
	return (p.X - o.X).Abs() < eps && (p.Y-o.Y).Abs() < eps && (p.Z-o.Z).Abs() < eps
}

// Distance is a named Val used where a quantity is semantically a
// length (ray parametric distance, segment length) rather than a bare
// scalar; kept as an alias so call sites read clearly without forcing
// a wrapper type through every arithmetic op.
type Distance = Val

// Area is likewise a named Val, used by PDF-rescaling math when
// converting between solid-angle and area measures.
type Area = Val

// OrthonormalBasis builds an arbitrary tangent/bitangent pair
// orthogonal to n using Duff et al.'s branchless construction. Shared
// by the cosine-weighted hemisphere sampler (internal/material) and
// the Henyey-Greenstein phase sampler (internal/medium), which both
// need to rotate a local-frame sample into world space around an
// arbitrary unit axis.
func OrthonormalBasis(n UnitVector) (Vector, Vector) {
	sign := Val(1)
	if n.Z.Less(0) {
		sign = -1
	}
	a := -1 / (sign + n.Z)
	b := n.X * n.Y * a
	t := Vector{X: 1 + sign*n.X*n.X*a, Y: sign * b, Z: -sign * n.X}
	bt := Vector{X: b, Y: sign + n.Y*n.Y*a, Z: -n.Y}
	return t, bt
}
