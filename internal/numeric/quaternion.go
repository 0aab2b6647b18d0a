package numeric

// Quaternion is used only to represent rotations in this renderer;
// construction helpers all produce (and preserve) a unit quaternion.
type Quaternion struct {
	X, Y, Z, W Val
}

func QuaternionIdentity() Quaternion { return Quaternion{0, 0, 0, 1} }

// QuaternionFromAxisAngle builds a unit quaternion rotating by angle
// radians about axis (axis need not be normalized).
func QuaternionFromAxisAngle(axis Vector, angle Val) Quaternion {
	u, ok := axis.Normalize()
	if !ok {
		return QuaternionIdentity()
	}
	half := angle / 2
	s := half.Sin()
	return Quaternion{u.X * s, u.Y * s, u.Z * s, half.Cos()}
}

func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quaternion) Conjugate() Quaternion { return Quaternion{-q.X, -q.Y, -q.Z, q.W} }

func (q Quaternion) Normalize() Quaternion {
	l := (q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W).Sqrt()
	if l.Abs() < Epsilon {
		return QuaternionIdentity()
	}
	inv := 1 / l
	return Quaternion{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// RotateVector applies the rotation to v via the sandwich product
// q v q⁻¹, specialized for unit q (q⁻¹ = conjugate).
func (q Quaternion) RotateVector(v Vector) Vector {
	qv := Quaternion{v.X, v.Y, v.Z, 0}
	r := q.Mul(qv).Mul(q.Conjugate())
	return Vector{r.X, r.Y, r.Z}
}

func (q Quaternion) RotateUnit(u UnitVector) UnitVector {
	r := q.RotateVector(u.Vector())
	uv, ok := r.Normalize()
	if !ok {
		return u
	}
	return uv
}

func (q Quaternion) RotatePoint(p Point) Point {
	r := q.RotateVector(Vector{p.X, p.Y, p.Z})
	return Point{r.X, r.Y, r.Z}
}
