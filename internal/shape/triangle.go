package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// Triangle: vertex positions plus optional per-vertex UVs. Hit uses
// the Möller-Trumbore intersection test with no cull policy — both
// faces are tested and Side is recorded from the signed area, since an
// opaque-only picking test would miss the back faces a translucent or
// refractive material needs to see.
type Triangle struct {
	V0, V1, V2 numeric.Point
	UV0, UV1, UV2 ray.UV
	HasUV         bool
}

// NewTriangle validates non-degeneracy (GeometryError otherwise).
func NewTriangle(v0, v1, v2 numeric.Point) (Triangle, error) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	if e1.Cross(e2).LengthSq().Less(numeric.Epsilon * numeric.Epsilon) {
		return Triangle{}, rerr.GeometryErrorf("triangle vertices are degenerate (zero area)")
	}
	return Triangle{V0: v0, V1: v1, V2: v2}, nil
}

func (t Triangle) WithUV(uv0, uv1, uv2 ray.UV) Triangle {
	t.UV0, t.UV1, t.UV2 = uv0, uv1, uv2
	t.HasUV = true
	return t
}

func (t Triangle) Kind() Kind { return KindTriangle }

func (t Triangle) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	d := r.Direction.Vector()
	pvec := d.Cross(e2)
	det := e1.Dot(pvec)
	if det.Abs().Less(numeric.Epsilon) {
		return ray.Intersection{}, false
	}
	invDet := 1 / det
	tvec := r.Origin.Sub(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u.Less(0) || u.Greater(1) {
		return ray.Intersection{}, false
	}
	qvec := tvec.Cross(e1)
	v := d.Dot(qvec) * invDet
	if v.Less(0) || (u + v).Greater(1) {
		return ray.Intersection{}, false
	}
	dist := e2.Dot(qvec) * invDet
	if dist.LessEq(0) || !rng.Contains(dist) {
		return ray.Intersection{}, false
	}

	geomNormal, ok := e1.Cross(e2).Normalize()
	if !ok {
		return ray.Intersection{}, false
	}
	side := ray.Front
	normal := geomNormal
	// No back-face cull: record Side from the signed area (det's
	// sign), flipping the shading normal to face the ray on Back.
	if det.Less(0) {
		side = ray.Back
		normal = geomNormal.Negate()
	}

	hit := ray.Intersection{Distance: dist, Position: r.At(dist), Normal: normal, Side: side}
	if t.HasUV {
		w := 1 - u - v
		hit.UV = ray.UV{
			U: w*t.UV0.U + u*t.UV1.U + v*t.UV2.U,
			V: w*t.UV0.V + u*t.UV1.V + v*t.UV2.V,
		}
		hit.HasUV = true
	}
	return hit, true
}

func (t Triangle) BoundingBox() (BoundingBox, bool) {
	min := numeric.Point{
		X: numeric.Min(t.V0.X, numeric.Min(t.V1.X, t.V2.X)),
		Y: numeric.Min(t.V0.Y, numeric.Min(t.V1.Y, t.V2.Y)),
		Z: numeric.Min(t.V0.Z, numeric.Min(t.V1.Z, t.V2.Z)),
	}
	max := numeric.Point{
		X: numeric.Max(t.V0.X, numeric.Max(t.V1.X, t.V2.X)),
		Y: numeric.Max(t.V0.Y, numeric.Max(t.V1.Y, t.V2.Y)),
		Z: numeric.Max(t.V0.Z, numeric.Max(t.V1.Z, t.V2.Z)),
	}
	return BoundingBox{Min: min, Max: max}, true
}

func (t Triangle) Area() numeric.Area {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Length() / 2
}

func (t Triangle) SamplePointUniform(u1, u2 numeric.Val) (numeric.Point, numeric.UnitVector, numeric.Val) {
	su1 := u1.Sqrt()
	b0 := 1 - su1
	b1 := u2 * su1
	b2 := 1 - b0 - b1
	p := numeric.Point{
		X: b0*t.V0.X + b1*t.V1.X + b2*t.V2.X,
		Y: b0*t.V0.Y + b1*t.V1.Y + b2*t.V2.Y,
		Z: b0*t.V0.Z + b1*t.V1.Z + b2*t.V2.Z,
	}
	n, _ := t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
	return p, n, 1 / t.Area()
}

func (t Triangle) Inside(numeric.Point) bool { return false }
