package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Plane(p0, n) is unbounded: it is the one shape whose BoundingBox
// returns ok=false.
type Plane struct {
	Point  numeric.Point
	Normal numeric.UnitVector
}

func NewPlane(p numeric.Point, n numeric.UnitVector) Plane {
	return Plane{Point: p, Normal: n}
}

func (p Plane) Kind() Kind { return KindPlane }

const planeDenomEpsilon = numeric.Val(1e-8)

func (p Plane) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	denom := r.Direction.DotVector(p.Normal.Vector())
	if denom.Abs().LessEq(planeDenomEpsilon) {
		return ray.Intersection{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal.Vector()) / denom
	if t.LessEq(0) || !rng.Contains(t) {
		return ray.Intersection{}, false
	}
	side := ray.Front
	normal := p.Normal
	if denom.Greater(0) {
		side = ray.Back
		normal = p.Normal.Negate()
	}
	return ray.Intersection{Distance: t, Position: r.At(t), Normal: normal, Side: side}, true
}

func (p Plane) BoundingBox() (BoundingBox, bool) {
	return BoundingBox{}, false
}
