package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/xform"
)

// Instance wraps any Shape with a Sequential transform, letting many
// placements share one prototype. Go's garbage collector already
// gives every Shape interface value (and the pointers/slices most
// primitives hold) reference-counted sharing semantics for free, so
// Prototype is a plain Shape value rather than an explicit Rc-style
// wrapper.
type Instance struct {
	Prototype Shape
	Transform xform.Sequential
}

func NewInstance(prototype Shape, t xform.Sequential) Instance {
	return Instance{Prototype: prototype, Transform: t}
}

func (i Instance) Kind() Kind { return KindInstance }

// Hit transforms ray by T⁻¹ into prototype space, queries the
// prototype with the range expressed in prototype-space distance
// units (dividing by the scale factor, since the prototype has no
// notion of the world-space scale), then transforms the result back.
func (i Instance) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	inv := i.Transform.Inverse()
	localRay := r.Transform(inv)

	scale := i.Transform.ScaleFactor()
	localRange := numeric.DistanceRange{
		Min:       rng.Min / scale,
		Max:       rng.Max / scale,
		MinClosed: rng.MinClosed,
		MaxClosed: rng.MaxClosed,
	}

	hit, ok := i.Prototype.Hit(localRay, localRange)
	if !ok {
		return ray.Intersection{}, false
	}
	return hit.Transform(i.Transform), true
}

func (i Instance) BoundingBox() (BoundingBox, bool) {
	box, ok := i.Prototype.BoundingBox()
	if !ok {
		return BoundingBox{}, false
	}
	return box.Transform(i.Transform), true
}

// Area rescales the prototype's area by the square of the uniform
// scale factor (area scales with the square of a linear dimension).
func (i Instance) Area() numeric.Area {
	s, ok := i.Prototype.(Sampleable)
	if !ok {
		return 0
	}
	scale := i.Transform.ScaleFactor()
	return s.Area() * scale * scale
}

// SamplePointUniform preserves the unbiased-estimator contract
//: world pdf = prototype pdf / |J_area|, where the area
// Jacobian for uniform scale s is s². Point and normal are pushed
// forward through Transform.
func (i Instance) SamplePointUniform(u1, u2 numeric.Val) (numeric.Point, numeric.UnitVector, numeric.Val) {
	s, ok := i.Prototype.(Sampleable)
	if !ok {
		return numeric.Point{}, numeric.UnitVector{}, 0
	}
	p, n, pdfArea := s.SamplePointUniform(u1, u2)
	scale := i.Transform.ScaleFactor()
	worldPdf := pdfArea / (scale * scale)
	return i.Transform.TransformPoint(p), i.Transform.TransformNormal(n), worldPdf
}

func (i Instance) Inside(p numeric.Point) bool {
	s, ok := i.Prototype.(Sampleable)
	if !ok {
		return false
	}
	local := i.Transform.Inverse().TransformPoint(p)
	return s.Inside(local)
}
