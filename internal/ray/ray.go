// Package ray holds the events a scene query produces: Ray,
// RayIntersection, RayScattering, and RaySegment — a richer,
// UV-and-side-aware intersection record than a picking-ray hit test
// needs, extended with the volumetric RayScattering/RaySegment events
// a rasterizer never needs.
package ray

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/xform"
)

// Ray is immutable after construction: an origin point and a unit
// direction.
type Ray struct {
	Origin    numeric.Point
	Direction numeric.UnitVector
}

func NewRay(origin numeric.Point, dir numeric.UnitVector) Ray {
	return Ray{Origin: origin, Direction: dir}
}

// At evaluates the ray's position at parametric distance t.
func (r Ray) At(t numeric.Val) numeric.Point {
	return r.Origin.Add(r.Direction.Scale(t))
}

func (r Ray) Transform(s xform.Sequential) Ray {
	return Ray{
		Origin:    s.TransformPoint(r.Origin),
		Direction: s.TransformUnit(r.Direction),
	}
}

// Side records which face of a surface an intersection approaches
// from: Front is the outward-normal side, Back its opposite
// ( glossary).
type Side int

const (
	Front Side = iota
	Back
)

// UV is optional per-intersection texture coordinate.
type UV struct {
	U, V numeric.Val
}

// Intersection is a nearest-hit event: distance strictly positive,
// position, an outward-oriented normal, the side it was approached
// from, and an optional UV. Invariant:
// dot(ray.direction, normal) <= 0 on Front.
type Intersection struct {
	Distance numeric.Distance
	Position numeric.Point
	Normal   numeric.UnitVector
	Side     Side
	UV       UV
	HasUV    bool
}

func (i Intersection) Transform(s xform.Sequential) Intersection {
	scale := s.ScaleFactor()
	return Intersection{
		Distance: i.Distance * scale,
		Position: s.TransformPoint(i.Position),
		Normal:   s.TransformNormal(i.Normal),
		Side:     i.Side,
		UV:       i.UV,
		HasUV:    i.HasUV,
	}
}

// Scattering is a volumetric interaction event: a distance and the
// world position it corresponds to.
type Scattering struct {
	Distance numeric.Distance
	Position numeric.Point
}

func (s Scattering) Transform(t xform.Sequential) Scattering {
	return Scattering{
		Distance: s.Distance * t.ScaleFactor(),
		Position: t.TransformPoint(s.Position),
	}
}

// Segment is a contiguous portion of a ray's parametric axis: a start
// offset and a non-negative length.
type Segment struct {
	Start  numeric.Val
	Length numeric.Val
}

func NewSegment(start, length numeric.Val) Segment {
	if length.Less(0) {
		length = 0
	}
	return Segment{Start: start, Length: length}
}

func (s Segment) End() numeric.Val { return s.Start + s.Length }

// Intersect computes the overlap of two segments along the same
// parametric axis, or ok=false if they don't overlap.
func (s Segment) Intersect(o Segment) (Segment, bool) {
	start := numeric.Max(s.Start, o.Start)
	end := numeric.Min(s.End(), o.End())
	if end.LessEq(start) {
		return Segment{}, false
	}
	return Segment{Start: start, Length: end - start}, true
}

func (s Segment) Range() numeric.DistanceRange {
	return numeric.DistanceRange{Min: s.Start, Max: s.End(), MinClosed: true, MaxClosed: false}
}
