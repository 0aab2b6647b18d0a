package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/xform"
)

// Shape is the contract every primitive and Instance satisfies. It
// deliberately excludes sampler factories — those live in
// internal/sampling, which imports this package and builds
// point/light/photon samplers from any shape that implements
// Sampleable, avoiding an import cycle.
type Shape interface {
	Kind() Kind
	// Hit returns the nearest intersection with distance strictly
	// inside rng, or ok=false. The returned normal satisfies
	// dot(ray.Direction, normal) <= 0 on Front.
	Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool)
	// BoundingBox returns a tight local-frame AABB, or ok=false only
	// for unbounded shapes (an infinite Plane).
	BoundingBox() (BoundingBox, bool)
}

// Sampleable is implemented by shapes that support area sampling
// (used by internal/sampling to build point/light/photon samplers).
// Plane does not implement it (unbounded).
type Sampleable interface {
	Shape
	Area() numeric.Area
	// SamplePointUniform draws a uniformly-distributed point on the
	// shape's surface, returning its position, outward normal, and the
	// area-measure pdf (1/Area for all current primitives).
	SamplePointUniform(u1, u2 numeric.Val) (p numeric.Point, n numeric.UnitVector, pdfArea numeric.Val)
	// Inside reports whether a (local-space) point lies in the
	// volume this shape bounds — used by VolumeScene
	// to decide which medium covers a parameter t. Spheres use signed
	// distance; planes have no interior and never implement this via
	// Sampleable (they aren't used as volume boundaries).
	Inside(p numeric.Point) bool
}

// BoundingBox is an axis-aligned box in some shape's local frame.
type BoundingBox struct {
	Min, Max numeric.Point
}

func (b BoundingBox) Transform(s xform.Sequential) BoundingBox {
	// Transform all 8 corners and take the enclosing AABB: correct for
	// any composition of rotation/translation/uniform-scale, unlike
	// transforming Min/Max alone which only works for axis-aligned
	// transforms.
	corners := [8]numeric.Point{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	out := BoundingBox{
		Min: numeric.Point{X: numeric.INFINITY, Y: numeric.INFINITY, Z: numeric.INFINITY},
		Max: numeric.Point{X: -numeric.INFINITY, Y: -numeric.INFINITY, Z: -numeric.INFINITY},
	}
	for _, c := range corners {
		wc := s.TransformPoint(c)
		out.Min = numeric.Point{X: numeric.Min(out.Min.X, wc.X), Y: numeric.Min(out.Min.Y, wc.Y), Z: numeric.Min(out.Min.Z, wc.Z)}
		out.Max = numeric.Point{X: numeric.Max(out.Max.X, wc.X), Y: numeric.Max(out.Max.Y, wc.Y), Z: numeric.Max(out.Max.Z, wc.Z)}
	}
	return out
}

// Hit tests a ray against an AABB using the standard per-axis
// reciprocal-direction slab test, returning only whether the box is
// hit within rng (not the entry distance).
func (b BoundingBox) Hit(r ray.Ray, rng numeric.DistanceRange) bool {
	tmin, tmax := rng.Min, rng.Max
	dirs := [3]numeric.Val{r.Direction.X, r.Direction.Y, r.Direction.Z}
	origin := [3]numeric.Val{r.Origin.X, r.Origin.Y, r.Origin.Z}
	bmin := [3]numeric.Val{b.Min.X, b.Min.Y, b.Min.Z}
	bmax := [3]numeric.Val{b.Max.X, b.Max.Y, b.Max.Z}
	for axis := 0; axis < 3; axis++ {
		if dirs[axis].Abs() < numeric.Epsilon {
			if origin[axis].Less(bmin[axis]) || origin[axis].Greater(bmax[axis]) {
				return false
			}
			continue
		}
		invD := 1 / dirs[axis]
		t0 := (bmin[axis] - origin[axis]) * invD
		t1 := (bmax[axis] - origin[axis]) * invD
		if t0.Greater(t1) {
			t0, t1 = t1, t0
		}
		tmin = numeric.Max(tmin, t0)
		tmax = numeric.Min(tmax, t1)
		if tmax.Less(tmin) {
			return false
		}
	}
	return true
}
