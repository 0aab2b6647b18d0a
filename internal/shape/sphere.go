package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// Sphere(c, r) solves the standard ray-sphere quadratic directly.
type Sphere struct {
	Center numeric.Point
	Radius numeric.Val
}

// NewSphere validates radius > 0, returning a GeometryError otherwise.
func NewSphere(center numeric.Point, radius numeric.Val) (Sphere, error) {
	if radius.LessEq(0) {
		return Sphere{}, rerr.GeometryErrorf("sphere radius must be positive, got %v", radius.Float64())
	}
	return Sphere{Center: center, Radius: radius}, nil
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	oc := r.Origin.Sub(s.Center)
	d := r.Direction.Vector()
	a := d.Dot(d) // == 1 for a unit direction, kept explicit for clarity
	b := 2 * oc.Dot(d)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc.Less(0) {
		return ray.Intersection{}, false
	}
	sq := disc.Sqrt()
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)

	t, ok := smallestPositiveInRange(t0, t1, rng)
	if !ok {
		return ray.Intersection{}, false
	}

	pos := r.At(t)
	outward, normOK := pos.Sub(s.Center).Normalize()
	if !normOK {
		return ray.Intersection{}, false
	}
	side := ray.Front
	normal := outward
	if r.Direction.Dot(outward).Greater(0) {
		side = ray.Back
		normal = outward.Negate()
	}
	return ray.Intersection{Distance: t, Position: pos, Normal: normal, Side: side}, true
}

func smallestPositiveInRange(t0, t1 numeric.Val, rng numeric.DistanceRange) (numeric.Val, bool) {
	if t0.Greater(t1) {
		t0, t1 = t1, t0
	}
	if rng.Contains(t0) {
		return t0, true
	}
	if rng.Contains(t1) {
		return t1, true
	}
	return 0, false
}

func (s Sphere) BoundingBox() (BoundingBox, bool) {
	r := numeric.Vector{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return BoundingBox{Min: s.Center.Minus(r), Max: s.Center.Add(r)}, true
}

func (s Sphere) Area() numeric.Area {
	return 4 * numeric.PI * s.Radius * s.Radius
}

// SamplePointUniform draws uniformly on the sphere via the standard
// rejection-free z/phi parameterization.
func (s Sphere) SamplePointUniform(u1, u2 numeric.Val) (numeric.Point, numeric.UnitVector, numeric.Val) {
	z := 1 - 2*u1
	r := numeric.Max(0, 1-z*z).Sqrt()
	phi := 2 * numeric.PI * u2
	x := r * phi.Cos()
	y := r * phi.Sin()
	local := numeric.UnitVector{X: x, Y: y, Z: z}
	p := s.Center.Add(local.Scale(s.Radius))
	pdfArea := 1 / s.Area()
	return p, local, pdfArea
}

// Inside uses a signed-distance test against the sphere's radius.
func (s Sphere) Inside(p numeric.Point) bool {
	return p.Sub(s.Center).LengthSq().Less(s.Radius * s.Radius)
}
