package shape

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// Polygon is a planar convex polygon (≥3 vertices), hit-tested as a
// fan of Triangles anchored at Vertices[0] — the same fan
// decomposition mesh construction uses, applied here to a single
// standalone primitive rather than many mesh faces.
type Polygon struct {
	Vertices []numeric.Point
	Normal   numeric.UnitVector
	UVs      []ray.UV
	HasUV    bool
}

const planarityEpsilon = numeric.Val(1e-5)

// NewPolygon validates at least 3 vertices and coplanarity, returning
// a GeometryError otherwise ("non-planar polygon").
func NewPolygon(vertices []numeric.Point) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, rerr.GeometryErrorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	e1 := vertices[1].Sub(vertices[0])
	e2 := vertices[2].Sub(vertices[0])
	n, ok := e1.Cross(e2).Normalize()
	if !ok {
		return Polygon{}, rerr.GeometryErrorf("polygon is degenerate (zero area)")
	}
	for i := 3; i < len(vertices); i++ {
		d := vertices[i].Sub(vertices[0]).Dot(n.Vector())
		if d.Abs().Greater(planarityEpsilon) {
			return Polygon{}, rerr.GeometryErrorf("polygon vertex %d is not coplanar (deviation %v)", i, d.Float64())
		}
	}
	return Polygon{Vertices: append([]numeric.Point(nil), vertices...), Normal: n}, nil
}

func (p Polygon) WithUV(uvs []ray.UV) Polygon {
	p.UVs = append([]ray.UV(nil), uvs...)
	p.HasUV = len(uvs) == len(p.Vertices)
	return p
}

func (p Polygon) Kind() Kind { return KindPolygon }

// fanTriangles yields the fan-triangulated faces anchored at vertex 0.
func (p Polygon) fanTriangles() []Triangle {
	tris := make([]Triangle, 0, len(p.Vertices)-2)
	for i := 1; i < len(p.Vertices)-1; i++ {
		tri := Triangle{V0: p.Vertices[0], V1: p.Vertices[i], V2: p.Vertices[i+1]}
		if p.HasUV {
			tri = tri.WithUV(p.UVs[0], p.UVs[i], p.UVs[i+1])
		}
		tris = append(tris, tri)
	}
	return tris
}

func (p Polygon) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	var best ray.Intersection
	found := false
	for _, tri := range p.fanTriangles() {
		if hit, ok := tri.Hit(r, rng); ok {
			if !found || hit.Distance.Less(best.Distance) {
				best, found = hit, true
			}
		}
	}
	return best, found
}

func (p Polygon) BoundingBox() (BoundingBox, bool) {
	min := p.Vertices[0]
	max := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min = numeric.Point{X: numeric.Min(min.X, v.X), Y: numeric.Min(min.Y, v.Y), Z: numeric.Min(min.Z, v.Z)}
		max = numeric.Point{X: numeric.Max(max.X, v.X), Y: numeric.Max(max.Y, v.Y), Z: numeric.Max(max.Z, v.Z)}
	}
	return BoundingBox{Min: min, Max: max}, true
}

func (p Polygon) Area() numeric.Area {
	var total numeric.Val
	for _, tri := range p.fanTriangles() {
		total += tri.Area()
	}
	return total
}

func (p Polygon) SamplePointUniform(u1, u2 numeric.Val) (numeric.Point, numeric.UnitVector, numeric.Val) {
	tris := p.fanTriangles()
	// Select a fan triangle with probability proportional to its
	// area (re-using u1's fractional remainder after selection as the
	// in-triangle u1, which keeps this a single two-number draw).
	total := p.Area()
	target := u1 * total
	var acc numeric.Val
	idx := len(tris) - 1
	for i, tri := range tris {
		if i == idx || target.LessEq(acc+tri.Area()) {
			idx = i
			break
		}
		acc += tri.Area()
	}
	localU1 := u1
	if a := tris[idx].Area(); a.Greater(0) {
		localU1 = numeric.Clamp((target-acc)/a, 0, 1)
	}
	pt, _, _ := tris[idx].SamplePointUniform(localU1, u2)
	return pt, p.Normal, 1 / total
}

func (p Polygon) Inside(numeric.Point) bool { return false }
