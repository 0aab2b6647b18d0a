// Package sampling implements the sampler library backing Monte Carlo
// estimation: point-on-shape, direct-light, photon-emission, distance,
// and phase samplers, plus the aggregate and instance-wrapper machinery
// that keeps every sampler's unbiased-estimator contract intact under
// transformation. It imports internal/shape and internal/material
// rather than the reverse, which is why those packages keep their
// sampler-construction logic out of their own interfaces.
package sampling

import (
	"math/rand/v2"

	"pathtracer/internal/material"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/shape"
	"pathtracer/internal/xform"
)

// PointSample is what PointSampling.Sample returns: a point on a
// shape's surface, its outward normal, and the area-measure pdf of
// that point (world pdf = prototype pdf / |J_area| under transform).
type PointSample struct {
	Position numeric.Point
	Normal   numeric.UnitVector
	PDFArea  numeric.Val
}

// PointSampling draws a uniform point on a shape's surface. It is the
// building block LightSampling and PhotonSampling are layered on. Hit
// lets a LightSampling recover the actual surface point/normal a given
// direction lands on, for MIS-weighting a BSDF-sampled ray against
// this light's solid-angle pdf.
type PointSampling interface {
	SamplePoint(u1, u2 numeric.Val) PointSample
	Area() numeric.Area
	Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool)
}

// shapePointSampling adapts a shape.Sampleable directly — the base
// case with no transform pullback/pushforward.
type shapePointSampling struct {
	s shape.Sampleable
}

func NewPointSampling(s shape.Sampleable) PointSampling {
	return shapePointSampling{s: s}
}

func (p shapePointSampling) SamplePoint(u1, u2 numeric.Val) PointSample {
	pos, n, pdf := p.s.SamplePointUniform(u1, u2)
	return PointSample{Position: pos, Normal: n, PDFArea: pdf}
}

func (p shapePointSampling) Area() numeric.Area { return p.s.Area() }

func (p shapePointSampling) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	return p.s.Hit(r, rng)
}

// instancePointSampling wraps a PointSampling for a prototype sampled
// in its local frame, pushing points/normals forward by T and
// rescaling the area pdf by the area Jacobian s².
// Because shape.Instance already implements Sampleable end-to-end
// (see internal/shape/instance.go), this adapter exists for the case
// where the *sampler*, not just the shape, needs explicit transform
// bookkeeping — e.g. when a LightSampling built over the prototype's
// sampler is reused across several Instance placements of the same
// light without re-deriving a fresh Sampleable each time.
type instancePointSampling struct {
	proto PointSampling
	t     xform.Sequential
}

func NewInstancePointSampling(proto PointSampling, t xform.Sequential) PointSampling {
	return instancePointSampling{proto: proto, t: t}
}

func (p instancePointSampling) SamplePoint(u1, u2 numeric.Val) PointSample {
	s := p.proto.SamplePoint(u1, u2)
	scale := p.t.ScaleFactor()
	return PointSample{
		Position: p.t.TransformPoint(s.Position),
		Normal:   p.t.TransformNormal(s.Normal),
		PDFArea:  s.PDFArea / (scale * scale),
	}
}

func (p instancePointSampling) Area() numeric.Area {
	scale := p.t.ScaleFactor()
	return p.proto.Area() * scale * scale
}

func (p instancePointSampling) Hit(r ray.Ray, rng numeric.DistanceRange) (ray.Intersection, bool) {
	inv := p.t.Inverse()
	scale := p.t.ScaleFactor()
	localRng := numeric.DistanceRange{
		Min:       rng.Min / scale,
		Max:       rng.Max / scale,
		MinClosed: rng.MinClosed,
		MaxClosed: rng.MaxClosed,
	}
	hit, ok := p.proto.Hit(r.Transform(inv), localRng)
	if !ok {
		return ray.Intersection{}, false
	}
	return hit.Transform(p.t), true
}

// LightSample is a solid-angle sample of a light as seen from a
// shading point: the direction to sample, the distance to the light
// surface, and the solid-angle pdf of having chosen that direction.
type LightSample struct {
	Direction numeric.UnitVector
	Distance  numeric.Val
	PDF       numeric.Val
	Radiance  numeric.Spectrum
}

// LightSampling samples an emissive shape's contribution at a shading
// point, and evaluates the solid-angle pdf of a given direction for
// MIS weighting against BSDF sampling.
type LightSampling interface {
	SampleLight(from numeric.Point, u1, u2 numeric.Val, rng *rand.Rand) (LightSample, bool)
	PDFLight(from numeric.Point, dirOut numeric.UnitVector) numeric.Val
	Power() numeric.Val
}

// shapeLightSampling turns a Sampleable shape plus the Emissive
// material painted on it into a LightSampling by converting the
// shape's area-measure sample into a solid-angle sample via the
// standard dA -> dω Jacobian cosθ·d²/Area.
type shapeLightSampling struct {
	pts  PointSampling
	emit material.Material
}

// NewShapeLightSampling builds the canonical solid-angle light
// sampler from a shape's point sampler and its emissive material.
func NewShapeLightSampling(pts PointSampling, emit material.Material) LightSampling {
	return shapeLightSampling{pts: pts, emit: emit}
}

func (l shapeLightSampling) SampleLight(from numeric.Point, u1, u2 numeric.Val, rng *rand.Rand) (LightSample, bool) {
	ps := l.pts.SamplePoint(u1, u2)
	toLight := ps.Position.Sub(from)
	distSq := toLight.LengthSq()
	if distSq.LessEq(0) {
		return LightSample{}, false
	}
	dir, ok := toLight.Normalize()
	if !ok {
		return LightSample{}, false
	}
	cosAtLight := ps.Normal.DotVector(dir.Vector().Neg())
	if cosAtLight.LessEq(0) {
		return LightSample{}, false
	}
	dist := distSq.Sqrt()
	pdfSolid := ps.PDFArea * distSq / cosAtLight
	if pdfSolid.LessEq(0) {
		return LightSample{}, false
	}
	hit := ray.Intersection{Position: ps.Position, Normal: ps.Normal}
	radiance := l.emit.EmittedRadiance(hit)
	return LightSample{Direction: dir, Distance: dist, PDF: pdfSolid, Radiance: radiance}, true
}

// PDFLight converts the shape's area pdf into the solid-angle pdf at
// dirOut as seen from "from": it casts along dirOut to find where the
// ray actually meets the light's surface, then hands the resulting
// hit point/normal to PDFLightAt for the dA -> dω conversion. Returns
// 0 if dirOut misses the light entirely.
func (l shapeLightSampling) PDFLight(from numeric.Point, dirOut numeric.UnitVector) numeric.Val {
	hit, ok := l.pts.Hit(ray.NewRay(from, dirOut), numeric.PositiveRange())
	if !ok {
		return 0
	}
	return PDFLightAt(l.pts, from, hit.Position, hit.Normal)
}

func (l shapeLightSampling) Power() numeric.Val {
	hit := ray.Intersection{}
	radiance := l.emit.EmittedRadiance(hit)
	return radiance.MaxComponent() * l.pts.Area()
}

// PDFLightAt is the solid-angle pdf of having sampled the light at an
// already-known hit, used when MIS-weighting a BSDF-sampled ray that
// happened to land on an emissive surface.
func PDFLightAt(pts PointSampling, from numeric.Point, hitPos numeric.Point, hitNormal numeric.UnitVector) numeric.Val {
	toLight := hitPos.Sub(from)
	distSq := toLight.LengthSq()
	if distSq.LessEq(0) {
		return 0
	}
	dir, ok := toLight.Normalize()
	if !ok {
		return 0
	}
	cosAtLight := hitNormal.DotVector(dir.Vector().Neg())
	if cosAtLight.LessEq(0) {
		return 0
	}
	area := pts.Area()
	if area.LessEq(0) {
		return 0
	}
	pdfArea := 1 / area
	return pdfArea * distSq / cosAtLight
}

// instanceLightSampling pulls the shading ray back by T⁻¹, delegates
// to the prototype, and pushes the sample forward by T, rescaling the
// pdf by the solid-angle Jacobian.
type instanceLightSampling struct {
	proto LightSampling
	t     xform.Sequential
}

func NewInstanceLightSampling(proto LightSampling, t xform.Sequential) LightSampling {
	return instanceLightSampling{proto: proto, t: t}
}

func (l instanceLightSampling) SampleLight(from numeric.Point, u1, u2 numeric.Val, rng *rand.Rand) (LightSample, bool) {
	inv := l.t.Inverse()
	localFrom := inv.TransformPoint(from)
	s, ok := l.proto.SampleLight(localFrom, u1, u2, rng)
	if !ok {
		return LightSample{}, false
	}
	scale := l.t.ScaleFactor()
	worldDir := l.t.TransformUnit(s.Direction)
	worldDist := s.Distance * scale
	// Solid angle scales as 1/distance², and the transform scales
	// distance by `scale`; rescale the pdf so the estimator contract
	// holds under uniform scaling of the prototype.
	worldPDF := s.PDF / (scale * scale)
	return LightSample{Direction: worldDir, Distance: worldDist, PDF: worldPDF, Radiance: s.Radiance}, true
}

func (l instanceLightSampling) PDFLight(from numeric.Point, dirOut numeric.UnitVector) numeric.Val {
	inv := l.t.Inverse()
	localFrom := inv.TransformPoint(from)
	localDir := inv.TransformUnit(dirOut)
	scale := l.t.ScaleFactor()
	return l.proto.PDFLight(localFrom, localDir) / (scale * scale)
}

func (l instanceLightSampling) Power() numeric.Val {
	scale := l.t.ScaleFactor()
	return l.proto.Power() * scale * scale
}

// PhotonRay is what PhotonSampling.Emit returns: an emitted ray
// carrying its throughput, i.e. radiance·cosθ·area / (pdf_pos·pdf_dir).
type PhotonRay struct {
	Ray        ray.Ray
	Throughput numeric.Spectrum
}

// PhotonSampling emits photons from an emissive shape for the
// optional photon-map pre-pass.
type PhotonSampling interface {
	Emit(rng *rand.Rand) PhotonRay
}

type shapePhotonSampling struct {
	pts  PointSampling
	emit material.Material
}

func NewShapePhotonSampling(pts PointSampling, emit material.Material) PhotonSampling {
	return shapePhotonSampling{pts: pts, emit: emit}
}

func (p shapePhotonSampling) Emit(rng *rand.Rand) PhotonRay {
	u1, u2 := numeric.Val(rng.Float64()), numeric.Val(rng.Float64())
	ps := p.pts.SamplePoint(u1, u2)

	dir, pdfDir := cosineSampleHemisphere(ps.Normal, numeric.Val(rng.Float64()), numeric.Val(rng.Float64()))
	cosTheta := ps.Normal.DotVector(dir.Vector())

	hit := ray.Intersection{Position: ps.Position, Normal: ps.Normal}
	radiance := p.emit.EmittedRadiance(hit)

	area := p.pts.Area()
	var throughput numeric.Spectrum
	if ps.PDFArea.Greater(0) && pdfDir.Greater(0) {
		throughput = radiance.Scale(cosTheta * area / (ps.PDFArea * pdfDir))
	}
	return PhotonRay{
		Ray:        ray.Ray{Origin: ps.Position, Direction: dir},
		Throughput: throughput,
	}
}

// instancePhotonSampling pushes the emitted ray forward by T and
// rescales throughput if the prototype's area changed under scaling.
type instancePhotonSampling struct {
	proto PhotonSampling
	t     xform.Sequential
	area  numeric.Area
}

func NewInstancePhotonSampling(proto PhotonSampling, t xform.Sequential, protoArea numeric.Area) PhotonSampling {
	return instancePhotonSampling{proto: proto, t: t, area: protoArea}
}

func (p instancePhotonSampling) Emit(rng *rand.Rand) PhotonRay {
	local := p.proto.Emit(rng)
	scale := p.t.ScaleFactor()
	worldRay := ray.Ray{
		Origin:    p.t.TransformPoint(local.Ray.Origin),
		Direction: p.t.TransformUnit(local.Ray.Direction),
	}
	// Area scales as s²; throughput carries ...·area/(pdf_pos·pdf_dir)
	// and pdf_pos scales as 1/s², so area/pdf_pos scales as s⁴ — but
	// since both factors come from the same prototype sample, the net
	// rescaling needed here is exactly s² (area Jacobian), matching
	// PointSampling's own pdf rescaling.
	return PhotonRay{Ray: worldRay, Throughput: local.Throughput.Scale(scale * scale)}
}

// cosineSampleHemisphere mirrors internal/material's private helper
// of the same name; duplicated here (rather than exported from
// material) because photon emission is a geometric sampling concern
// that belongs in this package, not the material package's BSDF
// contract.
func cosineSampleHemisphere(n numeric.UnitVector, u1, u2 numeric.Val) (numeric.UnitVector, numeric.Val) {
	r := u1.Sqrt()
	phi := 2 * numeric.PI * u2
	x := r * phi.Cos()
	y := r * phi.Sin()
	z := numeric.Max(0, 1-u1).Sqrt()

	t, b := numeric.OrthonormalBasis(n)
	dir := t.Scale(x).Add(b.Scale(y)).Add(n.Scale(z))
	uv, ok := dir.Normalize()
	if !ok {
		uv = n
	}
	return uv, z / numeric.PI
}
