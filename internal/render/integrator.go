package render

import (
	"math/rand/v2"
	"sync/atomic"

	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/photon"
	"pathtracer/internal/ray"
	"pathtracer/internal/sampling"
	"pathtracer/internal/scenequery"
)

// Config is the integrator's enumerated option set.
type Config struct {
	Iterations     int
	MaxDepth       int
	RRStartDepth   int
	BackgroundColor numeric.Spectrum
	// MaxRayDistance bounds volume-segment enumeration along a ray that
	// never hits a surface (an "environment" ray). The background color
	// is a configured constant rather than an environment map, so this
	// is also the distance used for segment enumeration past the last
	// surface.
	MaxRayDistance numeric.Val
	// Photons is the optional photon map built by BuildPhotonMap's
	// pre-pass. Nil disables the caustic gather entirely.
	Photons *photon.PhotonMap
	// PhotonGatherRadius and PhotonGatherK bound the fixed-radius
	// k-nearest-neighbor density estimate at the first diffuse hit.
	PhotonGatherRadius numeric.Val
	PhotonGatherK      int
}

// Diagnostics are atomic run-wide counters: NaN radiance recoveries
// and Russian-roulette terminations, incremented without locking since
// workers only ever add to them.
type Diagnostics struct {
	NaNSamples   atomic.Int64
	RRTerminated atomic.Int64
}

// Scene bundles everything the integrator needs read-only access to
// during a render: the two scene-query structures, the material/medium
// pools entities and volumes reference by Id, and the light aggregate
// built once at scene-load time (a MultiLight).
type Scene struct {
	Entities  *scenequery.EntityScene
	Volumes   *scenequery.VolumeScene
	Materials *material.Pool
	Media     *medium.Pool
	Lights    *sampling.MultiLight
}

// Integrator implements recursive path tracing: trace(ray, depth)
// combines surface and volumetric transport with multiple importance
// sampling, recursing on the sampled next direction until max depth or
// Russian-roulette termination.
type Integrator struct {
	scene Scene
	cfg   Config
	diag  *Diagnostics
}

func NewIntegrator(scene Scene, cfg Config, diag *Diagnostics) *Integrator {
	return &Integrator{scene: scene, cfg: cfg, diag: diag}
}

// Trace computes the radiance seen along r, starting at depth 0 with
// full throughput and full emission weight (a camera ray sees
// emission directly, with nothing to MIS it against). NaN results are
// recovered to zero and counted in Diagnostics.
func (ig *Integrator) Trace(r ray.Ray, rng *rand.Rand) numeric.Spectrum {
	l := ig.trace(r, 0, 1, rng)
	if l.HasNaN() {
		ig.diag.NaNSamples.Add(1)
		return numeric.SpectrumBlack
	}
	return l.ClampNonNegative()
}

// trace threads emissionWeight through the recursion instead of a
// boolean skip flag: it is the balance-heuristic MIS weight to apply
// if this ray happens to land on emission, computed by the caller at
// the point the BSDF sampled this direction. Using a weight instead of
// a binary skip means a BSDF-sampled ray that happens to hit a light
// is correctly down-weighted rather than either fully counted or fully
// dropped, avoiding double-counting emission already captured by
// direct lighting.
func (ig *Integrator) trace(r ray.Ray, depth int, emissionWeight numeric.Val, rng *rand.Rand) numeric.Spectrum {
	hit, hasHit := ig.scene.Entities.FindNearest(r, numeric.PositiveRange())

	var segmentRange numeric.Val
	if hasHit {
		segmentRange = hit.Intersection.Distance
	} else {
		segmentRange = ig.cfg.MaxRayDistance
	}

	transmittance, inScatter := ig.volumetricPass(r, segmentRange, rng)

	if !hasHit {
		return transmittance.Mul(ig.cfg.BackgroundColor).Add(inScatter)
	}

	surface := ig.surfaceContribution(r, hit, depth, emissionWeight, rng)
	return transmittance.Mul(surface).Add(inScatter)
}

// volumetricPass walks the volume segments from near to far up to
// distance maxT, accumulating transmittance and a single-scatter
// in-scattering estimate per segment. Direct lighting at each
// scattering point is estimated against the medium's own extinction
// within that segment; MIS between the medium's native exponential
// distance sampler and the equi-angular strategy is applied only when
// a light is registered.
func (ig *Integrator) volumetricPass(r ray.Ray, maxT numeric.Val, rng *rand.Rand) (numeric.Spectrum, numeric.Spectrum) {
	transmittance := numeric.SpectrumWhite
	inScatter := numeric.SpectrumBlack
	if maxT.LessEq(0) {
		return transmittance, inScatter
	}

	segs := ig.scene.Volumes.FindSegments(r, numeric.Bounded(maxT))
	for _, seg := range segs {
		m := ig.scene.Media.Get(seg.Medium)
		if m.Kind() == medium.KindVacuum {
			continue
		}
		segment := ray.NewSegment(seg.Start, seg.Length)
		transmittance = transmittance.Mul(m.Transmittance(segment))

		ds := sampling.NewDistanceSampling(m)
		exp := ds.SampleExponential(r, segment, rng)
		if !exp.Scattered {
			continue
		}

		scatterPos := exp.Scattering.Position
		lightSample, ok := ig.scene.Lights.SampleLight(scatterPos, numeric.Val(rng.Float64()), numeric.Val(rng.Float64()), rng)
		if !ok {
			continue
		}

		pdf := exp.PDF
		if ig.scene.Lights.Len() > 0 {
			_, eqPDF := ds.SampleEquiAngular(r, segment, scatterPos.Add(lightSample.Direction.Scale(lightSample.Distance)), rng)
			pdf = sampling.CombinedPDF(exp.PDF, eqPDF)
		}
		if pdf.LessEq(0) {
			continue
		}

		phase := m.Phase(r.Direction.Negate(), lightSample.Direction)
		toLightTrans := m.Transmittance(ray.NewSegment(0, lightSample.Distance))
		contribution := phase.Mul(lightSample.Radiance).Mul(toLightTrans).Scale(1 / (pdf * lightSample.PDF))
		inScatter = inScatter.Add(transmittance.Mul(contribution))
	}
	return transmittance, inScatter
}

// surfaceContribution evaluates emission, direct lighting, the caustic
// photon-map gather, and the recursive indirect bounce at a surface
// hit.
func (ig *Integrator) surfaceContribution(r ray.Ray, hit scenequery.Hit, depth int, emissionWeight numeric.Val, rng *rand.Rand) numeric.Spectrum {
	mat := ig.scene.Materials.Get(hit.Material)
	dirIn := r.Direction

	if mat.Kind() == material.KindEmissive {
		return mat.EmittedRadiance(hit.Intersection).Scale(emissionWeight)
	}

	direct := ig.directLighting(dirIn, hit, mat, rng)
	if depth == 0 && mat.Kind() == material.KindDiffuse {
		direct = direct.Add(ig.causticEstimate(dirIn, hit, mat))
	}

	indirect := numeric.SpectrumBlack
	if depth < ig.cfg.MaxDepth {
		cs := mat.SampleCoefficient(dirIn, hit.Intersection, rng)
		if cs.PDF.Greater(0) && !cs.Coefficient.IsZero() {
			survive, scale := ig.russianRoulette(depth, cs.Coefficient, rng)
			if survive {
				nextRay := ray.Ray{Origin: hit.Intersection.Position, Direction: cs.Direction}
				nextWeight := ig.bsdfEmissionWeight(hit, cs, rng)
				contribution := ig.trace(nextRay, depth+1, nextWeight, rng)
				indirect = cs.Coefficient.Scale(scale).Mul(contribution)
			}
		}
	}

	return direct.Add(indirect)
}

// bsdfEmissionWeight is the MIS weight the next bounce's emission (if
// it lands on a light) must be scaled by: a delta bounce has no NEE
// counterpart so it sees emission at full weight, and a non-delta
// bounce is weighted by the balance heuristic against the light
// aggregate's mixture pdf at the sampled direction.
func (ig *Integrator) bsdfEmissionWeight(hit scenequery.Hit, cs material.CoefficientSample, rng *rand.Rand) numeric.Val {
	if cs.IsDelta {
		return 1
	}
	lightPDF := ig.scene.Lights.PDFLight(hit.Intersection.Position, cs.Direction)
	if lightPDF.LessEq(0) {
		return 1
	}
	return balanceWeight(cs.PDF, lightPDF)
}

// directLighting evaluates emission-excluded direct illumination via
// light sampling, MIS-weighted against the material's own BSDF-sampling
// strategy (balance heuristic). Delta materials (Specular/Refractive)
// have no well-defined BSDF value to combine with NEE, so they
// contribute zero direct lighting here; their emission-carrying paths
// are instead picked up by the indirect bounce seeing the light
// directly at full weight (bsdfEmissionWeight).
func (ig *Integrator) directLighting(dirIn numeric.UnitVector, hit scenequery.Hit, mat material.Material, rng *rand.Rand) numeric.Spectrum {
	if mat.Kind() == material.KindSpecular || mat.Kind() == material.KindRefractive {
		return numeric.SpectrumBlack
	}

	ls, ok := ig.scene.Lights.SampleLight(hit.Intersection.Position, numeric.Val(rng.Float64()), numeric.Val(rng.Float64()), rng)
	if !ok {
		return numeric.SpectrumBlack
	}

	bsdf := mat.BSDF(dirIn, hit.Intersection, ls.Direction)
	if bsdf.IsZero() {
		return numeric.SpectrumBlack
	}
	cosTheta := hit.Intersection.Normal.DotVector(ls.Direction.Vector())
	if cosTheta.LessEq(0) {
		return numeric.SpectrumBlack
	}
	if !shadowVisible(ig.scene.Entities, hit.Intersection.Position, ls.Direction, ls.Distance) {
		return numeric.SpectrumBlack
	}

	bsdfPDF := mat.PDFCoefficient(dirIn, hit.Intersection, ls.Direction)
	weight := balanceWeight(ls.PDF, bsdfPDF)
	return bsdf.Mul(ls.Radiance).Scale(cosTheta * weight / ls.PDF)
}

// causticEstimate is the photon-map density estimate at the first
// diffuse surface a camera path reaches: a fixed-radius
// k-nearest-neighbor gather over photons stored along
// specular-then-diffuse paths (StorageCaustic), which direct lighting
// and BSDF-sampled indirect bounces alone converge to only very
// slowly. Returns zero when no photon map was built.
func (ig *Integrator) causticEstimate(dirIn numeric.UnitVector, hit scenequery.Hit, mat material.Material) numeric.Spectrum {
	if ig.cfg.Photons == nil || ig.cfg.Photons.Len() == 0 || ig.cfg.PhotonGatherK <= 0 {
		return numeric.SpectrumBlack
	}
	photons := ig.cfg.Photons.NearestK(hit.Intersection.Position, ig.cfg.PhotonGatherK, ig.cfg.PhotonGatherRadius, photon.StorageCaustic)
	if len(photons) == 0 {
		return numeric.SpectrumBlack
	}
	discArea := numeric.PI * ig.cfg.PhotonGatherRadius * ig.cfg.PhotonGatherRadius
	if discArea.LessEq(0) {
		return numeric.SpectrumBlack
	}

	sum := numeric.SpectrumBlack
	for _, p := range photons {
		bsdf := mat.BSDF(dirIn, hit.Intersection, p.Direction.Negate())
		if bsdf.IsZero() {
			continue
		}
		sum = sum.Add(bsdf.Mul(p.Power))
	}
	return sum.Scale(1 / discArea)
}

// balanceWeight is the two-strategy balance heuristic MIS weight for
// strategy A given both strategies' pdfs at the same sample.
func balanceWeight(pdfA, pdfB numeric.Val) numeric.Val {
	sum := pdfA + pdfB
	if sum.LessEq(0) {
		return 0
	}
	return pdfA / sum
}

// shadowVisible reports whether nothing occludes the segment between
// from and from+direction*distance (exclusive of the light surface
// itself, which is reached by stopping just short of distance).
func shadowVisible(entities *scenequery.EntityScene, from numeric.Point, dir numeric.UnitVector, distance numeric.Val) bool {
	shadowRay := ray.Ray{Origin: from, Direction: dir}
	rng := numeric.DistanceRange{Min: numeric.Epsilon, Max: distance - numeric.Epsilon, MinClosed: false, MaxClosed: false}
	if rng.Max.LessEq(rng.Min) {
		return true
	}
	_, hit := entities.FindNearest(shadowRay, rng)
	return !hit
}

// russianRoulette implements unbiased path termination: below
// RRStartDepth every path survives; at or past it, survival
// probability is the coefficient's max channel clamped to [0,1], and
// surviving paths are rescaled by 1/p.
func (ig *Integrator) russianRoulette(depth int, coefficient numeric.Spectrum, rng *rand.Rand) (bool, numeric.Val) {
	if depth < ig.cfg.RRStartDepth {
		return true, 1
	}
	p := numeric.Clamp(coefficient.MaxComponent(), 0, 1)
	if p.LessEq(0) {
		ig.diag.RRTerminated.Add(1)
		return false, 0
	}
	if numeric.Val(rng.Float64()).Greater(p) {
		ig.diag.RRTerminated.Add(1)
		return false, 0
	}
	return true, 1 / p
}
