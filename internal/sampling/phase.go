package sampling

import (
	"math/rand/v2"

	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// PhaseSampling wraps a medium's phase function so the integrator
// samples/evaluates it uniformly with the other sampler families.
type PhaseSampling interface {
	Sample(dirIn numeric.UnitVector, rng *rand.Rand) (dirOut numeric.UnitVector, pdf numeric.Val)
	PDF(dirOut, dirIn numeric.UnitVector) numeric.Val
	Eval(dirOut, dirIn numeric.UnitVector) numeric.Spectrum
}

type mediumPhaseSampling struct {
	m medium.Medium
}

func NewPhaseSampling(m medium.Medium) PhaseSampling { return mediumPhaseSampling{m: m} }

func (p mediumPhaseSampling) Sample(dirIn numeric.UnitVector, rng *rand.Rand) (numeric.UnitVector, numeric.Val) {
	return p.m.SamplePhase(dirIn, rng)
}

func (p mediumPhaseSampling) PDF(dirOut, dirIn numeric.UnitVector) numeric.Val {
	return p.m.PDFPhase(dirOut, dirIn)
}

func (p mediumPhaseSampling) Eval(dirOut, dirIn numeric.UnitVector) numeric.Spectrum {
	return p.m.Phase(dirOut, dirIn)
}

// DistanceSampling wraps a medium's free-path sampler plus the
// equi-angular alternative strategy, combined by the integrator via
// the MIS balance heuristic when a light position is available.
type DistanceSampling struct {
	m medium.Medium
}

func NewDistanceSampling(m medium.Medium) DistanceSampling { return DistanceSampling{m: m} }

// SampleExponential draws a free-path distance with the medium's
// native homogeneous-exponential strategy.
func (d DistanceSampling) SampleExponential(r ray.Ray, seg ray.Segment, rng *rand.Rand) medium.DistanceSample {
	return d.m.SampleDistance(r, seg, rng)
}

// SampleEquiAngular draws a free-path distance from the alternative
// strategy conditioned on a light position, for MIS against the
// exponential strategy in segments containing a light.
func (d DistanceSampling) SampleEquiAngular(r ray.Ray, seg ray.Segment, lightPos numeric.Point, rng *rand.Rand) (ray.Scattering, numeric.Val) {
	return medium.EquiAngularSample(r, seg, lightPos, rng)
}

// CombinedPDF is the balance-heuristic MIS weight denominator: the
// sum of both strategies' pdfs at a realized distance t, used by the
// integrator to weight a single sample drawn from either strategy.
func CombinedPDF(exponentialPDF, equiAngularPDF numeric.Val) numeric.Val {
	return exponentialPDF + equiAngularPDF
}
