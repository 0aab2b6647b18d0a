// Package material implements the closed set of surface materials:
// Diffuse, Specular, Refractive, Emissive, each satisfying a BSDF +
// importance-sampling contract — evaluate, sample, and the matching
// pdf for that sample — plus emission and an optional BSSRDF hook.
package material

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

type Kind int

const (
	KindDiffuse Kind = iota
	KindSpecular
	KindRefractive
	KindEmissive
)

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindSpecular:
		return "specular"
	case KindRefractive:
		return "refractive"
	case KindEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

type Id struct {
	Kind  Kind
	Index uint32
}

// CoefficientSample is what CoefSampling.SampleCoefficient returns:
// the outgoing direction, and coefficient = bsdf·|cosθ_out|/pdf so
// that the integrator never divides by a sampler-specific pdf itself.
// IsDelta marks specular/refractive's Dirac strategies, which
// integrators must not MIS-combine with area sampling (weight 1 on
// the delta path).
type CoefficientSample struct {
	Direction   numeric.UnitVector
	Coefficient numeric.Spectrum
	PDF         numeric.Val
	IsDelta     bool
}

// Material is the contract every primitive material satisfies.
// BSDF/PDFCoefficient are undefined (never called) for Emissive —
// callers must check Kind() == KindEmissive and use EmittedRadiance
// instead.
type Material interface {
	Kind() Kind
	// Albedo is used by photon-power bookkeeping and Russian roulette.
	Albedo() numeric.Spectrum
	// BSDF is the value of the BSDF at (dirIn, dirOut) at hit, divided
	// by |cosθ_out| per the opaque-BSDF convention.
	BSDF(dirIn numeric.UnitVector, hit ray.Intersection, dirOut numeric.UnitVector) numeric.Spectrum
	// SampleCoefficient importance-samples an outgoing direction.
	SampleCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, rng *rand.Rand) CoefficientSample
	// PDFCoefficient is the solid-angle pdf of SampleCoefficient's
	// strategy at dirOut; 0 for any direction a delta strategy could
	// not have produced.
	PDFCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, dirOut numeric.UnitVector) numeric.Val
	// EmittedRadiance is L_e for Emissive, SpectrumBlack otherwise.
	EmittedRadiance(hit ray.Intersection) numeric.Spectrum
}

// BSSRDFCapable is an optional subsurface-scattering hook; no
// primitive material in this package satisfies it yet — it exists so a
// future subsurface material can be added without changing the
// Material contract.
type BSSRDFCapable interface {
	BSSRDF() BSSRDF
}

// BSSRDF couples an entry and an exit point on a surface for
// subsurface transport. Left as a hook: see BSSRDFCapable.
type BSSRDF interface {
	Eval(entry, exit ray.Intersection, dirIn, dirOut numeric.UnitVector) numeric.Spectrum
}

// cosineSampleHemisphere draws a direction from the cosine-weighted
// hemisphere around n via Malley's method.
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
	cosTheta := z
	pdf := cosTheta / numeric.PI
	return uv, pdf
}
