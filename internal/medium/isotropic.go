package medium

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Isotropic(σs, σa): extinction σt = σs+σa, phase = 1/(4π) uniformly
// in every direction.
type Isotropic struct {
	ScatteringCoeff numeric.Spectrum // σs
	AbsorptionCoeff numeric.Spectrum // σa
}

func NewIsotropic(sigmaS, sigmaA numeric.Spectrum) Isotropic {
	return Isotropic{ScatteringCoeff: sigmaS, AbsorptionCoeff: sigmaA}
}

func (m Isotropic) extinction() numeric.Spectrum { return m.ScatteringCoeff.Add(m.AbsorptionCoeff) }

func (m Isotropic) Kind() Kind { return KindIsotropic }

// Transmittance is exact Beer-Lambert: exp(-σt·length).
func (m Isotropic) Transmittance(seg ray.Segment) numeric.Spectrum {
	st := m.extinction()
	l := seg.Length
	return numeric.Spectrum{
		R: (-st.R * l).Exp(),
		G: (-st.G * l).Exp(),
		B: (-st.B * l).Exp(),
	}
}

const isotropicPhase = numeric.Val(1) / (4 * numeric.PI)

func (m Isotropic) Phase(numeric.UnitVector, numeric.UnitVector) numeric.Spectrum {
	st := m.extinction()
	scale := isotropicPhase
	ratio := numeric.Spectrum{
		R: safeDiv(m.ScatteringCoeff.R, st.R),
		G: safeDiv(m.ScatteringCoeff.G, st.G),
		B: safeDiv(m.ScatteringCoeff.B, st.B),
	}
	return ratio.Scale(scale)
}

func safeDiv(a, b numeric.Val) numeric.Val {
	if b.Abs() < numeric.Epsilon {
		return 0
	}
	return a / b
}

func (m Isotropic) SamplePhase(_ numeric.UnitVector, rng *rand.Rand) (numeric.UnitVector, numeric.Val) {
	u1, u2 := numeric.Val(rng.Float64()), numeric.Val(rng.Float64())
	z := 1 - 2*u1
	r := numeric.Max(0, 1-z*z).Sqrt()
	phi := 2 * numeric.PI * u2
	dir := numeric.UnitVector{X: r * phi.Cos(), Y: r * phi.Sin(), Z: z}
	return dir, isotropicPhase // pdf over the sphere is uniform: 1/(4π)
}

func (m Isotropic) PDFPhase(numeric.UnitVector, numeric.UnitVector) numeric.Val {
	return isotropicPhase
}

// SampleDistance draws a homogeneous-exponential distance with rate
// max-channel σt, truncated to seg.
func (m Isotropic) SampleDistance(r ray.Ray, seg ray.Segment, rng *rand.Rand) DistanceSample {
	st := m.ExtinctionMagnitude()
	if st.LessEq(0) {
		return DistanceSample{Scattered: false, PDF: 0}
	}
	u := numeric.Val(rng.Float64())
	d := -(1 - u).Ln() / st
	offset := seg.Start + d
	if offset.Greater(seg.End()) || offset.Less(seg.Start) {
		return DistanceSample{Scattered: false, PDF: (-st * seg.Length).Exp()}
	}
	pdf := st * (-st * d).Exp()
	return DistanceSample{Scattering: ray.Scattering{Distance: offset, Position: r.At(offset)}, PDF: pdf, Scattered: true}
}

func (m Isotropic) ExtinctionMagnitude() numeric.Val {
	st := m.extinction()
	return numeric.Max(st.R, numeric.Max(st.G, st.B))
}
