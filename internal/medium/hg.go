package medium

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// HenyeyGreenstein(g, σs, σa): anisotropic phase function
// (1-g²)/(4π(1+g²-2g·cosθ)^1.5).
type HenyeyGreenstein struct {
	G               numeric.Val
	ScatteringCoeff numeric.Spectrum
	AbsorptionCoeff numeric.Spectrum
}

func NewHenyeyGreenstein(g numeric.Val, sigmaS, sigmaA numeric.Spectrum) HenyeyGreenstein {
	return HenyeyGreenstein{G: g, ScatteringCoeff: sigmaS, AbsorptionCoeff: sigmaA}
}

func (m HenyeyGreenstein) extinction() numeric.Spectrum {
	return m.ScatteringCoeff.Add(m.AbsorptionCoeff)
}

func (m HenyeyGreenstein) Kind() Kind { return KindHenyeyGreenstein }

func (m HenyeyGreenstein) Transmittance(seg ray.Segment) numeric.Spectrum {
	st := m.extinction()
	l := seg.Length
	return numeric.Spectrum{R: (-st.R * l).Exp(), G: (-st.G * l).Exp(), B: (-st.B * l).Exp()}
}

// hgPhase evaluates the scalar Henyey-Greenstein phase function at
// cosTheta = dot(dirOut, -dirIn) (the angle between the continuing and
// incoming-reversed directions).
func hgPhase(g, cosTheta numeric.Val) numeric.Val {
	denom := (1 + g*g - 2*g*cosTheta).Pow(1.5)
	if denom.Abs() < numeric.Epsilon {
		return 0
	}
	return (1 - g*g) / (4 * numeric.PI * denom)
}

func (m HenyeyGreenstein) Phase(dirOut, dirIn numeric.UnitVector) numeric.Spectrum {
	cosTheta := dirOut.Dot(dirIn.Negate())
	p := hgPhase(m.G, cosTheta)
	st := m.extinction()
	ratio := numeric.Spectrum{
		R: safeDiv(m.ScatteringCoeff.R, st.R),
		G: safeDiv(m.ScatteringCoeff.G, st.G),
		B: safeDiv(m.ScatteringCoeff.B, st.B),
	}
	return ratio.Scale(p)
}

// SamplePhase uses the standard analytic HG inversion.
func (m HenyeyGreenstein) SamplePhase(dirIn numeric.UnitVector, rng *rand.Rand) (numeric.UnitVector, numeric.Val) {
	u1, u2 := numeric.Val(rng.Float64()), numeric.Val(rng.Float64())
	g := m.G
	var cosTheta numeric.Val
	if g.Abs() < numeric.Epsilon {
		cosTheta = 1 - 2*u1
	} else {
		sq := (1 - g*g) / (1 + g - 2*g*u1)
		cosTheta = (1 + g*g - sq*sq) / (2 * g)
	}
	sinTheta := numeric.Max(0, 1-cosTheta*cosTheta).Sqrt()
	phi := 2 * numeric.PI * u2

	t, b := numeric.OrthonormalBasis(dirIn.Negate())
	local := t.Scale(sinTheta * phi.Cos()).Add(b.Scale(sinTheta * phi.Sin())).Add(dirIn.Negate().Scale(cosTheta))
	dir, ok := local.Normalize()
	if !ok {
		dir = dirIn.Negate()
	}
	return dir, hgPhase(g, cosTheta)
}

func (m HenyeyGreenstein) PDFPhase(dirOut, dirIn numeric.UnitVector) numeric.Val {
	cosTheta := dirOut.Dot(dirIn.Negate())
	return hgPhase(m.G, cosTheta)
}

func (m HenyeyGreenstein) SampleDistance(r ray.Ray, seg ray.Segment, rng *rand.Rand) DistanceSample {
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

func (m HenyeyGreenstein) ExtinctionMagnitude() numeric.Val {
	st := m.extinction()
	return numeric.Max(st.R, numeric.Max(st.G, st.B))
}
