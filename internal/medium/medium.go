// Package medium implements the closed set of participating media:
// Vacuum, Isotropic, Henyey-Greenstein. It follows the same
// Kind-tagged-interface shape as internal/shape and internal/material
// so the three packages read as one family.
package medium

import (
	"math"
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

type Kind int

const (
	KindVacuum Kind = iota
	KindIsotropic
	KindHenyeyGreenstein
)

func (k Kind) String() string {
	switch k {
	case KindVacuum:
		return "vacuum"
	case KindIsotropic:
		return "isotropic"
	case KindHenyeyGreenstein:
		return "henyey-greenstein"
	default:
		return "unknown"
	}
}

type Id struct {
	Kind  Kind
	Index uint32
}

// DistanceSample is what SampleDistance returns: Scattered is false
// when the medium doesn't interact within the segment (Vacuum always,
// or a finite medium sampling past the segment end); PDF is the
// solid-angle... area-measure along-ray density of the sampled
// distance, used as the MIS partner for equi-angular sampling
// (c).
type DistanceSample struct {
	Scattering ray.Scattering
	PDF        numeric.Val
	Scattered  bool
}

// Medium is the contract every participating medium satisfies.
type Medium interface {
	Kind() Kind
	// Transmittance is Beer-Lambert exp(-σt·length);
	// Vacuum returns 1 in every channel.
	Transmittance(seg ray.Segment) numeric.Spectrum
	// Phase evaluates the phase function at the scattering event,
	// scaled by σs/σt, matching 's "scalar phase function
	// times σs/σt on scatter".
	Phase(dirOut, dirIn numeric.UnitVector) numeric.Spectrum
	SamplePhase(dirIn numeric.UnitVector, rng *rand.Rand) (dirOut numeric.UnitVector, pdf numeric.Val)
	PDFPhase(dirOut, dirIn numeric.UnitVector) numeric.Val
	// SampleDistance draws the next scattering distance within seg,
	// homogeneous-exponential with rate σt.
	SampleDistance(r ray.Ray, seg ray.Segment, rng *rand.Rand) DistanceSample
	// ExtinctionMagnitude is the scalar extinction used to drive the
	// equi-angular sampler and Russian-roulette-style diagnostics; it
	// is the luminance-style max channel of σt, not a spectral value.
	ExtinctionMagnitude() numeric.Val
}

// EquiAngularSample implements the alternative importance strategy
// conditioned on a light position: it samples a distance along the ray
// proportional to the inverse-square falloff from lightPos,
// independent of any particular medium's extinction, so the integrator
// can MIS it against a medium's own SampleDistance via the balance
// heuristic.
func EquiAngularSample(r ray.Ray, seg ray.Segment, lightPos numeric.Point, rng *rand.Rand) (ray.Scattering, numeric.Val) {
	delta := lightPos.Sub(r.Origin)
	dClose := delta.Dot(r.Direction.Vector())
	closestPoint := r.At(dClose)
	dPerp := numeric.Max(lightPos.Sub(closestPoint).Length(), numeric.Epsilon)

	thetaMin := numeric.Val(math.Atan(((seg.Start - dClose) / dPerp).Float64()))
	thetaMax := numeric.Val(math.Atan(((seg.End() - dClose) / dPerp).Float64()))
	if thetaMin.Greater(thetaMax) {
		thetaMin, thetaMax = thetaMax, thetaMin
	}
	u := numeric.Val(rng.Float64())
	theta := thetaMin + u*(thetaMax-thetaMin)
	t := dClose + dPerp*theta.Tan()
	if !seg.Range().Contains(t) {
		t = numeric.Clamp(t, seg.Start, seg.End())
	}
	pdf := dPerp / ((thetaMax - thetaMin) * (dPerp*dPerp + (t-dClose)*(t-dClose)))
	return ray.Scattering{Distance: t, Position: r.At(t)}, pdf
}
