package medium

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Vacuum never scatters: transmittance is always 1, and
// SampleDistance always reports Scattered=false.
type Vacuum struct{}

func (Vacuum) Kind() Kind { return KindVacuum }

func (Vacuum) Transmittance(ray.Segment) numeric.Spectrum { return numeric.SpectrumWhite }

// Phase is a delta at dirIn == -dirOut; since Vacuum
// never scatters this is never evaluated by the integrator, and is
// defined to return zero to be safe against direct misuse.
func (Vacuum) Phase(numeric.UnitVector, numeric.UnitVector) numeric.Spectrum {
	return numeric.SpectrumBlack
}

func (Vacuum) SamplePhase(dirIn numeric.UnitVector, _ *rand.Rand) (numeric.UnitVector, numeric.Val) {
	return dirIn.Negate(), 1
}

func (Vacuum) PDFPhase(numeric.UnitVector, numeric.UnitVector) numeric.Val { return 0 }

func (Vacuum) SampleDistance(_ ray.Ray, _ ray.Segment, _ *rand.Rand) DistanceSample {
	return DistanceSample{Scattered: false, PDF: 0}
}

func (Vacuum) ExtinctionMagnitude() numeric.Val { return 0 }
