package material

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Specular is a mirror: a Dirac BSDF. SampleCoefficient always returns
// the reflected direction with coefficient=albedo, pdf=1, IsDelta=true.
// Integrators must not MIS-combine delta strategies with area
// sampling — a delta path always carries weight 1.
type Specular struct {
	AlbedoColor numeric.Spectrum
}

func NewSpecular(albedo numeric.Spectrum) Specular { return Specular{AlbedoColor: albedo} }

func (s Specular) Kind() Kind               { return KindSpecular }
func (s Specular) Albedo() numeric.Spectrum { return s.AlbedoColor }

// BSDF is a Dirac distribution and has no finite value off the
// reflection direction.
func (s Specular) BSDF(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Spectrum {
	return numeric.SpectrumBlack
}

func (s Specular) SampleCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, _ *rand.Rand) CoefficientSample {
	reflected := dirIn.Reflect(hit.Normal)
	return CoefficientSample{Direction: reflected, Coefficient: s.AlbedoColor, PDF: 1, IsDelta: true}
}

// PDFCoefficient is 0 for any direction: , "pdf_coefficient
// of any non-matching direction is 0", and the exact reflection
// direction is never queried by a BSDF-sampling MIS partner since
// light sampling cannot hit a delta strategy's single direction with
// nonzero probability.
func (s Specular) PDFCoefficient(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Val {
	return 0
}

func (s Specular) EmittedRadiance(ray.Intersection) numeric.Spectrum { return numeric.SpectrumBlack }
