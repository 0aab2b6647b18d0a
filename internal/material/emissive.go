package material

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Emissive returns a constant radiance L_e; BSDF and sampling are
// undefined and must never be called — callers detect Emissive via
// Kind() and use EmittedRadiance instead.
type Emissive struct {
	Radiance numeric.Spectrum
}

func NewEmissive(radiance numeric.Spectrum) Emissive { return Emissive{Radiance: radiance} }

func (e Emissive) Kind() Kind               { return KindEmissive }
func (e Emissive) Albedo() numeric.Spectrum { return numeric.SpectrumBlack }

func (e Emissive) BSDF(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Spectrum {
	panic("material: BSDF is undefined for Emissive; callers must check Kind() first")
}

func (e Emissive) SampleCoefficient(numeric.UnitVector, ray.Intersection, *rand.Rand) CoefficientSample {
	panic("material: SampleCoefficient is undefined for Emissive; callers must check Kind() first")
}

func (e Emissive) PDFCoefficient(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Val {
	panic("material: PDFCoefficient is undefined for Emissive; callers must check Kind() first")
}

func (e Emissive) EmittedRadiance(ray.Intersection) numeric.Spectrum { return e.Radiance }
