package material

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Refractive is a dielectric with Fresnel (Schlick) reflectance; the
// branch (reflect vs refract) is chosen by Russian roulette on the
// Fresnel term, with total internal reflection forced when
// sin²θ_t > 1.
type Refractive struct {
	IOR numeric.Val // η, index of refraction
}

func NewRefractive(ior numeric.Val) Refractive { return Refractive{IOR: ior} }

func (r Refractive) Kind() Kind               { return KindRefractive }
func (r Refractive) Albedo() numeric.Spectrum { return numeric.SpectrumWhite }

func (r Refractive) BSDF(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Spectrum {
	return numeric.SpectrumBlack
}

// schlick approximates the Fresnel reflectance for unpolarized light.
func schlick(cosTheta, eta numeric.Val) numeric.Val {
	r0 := (1 - eta) / (1 + eta)
	r0 = r0 * r0
	return r0 + (1-r0)*(1-cosTheta).Pow(5)
}

func (r Refractive) SampleCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, rng *rand.Rand) CoefficientSample {
	normal := hit.Normal
	cosThetaI := -dirIn.Dot(normal)
	etaI, etaT := numeric.Val(1), r.IOR
	entering := cosThetaI.Greater(0)
	if !entering {
		etaI, etaT = etaT, etaI
		normal = normal.Negate()
		cosThetaI = -cosThetaI
	}
	eta := etaI / etaT

	sin2ThetaT := eta * eta * numeric.Max(0, 1-cosThetaI*cosThetaI)
	totalInternal := sin2ThetaT.Greater(1)

	var reflectance numeric.Val
	if totalInternal {
		reflectance = 1
	} else {
		reflectance = schlick(cosThetaI, etaI/etaT)
	}

	if totalInternal || numeric.Val(rng.Float64()).Less(reflectance) {
		reflected := dirIn.Reflect(normal)
		return CoefficientSample{Direction: reflected, Coefficient: numeric.SpectrumWhite, PDF: 1, IsDelta: true}
	}

	cosThetaT := numeric.Max(0, 1-sin2ThetaT).Sqrt()
	refracted := dirIn.Scale(eta).Add(normal.Scale(eta*cosThetaI - cosThetaT))
	dir, ok := refracted.Normalize()
	if !ok {
		reflected := dirIn.Reflect(normal)
		return CoefficientSample{Direction: reflected, Coefficient: numeric.SpectrumWhite, PDF: 1, IsDelta: true}
	}
	return CoefficientSample{Direction: dir, Coefficient: numeric.SpectrumWhite, PDF: 1, IsDelta: true}
}

func (r Refractive) PDFCoefficient(numeric.UnitVector, ray.Intersection, numeric.UnitVector) numeric.Val {
	return 0
}

func (r Refractive) EmittedRadiance(ray.Intersection) numeric.Spectrum { return numeric.SpectrumBlack }
