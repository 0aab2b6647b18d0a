package material

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// Diffuse is Lambertian: BSDF = albedo/π, cosine-weighted hemisphere
// sampling with pdf = cosθ/π.
type Diffuse struct {
	AlbedoColor numeric.Spectrum
}

func NewDiffuse(albedo numeric.Spectrum) Diffuse { return Diffuse{AlbedoColor: albedo} }

func (d Diffuse) Kind() Kind                  { return KindDiffuse }
func (d Diffuse) Albedo() numeric.Spectrum    { return d.AlbedoColor }

func (d Diffuse) BSDF(dirIn numeric.UnitVector, hit ray.Intersection, dirOut numeric.UnitVector) numeric.Spectrum {
	if hit.Normal.Dot(dirOut).LessEq(0) {
		return numeric.SpectrumBlack
	}
	return d.AlbedoColor.Scale(1 / numeric.PI)
}

func (d Diffuse) SampleCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, rng *rand.Rand) CoefficientSample {
	u1, u2 := numeric.Val(rng.Float64()), numeric.Val(rng.Float64())
	dirOut, pdf := cosineSampleHemisphere(hit.Normal, u1, u2)
	if pdf.LessEq(0) {
		return CoefficientSample{}
	}
	cosTheta := hit.Normal.Dot(dirOut)
	bsdf := d.BSDF(dirIn, hit, dirOut)
	coeff := bsdf.Scale(cosTheta / pdf)
	return CoefficientSample{Direction: dirOut, Coefficient: coeff, PDF: pdf}
}

func (d Diffuse) PDFCoefficient(dirIn numeric.UnitVector, hit ray.Intersection, dirOut numeric.UnitVector) numeric.Val {
	cosTheta := hit.Normal.Dot(dirOut)
	if cosTheta.LessEq(0) {
		return 0
	}
	return cosTheta / numeric.PI
}

func (d Diffuse) EmittedRadiance(ray.Intersection) numeric.Spectrum { return numeric.SpectrumBlack }
