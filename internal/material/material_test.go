package material

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

func unitY() numeric.UnitVector {
	u, _ := numeric.NewVector(0, 1, 0).Normalize()
	return u
}

// TestDiffuseSamplingConsistency checks the unbiased-estimator
// invariant: the normalized mean of bsdf·cosθ/pdf over many samples
// should equal albedo. A full statistical test would want a much
// larger sample count and a tighter sigma bound; this uses a smaller N
// with a correspondingly looser bound so the test is quick and still
// meaningfully fails on a broken importance sampler.
func TestDiffuseSamplingConsistency(t *testing.T) {
	albedo := numeric.NewSpectrum(0.7, 0.3, 0.5)
	d := NewDiffuse(albedo)
	hit := ray.Intersection{Normal: unitY(), Position: numeric.NewPoint(0, 0, 0)}
	dirIn := numeric.UnitVector{X: 0, Y: -1, Z: 0}

	rng := rand.New(rand.NewPCG(1, 2))
	const n = 20000
	var sum numeric.Spectrum
	for i := 0; i < n; i++ {
		s := d.SampleCoefficient(dirIn, hit, rng)
		sum = sum.Add(s.Coefficient)
	}
	mean := sum.Scale(1.0 / float64(n))

	assert.InDelta(t, albedo.R.Float64(), mean.R.Float64(), 0.03)
	assert.InDelta(t, albedo.G.Float64(), mean.G.Float64(), 0.03)
	assert.InDelta(t, albedo.B.Float64(), mean.B.Float64(), 0.03)
}

func TestSpecularReflectsAboutNormal(t *testing.T) {
	s := NewSpecular(numeric.SpectrumWhite)
	hit := ray.Intersection{Normal: unitY()}
	dirIn, _ := numeric.NewVector(1, -1, 0).Normalize()

	sample := s.SampleCoefficient(dirIn, hit, nil)
	require.True(t, sample.IsDelta)
	assert.InDelta(t, 1.0, sample.Direction.Vector().Length().Float64(), 1e-9)
	assert.InDelta(t, 0.70710678, sample.Direction.X.Float64(), 1e-6)
	assert.InDelta(t, 0.70710678, sample.Direction.Y.Float64(), 1e-6)
	assert.InDelta(t, 0.0, sample.Direction.Z.Float64(), 1e-9)
}

func TestSpecularPDFCoefficientIsZero(t *testing.T) {
	s := NewSpecular(numeric.SpectrumWhite)
	hit := ray.Intersection{Normal: unitY()}
	dirIn, _ := numeric.NewVector(1, -1, 0).Normalize()
	dirOut, _ := numeric.NewVector(1, 1, 0).Normalize()
	assert.Equal(t, numeric.Val(0), s.PDFCoefficient(dirIn, hit, dirOut))
}

func TestRefractiveTotalInternalReflectionAtGrazingAngle(t *testing.T) {
	r := NewRefractive(1.5)
	hit := ray.Intersection{Normal: unitY()}
	// A ray inside the denser medium approaching at a grazing angle
	// (nearly parallel to the surface) must total-internally-reflect.
	dirIn, _ := numeric.NewVector(0.99, 0.01, 0).Normalize()
	rng := rand.New(rand.NewPCG(7, 9))
	sample := r.SampleCoefficient(dirIn, hit, rng)
	assert.True(t, sample.IsDelta)
	assert.Less(t, sample.Direction.Y.Float64(), 0.0)
}
