package sampling

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"pathtracer/internal/material"
	"pathtracer/internal/numeric"
	"pathtracer/internal/shape"
	"pathtracer/internal/xform"
)

func newRNG() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestPointSamplingMatchesShapeArea(t *testing.T) {
	sph, err := shape.NewSphere(numeric.Point{}, 2)
	assert.NoError(t, err)
	ps := NewPointSampling(sph)
	assert.InDelta(t, sph.Area().Float64(), ps.Area().Float64(), 1e-9)

	sample := ps.SamplePoint(0.3, 0.7)
	assert.InDelta(t, 1.0/sph.Area().Float64(), sample.PDFArea.Float64(), 1e-9)
}

func TestInstancePointSamplingRescalesArea(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{}, 1)
	ps := NewPointSampling(sph)
	scaled := NewInstancePointSampling(ps, xform.NewSequential(xform.Scaling(2)))

	// Area scales with s^2.
	assert.InDelta(t, sph.Area().Float64()*4, scaled.Area().Float64(), 1e-9)

	s := scaled.SamplePoint(0.2, 0.4)
	assert.InDelta(t, 1.0/(sph.Area().Float64()*4), s.PDFArea.Float64(), 1e-9)
}

func TestShapeLightSamplingPowerMatchesRadianceTimesArea(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{}, 1)
	ps := NewPointSampling(sph)
	emissive := material.Emissive{Radiance: numeric.NewSpectrum(2, 2, 2)}
	light := NewShapeLightSampling(ps, emissive)

	assert.InDelta(t, 2*sph.Area().Float64(), light.Power().Float64(), 1e-9)
}

func TestShapeLightSamplingReturnsPositivePDF(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{X: 5}, 1)
	ps := NewPointSampling(sph)
	emissive := material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)}
	light := NewShapeLightSampling(ps, emissive)

	from := numeric.Point{}
	rng := newRNG()
	found := false
	for i := 0; i < 64; i++ {
		s, ok := light.SampleLight(from, numeric.Val(rng.Float64()), numeric.Val(rng.Float64()), rng)
		if ok {
			found = true
			assert.Greater(t, s.PDF.Float64(), 0.0)
			assert.Greater(t, s.Distance.Float64(), 0.0)
		}
	}
	assert.True(t, found)
}

func TestShapeLightSamplingPDFLightMatchesSampledDirection(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{X: 5}, 1)
	ps := NewPointSampling(sph)
	emissive := material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)}
	light := NewShapeLightSampling(ps, emissive)

	from := numeric.Point{}
	s, ok := light.SampleLight(from, 0.3, 0.6, newRNG())
	assert.True(t, ok)

	pdf := light.PDFLight(from, s.Direction)
	assert.InDelta(t, s.PDF.Float64(), pdf.Float64(), 1e-6)
}

func TestShapeLightSamplingPDFLightZeroWhenDirectionMisses(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{X: 5}, 1)
	ps := NewPointSampling(sph)
	light := NewShapeLightSampling(ps, material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)})

	pdf := light.PDFLight(numeric.Point{}, numeric.UnitVector{Y: 1})
	assert.Equal(t, numeric.Val(0), pdf)
}

func TestInstanceLightSamplingPDFLightRescalesBySquareOfScale(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{X: 3}, 1)
	light := NewShapeLightSampling(NewPointSampling(sph), material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)})

	scale := numeric.Val(2)
	wrapped := NewInstanceLightSampling(light, xform.NewSequential(xform.Scaling(scale)))

	localFrom := numeric.Point{}
	localSample, ok := light.SampleLight(localFrom, 0.3, 0.6, newRNG())
	assert.True(t, ok)

	basePDF := light.PDFLight(localFrom, localSample.Direction)

	worldFrom := numeric.Point{}
	worldDir := localSample.Direction
	worldPDF := wrapped.PDFLight(worldFrom, worldDir)

	assert.InDelta(t, basePDF.Float64()/(scale*scale).Float64(), worldPDF.Float64(), 1e-6)
}

func TestMultiLightEmptySetYieldsNoSample(t *testing.T) {
	m := NewMultiLight()
	_, ok := m.SampleLight(numeric.Point{}, 0.5, 0.5, newRNG())
	assert.False(t, ok)
	assert.Equal(t, numeric.Val(0), m.PDFLight(numeric.Point{}, numeric.UnitVector{Z: 1}))
}

func TestMultiLightPowerIsSumOfChildren(t *testing.T) {
	sph1, _ := shape.NewSphere(numeric.Point{X: 5}, 1)
	sph2, _ := shape.NewSphere(numeric.Point{X: -5}, 1)
	l1 := NewShapeLightSampling(NewPointSampling(sph1), material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)})
	l2 := NewShapeLightSampling(NewPointSampling(sph2), material.Emissive{Radiance: numeric.NewSpectrum(3, 3, 3)})

	m := NewMultiLight()
	m.Add(l1)
	m.Add(l2)

	assert.InDelta(t, l1.Power().Float64()+l2.Power().Float64(), m.Power().Float64(), 1e-9)
}

func TestInstanceLightSamplingRescalesPDFBySquareOfScale(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{X: 3}, 1)
	ps := NewPointSampling(sph)
	light := NewShapeLightSampling(ps, material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)})

	scale := numeric.Val(2)
	wrapped := NewInstanceLightSampling(light, xform.NewSequential(xform.Scaling(scale)))

	from := numeric.Point{}
	rng := newRNG()
	for i := 0; i < 32; i++ {
		localFrom := numeric.Point{X: from.X / scale, Y: from.Y / scale, Z: from.Z / scale}
		u1, u2 := numeric.Val(rng.Float64()), numeric.Val(rng.Float64())

		baseRNG := rand.New(rand.NewPCG(uint64(i), 7))
		s0, ok0 := light.SampleLight(localFrom, u1, u2, baseRNG)
		wrapRNG := rand.New(rand.NewPCG(uint64(i), 7))
		s1, ok1 := wrapped.SampleLight(from, u1, u2, wrapRNG)

		if ok0 && ok1 {
			assert.InDelta(t, s0.PDF.Float64()/(scale*scale).Float64(), s1.PDF.Float64(), 1e-6)
		}
	}
}

func TestPhotonEmissionThroughputNonNegative(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{}, 1)
	ps := NewPointSampling(sph)
	emissive := material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)}
	photons := NewShapePhotonSampling(ps, emissive)

	rng := newRNG()
	p := photons.Emit(rng)
	assert.GreaterOrEqual(t, p.Throughput.R.Float64(), 0.0)
	assert.InDelta(t, 1.0, p.Ray.Direction.Vector().Length().Float64(), 1e-9)
}

func TestMultiLightSamplePhotonReturnsFalseWithNoSources(t *testing.T) {
	m := NewMultiLight()
	_, ok := m.SamplePhoton(newRNG())
	assert.False(t, ok)
}

func TestMultiLightSamplePhotonEmitsFromRegisteredSource(t *testing.T) {
	sph, _ := shape.NewSphere(numeric.Point{}, 1)
	ps := NewPointSampling(sph)
	emissive := material.Emissive{Radiance: numeric.NewSpectrum(1, 1, 1)}

	m := NewMultiLight()
	m.Add(NewShapeLightSampling(ps, emissive))
	m.AddPhotonSource(NewShapePhotonSampling(ps, emissive))

	rng := newRNG()
	pr, ok := m.SamplePhoton(rng)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, pr.Ray.Direction.Vector().Length().Float64(), 1e-9)
}

func TestMultiLightSamplePhotonPicksAmongMultipleSourcesByPower(t *testing.T) {
	dim, _ := shape.NewSphere(numeric.Point{X: -5}, 1)
	bright, _ := shape.NewSphere(numeric.Point{X: 5}, 1)
	dimMat := material.Emissive{Radiance: numeric.NewSpectrum(0.001, 0.001, 0.001)}
	brightMat := material.Emissive{Radiance: numeric.NewSpectrum(100, 100, 100)}

	m := NewMultiLight()
	m.Add(NewShapeLightSampling(NewPointSampling(dim), dimMat))
	m.AddPhotonSource(NewShapePhotonSampling(NewPointSampling(dim), dimMat))
	m.Add(NewShapeLightSampling(NewPointSampling(bright), brightMat))
	m.AddPhotonSource(NewShapePhotonSampling(NewPointSampling(bright), brightMat))

	rng := rand.New(rand.NewPCG(9, 9))
	brightSeen := false
	for i := 0; i < 32; i++ {
		pr, ok := m.SamplePhoton(rng)
		if ok && pr.Throughput.R.Float64() > 1 {
			brightSeen = true
		}
	}
	assert.True(t, brightSeen)
}
