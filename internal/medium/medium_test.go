package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

// TestBeerLambertExact checks property 6 from for a
// homogeneous medium with extinction σt and segment length L,
// transmittance equals exp(-σt·L) exactly.
func TestBeerLambertExact(t *testing.T) {
	sigmaS := numeric.NewSpectrum(0.3, 0.3, 0.3)
	sigmaA := numeric.NewSpectrum(0.2, 0.2, 0.2)
	m := NewIsotropic(sigmaS, sigmaA)

	seg := ray.NewSegment(0, 4)
	got := m.Transmittance(seg)

	want := (-numeric.Val(0.5) * 4).Exp()
	assert.InDelta(t, want.Float64(), got.R.Float64(), 1e-12)
	assert.InDelta(t, want.Float64(), got.G.Float64(), 1e-12)
	assert.InDelta(t, want.Float64(), got.B.Float64(), 1e-12)
}

func TestVacuumTransmittanceIsOne(t *testing.T) {
	v := Vacuum{}
	got := v.Transmittance(ray.NewSegment(0, 100))
	assert.Equal(t, numeric.SpectrumWhite, got)
}

func TestVacuumNeverScatters(t *testing.T) {
	v := Vacuum{}
	sample := v.SampleDistance(ray.Ray{}, ray.NewSegment(0, 10), nil)
	assert.False(t, sample.Scattered)
	assert.Equal(t, numeric.Val(0), sample.PDF)
}

func TestIsotropicPhaseIsUniform(t *testing.T) {
	m := NewIsotropic(numeric.NewSpectrum(1, 1, 1), numeric.SpectrumBlack)
	p1 := m.PDFPhase(numeric.UnitVector{X: 1}, numeric.UnitVector{X: -1})
	p2 := m.PDFPhase(numeric.UnitVector{Y: 1}, numeric.UnitVector{X: -1})
	assert.InDelta(t, p1.Float64(), p2.Float64(), 1e-12)
}

func TestHenyeyGreensteinReducesToIsotropicAtZeroG(t *testing.T) {
	hg := NewHenyeyGreenstein(0, numeric.NewSpectrum(1, 1, 1), numeric.SpectrumBlack)
	p := hg.PDFPhase(numeric.UnitVector{X: 1}, numeric.UnitVector{X: -1})
	assert.InDelta(t, isotropicPhase.Float64(), p.Float64(), 1e-9)
}
