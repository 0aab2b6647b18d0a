package photon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathtracer/internal/numeric"
)

func samplePhotons() []Photon {
	return []Photon{
		{Position: numeric.Point{X: 0, Y: 0, Z: 0}, Power: numeric.SpectrumWhite},
		{Position: numeric.Point{X: 1, Y: 0, Z: 0}, Power: numeric.SpectrumWhite},
		{Position: numeric.Point{X: 5, Y: 0, Z: 0}, Power: numeric.SpectrumWhite},
		{Position: numeric.Point{X: 0, Y: 5, Z: 0}, Power: numeric.SpectrumWhite, Caustic: true},
		{Position: numeric.Point{X: -2, Y: 0, Z: 0}, Power: numeric.SpectrumWhite},
	}
}

func TestEmptyPhotonMapReturnsNoNeighbors(t *testing.T) {
	pm := Build(nil)
	assert.Equal(t, 0, pm.Len())
	out := pm.NearestK(numeric.Point{}, 5, 100, StorageGlobal)
	assert.Empty(t, out)
}

func TestNearestKReturnsClosestPhotonsFirst(t *testing.T) {
	pm := Build(samplePhotons())
	out := pm.NearestK(numeric.Point{}, 3, 100, StorageGlobal)
	assert.Len(t, out, 3)
	assert.Equal(t, numeric.Point{X: 0, Y: 0, Z: 0}, out[0].Position)
}

func TestNearestKRespectsMaxDistance(t *testing.T) {
	pm := Build(samplePhotons())
	out := pm.NearestK(numeric.Point{}, 10, 1.5, StorageGlobal)
	for _, p := range out {
		d := p.Position.Sub(numeric.Point{}).Length()
		assert.LessOrEqual(t, d.Float64(), 1.5)
	}
}

func TestCausticPolicyFiltersNonCausticPhotons(t *testing.T) {
	pm := Build(samplePhotons())
	out := pm.NearestK(numeric.Point{}, 10, 100, StorageCaustic)
	assert.Len(t, out, 1)
	assert.True(t, out[0].Caustic)
}
