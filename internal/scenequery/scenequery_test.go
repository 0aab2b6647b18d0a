package scenequery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/shape"
)

func TestEntitySceneFindsNearestAmongMultiple(t *testing.T) {
	shapes := shape.NewPool()
	mats := material.NewPool()

	nearID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: 0, Z: -5}, 1))
	farID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: 0, Z: -10}, 1))
	matID := mats.AddDiffuse(material.NewDiffuse(numeric.SpectrumWhite))

	es := Build(shapes, []Entity{
		{Shape: nearID, Material: matID},
		{Shape: farID, Material: matID},
	})

	r := ray.Ray{Origin: numeric.Point{}, Direction: numeric.UnitVector{Z: -1}}
	hit, ok := es.FindNearest(r, numeric.PositiveRange())
	assert.True(t, ok)
	assert.Equal(t, nearID, hit.Shape)
	assert.InDelta(t, 4.0, hit.Intersection.Distance.Float64(), 1e-6)
}

func TestEntitySceneNoHitOutsideRange(t *testing.T) {
	shapes := shape.NewPool()
	mats := material.NewPool()
	sphID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: 0, Z: -5}, 1))
	matID := mats.AddDiffuse(material.NewDiffuse(numeric.SpectrumWhite))

	es := Build(shapes, []Entity{{Shape: sphID, Material: matID}})
	r := ray.Ray{Origin: numeric.Point{}, Direction: numeric.UnitVector{Z: -1}}
	_, ok := es.FindNearest(r, numeric.Bounded(2))
	assert.False(t, ok)
}

func TestEntitySceneHandlesUnboundedPlane(t *testing.T) {
	shapes := shape.NewPool()
	mats := material.NewPool()
	planeID := shapes.AddPlane(shape.NewPlane(numeric.Point{Y: -1}, numeric.UnitVector{Y: 1}))
	matID := mats.AddDiffuse(material.NewDiffuse(numeric.SpectrumWhite))

	es := Build(shapes, []Entity{{Shape: planeID, Material: matID}})
	r := ray.Ray{Origin: numeric.Point{Y: 5}, Direction: numeric.UnitVector{Y: -1}}
	hit, ok := es.FindNearest(r, numeric.PositiveRange())
	assert.True(t, ok)
	assert.InDelta(t, 6.0, hit.Intersection.Distance.Float64(), 1e-6)
}

func TestVolumeSceneEmptyBoundariesYieldsVacuumSegment(t *testing.T) {
	shapes := shape.NewPool()
	boundaries := medium.NewBoundaryPool()
	vs := BuildVolumeScene(shapes, boundaries)

	r := ray.Ray{Origin: numeric.Point{}, Direction: numeric.UnitVector{Z: -1}}
	segs := vs.FindSegments(r, numeric.Bounded(10))
	assert.Len(t, segs, 1)
	assert.Equal(t, medium.VacuumId, segs[0].Medium)
	assert.InDelta(t, 10.0, segs[0].Length.Float64(), 1e-9)
}

func TestVolumeSceneSphereProducesThreeSegments(t *testing.T) {
	shapes := shape.NewPool()
	media := medium.NewPool()
	boundaries := medium.NewBoundaryPool()

	sphID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: 0, Z: -5}, 1))
	fogID := media.AddIsotropic(medium.NewIsotropic(numeric.NewSpectrum(0.5, 0.5, 0.5), numeric.SpectrumBlack))
	boundaries.Add(sphID, fogID)

	vs := BuildVolumeScene(shapes, boundaries)
	r := ray.Ray{Origin: numeric.Point{}, Direction: numeric.UnitVector{Z: -1}}
	segs := vs.FindSegments(r, numeric.Bounded(10))

	assert.Len(t, segs, 3)
	assert.Equal(t, medium.VacuumId, segs[0].Medium)
	assert.Equal(t, fogID, segs[1].Medium)
	assert.Equal(t, medium.VacuumId, segs[2].Medium)

	var total numeric.Val
	for _, s := range segs {
		total += s.Length
	}
	assert.InDelta(t, 10.0, total.Float64(), 1e-6)
}

// TestVolumeSceneTagsSegmentStartingInsideBoundary checks a ray whose
// origin already lies inside a boundary entered before the query
// range's minimum: the entry crossing falls outside rng and is never
// added to the event sweep, so the inside/outside toggle must be
// seeded from the boundary's own geometry rather than assumed false.
func TestVolumeSceneTagsSegmentStartingInsideBoundary(t *testing.T) {
	shapes := shape.NewPool()
	media := medium.NewPool()
	boundaries := medium.NewBoundaryPool()

	sphID := shapes.AddSphere(mustSphere(t, numeric.Point{}, 5))
	fogID := media.AddIsotropic(medium.NewIsotropic(numeric.NewSpectrum(0.5, 0.5, 0.5), numeric.SpectrumBlack))
	boundaries.Add(sphID, fogID)

	vs := BuildVolumeScene(shapes, boundaries)
	r := ray.Ray{Origin: numeric.Point{}, Direction: numeric.UnitVector{Z: 1}}
	segs := vs.FindSegments(r, numeric.DistanceRange{Min: 0, Max: 20, MinClosed: true, MaxClosed: false})

	assert.Len(t, segs, 2)
	assert.Equal(t, fogID, segs[0].Medium)
	assert.InDelta(t, 5.0, segs[0].Length.Float64(), 1e-6)
	assert.Equal(t, medium.VacuumId, segs[1].Medium)
	assert.InDelta(t, 15.0, segs[1].Length.Float64(), 1e-6)
}

func mustSphere(t *testing.T, center numeric.Point, radius numeric.Val) shape.Sphere {
	t.Helper()
	s, err := shape.NewSphere(center, radius)
	assert.NoError(t, err)
	return s
}
