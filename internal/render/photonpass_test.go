package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/sampling"
	"pathtracer/internal/scenequery"
	"pathtracer/internal/shape"
)

func rayTowardFloor() ray.Ray {
	return ray.Ray{Origin: numeric.Point{X: 0, Y: 0, Z: -5}, Direction: numeric.UnitVector{Y: -1}}
}

// photonSceneWithCausticPath builds a light sphere above a diffuse
// floor and registers both the NEE light and its photon-emission
// counterpart, the way sceneio.resolveEntities pairs them for every
// emissive entity.
func photonSceneWithCausticPath(t *testing.T) Scene {
	t.Helper()
	shapes := shape.NewPool()
	mats := material.NewPool()
	media := medium.NewPool()
	boundaries := medium.NewBoundaryPool()

	floor := mustSphere(t, numeric.Point{X: 0, Y: -1001, Z: -5}, 1000)
	floorID := shapes.AddSphere(floor)
	floorMat := material.NewDiffuse(numeric.NewSpectrum(0.8, 0.8, 0.8))
	floorMatID := mats.AddDiffuse(floorMat)

	lightShape := mustSphere(t, numeric.Point{X: 0, Y: 5, Z: -5}, 1)
	lightShapeID := shapes.AddSphere(lightShape)
	lightMat := material.NewEmissive(numeric.NewSpectrum(50, 50, 50))
	lightMatID := mats.AddEmissive(lightMat)

	entities := scenequery.Build(shapes, []scenequery.Entity{
		{Shape: floorID, Material: floorMatID},
		{Shape: lightShapeID, Material: lightMatID},
	})
	volumes := scenequery.BuildVolumeScene(shapes, boundaries)

	lights := sampling.NewMultiLight()
	pts := sampling.NewPointSampling(lightShape)
	lights.Add(sampling.NewShapeLightSampling(pts, lightMat))
	lights.AddPhotonSource(sampling.NewShapePhotonSampling(pts, lightMat))

	return Scene{
		Entities:  entities,
		Volumes:   volumes,
		Materials: mats,
		Media:     media,
		Lights:    lights,
	}
}

func TestBuildPhotonMapStoresPhotonsOnDiffuseSurfaces(t *testing.T) {
	scene := photonSceneWithCausticPath(t)
	pm := BuildPhotonMap(scene, 256, 4, 7)
	require.NotNil(t, pm)
	assert.Greater(t, pm.Len(), 0)
}

func TestBuildPhotonMapWithZeroCountStoresNothing(t *testing.T) {
	scene := photonSceneWithCausticPath(t)
	pm := BuildPhotonMap(scene, 0, 4, 7)
	require.NotNil(t, pm)
	assert.Equal(t, 0, pm.Len())
}

func TestBuildPhotonMapWithNoLightsStoresNothing(t *testing.T) {
	shapes := shape.NewPool()
	mats := material.NewPool()
	media := medium.NewPool()
	boundaries := medium.NewBoundaryPool()
	floor := mustSphere(t, numeric.Point{X: 0, Y: -1001, Z: -5}, 1000)
	floorID := shapes.AddSphere(floor)
	floorMatID := mats.AddDiffuse(material.NewDiffuse(numeric.NewSpectrum(0.8, 0.8, 0.8)))
	entities := scenequery.Build(shapes, []scenequery.Entity{{Shape: floorID, Material: floorMatID}})
	volumes := scenequery.BuildVolumeScene(shapes, boundaries)

	scene := Scene{
		Entities:  entities,
		Volumes:   volumes,
		Materials: mats,
		Media:     media,
		Lights:    sampling.NewMultiLight(),
	}

	pm := BuildPhotonMap(scene, 100, 4, 7)
	require.NotNil(t, pm)
	assert.Equal(t, 0, pm.Len())
}

func TestCausticEstimateIsZeroWithoutPhotonMap(t *testing.T) {
	scene := photonSceneWithCausticPath(t)
	diag := &Diagnostics{}
	cfg := Config{
		Iterations:      1,
		MaxDepth:        4,
		RRStartDepth:    3,
		BackgroundColor: numeric.SpectrumBlack,
		MaxRayDistance:  1000,
	}
	ig := NewIntegrator(scene, cfg, diag)

	hit, ok := scene.Entities.FindNearest(rayTowardFloor(), numeric.PositiveRange())
	require.True(t, ok)
	mat := scene.Materials.Get(hit.Material)

	est := ig.causticEstimate(numeric.UnitVector{Y: -1}, hit, mat)
	assert.True(t, est.IsZero())
}

func TestCausticEstimateGathersStoredPhotons(t *testing.T) {
	scene := photonSceneWithCausticPath(t)
	pm := BuildPhotonMap(scene, 2048, 4, 11)
	require.Greater(t, pm.Len(), 0)

	diag := &Diagnostics{}
	cfg := Config{
		Iterations:         1,
		MaxDepth:           4,
		RRStartDepth:       3,
		BackgroundColor:    numeric.SpectrumBlack,
		MaxRayDistance:     1000,
		Photons:            pm,
		PhotonGatherRadius: 5,
		PhotonGatherK:      50,
	}
	ig := NewIntegrator(scene, cfg, diag)

	hit, ok := scene.Entities.FindNearest(rayTowardFloor(), numeric.PositiveRange())
	require.True(t, ok)
	mat := scene.Materials.Get(hit.Material)

	est := ig.causticEstimate(numeric.UnitVector{Y: -1}, hit, mat)
	assert.False(t, est.HasNaN())
	assert.GreaterOrEqual(t, est.R.Float64(), 0.0)
}
