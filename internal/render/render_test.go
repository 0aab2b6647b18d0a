package render

import (
	"context"
	"math/rand/v2"
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

func mustSphere(t *testing.T, center numeric.Point, radius numeric.Val) shape.Sphere {
	t.Helper()
	s, err := shape.NewSphere(center, radius)
	require.NoError(t, err)
	return s
}

// diffuseSphereScene builds a single diffuse sphere lit by an emissive
// sphere "light", the minimal scene 's scenario tests build
// on (a Cornell-box-style setup reduced to its two essential bodies).
func diffuseSphereScene(t *testing.T) Scene {
	t.Helper()
	shapes := shape.NewPool()
	mats := material.NewPool()
	media := medium.NewPool()
	boundaries := medium.NewBoundaryPool()

	floorID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: -1001, Z: -5}, 1000))
	floorMat := mats.AddDiffuse(material.NewDiffuse(numeric.NewSpectrum(0.8, 0.8, 0.8)))

	lightShapeID := shapes.AddSphere(mustSphere(t, numeric.Point{X: 0, Y: 5, Z: -5}, 1))
	lightMatID := mats.AddEmissive(material.NewEmissive(numeric.NewSpectrum(20, 20, 20)))

	entities := scenequery.Build(shapes, []scenequery.Entity{
		{Shape: floorID, Material: floorMat},
		{Shape: lightShapeID, Material: lightMatID},
	})
	volumes := scenequery.BuildVolumeScene(shapes, boundaries)

	lights := sampling.NewMultiLight()
	lightShape, err := shape.NewSphere(numeric.Point{X: 0, Y: 5, Z: -5}, 1)
	require.NoError(t, err)
	lights.Add(sampling.NewShapeLightSampling(
		sampling.NewPointSampling(lightShape),
		material.NewEmissive(numeric.NewSpectrum(20, 20, 20)),
	))

	return Scene{
		Entities:  entities,
		Volumes:   volumes,
		Materials: mats,
		Media:     media,
		Lights:    lights,
	}
}

func newTestIntegrator(t *testing.T) (*Integrator, *Diagnostics) {
	t.Helper()
	diag := &Diagnostics{}
	cfg := Config{
		Iterations:      1,
		MaxDepth:        4,
		RRStartDepth:    3,
		BackgroundColor: numeric.SpectrumBlack,
		MaxRayDistance:  1000,
	}
	return NewIntegrator(diffuseSphereScene(t), cfg, diag), diag
}

func TestTraceReturnsNonNegativeFiniteRadiance(t *testing.T) {
	ig, diag := newTestIntegrator(t)
	r := ray.Ray{Origin: numeric.Point{X: 0, Y: 0, Z: 0}, Direction: numeric.UnitVector{Y: -1}}
	rng := rand.New(rand.NewPCG(1, 2))

	l := ig.Trace(r, rng)

	assert.False(t, l.HasNaN())
	assert.GreaterOrEqual(t, l.R.Float64(), 0.0)
	assert.GreaterOrEqual(t, l.G.Float64(), 0.0)
	assert.GreaterOrEqual(t, l.B.Float64(), 0.0)
	assert.Equal(t, int64(0), diag.NaNSamples.Load())
}

func TestTraceOfRayMissingEverythingReturnsBackground(t *testing.T) {
	ig, _ := newTestIntegrator(t)
	ig.cfg.BackgroundColor = numeric.NewSpectrum(0.1, 0.2, 0.3)
	r := ray.Ray{Origin: numeric.Point{X: 0, Y: 0, Z: 0}, Direction: numeric.UnitVector{X: 1}}
	rng := rand.New(rand.NewPCG(3, 4))

	l := ig.Trace(r, rng)

	assert.InDelta(t, 0.1, l.R.Float64(), 1e-9)
	assert.InDelta(t, 0.2, l.G.Float64(), 1e-9)
	assert.InDelta(t, 0.3, l.B.Float64(), 1e-9)
}

func TestTraceOfRayHittingLightDirectlySeesFullEmission(t *testing.T) {
	ig, _ := newTestIntegrator(t)
	r := ray.Ray{Origin: numeric.Point{X: 0, Y: 0, Z: -5}, Direction: numeric.UnitVector{Y: 1}}
	rng := rand.New(rand.NewPCG(5, 6))

	l := ig.Trace(r, rng)

	assert.InDelta(t, 20.0, l.R.Float64(), 1e-6)
}

func TestCameraPrimaryRayIsUnitLength(t *testing.T) {
	cam, err := NewCamera(64, 48, numeric.Point{X: 0, Y: 0, Z: 0}, numeric.Point{X: 0, Y: 0, Z: -1}, numeric.Vector{Y: 1}, 60)
	require.NoError(t, err)
	r := cam.PrimaryRay(32, 24, 0.5, 0.5)
	assert.InDelta(t, 1.0, r.Direction.Vector().Length().Float64(), 1e-9)
}

func TestCameraRejectsNonPositiveWidth(t *testing.T) {
	_, err := NewCamera(0, 48, numeric.Point{}, numeric.Point{X: 0, Y: 0, Z: -1}, numeric.Vector{Y: 1}, 60)
	assert.Error(t, err)
}

func TestCameraRejectsDegenerateLookAt(t *testing.T) {
	_, err := NewCamera(64, 48, numeric.Point{X: 1, Y: 1, Z: 1}, numeric.Point{X: 1, Y: 1, Z: 1}, numeric.Vector{Y: 1}, 60)
	assert.Error(t, err)
}

func TestClampOperatorClampsToUnitRange(t *testing.T) {
	got := ClampOperator{}.Map(numeric.NewSpectrum(-1, 0.5, 3))
	assert.Equal(t, numeric.NewSpectrum(0, 0.5, 1), got)
}

func TestReinhardOperatorStaysBelowOne(t *testing.T) {
	got := ReinhardOperator{}.Map(numeric.NewSpectrum(1000, 0, 0))
	assert.Less(t, got.R.Float64(), 1.0)
}

func TestImageMappedLeavesSourceUntouched(t *testing.T) {
	img := NewImage(2, 2)
	img.Set(0, 0, numeric.NewSpectrum(2, 2, 2))
	mapped := img.Mapped(ClampOperator{})
	assert.Equal(t, numeric.NewSpectrum(2, 2, 2), img.At(0, 0))
	assert.Equal(t, numeric.SpectrumWhite, mapped.At(0, 0))
}

func TestTilesCoverEntireImageWithoutOverlap(t *testing.T) {
	tiles := Tiles(20, 10, 8)
	covered := make(map[[2]int]bool)
	for _, tile := range tiles {
		for y := tile.Y0; y < tile.Y1; y++ {
			for x := tile.X0; x < tile.X1; x++ {
				key := [2]int{x, y}
				assert.False(t, covered[key], "pixel %v covered twice", key)
				covered[key] = true
			}
		}
	}
	assert.Len(t, covered, 200)
}

func TestPoolRunProducesFiniteImage(t *testing.T) {
	ig, diag := newTestIntegrator(t)
	cam, err := NewCamera(8, 8, numeric.Point{X: 0, Y: 0, Z: 0}, numeric.Point{X: 0, Y: 0, Z: -5}, numeric.Vector{Y: 1}, 60)
	require.NoError(t, err)
	img := NewImage(8, 8)
	pool := &Pool{Workers: 2, Camera: cam, Integrator: ig, Image: img, Seed: 42, Diag: diag}

	err = pool.Run(context.Background(), Tiles(8, 8, 4), 2)

	require.NoError(t, err)
	for _, px := range img.Pixels {
		assert.False(t, px.HasNaN())
	}
}
