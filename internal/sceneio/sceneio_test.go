package sceneio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtracer/internal/render"
	"pathtracer/internal/rerr"
)

const minimalScene = `
[renderer]
width = 64
height = 48
iterations = 4
max_depth = 4

[camera]
position = [0, 0, 0]
look_at = [0, 0, -1]
up = [0, 1, 0]
vfov_degrees = 60

[[shapes]]
name = "floor"
kind = "sphere"
center = [0, -1001, -5]
radius = 1000

[[shapes]]
name = "light"
kind = "sphere"
center = [0, 5, -5]
radius = 1

[[materials]]
name = "white"
kind = "diffuse"
albedo = [0.8, 0.8, 0.8]

[[materials]]
name = "sun"
kind = "emissive"
radiance = [10, 10, 10]

[[entities]]
shape = "floor"
material = "white"

[[entities]]
shape = "light"
material = "sun"
`

func TestParseAndResolveMinimalScene(t *testing.T) {
	doc, err := Parse([]byte(minimalScene))
	require.NoError(t, err)

	desc, err := Resolve(doc)
	require.NoError(t, err)

	assert.Equal(t, 64, desc.Camera.Width)
	assert.Equal(t, 1, desc.Scene.Lights.Len())
}

func TestResolveRejectsUnknownMaterialReference(t *testing.T) {
	doc, err := Parse([]byte(minimalScene + "\n[[entities]]\nshape = \"floor\"\nmaterial = \"missing\"\n"))
	require.NoError(t, err)

	_, err = Resolve(doc)
	assert.Error(t, err)
}

func TestResolveRejectsUnknownShapeReference(t *testing.T) {
	doc, err := Parse([]byte(minimalScene + "\n[[volumes]]\nshape = \"nope\"\nmedium = \"fog\"\n"))
	require.NoError(t, err)

	_, err = Resolve(doc)
	assert.Error(t, err)
}

func TestResolveRejectsNonPositiveRendererFieldsAsConfigurationError(t *testing.T) {
	cases := []struct {
		name   string
		scene  string
	}{
		{"width", "\n[renderer]\nwidth = 0\nheight = 48\niterations = 4\n\n[camera]\nposition = [0, 0, 0]\nlook_at = [0, 0, -1]\nup = [0, 1, 0]\nvfov_degrees = 60\n"},
		{"height", "\n[renderer]\nwidth = 64\nheight = 0\niterations = 4\n\n[camera]\nposition = [0, 0, 0]\nlook_at = [0, 0, -1]\nup = [0, 1, 0]\nvfov_degrees = 60\n"},
		{"iterations", "\n[renderer]\nwidth = 64\nheight = 48\niterations = 0\n\n[camera]\nposition = [0, 0, 0]\nlook_at = [0, 0, -1]\nup = [0, 1, 0]\nvfov_degrees = 60\n"},
		{"vfov_degrees", "\n[renderer]\nwidth = 64\nheight = 48\niterations = 4\n\n[camera]\nposition = [0, 0, 0]\nlook_at = [0, 0, -1]\nup = [0, 1, 0]\nvfov_degrees = 0\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := Parse([]byte(c.scene))
			require.NoError(t, err)

			_, err = Resolve(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, rerr.Configuration), "expected a ConfigurationError, got %v", err)
		})
	}
}

func TestResolveAppliesEntityTransform(t *testing.T) {
	doc, err := Parse([]byte(minimalScene))
	require.NoError(t, err)
	doc.Entities[0].Transform = &TransformDoc{Translate: []float64{1, 2, 3}, Scale: 2}

	desc, err := Resolve(doc)
	require.NoError(t, err)
	assert.NotNil(t, desc)
}

func TestParseRejectsMalformedToml(t *testing.T) {
	_, err := Parse([]byte("this is not [valid toml"))
	assert.Error(t, err)
}

func TestResolveDefaultsToneOperatorToClamp(t *testing.T) {
	doc, err := Parse([]byte(minimalScene))
	require.NoError(t, err)
	desc, err := Resolve(doc)
	require.NoError(t, err)
	assert.IsType(t, render.ClampOperator{}, desc.ToneOperator)
}
