// Package sceneio loads a declarative TOML scene description into the
// pool/Id machinery internal/shape, internal/material, internal/medium,
// and internal/texture expose: sections `[renderer]`, `[camera]`,
// `[[shapes]]`, `[[materials]]`, `[[media]]`, `[[textures]]`,
// `[[entities]]`, `[[volumes]]`, with materials/media/textures/shapes
// referenced elsewhere by string name. Entities reference shapes by
// name, so every named shape has to be defined somewhere for that
// reference to resolve — hence the standalone `[[shapes]]` section.
//
// Scene loading uses github.com/pelletier/go-toml/v2 and follows a
// decode-then-resolve structure: unmarshal into a plain data Document
// first, then walk it to build the richer, cross-referenced
// Description.
package sceneio

import (
	"github.com/pelletier/go-toml/v2"

	"pathtracer/internal/rerr"
)

// Document is the raw decoded shape of the TOML scene file, its
// sections mapped one-to-one onto Go structs. Every optional field is
// a pointer or has a documented zero-value default; required fields
// missing at Parse time are not caught here (TOML decode just leaves
// them zero) — Resolve is what raises LoadErrorField for those.
type Document struct {
	Renderer RendererDoc    `toml:"renderer"`
	Camera   CameraDoc      `toml:"camera"`
	Shapes   []ShapeDoc     `toml:"shapes"`
	Materials []MaterialDoc `toml:"materials"`
	Media    []MediumDoc    `toml:"media"`
	Textures []TextureDoc   `toml:"textures"`
	Entities []EntityDoc    `toml:"entities"`
	Volumes  []VolumeDoc    `toml:"volumes"`
}

type RendererDoc struct {
	Width          int       `toml:"width"`
	Height         int       `toml:"height"`
	Iterations     int       `toml:"iterations"`
	MaxDepth       int       `toml:"max_depth"`
	RRStartDepth   int       `toml:"rr_start_depth"`
	Background     []float64 `toml:"background"`
	Workers        int       `toml:"workers"`
	Seed           uint64    `toml:"seed"`
	MaxRayDistance float64   `toml:"max_ray_distance"`
	TileSize       int       `toml:"tile_size"`
	ToneOperator   string    `toml:"tone_operator"`
	PhotonCount    int       `toml:"photon_count"`
	PhotonBounces  int       `toml:"photon_bounces"`
	PhotonGatherRadius float64 `toml:"photon_gather_radius"`
	PhotonGatherK      int     `toml:"photon_gather_k"`
}

type CameraDoc struct {
	Position    []float64 `toml:"position"`
	LookAt      []float64 `toml:"look_at"`
	Up          []float64 `toml:"up"`
	VFovDegrees float64   `toml:"vfov_degrees"`
}

// TransformDoc is applied translate-then-rotate-then-scale, the
// natural reading order of a TOML table's fields; Rotate is an
// axis-angle pair since TOML has no native quaternion literal.
type TransformDoc struct {
	Translate    []float64 `toml:"translate"`
	RotateAxis   []float64 `toml:"rotate_axis"`
	RotateDegrees float64  `toml:"rotate_degrees"`
	Scale        float64   `toml:"scale"`
}

// ShapeDoc's Kind selects which of the fields below apply; unused
// fields for a given Kind are tolerated rather than rejected.
type ShapeDoc struct {
	Name   string  `toml:"name"`
	Kind   string  `toml:"kind"` // sphere | plane | triangle | polygon | gltf_mesh | obj_mesh
	Center []float64 `toml:"center"`
	Radius float64   `toml:"radius"`
	Point  []float64 `toml:"point"`
	Normal []float64 `toml:"normal"`
	V0     []float64 `toml:"v0"`
	V1     []float64 `toml:"v1"`
	V2     []float64 `toml:"v2"`
	Vertices [][]float64 `toml:"vertices"`
	GltfPath string    `toml:"gltf_path"`
	GltfMesh int       `toml:"gltf_mesh_index"`
	ObjPath  string    `toml:"obj_path"`
}

type MaterialDoc struct {
	Name     string    `toml:"name"`
	Kind     string    `toml:"kind"` // diffuse | specular | refractive | emissive
	Albedo   []float64 `toml:"albedo"`
	IOR      float64   `toml:"ior"`
	Radiance []float64 `toml:"radiance"`
}

type MediumDoc struct {
	Name    string    `toml:"name"`
	Kind    string    `toml:"kind"` // isotropic | henyey_greenstein
	SigmaS  []float64 `toml:"sigma_s"`
	SigmaA  []float64 `toml:"sigma_a"`
	G       float64   `toml:"g"`
	Priority int      `toml:"priority"`
}

type TextureDoc struct {
	Name  string    `toml:"name"`
	Kind  string    `toml:"kind"` // solid | checker | gradient | image
	Color []float64 `toml:"color"`
	Odd   []float64 `toml:"odd"`
	Even  []float64 `toml:"even"`
	From  []float64 `toml:"from"`
	To    []float64 `toml:"to"`
	Scale float64   `toml:"scale"`
	Path  string    `toml:"path"`
}

type EntityDoc struct {
	Shape     string        `toml:"shape"`
	Material  string        `toml:"material"`
	Transform *TransformDoc `toml:"transform"`
}

type VolumeDoc struct {
	Shape     string        `toml:"shape"`
	Medium    string        `toml:"medium"`
	Transform *TransformDoc `toml:"transform"`
}

// Parse decodes raw TOML bytes into a Document. Malformed TOML syntax
// is reported as a LoadError wrapping the decoder's own error, per
// 's LoadError kind.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, rerr.LoadErrorWrap(err, "malformed scene document")
	}
	return &doc, nil
}
