package sceneio

import (
	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/render"
	"pathtracer/internal/rerr"
	"pathtracer/internal/scenequery"
	"pathtracer/internal/shape"
	"pathtracer/internal/texture"
	"pathtracer/internal/xform"
)

// Description is the fully resolved scene: every pool frozen, every
// name reference turned into an Id, ready to hand to
// render.NewIntegrator and render.Pool.
type Description struct {
	Camera *render.Camera
	Config render.Config
	Scene  render.Scene
	Workers  int
	TileSize int
	PhotonCount        int
	PhotonBounces      int
	PhotonGatherRadius numeric.Val
	PhotonGatherK      int
	ToneOperator render.ToneOperator
}

// Resolve walks a parsed Document and builds a Description, returning
// a LoadErrorField for any missing required field and a NotFound
// LoadError for any dangling name reference.
func Resolve(doc *Document) (*Description, error) {
	cam, cfg, err := resolveRendererAndCamera(doc)
	if err != nil {
		return nil, err
	}

	shapes := shape.NewPool()
	shapesByName, err := resolveShapes(doc, shapes)
	if err != nil {
		return nil, err
	}

	mats := material.NewPool()
	matsByName, err := resolveMaterials(doc, mats)
	if err != nil {
		return nil, err
	}

	media := medium.NewPool()
	mediaByName, err := resolveMedia(doc, media)
	if err != nil {
		return nil, err
	}

	textures := texture.NewPool()
	if err := resolveTextures(doc, textures); err != nil {
		return nil, err
	}
	textures.Freeze()

	entities, lights, err := resolveEntities(doc, shapesByName, matsByName, mats, shapes)
	if err != nil {
		return nil, err
	}

	boundaries := medium.NewBoundaryPool()
	if err := resolveVolumes(doc, shapesByName, mediaByName, shapes, boundaries); err != nil {
		return nil, err
	}

	shapes.Freeze()
	mats.Freeze()
	media.Freeze()
	boundaries.Freeze()

	entityScene := scenequery.Build(shapes, entities)
	volumeScene := scenequery.BuildVolumeScene(shapes, boundaries)

	toneOp, err := resolveToneOperator(doc.Renderer.ToneOperator)
	if err != nil {
		return nil, err
	}

	return &Description{
		Camera: cam,
		Config: cfg,
		Scene: render.Scene{
			Entities:  entityScene,
			Volumes:   volumeScene,
			Materials: mats,
			Media:     media,
			Lights:    lights,
		},
		Workers:            doc.Renderer.Workers,
		TileSize:           defaultInt(doc.Renderer.TileSize, 16),
		PhotonCount:        doc.Renderer.PhotonCount,
		PhotonBounces:      defaultInt(doc.Renderer.PhotonBounces, 8),
		PhotonGatherRadius: photonGatherRadius(doc.Renderer.PhotonGatherRadius),
		PhotonGatherK:      defaultInt(doc.Renderer.PhotonGatherK, 50),
		ToneOperator:       toneOp,
	}, nil
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func photonGatherRadius(v float64) numeric.Val {
	if v <= 0 {
		return 0.5
	}
	return numeric.Val(v)
}

func resolveToneOperator(name string) (render.ToneOperator, error) {
	switch name {
	case "", "clamp":
		return render.ClampOperator{}, nil
	case "reinhard":
		return render.ReinhardOperator{}, nil
	default:
		return nil, rerr.LoadErrorField("renderer.tone_operator", "unknown tone operator "+name)
	}
}

func resolveRendererAndCamera(doc *Document) (*render.Camera, render.Config, error) {
	r := doc.Renderer
	if r.Width <= 0 {
		return nil, render.Config{}, rerr.ConfigurationErrorf("renderer.width must be positive, got %d", r.Width)
	}
	if r.Height <= 0 {
		return nil, render.Config{}, rerr.ConfigurationErrorf("renderer.height must be positive, got %d", r.Height)
	}
	if r.Iterations <= 0 {
		return nil, render.Config{}, rerr.ConfigurationErrorf("renderer.iterations must be positive, got %d", r.Iterations)
	}

	c := doc.Camera
	pos, err := vec3ToPoint("camera.position", c.Position)
	if err != nil {
		return nil, render.Config{}, err
	}
	lookAt, err := vec3ToPoint("camera.look_at", c.LookAt)
	if err != nil {
		return nil, render.Config{}, err
	}
	up, err := vec3ToVector("camera.up", c.Up)
	if err != nil {
		return nil, render.Config{}, err
	}
	if c.VFovDegrees <= 0 {
		return nil, render.Config{}, rerr.ConfigurationErrorf("camera.vfov_degrees must be positive, got %v", c.VFovDegrees)
	}

	cam, err := render.NewCamera(r.Width, r.Height, pos, lookAt, up, numeric.Val(c.VFovDegrees))
	if err != nil {
		return nil, render.Config{}, rerr.LoadErrorWrap(err, "camera")
	}

	bg := numeric.SpectrumBlack
	if len(r.Background) > 0 {
		bg, err = vec3ToSpectrum("renderer.background", r.Background)
		if err != nil {
			return nil, render.Config{}, err
		}
	}
	maxDist := numeric.Val(r.MaxRayDistance)
	if maxDist.LessEq(0) {
		maxDist = 1000
	}

	cfg := render.Config{
		Iterations:      r.Iterations,
		MaxDepth:        defaultInt(r.MaxDepth, 8),
		RRStartDepth:    defaultInt(r.RRStartDepth, 3),
		BackgroundColor: bg,
		MaxRayDistance:  maxDist,
	}
	return cam, cfg, nil
}

func vec3(field string, v []float64) (numeric.Val, numeric.Val, numeric.Val, error) {
	if len(v) != 3 {
		return 0, 0, 0, rerr.LoadErrorField(field, "must be an array of 3 numbers")
	}
	return numeric.Val(v[0]), numeric.Val(v[1]), numeric.Val(v[2]), nil
}

func vec3ToPoint(field string, v []float64) (numeric.Point, error) {
	x, y, z, err := vec3(field, v)
	return numeric.Point{X: x, Y: y, Z: z}, err
}

func vec3ToVector(field string, v []float64) (numeric.Vector, error) {
	x, y, z, err := vec3(field, v)
	return numeric.Vector{X: x, Y: y, Z: z}, err
}

func vec3ToSpectrum(field string, v []float64) (numeric.Spectrum, error) {
	x, y, z, err := vec3(field, v)
	return numeric.NewSpectrum(x, y, z), err
}

func resolveTransform(t *TransformDoc) (xform.Sequential, error) {
	if t == nil {
		return xform.Identity(), nil
	}
	var steps []xform.Atomic
	if len(t.Translate) > 0 {
		v, err := vec3ToVector("transform.translate", t.Translate)
		if err != nil {
			return xform.Sequential{}, err
		}
		steps = append(steps, xform.Translation(v))
	}
	if len(t.RotateAxis) > 0 {
		axis, err := vec3ToVector("transform.rotate_axis", t.RotateAxis)
		if err != nil {
			return xform.Sequential{}, err
		}
		q := numeric.QuaternionFromAxisAngle(axis, numeric.Val(t.RotateDegrees)*numeric.PI/180)
		steps = append(steps, xform.Rotation(q))
	}
	if t.Scale > 0 && t.Scale != 1 {
		steps = append(steps, xform.Scaling(numeric.Val(t.Scale)))
	}
	return xform.NewSequential(steps...), nil
}
