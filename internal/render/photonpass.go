package render

import (
	"math/rand/v2"

	"pathtracer/internal/material"
	"pathtracer/internal/numeric"
	"pathtracer/internal/photon"
	"pathtracer/internal/ray"
	"pathtracer/internal/rng"
)

// BuildPhotonMap runs the optional photon-emission pre-pass: emit
// `count` photons from the scene's registered light sources, trace
// each through the entity scene, and store one photon at the first
// non-specular (diffuse) surface it reaches. Photons whose path
// included at least one specular/refractive bounce before that
// diffuse surface are flagged Caustic; all others are flagged Global.
// A nil or empty-light scene yields an empty map rather than an error,
// since photon mapping is an optional pre-pass.
func BuildPhotonMap(scene Scene, count int, maxBounces int, seed uint64) *photon.PhotonMap {
	if count <= 0 || scene.Lights == nil || scene.Lights.Len() == 0 {
		return photon.Build(nil)
	}

	src := rng.NewSource(seed)
	var stored []photon.Photon

	for i := 0; i < count; i++ {
		r := src.ForPhoton(i)
		pr, ok := scene.Lights.SamplePhoton(r)
		if !ok {
			continue
		}
		if ph, stop := tracePhoton(scene, pr.Ray, pr.Throughput, false, maxBounces, r); stop {
			stored = append(stored, ph)
		}
	}
	return photon.Build(stored)
}

// tracePhoton follows one photon path up to maxBounces specular
// bounces, returning the Photon recorded at the first diffuse surface
// it reaches (ok=true), or ok=false if it escapes the scene or
// exhausts its bounce budget first.
func tracePhoton(scene Scene, r ray.Ray, power numeric.Spectrum, sawSpecular bool, bouncesLeft int, rng *rand.Rand) (photon.Photon, bool) {
	hit, hasHit := scene.Entities.FindNearest(r, numeric.PositiveRange())
	if !hasHit {
		return photon.Photon{}, false
	}

	mat := scene.Materials.Get(hit.Material)
	switch mat.Kind() {
	case material.KindSpecular, material.KindRefractive:
		if bouncesLeft <= 0 {
			return photon.Photon{}, false
		}
		cs := mat.SampleCoefficient(r.Direction, hit.Intersection, rng)
		if cs.PDF.LessEq(0) || cs.Coefficient.IsZero() {
			return photon.Photon{}, false
		}
		next := ray.Ray{Origin: hit.Intersection.Position, Direction: cs.Direction}
		nextPower := power.Mul(cs.Coefficient)
		return tracePhoton(scene, next, nextPower, true, bouncesLeft-1, rng)

	case material.KindDiffuse:
		return photon.Photon{
			Position:  hit.Intersection.Position,
			Direction: r.Direction,
			Power:     power,
			Caustic:   sawSpecular,
		}, true

	default:
		return photon.Photon{}, false
	}
}
