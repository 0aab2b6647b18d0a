// Package texture implements the closed set of procedural/image
// textures: Solid, Checker, Gradient, and Image — each a pure function
// UV → Spectrum evaluated on the CPU inside the integrator, rather
// than an image cache bound to a GPU descriptor set.
package texture

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
)

type Kind int

const (
	KindSolid Kind = iota
	KindChecker
	KindGradient
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindChecker:
		return "checker"
	case KindGradient:
		return "gradient"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

type Id struct {
	Kind  Kind
	Index uint32
}

// Texture maps a surface UV to a reflectance/emission modulation
// value. It is a closed tagged-union dispatch like Shape/Material/
// Medium, not an open interface set.
type Texture interface {
	Kind() Kind
	Sample(uv ray.UV) numeric.Spectrum
}
