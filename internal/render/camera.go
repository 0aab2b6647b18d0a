// Package render is the top of the stack: Camera, the recursive
// integrator, the tile-based worker pool, and the tone operator. The
// camera uses the standard look-at/basis-vector construction, turned
// into a per-pixel ray-generation contract instead of a
// view/projection matrix pair.
package render

import (
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// Camera generates jittered primary rays for a pixel grid using a
// pinhole model.
type Camera struct {
	Width, Height int
	Position      numeric.Point
	forward       numeric.UnitVector
	right         numeric.Vector
	up            numeric.Vector
	halfHeight    numeric.Val
	halfWidth     numeric.Val
}

// NewCamera validates width/height first, then vertical field of
// view: resolution and aspect-ratio components are checked before the
// lens parameter.
func NewCamera(width, height int, position, lookAt numeric.Point, up numeric.Vector, vfovDegrees numeric.Val) (*Camera, error) {
	if width <= 0 {
		return nil, rerr.ConfigurationErrorf("camera width must be positive, got %d", width)
	}
	if height <= 0 {
		return nil, rerr.ConfigurationErrorf("camera height must be positive, got %d", height)
	}
	if vfovDegrees.LessEq(0) {
		return nil, rerr.ConfigurationErrorf("camera vertical field of view must be positive, got %v", vfovDegrees.Float64())
	}

	forwardVec := lookAt.Sub(position)
	forward, ok := forwardVec.Normalize()
	if !ok {
		return nil, rerr.ConfigurationErrorf("camera position and look_at must differ")
	}
	rightVec := forward.Vector().Cross(up)
	rightUnit, ok := rightVec.Normalize()
	if !ok {
		return nil, rerr.ConfigurationErrorf("camera up vector must not be parallel to the view direction")
	}
	trueUp := rightUnit.Vector().Cross(forward.Vector())

	aspect := numeric.Val(width) / numeric.Val(height)
	theta := vfovDegrees * numeric.PI / 180
	halfHeight := (theta / 2).Tan()
	halfWidth := halfHeight * aspect

	return &Camera{
		Width:      width,
		Height:     height,
		Position:   position,
		forward:    forward,
		right:      rightUnit.Vector(),
		up:         trueUp,
		halfHeight: halfHeight,
		halfWidth:  halfWidth,
	}, nil
}

// PrimaryRay returns the ray through pixel (px, py) offset within the
// pixel by (jx, jy) in [0,1), the jittered sub-pixel sample supplied by
// the caller's stratified Latin-hypercube sampler (internal/render's
// Pool).
func (c *Camera) PrimaryRay(px, py int, jx, jy numeric.Val) ray.Ray {
	u := (numeric.Val(px) + jx) / numeric.Val(c.Width)
	v := (numeric.Val(py) + jy) / numeric.Val(c.Height)

	// Map [0,1) to [-1,1), flipping v so row 0 is the top of the image.
	ndcX := 2*u - 1
	ndcY := 1 - 2*v

	dir := c.forward.Vector().
		Add(c.right.Scale(ndcX * c.halfWidth)).
		Add(c.up.Scale(ndcY * c.halfHeight))
	unit, ok := dir.Normalize()
	if !ok {
		unit = c.forward
	}
	return ray.Ray{Origin: c.Position, Direction: unit}
}
