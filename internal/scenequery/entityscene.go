// Package scenequery implements the two scene-query abstractions a
// renderer needs over a frozen scene: EntityScene (nearest surface hit
// with material lookup) and VolumeScene (segment decomposition of a
// ray through nested/overlapping boundary volumes). Both are built
// once from the frozen shape/material/medium pools and are immutable
// for the lifetime of a render, read-only-shared across worker
// goroutines.
package scenequery

import (
	"sort"

	"pathtracer/internal/material"
	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/shape"
)

// Entity binds a shape to the material painted on it — the unit
// EntityScene is built over.
type Entity struct {
	Shape    shape.Id
	Material material.Id
}

// Hit is what FindNearest returns: the intersection event plus which
// entity it belongs to, as a (RayIntersection, MaterialId, ShapeId)
// tuple.
type Hit struct {
	Intersection ray.Intersection
	Material     material.Id
	Shape        shape.Id
}

type bvhNode struct {
	box         shape.BoundingBox
	left, right int // indices into the scene's node slice, -1 if leaf
	entityIdx   int // index into entities, valid only on a leaf (left==-1)
}

// EntityScene answers nearest-hit queries over the full set of scene
// entities via a bounding-volume hierarchy: broad-phase AABB rejection
// followed by a narrow-phase primitive test, with the broad phase
// itself organized as a tree so it stays sublinear.
type EntityScene struct {
	pool      *shape.Pool
	entities  []Entity
	nodes     []bvhNode
	root      int
	unbounded []int
}

// Build constructs an EntityScene from a frozen shape pool and the
// parallel entity list naming each shape's material. Shapes without a
// finite bounding box (an infinite Plane) are kept in an unbounded
// fallback list checked on every query, since they cannot be placed in
// a finite-extent BVH leaf.
func Build(pool *shape.Pool, entities []Entity) *EntityScene {
	es := &EntityScene{pool: pool, entities: entities}

	bounded := make([]int, 0, len(entities))
	for i, e := range entities {
		if _, ok := pool.Get(e.Shape).BoundingBox(); ok {
			bounded = append(bounded, i)
		} else {
			es.unbounded = append(es.unbounded, i)
		}
	}

	if len(bounded) == 0 {
		es.root = -1
		return es
	}
	es.root = es.build(bounded)
	return es
}

func (es *EntityScene) boxOf(entityIdx int) shape.BoundingBox {
	box, _ := es.pool.Get(es.entities[entityIdx].Shape).BoundingBox()
	return box
}

func (es *EntityScene) build(idxs []int) int {
	if len(idxs) == 1 {
		n := bvhNode{box: es.boxOf(idxs[0]), left: -1, right: -1, entityIdx: idxs[0]}
		es.nodes = append(es.nodes, n)
		return len(es.nodes) - 1
	}

	var bound shape.BoundingBox
	bound.Min = numeric.Point{X: numeric.INFINITY, Y: numeric.INFINITY, Z: numeric.INFINITY}
	bound.Max = numeric.Point{X: -numeric.INFINITY, Y: -numeric.INFINITY, Z: -numeric.INFINITY}
	for _, i := range idxs {
		b := es.boxOf(i)
		bound.Min = numeric.Point{X: numeric.Min(bound.Min.X, b.Min.X), Y: numeric.Min(bound.Min.Y, b.Min.Y), Z: numeric.Min(bound.Min.Z, b.Min.Z)}
		bound.Max = numeric.Point{X: numeric.Max(bound.Max.X, b.Max.X), Y: numeric.Max(bound.Max.Y, b.Max.Y), Z: numeric.Max(bound.Max.Z, b.Max.Z)}
	}

	extent := bound.Max.Sub(bound.Min)
	axis := 0
	if extent.Y.Greater(extent.X) {
		axis = 1
	}
	if axis == 0 && extent.Z.Greater(extent.X) {
		axis = 2
	}
	if axis == 1 && extent.Z.Greater(extent.Y) {
		axis = 2
	}

	sort.Slice(idxs, func(a, b int) bool {
		ca := centroidAxis(es.boxOf(idxs[a]), axis)
		cb := centroidAxis(es.boxOf(idxs[b]), axis)
		return ca.Less(cb)
	})
	mid := len(idxs) / 2
	leftIdx := es.build(append([]int(nil), idxs[:mid]...))
	rightIdx := es.build(append([]int(nil), idxs[mid:]...))

	n := bvhNode{box: bound, left: leftIdx, right: rightIdx, entityIdx: -1}
	es.nodes = append(es.nodes, n)
	return len(es.nodes) - 1
}

func centroidAxis(b shape.BoundingBox, axis int) numeric.Val {
	switch axis {
	case 0:
		return (b.Min.X + b.Max.X) / 2
	case 1:
		return (b.Min.Y + b.Max.Y) / 2
	default:
		return (b.Min.Z + b.Max.Z) / 2
	}
}

// FindNearest returns the globally nearest hit within rng, or
// ok=false if nothing is hit. Tie-break on equal distance follows
// build/traversal order, which is stable given a fixed pool and
// entity list.
func (es *EntityScene) FindNearest(r ray.Ray, rng numeric.DistanceRange) (Hit, bool) {
	best := Hit{}
	bestDist := rng.Max
	found := false

	for _, idx := range es.unbounded {
		e := es.entities[idx]
		s := es.pool.Get(e.Shape)
		localRange := numeric.DistanceRange{Min: rng.Min, Max: bestDist, MinClosed: rng.MinClosed, MaxClosed: true}
		hit, ok := s.Hit(r, localRange)
		if ok && hit.Distance.Less(bestDist) {
			bestDist = hit.Distance
			best = Hit{Intersection: hit, Material: e.Material, Shape: e.Shape}
			found = true
		}
	}

	if es.root >= 0 {
		es.traverse(es.root, r, rng.Min, &bestDist, &best, &found)
	}
	return best, found
}

func (es *EntityScene) traverse(nodeIdx int, r ray.Ray, rngMin numeric.Val, bestDist *numeric.Val, best *Hit, found *bool) {
	n := es.nodes[nodeIdx]
	boxRange := numeric.DistanceRange{Min: rngMin, Max: *bestDist, MinClosed: true, MaxClosed: true}
	if !n.box.Hit(r, boxRange) {
		return
	}
	if n.left == -1 {
		e := es.entities[n.entityIdx]
		s := es.pool.Get(e.Shape)
		localRange := numeric.DistanceRange{Min: rngMin, Max: *bestDist, MinClosed: true, MaxClosed: true}
		hit, ok := s.Hit(r, localRange)
		if ok && hit.Distance.Less(*bestDist) {
			*bestDist = hit.Distance
			*best = Hit{Intersection: hit, Material: e.Material, Shape: e.Shape}
			*found = true
		}
		return
	}
	es.traverse(n.left, r, rngMin, bestDist, best, found)
	es.traverse(n.right, r, rngMin, bestDist, best, found)
}

// MaterialOf resolves a material.Id in the given pool; a thin
// convenience over pool.Get.
func MaterialOf(pool *material.Pool, id material.Id) material.Material { return pool.Get(id) }

// MediumOf is the analogous convenience for media, used by
// VolumeScene callers.
func MediumOf(pool *medium.Pool, id medium.Id) medium.Medium { return pool.Get(id) }
