// Package photon implements the optional photon-emission and storage
// machinery backing caustic rendering: a stored Photon record, a k-d
// tree PhotonMap supporting nearest-K radiance-estimate queries, and
// the Global/Caustic StoragePolicy that separates the general
// illumination estimate from the specular-to-diffuse caustic estimate.
// Emission and storage are gated on `photon_count > 0`; the path
// tracer consults the map only at the first non-specular bounce.
package photon

import (
	"pathtracer/internal/numeric"
)

// StoragePolicy selects which of a PhotonMap's photons a NearestK
// query matches (the map itself stores every photon): Global matches
// every stored photon for the diffuse radiance estimate; Caustic
// matches only photons whose path included at least one
// specular/refractive bounce before the diffuse surface that stored
// them.
type StoragePolicy int

const (
	StorageGlobal StoragePolicy = iota
	StorageCaustic
)

// Photon is one stored photon-map entry: position, incoming direction,
// and the power it carries (the emitting PhotonRay's throughput,
// recorded at the point of a diffuse bounce).
type Photon struct {
	Position  numeric.Point
	Direction numeric.UnitVector
	Power     numeric.Spectrum
	Caustic   bool
}

// kdNode is one node of the balanced k-d tree built over a fixed
// photon set; PhotonMap is immutable once built, so it is safe to
// share read-only across render-pool workers without locking.
type kdNode struct {
	photon Photon
	axis   int
	left   int
	right  int
}

// PhotonMap is a balanced k-d tree over a fixed set of photons,
// supporting k-nearest-neighbor queries for the radiance estimate at a
// diffuse surface point.
type PhotonMap struct {
	nodes []kdNode
	root  int
}

// Build constructs a balanced k-d tree from photons. An empty input
// yields a PhotonMap that answers every query with zero photons.
func Build(photons []Photon) *PhotonMap {
	pm := &PhotonMap{root: -1}
	if len(photons) == 0 {
		return pm
	}
	idxs := make([]int, len(photons))
	for i := range idxs {
		idxs[i] = i
	}
	pm.nodes = make([]kdNode, 0, len(photons))
	pm.root = pm.build(photons, idxs, 0)
	return pm
}

func (pm *PhotonMap) build(photons []Photon, idxs []int, depth int) int {
	if len(idxs) == 0 {
		return -1
	}
	axis := depth % 3
	sortByAxis(photons, idxs, axis)
	mid := len(idxs) / 2

	node := kdNode{photon: photons[idxs[mid]], axis: axis, left: -1, right: -1}
	pm.nodes = append(pm.nodes, node)
	nodeIdx := len(pm.nodes) - 1

	left := pm.build(photons, idxs[:mid], depth+1)
	right := pm.build(photons, idxs[mid+1:], depth+1)
	pm.nodes[nodeIdx].left = left
	pm.nodes[nodeIdx].right = right
	return nodeIdx
}

func sortByAxis(photons []Photon, idxs []int, axis int) {
	// Insertion sort: photon counts per build are modest (emission is
	// capped by photon_count) and this keeps the k-d build
	// dependency-free, matching the rest of this package's stdlib-only
	// numerical core.
	key := func(i int) numeric.Val {
		p := photons[i].Position
		switch axis {
		case 0:
			return p.X
		case 1:
			return p.Y
		default:
			return p.Z
		}
	}
	for i := 1; i < len(idxs); i++ {
		v := idxs[i]
		kv := key(v)
		j := i - 1
		for j >= 0 && key(idxs[j]).Greater(kv) {
			idxs[j+1] = idxs[j]
			j--
		}
		idxs[j+1] = v
	}
}

// Len reports how many photons are stored.
func (pm *PhotonMap) Len() int { return len(pm.nodes) }

// neighbor is one entry in a k-nearest-neighbors result, kept sorted
// by ascending squared distance.
type neighbor struct {
	distSq numeric.Val
	photon Photon
}

// NearestK returns up to k photons nearest to p (by Euclidean
// distance), each constrained to match policy (StorageGlobal matches
// every stored photon regardless of its Caustic flag; StorageCaustic
// matches only photons recorded along a specular-then-diffuse path).
// The search also clips to a maximum radius maxDist to bound the
// radiance estimate's bias at render time.
func (pm *PhotonMap) NearestK(p numeric.Point, k int, maxDist numeric.Val, policy StoragePolicy) []Photon {
	if pm.root < 0 || k <= 0 {
		return nil
	}
	var found []neighbor
	maxDistSq := maxDist * maxDist
	pm.search(pm.root, p, k, &maxDistSq, policy, &found)

	out := make([]Photon, len(found))
	for i, n := range found {
		out[i] = n.photon
	}
	return out
}

func matchesPolicy(ph Photon, policy StoragePolicy) bool {
	if policy == StorageCaustic {
		return ph.Caustic
	}
	return true
}

func (pm *PhotonMap) search(nodeIdx int, p numeric.Point, k int, maxDistSq *numeric.Val, policy StoragePolicy, found *[]neighbor) {
	if nodeIdx < 0 {
		return
	}
	n := pm.nodes[nodeIdx]

	if matchesPolicy(n.photon, policy) {
		d := n.photon.Position.Sub(p).LengthSq()
		if d.LessEq(*maxDistSq) {
			insertSorted(found, neighbor{distSq: d, photon: n.photon}, k)
			if len(*found) == k {
				*maxDistSq = (*found)[len(*found)-1].distSq
			}
		}
	}

	diff := axisDiff(n, p)
	near, far := n.left, n.right
	if diff.Greater(0) {
		near, far = n.right, n.left
	}
	pm.search(near, p, k, maxDistSq, policy, found)
	if diff*diff <= *maxDistSq || len(*found) < k {
		pm.search(far, p, k, maxDistSq, policy, found)
	}
}

func axisDiff(n kdNode, p numeric.Point) numeric.Val {
	switch n.axis {
	case 0:
		return p.X - n.photon.Position.X
	case 1:
		return p.Y - n.photon.Position.Y
	default:
		return p.Z - n.photon.Position.Z
	}
}

func insertSorted(found *[]neighbor, nb neighbor, k int) {
	i := 0
	for i < len(*found) && (*found)[i].distSq.LessEq(nb.distSq) {
		i++
	}
	*found = append(*found, neighbor{})
	copy((*found)[i+1:], (*found)[i:])
	(*found)[i] = nb
	if len(*found) > k {
		*found = (*found)[:k]
	}
}
