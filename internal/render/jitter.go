package render

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
)

// jitterSequence yields the jittered sub-pixel offset for sample
// index i out of `total`, stratified with Latin-hypercube
// jitter. Each of the two axes is independently permuted across
// samples so no two samples share a stratum on either axis, then
// jittered uniformly within their assigned 1/total-wide stratum.
type jitterSequence struct {
	permX, permY []int
}

// newJitterSequence builds the two permutations; the tile pool builds
// one per tile and reuses it for every pixel in that tile. rng drives both the permutation shuffle and
// per-call jitter draws.
func newJitterSequence(total int, rng *rand.Rand) *jitterSequence {
	permX := identityPermutation(total)
	permY := identityPermutation(total)
	shuffle(permX, rng)
	shuffle(permY, rng)
	return &jitterSequence{permX: permX, permY: permY}
}

func identityPermutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func shuffle(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}

// Offset returns the (jx, jy) sub-pixel offset for sample index i.
func (js *jitterSequence) Offset(i int, rng *rand.Rand) (numeric.Val, numeric.Val) {
	n := numeric.Val(len(js.permX))
	jx := (numeric.Val(js.permX[i]) + numeric.Val(rng.Float64())) / n
	jy := (numeric.Val(js.permY[i]) + numeric.Val(rng.Float64())) / n
	return jx, jy
}
