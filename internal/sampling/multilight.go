package sampling

import (
	"math/rand/v2"

	"pathtracer/internal/numeric"
)

// MultiLight aggregates LightSampling children, choosing among them
// with probability proportional to power and keeping insertion order
// stable across frames: children are kept in a canonical order
// determined by insertion.
type MultiLight struct {
	children []LightSampling
	weights  []numeric.Val
	total    numeric.Val

	photons []PhotonSampling
}

func NewMultiLight() *MultiLight { return &MultiLight{} }

// Add appends a light in insertion order; its selection probability is
// derived from Power() at selection time, not cached here, since a
// medium-coupled light's power could in principle vary, though none of
// the current Light implementations do.
func (m *MultiLight) Add(l LightSampling) {
	m.children = append(m.children, l)
}

// AddPhotonSource registers the photon-emission counterpart of the
// most recently Add-ed light, so the photon pre-pass can emit from the
// same emissive entities NEE samples, weighted by the same per-light
// Power().
func (m *MultiLight) AddPhotonSource(p PhotonSampling) {
	m.photons = append(m.photons, p)
}

// SamplePhoton picks a registered photon source with probability
// proportional to its paired light's Power() and emits one photon ray
// from it. Returns ok=false if no photon sources are registered.
func (m *MultiLight) SamplePhoton(rng *rand.Rand) (PhotonRay, bool) {
	if len(m.photons) == 0 {
		return PhotonRay{}, false
	}
	powers := make([]numeric.Val, len(m.children))
	var total numeric.Val
	for i, c := range m.children {
		powers[i] = c.Power()
		total += powers[i]
	}
	idx := 0
	if total.Greater(0) {
		target := numeric.Val(rng.Float64()) * total
		var cum numeric.Val
		idx = len(m.children) - 1
		for i, p := range powers {
			cum += p
			if target.LessEq(cum) {
				idx = i
				break
			}
		}
	} else {
		idx = int(numeric.Val(rng.Float64()) * numeric.Val(len(m.photons)))
		if idx >= len(m.photons) {
			idx = len(m.photons) - 1
		}
	}
	if idx >= len(m.photons) {
		return PhotonRay{}, false
	}
	return m.photons[idx].Emit(rng), true
}

// Len reports how many lights are registered.
func (m *MultiLight) Len() int { return len(m.children) }

// SampleLight implements power-weighted aggregate selection: choose
// among children with probability proportional to power, then
// multiply the chosen child's pdf by the selection probability so the
// combined estimator stays unbiased. Returns ok=false for the empty
// set.
func (m *MultiLight) SampleLight(from numeric.Point, u1, u2 numeric.Val, rng *rand.Rand) (LightSample, bool) {
	if len(m.children) == 0 {
		return LightSample{}, false
	}
	powers := make([]numeric.Val, len(m.children))
	var total numeric.Val
	for i, c := range m.children {
		p := c.Power()
		powers[i] = p
		total += p
	}
	if total.LessEq(0) {
		// No child carries positive power; fall back to uniform
		// selection rather than returning no sample.
		idx := int(numeric.Val(rng.Float64()) * numeric.Val(len(m.children)))
		if idx >= len(m.children) {
			idx = len(m.children) - 1
		}
		selProb := 1 / numeric.Val(len(m.children))
		return m.sampleChild(idx, selProb, from, u1, u2, rng)
	}

	target := numeric.Val(rng.Float64()) * total
	var cum numeric.Val
	idx := len(m.children) - 1
	for i, p := range powers {
		cum += p
		if target.LessEq(cum) {
			idx = i
			break
		}
	}
	selProb := powers[idx] / total
	return m.sampleChild(idx, selProb, from, u1, u2, rng)
}

func (m *MultiLight) sampleChild(idx int, selProb numeric.Val, from numeric.Point, u1, u2 numeric.Val, rng *rand.Rand) (LightSample, bool) {
	s, ok := m.children[idx].SampleLight(from, u1, u2, rng)
	if !ok || selProb.LessEq(0) {
		return LightSample{}, false
	}
	s.PDF *= selProb
	return s, true
}

// PDFLight is the power-weighted mixture pdf at dirOut, summing every
// child's contribution — the MIS partner density for a BSDF-sampled
// ray that happens to hit a light belonging to this aggregate.
func (m *MultiLight) PDFLight(from numeric.Point, dirOut numeric.UnitVector) numeric.Val {
	if len(m.children) == 0 {
		return 0
	}
	var total numeric.Val
	powers := make([]numeric.Val, len(m.children))
	for i, c := range m.children {
		powers[i] = c.Power()
		total += powers[i]
	}
	if total.LessEq(0) {
		return 0
	}
	var pdf numeric.Val
	for i, c := range m.children {
		pdf += (powers[i] / total) * c.PDFLight(from, dirOut)
	}
	return pdf
}

func (m *MultiLight) Power() numeric.Val {
	var total numeric.Val
	for _, c := range m.children {
		total += c.Power()
	}
	return total
}
