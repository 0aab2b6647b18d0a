package scenequery

import (
	"sort"

	"pathtracer/internal/medium"
	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/shape"
)

// MediumSegment is one piece of a ray's parametric axis tagged with
// the medium active over that piece.
type MediumSegment struct {
	Start  numeric.Val
	Length numeric.Val
	Medium medium.Id
}

// VolumeScene decomposes a ray's parametric axis into medium-tagged
// segments over the set of boundary volumes. The active medium at
// parameter t is the one whose boundary set contains the point at t
// with the highest priority; later-added boundaries win ties.
type VolumeScene struct {
	shapes     *shape.Pool
	boundaries []medium.Boundary
}

func BuildVolumeScene(shapes *shape.Pool, boundaries *medium.BoundaryPool) *VolumeScene {
	return &VolumeScene{shapes: shapes, boundaries: boundaries.All()}
}

type boundaryEvent struct {
	t       numeric.Val
	entered bool
	index   int // index into vs.boundaries
}

// FindSegments enumerates the pieces of rng clipped to the ray's
// parametric axis, each tagged with the innermost (highest-priority)
// covering medium. Adjacent pieces with identical medium are
// coalesced. Pieces outside every boundary's interior carry
// medium.VacuumId.
func (vs *VolumeScene) FindSegments(r ray.Ray, rng numeric.DistanceRange) []MediumSegment {
	if rng.Length().LessEq(0) {
		return nil
	}

	var events []boundaryEvent
	boundaryRange := numeric.DistanceRange{Min: -numeric.INFINITY, Max: numeric.INFINITY, MinClosed: false, MaxClosed: false}

	// A boundary entered before rng.Min is already "inside" at the
	// start of the queried range even though its entry crossing falls
	// outside rng and is never added to the event sweep below; seed the
	// toggle map from the actual geometry instead of assuming every
	// boundary starts outside.
	boundaries := make(map[int]bool, len(vs.boundaries))
	origin := r.At(rng.Min)

	for i, b := range vs.boundaries {
		s, ok := vs.shapes.Get(b.ShapeID).(shape.Sampleable)
		if !ok {
			continue
		}
		if s.Inside(origin) {
			boundaries[i] = true
		}
		// Collect every distance along the ray where it crosses this
		// boundary's surface; a convex boundary has exactly two
		// (enter, exit), but the enumeration below tolerates more by
		// toggling parity each time.
		ts := boundaryCrossings(s, r, boundaryRange)
		for _, t := range ts {
			if !rng.Contains(t) {
				continue
			}
			events = append(events, boundaryEvent{t: t, index: i})
		}
	}

	mediumAt := func(p numeric.Point) medium.Id {
		best := medium.VacuumId
		bestPriority := -1
		for idx, inside := range boundaries {
			if !inside {
				continue
			}
			s, ok := vs.shapes.Get(vs.boundaries[idx].ShapeID).(shape.Sampleable)
			if !ok {
				continue
			}
			if !s.Inside(p) {
				continue
			}
			if vs.boundaries[idx].Priority >= bestPriority {
				bestPriority = vs.boundaries[idx].Priority
				best = vs.boundaries[idx].MediumID
			}
		}
		return best
	}

	sort.Slice(events, func(a, b int) bool { return events[a].t.Less(events[b].t) })

	var out []MediumSegment
	cursor := rng.Min
	for _, ev := range events {
		if ev.t.Greater(cursor) {
			mid := r.At((cursor + ev.t) / 2)
			appendSegment(&out, cursor, ev.t-cursor, mediumAt(mid))
		}
		boundaries[ev.index] = !boundaries[ev.index]
		cursor = ev.t
	}
	if rng.Max.Greater(cursor) {
		mid := r.At((cursor + rng.Max) / 2)
		appendSegment(&out, cursor, rng.Max-cursor, mediumAt(mid))
	}
	return out
}

// appendSegment coalesces adjacent pieces sharing the same medium, per
// 's "adjacent pieces with identical medium are coalesced".
func appendSegment(out *[]MediumSegment, start, length numeric.Val, m medium.Id) {
	if length.LessEq(0) {
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].Medium == m {
		(*out)[n-1].Length += length
		return
	}
	*out = append(*out, MediumSegment{Start: start, Length: length, Medium: m})
}

// boundaryCrossings finds every ray parameter where it enters or exits
// s's surface. Sphere and other closed Sampleable primitives produce
// at most two crossings for a convex shape; this walks Hit
// successively, advancing past each found root, which also covers the
// (rare) non-convex Polygon-as-boundary case up to the same
// nearest-hit-per-call contract every Shape already provides.
func boundaryCrossings(s shape.Sampleable, r ray.Ray, rng numeric.DistanceRange) []numeric.Val {
	var ts []numeric.Val
	remaining := rng
	for i := 0; i < 8; i++ {
		hit, ok := s.Hit(r, remaining)
		if !ok {
			break
		}
		ts = append(ts, hit.Distance)
		remaining.Min = hit.Distance + numeric.Epsilon
		remaining.MinClosed = false
	}
	return ts
}
