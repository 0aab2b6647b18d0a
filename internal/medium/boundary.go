package medium

import "pathtracer/internal/shape"

// BoundaryId pairs the shape defining a volume's boundary with the
// medium that fills its interior. VolumeScene
// (internal/scenequery) uses BoundaryPool to enumerate segments.
type BoundaryId struct {
	Shape  shape.Id
	Medium Id
}

// Boundary is one entry in a BoundaryPool: the concrete shape and
// medium a BoundaryId resolves to, plus the insertion order
// VolumeScene uses to break priority ties ("later-added
// wins, ties broken by insertion order").
type Boundary struct {
	ShapeID    shape.Id
	MediumID   Id
	Priority   int
}

// BoundaryPool is an ordered list of boundaries; order of addition is
// the tie-break / priority order the VolumeScene segment decomposition
// relies on.
type BoundaryPool struct {
	boundaries []Boundary
	frozen     bool
}

func NewBoundaryPool() *BoundaryPool { return &BoundaryPool{} }

func (p *BoundaryPool) Freeze() { p.frozen = true }

func (p *BoundaryPool) Add(shapeID shape.Id, mediumID Id) BoundaryId {
	if p.frozen {
		panic("medium: boundary pool is frozen for rendering and cannot be mutated")
	}
	idx := len(p.boundaries)
	p.boundaries = append(p.boundaries, Boundary{ShapeID: shapeID, MediumID: mediumID, Priority: idx})
	return BoundaryId{Shape: shapeID, Medium: mediumID}
}

func (p *BoundaryPool) All() []Boundary { return p.boundaries }
