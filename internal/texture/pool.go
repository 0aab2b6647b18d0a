package texture

// Pool is the homogeneous per-kind texture bucket.
type Pool struct {
	solid    []Solid
	checker  []Checker
	gradient []Gradient
	image    []Image
	frozen   bool
}

func NewPool() *Pool { return &Pool{} }

func (p *Pool) Freeze() { p.frozen = true }

func (p *Pool) mustNotBeFrozen() {
	if p.frozen {
		panic("texture: pool is frozen for rendering and cannot be mutated")
	}
}

func (p *Pool) AddSolid(t Solid) Id {
	p.mustNotBeFrozen()
	p.solid = append(p.solid, t)
	return Id{Kind: KindSolid, Index: uint32(len(p.solid) - 1)}
}

func (p *Pool) AddChecker(t Checker) Id {
	p.mustNotBeFrozen()
	p.checker = append(p.checker, t)
	return Id{Kind: KindChecker, Index: uint32(len(p.checker) - 1)}
}

func (p *Pool) AddGradient(t Gradient) Id {
	p.mustNotBeFrozen()
	p.gradient = append(p.gradient, t)
	return Id{Kind: KindGradient, Index: uint32(len(p.gradient) - 1)}
}

func (p *Pool) AddImage(t Image) Id {
	p.mustNotBeFrozen()
	p.image = append(p.image, t)
	return Id{Kind: KindImage, Index: uint32(len(p.image) - 1)}
}

func (p *Pool) Get(id Id) Texture {
	switch id.Kind {
	case KindSolid:
		return p.solid[id.Index]
	case KindChecker:
		return p.checker[id.Index]
	case KindGradient:
		return p.gradient[id.Index]
	case KindImage:
		return p.image[id.Index]
	default:
		panic("texture: unknown Kind in Id")
	}
}
