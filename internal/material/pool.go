package material

// Pool is the homogeneous per-kind material bucket, in
// the same shape as shape.Pool.
type Pool struct {
	diffuse    []Diffuse
	specular   []Specular
	refractive []Refractive
	emissive   []Emissive
	frozen     bool
}

func NewPool() *Pool { return &Pool{} }

func (p *Pool) Freeze() { p.frozen = true }

func (p *Pool) mustNotBeFrozen() {
	if p.frozen {
		panic("material: pool is frozen for rendering and cannot be mutated")
	}
}

func (p *Pool) AddDiffuse(m Diffuse) Id {
	p.mustNotBeFrozen()
	p.diffuse = append(p.diffuse, m)
	return Id{Kind: KindDiffuse, Index: uint32(len(p.diffuse) - 1)}
}

func (p *Pool) AddSpecular(m Specular) Id {
	p.mustNotBeFrozen()
	p.specular = append(p.specular, m)
	return Id{Kind: KindSpecular, Index: uint32(len(p.specular) - 1)}
}

func (p *Pool) AddRefractive(m Refractive) Id {
	p.mustNotBeFrozen()
	p.refractive = append(p.refractive, m)
	return Id{Kind: KindRefractive, Index: uint32(len(p.refractive) - 1)}
}

func (p *Pool) AddEmissive(m Emissive) Id {
	p.mustNotBeFrozen()
	p.emissive = append(p.emissive, m)
	return Id{Kind: KindEmissive, Index: uint32(len(p.emissive) - 1)}
}

func (p *Pool) Get(id Id) Material {
	switch id.Kind {
	case KindDiffuse:
		return p.diffuse[id.Index]
	case KindSpecular:
		return p.specular[id.Index]
	case KindRefractive:
		return p.refractive[id.Index]
	case KindEmissive:
		return p.emissive[id.Index]
	default:
		panic("material: unknown Kind in Id")
	}
}
