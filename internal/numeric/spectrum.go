package numeric

// Spectrum is an RGB triplet of Val in linear light space, with no
// alpha channel: alpha is meaningful for a compositing rasterizer but
// not for a radiance accumulator.
type Spectrum struct {
	R, G, B Val
}

var (
	SpectrumBlack = Spectrum{0, 0, 0}
	SpectrumWhite = Spectrum{1, 1, 1}
)

func NewSpectrum(r, g, b Val) Spectrum { return Spectrum{r, g, b} }

func (s Spectrum) Add(o Spectrum) Spectrum {
	return Spectrum{s.R + o.R, s.G + o.G, s.B + o.B}
}

func (s Spectrum) Sub(o Spectrum) Spectrum {
	return Spectrum{s.R - o.R, s.G - o.G, s.B - o.B}
}

func (s Spectrum) Mul(o Spectrum) Spectrum {
	return Spectrum{s.R * o.R, s.G * o.G, s.B * o.B}
}

func (s Spectrum) Scale(k Val) Spectrum {
	return Spectrum{s.R * k, s.G * k, s.B * k}
}

func (s Spectrum) MaxComponent() Val {
	return Max(s.R, Max(s.G, s.B))
}

func (s Spectrum) IsZero() bool {
	return s.R == 0 && s.G == 0 && s.B == 0
}

func (s Spectrum) HasNaN() bool {
	return s.R.IsNaN() || s.G.IsNaN() || s.B.IsNaN()
}

// Clamp01 clamps every channel into [0,1]; it backs the default
// ClampOperator tone operator, which runs before gamma encoding.
func (s Spectrum) Clamp01() Spectrum {
	return Spectrum{Clamp(s.R, 0, 1), Clamp(s.G, 0, 1), Clamp(s.B, 0, 1)}
}

// ClampNonNegative replaces negative channels with zero, a per-sample
// firewall against the occasional negative value numerical error in a
// BSDF or phase function can otherwise produce.
func (s Spectrum) ClampNonNegative() Spectrum {
	return Spectrum{Max(s.R, 0), Max(s.G, 0), Max(s.B, 0)}
}
