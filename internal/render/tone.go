package render

import "pathtracer/internal/numeric"

// ToneOperator maps an accumulated HDR radiance estimate to a
// display-referred value before the image writer applies gamma
// encoding: the per-pixel mean is mapped by a configured tone
// operator.
type ToneOperator interface {
	Map(s numeric.Spectrum) numeric.Spectrum
}

// ClampOperator is the default tone operator when no other is
// configured: clamp each channel to [0, 1].
type ClampOperator struct{}

func (ClampOperator) Map(s numeric.Spectrum) numeric.Spectrum {
	return s.Clamp01()
}

// ReinhardOperator applies the simple Reinhard curve x/(1+x)
// independently per channel, a standard alternative to clamping for
// scenes with bright highlights.
type ReinhardOperator struct{}

func (ReinhardOperator) Map(s numeric.Spectrum) numeric.Spectrum {
	c := s.ClampNonNegative()
	return numeric.NewSpectrum(
		c.R/(1+c.R),
		c.G/(1+c.G),
		c.B/(1+c.B),
	)
}

// Mapped applies op to every pixel, returning a new Image ready for
// gamma encoding by internal/imageio. The accumulated buffer itself is
// left untouched so diagnostics and re-tonemapping can reuse it.
func (img *Image) Mapped(op ToneOperator) *Image {
	out := NewImage(img.Width, img.Height)
	for i, px := range img.Pixels {
		out.Pixels[i] = op.Map(px)
	}
	return out
}
