package texture

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"pathtracer/internal/numeric"
	"pathtracer/internal/ray"
	"pathtracer/internal/rerr"
)

// Solid is a constant-color texture.
type Solid struct {
	Color numeric.Spectrum
}

func NewSolid(c numeric.Spectrum) Solid { return Solid{Color: c} }

func (s Solid) Kind() Kind { return KindSolid }

func (s Solid) Sample(ray.UV) numeric.Spectrum { return s.Color }

// Checker alternates between two colors in a UV-space grid of the
// given scale (cells-per-unit-UV).
type Checker struct {
	Odd, Even numeric.Spectrum
	Scale     numeric.Val
}

func NewChecker(odd, even numeric.Spectrum, scale numeric.Val) Checker {
	return Checker{Odd: odd, Even: even, Scale: scale}
}

func (c Checker) Kind() Kind { return KindChecker }

func (c Checker) Sample(uv ray.UV) numeric.Spectrum {
	iu := int((uv.U * c.Scale).Float64())
	iv := int((uv.V * c.Scale).Float64())
	if (iu+iv)%2 == 0 {
		return c.Even
	}
	return c.Odd
}

// Gradient linearly interpolates between two colors along U.
type Gradient struct {
	From, To numeric.Spectrum
}

func NewGradient(from, to numeric.Spectrum) Gradient { return Gradient{From: from, To: to} }

func (g Gradient) Kind() Kind { return KindGradient }

func (g Gradient) Sample(uv ray.UV) numeric.Spectrum {
	t := numeric.Clamp(uv.U, 0, 1)
	return g.From.Scale(1 - t).Add(g.To.Scale(t))
}

// Image samples a decoded raster image, nearest-neighbor, with UV
// wrapped into [0,1). Only the open-and-decode step is needed here;
// there is no GPU-upload half for a CPU-evaluated texture.
type Image struct {
	Path   string
	pixels *image.NRGBA
}

// LoadImage decodes path into an Image texture. A missing or
// undecodable file is a LoadError.
func LoadImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, rerr.LoadErrorWrap(err, "open texture file "+path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Image{}, rerr.LoadErrorWrap(err, "decode texture file "+path)
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgba.Set(x, y, color.NRGBAModel.Convert(img.At(x, y)))
		}
	}
	return Image{Path: path, pixels: nrgba}, nil
}

func (img Image) Kind() Kind { return KindImage }

func (img Image) Sample(uv ray.UV) numeric.Spectrum {
	if img.pixels == nil {
		return numeric.SpectrumBlack
	}
	b := img.pixels.Bounds()
	w, h := b.Dx(), b.Dy()
	u := wrap01(uv.U)
	v := wrap01(uv.V)
	x := b.Min.X + int(u.Float64()*float64(w))
	y := b.Min.Y + int((1-v).Float64()*float64(h))
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	r, g, bl, _ := img.pixels.At(x, y).RGBA()
	return numeric.NewSpectrum(
		numeric.Val(float64(r)/0xffff),
		numeric.Val(float64(g)/0xffff),
		numeric.Val(float64(bl)/0xffff),
	)
}

func wrap01(v numeric.Val) numeric.Val {
	f := v.Float64()
	f -= float64(int(f))
	if f < 0 {
		f += 1
	}
	return numeric.Val(f)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
