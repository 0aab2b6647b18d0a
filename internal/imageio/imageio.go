// Package imageio writes a tone-mapped internal/render.Image to disk
// in two formats: PPM (P3 ASCII) and PNG (8-bit sRGB). PNG encoding
// uses the standard library's image/png encoder; there is no
// third-party PNG encoder worth pulling in over it.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pathtracer/internal/numeric"
	"pathtracer/internal/render"
	"pathtracer/internal/rerr"
)

// srgbEncode applies the piecewise sRGB transfer function: a linear
// segment below 0.0031308, a power curve above it.
func srgbEncode(linear numeric.Val) numeric.Val {
	c := numeric.Clamp(linear, 0, 1)
	if c.LessEq(0.0031308) {
		return c * 12.92
	}
	return 1.055*c.Pow(1/2.4) - 0.055
}

func to8Bit(v numeric.Val) uint8 {
	encoded := srgbEncode(v)
	scaled := encoded.Float64()*255 + 0.5
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return uint8(scaled)
}

// WritePPM writes img as a P3 ASCII PPM: header "P3\n<W> <H>\n255\n",
// row-major top-to-bottom, space-separated "R G B" triplets, one
// newline-terminated row per scanline. PPM is plain text formatting;
// no library is warranted for it.
func WritePPM(w io.Writer, img *render.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return rerr.ImageIOWrap(err, "writing ppm header")
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.At(x, y)
			if x > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return rerr.ImageIOWrap(err, "writing ppm row")
				}
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d", to8Bit(px.R), to8Bit(px.G), to8Bit(px.B)); err != nil {
				return rerr.ImageIOWrap(err, "writing ppm pixel")
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return rerr.ImageIOWrap(err, "writing ppm row terminator")
		}
	}
	return bw.Flush()
}

// WritePNG writes img as an 8-bit RGB PNG, sRGB gamma-encoded.
func WritePNG(w io.Writer, img *render.Image) error {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.At(x, y)
			rgba.SetRGBA(x, y, color.RGBA{R: to8Bit(px.R), G: to8Bit(px.G), B: to8Bit(px.B), A: 255})
		}
	}
	if err := png.Encode(w, rgba); err != nil {
		return rerr.ImageIOWrap(err, "encoding png")
	}
	return nil
}

// WriteFile dispatches on the output path's extension to WritePPM or
// WritePNG.
func WriteFile(path string, img *render.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return rerr.ImageIOWrap(err, "creating output file "+path)
	}
	defer f.Close()

	switch extOf(path) {
	case "ppm":
		return WritePPM(f, img)
	case "png":
		return WritePNG(f, img)
	default:
		return rerr.ImageIOErrorf("unsupported output extension for %q (want .png or .ppm)", path)
	}
}

func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
