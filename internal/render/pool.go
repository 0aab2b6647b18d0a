package render

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pathtracer/internal/numeric"
	"pathtracer/internal/rng"
)

// Tile is one unit of work: a rectangular pixel region, e.g. 16x16.
type Tile struct {
	X0, Y0, X1, Y1 int
}

// Image is the render target: a flat Spectrum buffer partitioned by
// tile so workers write disjoint regions without locking.
type Image struct {
	Width, Height int
	Pixels        []numeric.Spectrum
}

func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pixels: make([]numeric.Spectrum, width*height)}
}

func (img *Image) At(x, y int) numeric.Spectrum { return img.Pixels[y*img.Width+x] }
func (img *Image) Set(x, y int, s numeric.Spectrum) { img.Pixels[y*img.Width+x] = s }

// Tiles partitions a width x height image into tileSize x tileSize
// work units.
func Tiles(width, height, tileSize int) []Tile {
	var out []Tile
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			out = append(out, Tile{
				X0: x, Y0: y,
				X1: minInt(x+tileSize, width),
				Y1: minInt(y+tileSize, height),
			})
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Pool drives a fixed-size worker pool over a tile queue using
// golang.org/x/sync/errgroup for bounded-concurrency fan-out: a
// fixed-size worker pool consumes tiles from a shared queue, and each
// worker runs a tile to completion.
type Pool struct {
	Workers int
	Camera  *Camera
	Integrator *Integrator
	Image   *Image
	Seed    uint64
	Diag    *Diagnostics

	cancel atomic.Bool
}

// Cancel sets the cooperative cancel flag: in-flight tiles run to
// completion, no new tiles are started.
func (p *Pool) Cancel() { p.cancel.Store(true) }

// Run drives every tile in tiles to completion across p.Workers
// goroutines, or stops dispatching new tiles once Cancel is called.
// Per-(pixel,sample) seeding comes from internal/rng's splittable
// source, so results are reproducible regardless of which worker
// processes which tile.
func (p *Pool) Run(ctx context.Context, tiles []Tile, iterations int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	source := rng.NewSource(p.Seed)
	logger := log.Default().With("workers", p.Workers, "tiles", len(tiles))
	logger.Info("render pool starting")

	for _, tile := range tiles {
		tile := tile
		g.Go(func() error {
			if p.cancel.Load() {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			p.renderTile(tile, iterations, source)
			return nil
		})
	}

	err := g.Wait()
	logger.Info("render pool finished", "nan_samples", p.Diag.NaNSamples.Load(), "rr_terminated", p.Diag.RRTerminated.Load())
	return err
}

func (p *Pool) renderTile(tile Tile, iterations int, source rng.Source) {
	jitter := newJitterSequence(iterations, source.ForSample(tile.X0*73856093^tile.Y0, 0))

	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			pixelIndex := y*p.Camera.Width + x
			var accum numeric.Spectrum
			for s := 0; s < iterations; s++ {
				r := source.ForSample(pixelIndex, s)
				jx, jy := jitter.Offset(s, r)
				primary := p.Camera.PrimaryRay(x, y, jx, jy)
				accum = accum.Add(p.Integrator.Trace(primary, r))
			}
			mean := accum.Scale(1 / numeric.Val(iterations))
			p.Image.Set(x, y, mean)
		}
	}
}
