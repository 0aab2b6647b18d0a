// Command pathtrace is the batch CLI entrypoint: a binary accepting a
// TOML scene description and an output image path, exiting 0 on
// success and non-zero with one diagnostic line on stderr for any load
// or render error.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pathtracer/internal/imageio"
	"pathtracer/internal/render"
	"pathtracer/internal/sceneio"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pathtrace",
		Short:         "offline physically-based renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCommand())
	return root
}

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <config.toml> <output.(png|ppm)>",
		Short: "render a scene description to an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], args[1])
		},
	}
}

// workerCount returns the pool size a render should use: the
// RENDERER_THREADS environment variable when it parses as a positive
// integer, the scene's configured worker count next, otherwise
// GOMAXPROCS.
func workerCount(configured int) int {
	if v := os.Getenv("RENDERER_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

func runRender(ctx context.Context, configPath, outputPath string) error {
	runID := uuid.New().String()[:8]
	logger := log.Default().With("run", runID)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	doc, err := sceneio.Parse(data)
	if err != nil {
		return err
	}
	desc, err := sceneio.Resolve(doc)
	if err != nil {
		return err
	}

	workers := workerCount(desc.Workers)

	cfg := desc.Config
	if desc.PhotonCount > 0 {
		logger.Info("building photon map", "count", desc.PhotonCount)
		cfg.Photons = render.BuildPhotonMap(desc.Scene, desc.PhotonCount, desc.PhotonBounces, doc.Renderer.Seed)
		cfg.PhotonGatherRadius = desc.PhotonGatherRadius
		cfg.PhotonGatherK = desc.PhotonGatherK
		logger.Info("photon map built", "stored", cfg.Photons.Len())
	}

	diag := &render.Diagnostics{}
	integrator := render.NewIntegrator(desc.Scene, cfg, diag)
	image := render.NewImage(desc.Camera.Width, desc.Camera.Height)

	pool := &render.Pool{
		Workers:    workers,
		Camera:     desc.Camera,
		Integrator: integrator,
		Image:      image,
		Seed:       doc.Renderer.Seed,
		Diag:       diag,
	}

	tileSize := desc.TileSize
	if tileSize <= 0 {
		tileSize = 16
	}
	tiles := render.Tiles(desc.Camera.Width, desc.Camera.Height, tileSize)

	logger.Info("render starting", "config", configPath, "width", desc.Camera.Width, "height", desc.Camera.Height, "workers", workers, "tiles", len(tiles))
	start := time.Now()
	if err := pool.Run(ctx, tiles, desc.Config.Iterations); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Info("render finished", "elapsed", time.Since(start))

	mapped := image.Mapped(desc.ToneOperator)
	if err := imageio.WriteFile(outputPath, mapped); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logger.Info("wrote output", "path", outputPath)
	return nil
}
