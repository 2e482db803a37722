package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/texel/internal/config"
	"github.com/taigrr/texel/internal/export"
	"github.com/taigrr/texel/pkg/render"
	"github.com/taigrr/texel/pkg/scene"
)

func newRenderCmd(common *commonFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [model.obj|model.glb]",
		Short: "Render frames to png or webp files",
		Long: "Render an animation of the demo scene or a model on a turntable to\n" +
			"numbered image files, several frames in parallel.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.load()
			if err != nil {
				return err
			}
			newStage, err := loadStage(cfg, modelArg(args))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return renderFrames(ctx, cfg, newStage)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&common.values.Supersample, "supersample", "s", 0, "render at N times the size and downsample")
	fs.StringVarP(&common.values.OutputDir, "out", "o", "", "output directory")
	fs.StringVarP(&common.values.Format, "format", "f", "", "output format (png, webp)")
	fs.IntVarP(&common.values.Frames, "frames", "n", 0, "number of frames to render")
	fs.IntVarP(&common.values.Workers, "workers", "j", 0, "frames rendered in parallel")
	return cmd
}

// frameTick maps an output frame index to the animation tick it shows.
func frameTick(frame, fps int) int {
	return frame * scene.DemoTickRate / fps
}

// framePath names frame i inside the output directory.
func framePath(cfg config.Config, i int) string {
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("frame_%04d.%s", i, cfg.Format))
}

// renderFrames renders cfg.Frames frames with cfg.Workers goroutines. Each
// worker owns its renderer and stage, so frames share only read-only meshes
// and textures.
func renderFrames(ctx context.Context, cfg config.Config, newStage stageFactory) error {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	start := time.Now()
	slog.Info("rendering",
		slog.Int("frames", cfg.Frames),
		slog.Int("workers", cfg.Workers),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("supersample", cfg.Supersample),
		slog.String("format", cfg.Format))

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range cfg.Frames {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range max(cfg.Workers, 1) {
		g.Go(func() error {
			r, err := render.NewRenderer(cfg.Render())
			if err != nil {
				return err
			}
			st := newStage()
			for i := range jobs {
				if err := renderFrame(r, st, cfg, bg, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("done", slog.Int("frames", cfg.Frames), slog.Duration("elapsed", time.Since(start)))
	return nil
}

func renderFrame(r *render.Renderer, st *stage, cfg config.Config, bg *render.Color, i int) error {
	st.update(frameTick(i, cfg.FPS))
	r.Clear(bg)
	st.scene.Draw(r)

	path := framePath(cfg, i)
	if err := export.SaveFrame(path, r.FrameBuffer(), cfg.Supersample); err != nil {
		return fmt.Errorf("frame %d: %w", i, err)
	}

	stats := r.Stats()
	slog.Debug("frame written",
		slog.String("path", path),
		slog.Int("triangles", stats.Triangles),
		slog.Int("drawn", stats.Drawn),
		slog.Int("culled", stats.Culled),
		slog.Int("clipped", stats.Clipped),
		slog.Int("split", stats.Split),
		slog.Int("pixels", stats.Pixels))
	return nil
}
