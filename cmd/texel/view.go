package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/texel/internal/config"
	"github.com/taigrr/texel/pkg/math3d"
	"github.com/taigrr/texel/pkg/render"
	"github.com/taigrr/texel/pkg/scene"
)

// Interactive controls.
const (
	torqueStrength = 0.05  // Spin impulse per key press, radians per frame
	dragStrength   = 0.01  // Spin impulse per cell of mouse drag
	zoomStep       = 10.0  // Camera distance change per zoom step
	minZoom        = -60.0 // Camera z limits for zooming
	maxZoom        = 400.0
)

func newViewCmd(common *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [model.obj|model.glb]",
		Short: "Interactive terminal viewer",
		Long: "Render the demo scene or a model in the terminal using half-block cells.\n\n" +
			"Controls:\n" +
			"  WASD/arrows, Q/E, mouse drag   spin\n" +
			"  +/-, mouse wheel               zoom\n" +
			"  T                              toggle texture\n" +
			"  Space                          pause animation\n" +
			"  R                              reset\n" +
			"  Esc, Ctrl+C                    quit",
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
			return view(cmd.Context(), cfg, newStage())
		},
	}
}

// viewer holds the interactive state of the terminal viewer.
type viewer struct {
	cfg      config.Config
	bg       *render.Color
	stage    *stage
	renderer *render.Renderer
	spin     *scene.Spin
	checker  *render.Texture

	frames     int
	tick       int
	paused     bool
	textures   bool
	homeZ      float64
	dragging   bool
	lastX      int
	lastY      int
	textureSet []*render.Texture // Original texture per object
}

func newViewer(cfg config.Config, st *stage, cols, rows int) (*viewer, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	rcfg := cfg.Render()
	rcfg.Width, rcfg.Height = max(cols, 1), max(rows*2, 1)
	r, err := render.NewRenderer(rcfg)
	if err != nil {
		return nil, err
	}

	v := &viewer{
		cfg:      cfg,
		bg:       bg,
		stage:    st,
		renderer: r,
		spin:     scene.NewSpin(cfg.FPS),
		checker:  checkerTexture(),
		textures: true,
		homeZ:    st.scene.Camera.Position.Z,
	}
	for _, obj := range st.scene.Objects {
		v.textureSet = append(v.textureSet, obj.Texture)
	}
	return v, nil
}

// resize matches the framebuffer to a terminal of cols x rows cells.
func (v *viewer) resize(cols, rows int) error {
	return v.renderer.Resize(max(cols, 1), max(rows*2, 1))
}

func (v *viewer) zoom(delta float64) {
	cam := v.stage.scene.Camera
	z := math.Min(maxZoom, math.Max(minZoom, cam.Position.Z+delta))
	cam.SetPosition(math3d.V3(cam.Position.X, cam.Position.Y, z))
}

func (v *viewer) toggleTextures() {
	v.textures = !v.textures
	for i, obj := range v.stage.scene.Objects {
		if v.textures {
			obj.Texture = v.textureSet[i]
		} else {
			obj.Texture = v.checker
		}
	}
}

func (v *viewer) reset() {
	v.spin.Reset()
	v.frames, v.tick = 0, 0
	cam := v.stage.scene.Camera
	cam.SetPosition(math3d.V3(cam.Position.X, cam.Position.Y, v.homeZ))
}

// handle applies one terminal event. It reports false when the viewer
// should quit.
func (v *viewer) handle(ev uv.Event) (bool, error) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if err := v.resize(ev.Width, ev.Height); err != nil {
			return false, err
		}

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return false, nil
		case ev.MatchString("w", "up"):
			v.spin.Impulse(-torqueStrength, 0, 0)
		case ev.MatchString("s", "down"):
			v.spin.Impulse(torqueStrength, 0, 0)
		case ev.MatchString("a", "left"):
			v.spin.Impulse(0, -torqueStrength, 0)
		case ev.MatchString("d", "right"):
			v.spin.Impulse(0, torqueStrength, 0)
		case ev.MatchString("q"):
			v.spin.Impulse(0, 0, -torqueStrength)
		case ev.MatchString("e"):
			v.spin.Impulse(0, 0, torqueStrength)
		case ev.MatchString("+", "="):
			v.zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			v.zoom(zoomStep)
		case ev.MatchString("t"):
			v.toggleTextures()
		case ev.MatchString("space"):
			v.paused = !v.paused
		case ev.MatchString("r"):
			v.reset()
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.spin.Impulse(float64(dy)*dragStrength, float64(dx)*dragStrength, 0)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom(-zoomStep)
		case uv.MouseWheelDown:
			v.zoom(zoomStep)
		}
	}
	return true, nil
}

// frame advances the animation one step and draws it.
func (v *viewer) frame() {
	if !v.paused {
		v.frames++
		v.tick = v.frames * scene.DemoTickRate / v.cfg.FPS
	}
	v.stage.update(v.tick)

	// The user's spin is added on top of each object's animated pose.
	v.spin.Update()
	rot := v.spin.Rotation()
	for _, obj := range v.stage.scene.Objects {
		obj.Rotation = obj.Rotation.Add(rot)
	}

	v.renderer.Clear(v.bg)
	v.stage.scene.Draw(v.renderer)
}

func view(ctx context.Context, cfg config.Config, st *stage) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	v, err := newViewer(cfg, st, width, height)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if size, isSize := ev.(uv.WindowSizeEvent); isSize {
				term.Erase()
				term.Resize(size.Width, size.Height)
			}
			more, err := v.handle(ev)
			if err != nil || !more {
				return err
			}

		case <-ticker.C:
			start := time.Now()
			v.frame()
			v.renderer.FrameBuffer().Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			stats := v.renderer.Stats()
			slog.Debug("frame",
				slog.Int("tick", v.tick),
				slog.Int("drawn", stats.Drawn),
				slog.Int("culled", stats.Culled),
				slog.Int("split", stats.Split),
				slog.Duration("elapsed", time.Since(start)))
		}
	}
}
