// texel - software rasterizer demo and model renderer
//
// Usage:
//
//	texel view   [options] [model.obj|model.glb]   Interactive terminal viewer
//	texel render [options] [model.obj|model.glb]   Render frames to png/webp
//
// With no model, both commands show the built-in demo scene.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taigrr/texel/internal/config"
	"github.com/taigrr/texel/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var common commonFlags

	root := &cobra.Command{
		Use:   "texel",
		Short: "Software triangle rasterizer",
		Long: "texel rasterizes textured triangle meshes on the CPU, with near-plane " +
			"clipping, back-face culling, a 1/z depth buffer and an alpha test.\n\n" +
			"Models: .obj, .glb, .gltf. Without a model the demo scene is shown.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogger(common.logLevel)
		},
	}
	common.register(root.PersistentFlags())

	root.AddCommand(newViewCmd(&common), newRenderCmd(&common))
	return root
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	logLevel   string
	values     config.Flags
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", "", "JSON config file")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.IntVar(&c.values.Width, "width", 0, "output width in pixels (render only; view follows the terminal)")
	fs.IntVar(&c.values.Height, "height", 0, "output height in pixels")
	fs.Float64Var(&c.values.FOVDegrees, "fov", 0, "horizontal field of view in degrees")
	fs.Float64Var(&c.values.Near, "near", 0, "near plane z (negative)")
	fs.StringVarP(&c.values.Texture, "texture", "t", "", "texture image for models (png, jpeg, gif, bmp, webp, tga)")
	fs.StringVar(&c.values.Background, "bg", "", "background color R,G,B or none")
	fs.IntVar(&c.values.FPS, "fps", 0, "animation rate in frames per second")
}

// load reads the config file, applies flags and validates the result.
func (c *commonFlags) load() (config.Config, error) {
	var cfg config.Config
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg.Resolve(c.values)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupLogger installs a text logger on stderr for the CLI and the render
// package.
func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return nil
}

// modelArg returns the optional model path argument.
func modelArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
