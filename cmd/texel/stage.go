package main

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taigrr/texel/internal/config"
	"github.com/taigrr/texel/pkg/math3d"
	"github.com/taigrr/texel/pkg/models"
	"github.com/taigrr/texel/pkg/render"
	"github.com/taigrr/texel/pkg/scene"
)

// A loaded model is normalized to [-1, 1] and scaled up so it sits well
// behind the default near plane.
const (
	modelScale     = 40.0
	modelDistance  = 150.0
	turntableSpeed = 0.01 // radians per demo tick
)

// stage is what the commands draw: the demo or a single model on a
// turntable.
type stage struct {
	scene  *scene.Scene
	model  *scene.Object // nil for the demo
	update func(tick int)
}

// stageFactory builds independent stages over shared, read-only meshes and
// textures, one per renderer.
type stageFactory func() *stage

func demoStage() *stage {
	d := scene.NewDemo()
	return &stage{scene: d.Scene, update: d.Update}
}

// loadStage prepares a factory for the demo (empty path) or a model file.
func loadStage(cfg config.Config, path string) (stageFactory, error) {
	if path == "" {
		return demoStage, nil
	}

	mesh, tex, err := loadModel(path, cfg.Texture)
	if err != nil {
		return nil, err
	}
	mesh.Normalize()
	slog.Info("model loaded",
		slog.String("file", filepath.Base(path)),
		slog.Int("vertices", mesh.VertexCount()),
		slog.Int("triangles", mesh.TriangleCount()))

	return func() *stage {
		obj := scene.NewObject(mesh, tex)
		obj.Scale = math3d.Splat3(modelScale)

		s := scene.New()
		s.Camera.SetPosition(math3d.V3(0, 0, modelDistance))
		s.Add(obj)

		return &stage{
			scene: s,
			model: obj,
			update: func(tick int) {
				obj.Rotation = math3d.V3(0, float64(tick)*turntableSpeed, 0)
			},
		}
	}, nil
}

// loadModel loads a mesh and picks its texture: the explicit texture path,
// then a texture embedded in a glTF file, then a checkerboard.
func loadModel(path, texturePath string) (*models.Mesh, *render.Texture, error) {
	var (
		tex *render.Texture
		err error
	)
	if texturePath != "" {
		if tex, err = render.LoadTexture(texturePath); err != nil {
			return nil, nil, err
		}
	}

	var mesh *models.Mesh
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		var embedded image.Image
		mesh, embedded, err = models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		if tex == nil && embedded != nil {
			tex = render.TextureFromImage(embedded)
			slog.Info("using embedded texture", slog.Int("width", tex.Width), slog.Int("height", tex.Height))
		}
	case ".obj":
		if mesh, err = models.LoadOBJ(path); err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported format: %s (use .obj, .glb or .gltf)", ext)
	}

	if tex == nil {
		tex = checkerTexture()
	}
	return mesh, tex, nil
}

func checkerTexture() *render.Texture {
	return render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
}
