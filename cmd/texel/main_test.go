package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/texel/internal/config"
	"github.com/taigrr/texel/pkg/render"
)

const quadOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

// writeTexturedGLB saves a one-triangle GLB with an embedded 2x2 PNG. This
// binary links the TGA package, whose catch-all format registration must not
// capture the PNG.
func writeTexturedGLB(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uvs},
		}},
	})

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, render.RGB(10, 20, 30))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if _, err := modeler.WriteImage(doc, "tex", "image/png", &buf); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.Resolve(config.Flags{
		Width:     32,
		Height:    24,
		Frames:    3,
		Workers:   2,
		OutputDir: t.TempDir(),
	})
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestFrameTick(t *testing.T) {
	tests := []struct {
		frame, fps, want int
	}{
		{0, 60, 0},
		{1, 60, 1},
		{10, 30, 20},
		{3, 120, 1},
		{25, 25, 60},
	}
	for _, tc := range tests {
		if got := frameTick(tc.frame, tc.fps); got != tc.want {
			t.Errorf("frameTick(%d, %d) = %d, want %d", tc.frame, tc.fps, got, tc.want)
		}
	}
}

func TestFramePath(t *testing.T) {
	cfg := config.Config{OutputDir: "out", Format: "webp"}
	if got, want := framePath(cfg, 7), filepath.Join("out", "frame_0007.webp"); got != want {
		t.Errorf("framePath = %q, want %q", got, want)
	}
}

func TestLoadStage(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "quad.obj")
	if err := os.WriteFile(obj, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)

	t.Run("demo", func(t *testing.T) {
		newStage, err := loadStage(cfg, "")
		if err != nil {
			t.Fatal(err)
		}
		st := newStage()
		if st.model != nil {
			t.Error("demo stage has a model")
		}
		if len(st.scene.Objects) != 3 {
			t.Errorf("demo objects = %d, want 3", len(st.scene.Objects))
		}
	})

	t.Run("obj", func(t *testing.T) {
		newStage, err := loadStage(cfg, obj)
		if err != nil {
			t.Fatal(err)
		}
		a, b := newStage(), newStage()
		if a.scene == b.scene || a.model == b.model {
			t.Error("factory returned shared stages")
		}
		if a.model.Mesh != b.model.Mesh {
			t.Error("stages should share the loaded mesh")
		}
		if a.model.Texture == nil {
			t.Error("model without texture should get the checker")
		}

		a.update(100)
		if a.model.Rotation.Y != 100*turntableSpeed {
			t.Errorf("turntable rotation = %v", a.model.Rotation)
		}
		if b.model.Rotation.Y != 0 {
			t.Error("update leaked into another stage")
		}
	})

	t.Run("glb with embedded png", func(t *testing.T) {
		newStage, err := loadStage(cfg, writeTexturedGLB(t))
		if err != nil {
			t.Fatalf("loadStage: %v", err)
		}
		tex := newStage().model.Texture
		if tex.Width != 2 || tex.Height != 2 {
			t.Fatalf("texture = %dx%d, want the embedded 2x2", tex.Width, tex.Height)
		}
		if got := tex.At(1, 1); got != render.RGB(10, 20, 30) {
			t.Errorf("embedded texel = %v", got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := loadStage(cfg, filepath.Join(dir, "model.stl"))
		if err == nil || !strings.Contains(err.Error(), "unsupported format") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing texture", func(t *testing.T) {
		bad := cfg
		bad.Texture = filepath.Join(dir, "missing.png")
		if _, err := loadStage(bad, obj); err == nil {
			t.Error("expected error for missing texture")
		}
	})
}

func TestRenderFrames(t *testing.T) {
	cfg := testConfig(t)

	newStage, err := loadStage(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := renderFrames(context.Background(), cfg, newStage); err != nil {
		t.Fatalf("renderFrames: %v", err)
	}

	for i := range cfg.Frames {
		f, err := os.Open(framePath(cfg, i))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != cfg.Width || b.Dy() != cfg.Height {
			t.Errorf("frame %d bounds = %v", i, b)
		}
	}
}

func TestRenderFramesCanceled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Frames = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := renderFrames(ctx, cfg, demoStage)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestViewerEvents(t *testing.T) {
	cfg := testConfig(t)
	v, err := newViewer(cfg, demoStage(), 40, 12)
	if err != nil {
		t.Fatal(err)
	}

	if fb := v.renderer.FrameBuffer(); fb.Width != 40 || fb.Height != 24 {
		t.Errorf("framebuffer = %dx%d, want 40x24", fb.Width, fb.Height)
	}

	if more, err := v.handle(uv.WindowSizeEvent{Width: 20, Height: 5}); !more || err != nil {
		t.Fatalf("resize: more=%v err=%v", more, err)
	}
	if fb := v.renderer.FrameBuffer(); fb.Width != 20 || fb.Height != 10 {
		t.Errorf("after resize framebuffer = %dx%d, want 20x10", fb.Width, fb.Height)
	}

	cam := v.stage.scene.Camera
	v.handle(uv.MouseWheelEvent{Button: uv.MouseWheelDown})
	if cam.Position.Z != v.homeZ+zoomStep {
		t.Errorf("zoom out: camera z = %v", cam.Position.Z)
	}
	for range 100 {
		v.handle(uv.MouseWheelEvent{Button: uv.MouseWheelUp})
	}
	if cam.Position.Z != minZoom {
		t.Errorf("zoom clamp: camera z = %v, want %v", cam.Position.Z, minZoom)
	}

	v.toggleTextures()
	for _, obj := range v.stage.scene.Objects {
		if obj.Texture != v.checker {
			t.Error("toggle did not switch to the checker")
		}
	}
	v.toggleTextures()
	for i, obj := range v.stage.scene.Objects {
		if obj.Texture != v.textureSet[i] {
			t.Error("toggle did not restore the original texture")
		}
	}

	v.frame()
	v.frame()
	if v.tick != 2*60/cfg.FPS {
		t.Errorf("tick after two frames = %d", v.tick)
	}
	if v.renderer.Stats().Drawn == 0 {
		t.Error("demo frame drew nothing")
	}

	v.reset()
	if v.tick != 0 || cam.Position.Z != v.homeZ {
		t.Errorf("reset: tick=%d z=%v", v.tick, cam.Position.Z)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	root := newRootCmd()
	root.SetArgs([]string{"render",
		"--width", "16", "--height", "12",
		"--frames", "2", "--workers", "1",
		"--out", dir, "--format", "webp",
		"--log-level", "error",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"frame_0000.webp", "frame_0001.webp"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"positive near", []string{"render", "--near", "5", "--out", t.TempDir()}},
		{"bad log level", []string{"render", "--log-level", "loud"}},
		{"bad background", []string{"render", "--bg", "red", "--out", t.TempDir()}},
		{"two models", []string{"render", "a.obj", "b.obj"}},
		{"unknown model format", []string{"render", "--out", t.TempDir(), "model.stl"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs(tc.args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			if err := root.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
