package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/texel/pkg/math3d"
)

const quadOBJ = `# a textured quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("triangles = %d, want 2 from fan triangulation", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 4 {
		t.Errorf("vertices = %d, want shared corners", mesh.VertexCount())
	}
	v := mesh.Vertices[mesh.Faces[1].V[1]]
	if v.Position != math3d.V3(1, 1, 0) || v.UV != math3d.V2(1, 1) {
		t.Errorf("second fan triangle middle vertex = %+v", v)
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	tests := []struct {
		name  string
		face  string
		wantU float64
	}{
		{"position only", "f 1 2 3", 0},
		{"position and normal", "f 1//1 2//1 3//1", 0},
		{"position and texture", "f 1/2 2/2 3/2", 0.5},
		{"negative indices", "f -3/-1 -2/-1 -1/-1", 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.25 0\nvt 0.5 0\nvn 0 0 1\n" + tc.face + "\n"
			mesh, err := ParseOBJ(strings.NewReader(src), tc.name)
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if mesh.TriangleCount() != 1 {
				t.Fatalf("triangles = %d, want 1", mesh.TriangleCount())
			}
			f := mesh.Faces[0].V
			if got := mesh.Vertices[f[2]].Position; got != math3d.V3(0, 1, 0) {
				t.Errorf("third vertex = %+v", got)
			}
			if got := mesh.Vertices[f[0]].UV.X; got != tc.wantU {
				t.Errorf("u = %v, want %v", got, tc.wantU)
			}
		})
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"bad number", "v 0 x 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tc.src), "bad"); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := ParseOBJ(strings.NewReader("v 0 0 0\n"), "empty"); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("no faces error = %v, want ErrNoGeometry", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "quad.obj" {
		t.Errorf("name = %q", mesh.Name)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds not calculated: %+v", mesh.BoundsMax)
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
