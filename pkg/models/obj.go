package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/texel/pkg/math3d"
)

// ErrNoGeometry is returned by loaders when a file holds no triangles.
var ErrNoGeometry = errors.New("models: no triangles")

// LoadOBJ loads a Wavefront OBJ file. Only positions, texture coordinates
// and faces are read; polygons are triangulated as fans.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// objCorner is one v/vt reference of a face, 0-based; vt is -1 when absent.
type objCorner struct {
	v, vt int
}

// ParseOBJ reads OBJ data from r.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		mesh      = NewMesh(name)
		seen      = make(map[objCorner]int)
		corners   []int
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			uvs = append(uvs, math3d.V2(p[0], p[1]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners = corners[:0]
			for _, ref := range fields[1:] {
				c, err := parseCorner(ref, len(positions), len(uvs))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, ok := seen[c]
				if !ok {
					var uv math3d.Vec2
					if c.vt >= 0 {
						uv = uvs[c.vt]
					}
					idx = mesh.AddVertex(positions[c.v], uv)
					seen[c] = idx
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.AddFace(corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseCorner parses v, v/vt, v/vt/vn or v//vn. Indices are 1-based;
// negative indices count back from the last element read so far.
func parseCorner(ref string, nv, nvt int) (objCorner, error) {
	parts := strings.Split(ref, "/")
	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return objCorner{}, fmt.Errorf("face vertex %q: %w", ref, err)
	}
	c := objCorner{v: v, vt: -1}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objCorner{}, fmt.Errorf("face texture coordinate %q: %w", ref, err)
		}
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, errors.New("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index out of range (have %d)", n)
	}
	return i, nil
}
