// Package models provides textured triangle meshes: loading from OBJ and
// glTF files and generating simple primitives.
package models

import (
	"github.com/taigrr/texel/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from outside, and UVs have V pointing up (0 at the bottom of the image).
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds the attributes the rasterizer consumes.
type MeshVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle referencing three entries of Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, UV: uv})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// AddQuad appends two triangles covering a, b, c, d in winding order.
func (m *Mesh) AddQuad(a, b, c, d int) {
	m.AddFace(a, b, c)
	m.AddFace(a, c, d)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Normalize moves the mesh to the origin and scales it uniformly so its
// largest dimension spans [-1, 1], the extent of NewCube.
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	extent := m.Size().MaxComponent()
	if extent == 0 {
		return
	}
	center := m.Center()
	s := 2 / extent
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center).Scale(s)
	}
	m.CalculateBounds()
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = append([]MeshVertex(nil), m.Vertices...)
	clone.Faces = append([]Face(nil), m.Faces...)
	return &clone
}
