// Package scene places textured meshes in front of a camera and feeds their
// triangles, in camera space, to a renderer.
package scene

import (
	"github.com/taigrr/texel/pkg/math3d"
	"github.com/taigrr/texel/pkg/models"
	"github.com/taigrr/texel/pkg/render"
)

// Drawer consumes camera-space triangles. *render.Renderer implements it.
type Drawer interface {
	Draw(tri render.Triangle, tex *render.Texture)
}

// BoundsTester is implemented by drawers that can reject a whole object
// from its camera-space bounding box. *render.Renderer implements it.
type BoundsTester interface {
	Visible(box render.AABB) bool
}

// Object is a mesh instance with its own texture and transform.
type Object struct {
	Mesh     *models.Mesh
	Texture  *render.Texture
	Scale    math3d.Vec3
	Rotation math3d.Vec3 // Euler angles, applied X then Y then Z
	Position math3d.Vec3
}

// NewObject creates an object at the origin with unit scale.
func NewObject(mesh *models.Mesh, tex *render.Texture) *Object {
	return &Object{
		Mesh:    mesh,
		Texture: tex,
		Scale:   math3d.Splat3(1),
	}
}

// ModelMatrix returns the object to world transform.
func (o *Object) ModelMatrix() math3d.Mat4 {
	return math3d.TRS(o.Position, o.Rotation, o.Scale)
}

// Bounds returns the mesh bounding box after m. The mesh bounds must be
// current; the loaders and primitives keep them so.
func (o *Object) Bounds(m math3d.Mat4) render.AABB {
	return render.AABB{Min: o.Mesh.BoundsMin, Max: o.Mesh.BoundsMax}.Transform(m)
}

// Draw transforms every face into camera space, converts its UVs to texel
// units of the object's texture and hands it to dst. Objects without a mesh
// or texture draw nothing. When dst is a BoundsTester, objects outside the
// view are skipped without submitting any triangle.
func (o *Object) Draw(dst Drawer, view math3d.Mat4) {
	if o.Mesh == nil || o.Texture == nil {
		return
	}
	mv := view.Mul(o.ModelMatrix())
	if bt, ok := dst.(BoundsTester); ok && !bt.Visible(o.Bounds(mv)) {
		return
	}

	var tri render.Triangle
	for _, f := range o.Mesh.Faces {
		for i, idx := range f.V {
			v := o.Mesh.Vertices[idx]
			p := mv.MulVec3(v.Position)
			u, t := o.Texture.TexelScale(v.UV.X, v.UV.Y)
			tri[i] = render.Vertex{X: p.X, Y: p.Y, Z: p.Z, U: u, V: t}
		}
		dst.Draw(tri, o.Texture)
	}
}

// Scene is a camera and the objects it sees.
type Scene struct {
	Camera  *Camera
	Objects []*Object
}

// New creates an empty scene with a camera at the origin.
func New() *Scene {
	return &Scene{Camera: NewCamera()}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...*Object) {
	s.Objects = append(s.Objects, objs...)
}

// TriangleCount returns the number of faces across all objects.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, o := range s.Objects {
		if o.Mesh != nil {
			n += o.Mesh.TriangleCount()
		}
	}
	return n
}

// Draw draws every object as seen from the camera. The caller clears the
// target first.
func (s *Scene) Draw(dst Drawer) {
	view := s.Camera.ViewMatrix()
	for _, o := range s.Objects {
		o.Draw(dst, view)
	}
}
