package render

import (
	"github.com/taigrr/texel/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive is on the side the normal points to.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the camera-space volume a renderer can draw into: the near
// plane and the four planes through the eye and the viewport edges. There
// is no far plane. Normals point inward.
type Frustum struct {
	Planes [5]Plane
}

// Frustum plane indices.
const (
	FrustumNear = iota
	FrustumLeft
	FrustumRight
	FrustumBottom
	FrustumTop
)

// NewFrustum builds the frustum for a viewport. The side planes sit one
// pixel outside the viewport so that rounding in Project never makes the
// frustum reject something that would have produced a pixel.
func NewFrustum(width, height int, focal, near float64) Frustum {
	hw := float64(width/2) + 1
	hh := float64(height/2) + 1

	f := Frustum{Planes: [5]Plane{
		FrustumNear:   {Normal: math3d.V3(0, 0, -1), D: near},
		FrustumLeft:   {Normal: math3d.V3(focal, 0, -hw)},
		FrustumRight:  {Normal: math3d.V3(-focal, 0, -hw)},
		FrustumBottom: {Normal: math3d.V3(0, focal, -hh)},
		FrustumTop:    {Normal: math3d.V3(0, -focal, -hh)},
	}}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{Min: m.MulVec3(b.Min)}
	out.Max = out.Min
	for i := 1; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// It can report true for boxes just outside a corner of the frustum, but
// never false for a box that reaches inside.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// The corner furthest along the normal.
		p := box.Min
		if plane.Normal.X >= 0 {
			p.X = box.Max.X
		}
		if plane.Normal.Y >= 0 {
			p.Y = box.Max.Y
		}
		if plane.Normal.Z >= 0 {
			p.Z = box.Max.Z
		}
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}
