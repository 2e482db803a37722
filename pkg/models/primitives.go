package models

import (
	"math"

	"github.com/taigrr/texel/pkg/math3d"
)

// cubeFaces lists each face of the unit cube as its outward normal and two
// in-plane axes with u × v = normal, so corners walk counter-clockwise.
var cubeFaces = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

// NewCube creates a cube spanning [-1, 1] on every axis. Each face maps the
// whole texture.
func NewCube() *Mesh {
	m := NewMesh("cube")
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		corner := func(su, sv float64) int {
			p := n.Add(u.Scale(su)).Add(v.Scale(sv))
			return m.AddVertex(p, math3d.V2((su+1)/2, (sv+1)/2))
		}
		m.AddQuad(corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1))
	}
	m.CalculateBounds()
	return m
}

// NewCylinder creates a capped cylinder of radius 1 around the Y axis,
// spanning y in [-1, 1]. The side wraps the texture once; each cap maps a
// disc centered in the texture.
func NewCylinder(segments int) *Mesh {
	segments = max(segments, 3)
	m := NewMesh("cylinder")

	at := func(i int) (float64, float64, float64) {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		return theta, math.Sin(theta), math.Cos(theta)
	}

	for i := range segments {
		t0, s0, c0 := at(i)
		t1, s1, c1 := at(i + 1)
		u0, u1 := t0/(2*math.Pi), t1/(2*math.Pi)

		// Side quad, counter-clockwise from outside.
		m.AddQuad(
			m.AddVertex(math3d.V3(s0, -1, c0), math3d.V2(u0, 0)),
			m.AddVertex(math3d.V3(s1, -1, c1), math3d.V2(u1, 0)),
			m.AddVertex(math3d.V3(s1, 1, c1), math3d.V2(u1, 1)),
			m.AddVertex(math3d.V3(s0, 1, c0), math3d.V2(u0, 1)),
		)

		capUV := func(s, c float64) math3d.Vec2 {
			return math3d.V2(0.5+0.5*s, 0.5+0.5*c)
		}
		top := m.AddVertex(math3d.V3(0, 1, 0), math3d.V2(0.5, 0.5))
		m.AddFace(top,
			m.AddVertex(math3d.V3(s0, 1, c0), capUV(s0, c0)),
			m.AddVertex(math3d.V3(s1, 1, c1), capUV(s1, c1)))

		bottom := m.AddVertex(math3d.V3(0, -1, 0), math3d.V2(0.5, 0.5))
		m.AddFace(bottom,
			m.AddVertex(math3d.V3(s1, -1, c1), capUV(s1, c1)),
			m.AddVertex(math3d.V3(s0, -1, c0), capUV(s0, c0)))
	}
	m.CalculateBounds()
	return m
}
