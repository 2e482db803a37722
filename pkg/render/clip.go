package render

// ClippedPolygon is the convex result of clipping a triangle against the
// near plane. Only the first N vertices are valid and N is 0, 3 or 4.
type ClippedPolygon struct {
	V [4]Vertex
	N int
}

// Triangles returns the number of triangles in the polygon's fan.
func (p *ClippedPolygon) Triangles() int {
	if p.N < 3 {
		return 0
	}
	return p.N - 2
}

// ClipNear clips tri against the plane z = nearZ, keeping the part with
// z <= nearZ. Output order preserves the input winding.
func ClipNear(tri Triangle, nearZ float64) ClippedPolygon {
	var p ClippedPolygon
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		aIn := a.Z <= nearZ
		bIn := b.Z <= nearZ

		if aIn {
			p.V[p.N] = a
			p.N++
		}
		if aIn != bIn {
			t := (nearZ - a.Z) / (b.Z - a.Z)
			p.V[p.N] = lerpVertex(a, b, t)
			p.N++
		}
	}
	return p
}
