// Package render provides the software triangle rasterizer for texel.
package render

// Vertex is a camera-space vertex with texture coordinates.
// The camera looks down -Z, so visible geometry has negative Z.
// U and V are in texel units, already scaled to the texture size.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Triangle is an ordered triple of vertices. Winding decides the facing.
type Triangle [3]Vertex

// lerpVertex linearly interpolates every field of a and b at t.
func lerpVertex(a, b Vertex, t float64) Vertex {
	return Vertex{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
		U: a.U + t*(b.U-a.U),
		V: a.V + t*(b.V-a.V),
	}
}

// ScreenVertex is a projected vertex ready for rasterization.
type ScreenVertex struct {
	X, Y   int     // Pixel coordinates
	InvZ   float64 // 1/z, negative for visible geometry
	UOverZ float64 // U * InvZ
	VOverZ float64 // V * InvZ
}
