package render

import "math"

// FocalLength returns the projection plane distance for a viewport width and
// a horizontal field of view in radians.
func FocalLength(width int, fov float64) float64 {
	return float64(width/2) / math.Tan(fov/2)
}

// Project maps a camera-space vertex onto the viewport.
// X is negated through InvZ so that screen X grows with camera X while the
// camera looks down -Z. Screen Y grows downward as camera Y decreases.
func Project(v Vertex, width, height int, focal float64) ScreenVertex {
	invZ := 1.0 / v.Z
	return ScreenVertex{
		X:      int(math.Round(focal*v.X*-invZ)) + width/2,
		Y:      int(math.Round(focal*v.Y*invZ)) + height/2,
		InvZ:   invZ,
		UOverZ: v.U * invZ,
		VOverZ: v.V * invZ,
	}
}
