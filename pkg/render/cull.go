package render

// ShouldCull reports whether a projected triangle can be skipped entirely,
// either because it lies outside the viewport or because it faces away.
func ShouldCull(v0, v1, v2 ScreenVertex, width, height int) bool {
	return OutsideViewport(v0, v1, v2, width, height) || IsBackFacing(v0, v1, v2)
}

// OutsideViewport reports whether all three vertices are on the same outer
// side of the viewport on either axis.
func OutsideViewport(v0, v1, v2 ScreenVertex, width, height int) bool {
	maxX, maxY := width-1, height-1
	if v0.X < 0 && v1.X < 0 && v2.X < 0 {
		return true
	}
	if v0.X > maxX && v1.X > maxX && v2.X > maxX {
		return true
	}
	if v0.Y < 0 && v1.Y < 0 && v2.Y < 0 {
		return true
	}
	return v0.Y > maxY && v1.Y > maxY && v2.Y > maxY
}

// IsBackFacing reports whether the screen-space winding is back-facing.
// Front faces give a non-positive cross product (v0-v2) x (v1-v2).
func IsBackFacing(v0, v1, v2 ScreenVertex) bool {
	return signedArea2(v0, v1, v2) > 0
}

// signedArea2 is twice the signed screen-space area, in the culling
// convention. Integer coordinates keep it exact.
func signedArea2(v0, v1, v2 ScreenVertex) int {
	c1x, c1y := v0.X-v2.X, v0.Y-v2.Y
	c2x, c2y := v1.X-v2.X, v1.Y-v2.Y
	return c1x*c2y - c1y*c2x
}
