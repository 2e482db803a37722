package render

import "math"

// edgeCoeffs returns A, B, C for the edge function of a->b:
// edge(x, y) = A*x + B*y + C, positive on one side, zero on the line.
func edgeCoeffs(ax, ay, bx, by float64) (A, B, C float64) {
	A = ay - by
	B = bx - ax
	C = ax*by - bx*ay
	return
}

// Rasterize fills the pixels covered by the projected triangle with
// perspective-correct texels, depth-tested against fb. Pixels are sampled at
// their integer coordinates and edges are inclusive. Texels with zero alpha
// are skipped and never occlude. It returns the number of pixels written.
func Rasterize(v0, v1, v2 ScreenVertex, tex *Texture, fb *FrameBuffer) int {
	area := float64(signedArea2(v1, v2, v0))
	if area == 0 {
		return 0
	}

	minX := max(0, min(v0.X, v1.X, v2.X))
	maxX := min(fb.Width-1, max(v0.X, v1.X, v2.X))
	minY := max(0, min(v0.Y, v1.Y, v2.Y))
	maxY := min(fb.Height-1, max(v0.Y, v1.Y, v2.Y))
	if minX > maxX || minY > maxY {
		return 0
	}

	x0, y0 := float64(v0.X), float64(v0.Y)
	x1, y1 := float64(v1.X), float64(v1.Y)
	x2, y2 := float64(v2.X), float64(v2.Y)

	// Edge i is opposite vertex i, so edge i evaluated at vertex i is area.
	A0, B0, C0 := edgeCoeffs(x1, y1, x2, y2)
	A1, B1, C1 := edgeCoeffs(x2, y2, x0, y0)
	A2, B2, C2 := edgeCoeffs(x0, y0, x1, y1)

	// Orient the edges so that inside is non-negative.
	if area < 0 {
		A0, B0, C0 = -A0, -B0, -C0
		A1, B1, C1 = -A1, -B1, -C1
		A2, B2, C2 = -A2, -B2, -C2
		area = -area
	}

	px, py := float64(minX), float64(minY)
	e0Row := A0*px + B0*py + C0
	e1Row := A1*px + B1*py + C1
	e2Row := A2*px + B2*py + C2

	written := 0
	for y := minY; y <= maxY; y++ {
		e0, e1, e2 := e0Row, e1Row, e2Row
		rowOffset := y * fb.Width

		for x := minX; x <= maxX; x++ {
			if e0 >= 0 && e1 >= 0 && e2 >= 0 {
				// Divide rather than multiply by 1/area so weights are
				// exactly 1 at their own vertex.
				w0, w1, w2 := e0/area, e1/area, e2/area
				if shadePixel(rowOffset+x, w0, w1, w2, &v0, &v1, &v2, tex, fb) {
					written++
				}
			}
			e0 += A0
			e1 += A1
			e2 += A2
		}

		e0Row += B0
		e1Row += B1
		e2Row += B2
	}
	return written
}

// shadePixel runs the depth test, texture fetch and alpha test for one
// covered pixel and writes it on success.
func shadePixel(i int, w0, w1, w2 float64, v0, v1, v2 *ScreenVertex, tex *Texture, fb *FrameBuffer) bool {
	invZ := blend(w0, w1, w2, v0.InvZ, v1.InvZ, v2.InvZ)
	if invZ == 0 || !fb.passes(i, invZ) {
		return false
	}

	u, v := texCoord(invZ, w0, w1, w2, v0, v1, v2)

	texel := tex.At(int(math.Floor(u)), int(math.Floor(v)))
	if texel.A == 0 {
		return false
	}
	fb.put(i, invZ, texel)
	return true
}

// blend is the barycentric combination of three per-vertex values.
func blend(w0, w1, w2, a0, a1, a2 float64) float64 {
	return w0*a0 + w1*a1 + w2*a2
}

// texCoord recovers texel-space U and V from the interpolated 1/z and the
// linearly interpolated U/z and V/z.
func texCoord(invZ, w0, w1, w2 float64, v0, v1, v2 *ScreenVertex) (u, v float64) {
	z := 1 / invZ
	u = z * blend(w0, w1, w2, v0.UOverZ, v1.UOverZ, v2.UOverZ)
	v = z * blend(w0, w1, w2, v0.VOverZ, v1.VOverZ, v2.VOverZ)
	return u, v
}
