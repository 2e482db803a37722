package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/texel/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := plane.DistanceToPoint(tc.point); math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if l := plane.Normal.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("normal length = %v, want 1", l)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Error("Normalize changed a plane with a zero normal")
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	moved := box.Transform(math3d.Translate(math3d.V3(5, 0, -10)))
	if moved.Min != math3d.V3(4, -1, -11) || moved.Max != math3d.V3(6, 1, -9) {
		t.Errorf("translated box = %+v", moved)
	}
	if c := moved.Center(); c != math3d.V3(5, 0, -10) {
		t.Errorf("center = %v", c)
	}

	// A 45 degree turn about Y widens the box to the diagonal.
	turned := box.Transform(math3d.RotateY(math.Pi / 4))
	if math.Abs(turned.Max.X-math.Sqrt2) > 1e-9 || math.Abs(turned.Min.Z+math.Sqrt2) > 1e-9 {
		t.Errorf("rotated box = %+v", turned)
	}
	if math.Abs(turned.Max.Y-1) > 1e-9 {
		t.Errorf("rotation about Y changed height: %+v", turned)
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	// 90 degree FOV on a 20x20 viewport: focal 10, edges one pixel out.
	f := NewFrustum(20, 20, 10, -1)

	tests := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"center", math3d.V3(0, 0, -10), true},
		{"on near plane", math3d.V3(0, 0, -1), true},
		{"between eye and near", math3d.V3(0, 0, -0.5), false},
		{"behind eye", math3d.V3(0, 0, 10), false},
		{"far away", math3d.V3(0, 0, -1e6), true},
		{"inside right margin", math3d.V3(10.5, 0, -10), true},
		{"past right", math3d.V3(12, 0, -10), false},
		{"past left", math3d.V3(-12, 0, -10), false},
		{"past top", math3d.V3(0, 12, -10), false},
		{"past bottom", math3d.V3(0, -12, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := NewFrustum(20, 20, 10, -1)

	box := func(cx, cy, cz, h float64) AABB {
		return AABB{Min: math3d.V3(cx-h, cy-h, cz-h), Max: math3d.V3(cx+h, cy+h, cz+h)}
	}

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"inside", box(0, 0, -10, 1), true},
		{"crossing near plane", box(0, 0, -1, 2), true},
		{"containing the eye", box(0, 0, 0, 5), true},
		{"between eye and near", box(0, 0, -0.5, 0.25), false},
		{"behind", box(0, 0, 20, 5), false},
		{"straddling right edge", box(11, 0, -10, 1.5), true},
		{"outside right", box(30, 0, -10, 1), false},
		{"outside left", box(-30, 0, -10, 1), false},
		{"outside top", box(0, 30, -10, 1), false},
		{"outside bottom", box(0, -30, -10, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.want {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.want)
			}
		})
	}
}

// A box the frustum rejects must never contain a triangle that writes a
// pixel.
func TestFrustumRejectionNeverHidesPixels(t *testing.T) {
	r := createTestRenderer(t, 31, 17)
	tex := NewSolidTexture(ColorWhite)
	rng := rand.New(rand.NewPCG(7, 11))

	coord := func(span float64) float64 { return (rng.Float64()*2 - 1) * span }

	rejected := 0
	for range 5000 {
		var tri Triangle
		box := AABB{Min: math3d.Splat3(math.Inf(1)), Max: math3d.Splat3(math.Inf(-1))}
		for i := range tri {
			tri[i] = Vertex{X: coord(40), Y: coord(40), Z: coord(30) - 5}
			p := math3d.V3(tri[i].X, tri[i].Y, tri[i].Z)
			box.Min, box.Max = box.Min.Min(p), box.Max.Max(p)
		}
		if r.Frustum().IntersectAABB(box) {
			continue
		}
		rejected++

		r.Clear(nil)
		r.Draw(tri, tex)
		// Either winding could be front-facing.
		r.Draw(Triangle{tri[0], tri[2], tri[1]}, tex)
		if px := r.Stats().Pixels; px != 0 {
			t.Fatalf("rejected triangle %+v wrote %d pixels", tri, px)
		}
	}
	if rejected == 0 {
		t.Fatal("no triangle was rejected; the test exercised nothing")
	}
}

func TestRendererVisible(t *testing.T) {
	r := createTestRenderer(t, 20, 20)

	if !r.Visible(AABB{Min: math3d.V3(-1, -1, -11), Max: math3d.V3(1, 1, -9)}) {
		t.Error("box in front of the camera reported hidden")
	}
	if r.Visible(AABB{Min: math3d.V3(-1, -1, 9), Max: math3d.V3(1, 1, 11)}) {
		t.Error("box behind the camera reported visible")
	}
	if s := r.Stats(); s.Objects != 2 || s.Rejected != 1 {
		t.Errorf("objects/rejected = %d/%d, want 2/1", s.Objects, s.Rejected)
	}

	// The horizontal FOV is fixed, so a taller viewport sees further up.
	high := AABB{Min: math3d.V3(-1, 14, -11), Max: math3d.V3(1, 16, -9)}
	if r.Visible(high) {
		t.Fatal("box above a 20 pixel viewport reported visible")
	}
	if err := r.Resize(20, 40); err != nil {
		t.Fatal(err)
	}
	if !r.Visible(high) {
		t.Error("box inside the resized viewport reported hidden")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := NewFrustum(400, 300, 346, -50)
	visible := AABB{Min: math3d.V3(-10, -10, -110), Max: math3d.V3(10, 10, -90)}
	culled := AABB{Min: math3d.V3(-10, -10, 90), Max: math3d.V3(10, 10, 110)}

	b.Run("visible", func(b *testing.B) {
		for b.Loop() {
			_ = f.IntersectAABB(visible)
		}
	})
	b.Run("culled", func(b *testing.B) {
		for b.Loop() {
			_ = f.IntersectAABB(culled)
		}
	})
}

func BenchmarkAABBTransform(b *testing.B) {
	box := AABB{Min: math3d.Splat3(-1), Max: math3d.Splat3(1)}
	m := math3d.TRS(math3d.V3(0, 0, -100), math3d.V3(0.3, 0.5, 0.7), math3d.Splat3(10))
	for b.Loop() {
		_ = box.Transform(m)
	}
}
