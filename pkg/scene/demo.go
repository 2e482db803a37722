package scene

import (
	"math"

	"github.com/taigrr/texel/pkg/math3d"
	"github.com/taigrr/texel/pkg/models"
	"github.com/taigrr/texel/pkg/render"
)

// DemoTickRate is the number of Demo updates per second of animation.
const DemoTickRate = 60

// Per-tick rotation of the demo objects, in radians.
const (
	smallCubeSpin = 0.004
	largeCubeSpin = 0.008
	cylinderSpin  = 0.002
)

// Demo is a fixed scene exercising clipping, culling, occlusion and the
// alpha test: a small cube, a larger cube that swings through depth, and a
// large open-brick cylinder that crosses the default near plane.
type Demo struct {
	*Scene

	SmallCube *Object
	LargeCube *Object
	Cylinder  *Object
}

// NewDemo builds the demo scene at tick 0.
func NewDemo() *Demo {
	cube := models.NewCube()

	d := &Demo{
		Scene: New(),
		SmallCube: NewObject(cube,
			render.NewBrickTexture(64, 64, 16, 8, render.ColorBrick, render.ColorMortar)),
		LargeCube: NewObject(cube,
			render.NewBrickTexture(64, 64, 32, 16, render.RGB(120, 124, 132), render.RGB(60, 58, 56))),
		// Transparent mortar lets the cubes show through the cylinder wall.
		Cylinder: NewObject(models.NewCylinder(24),
			render.NewBrickTexture(128, 64, 16, 8, render.RGB(176, 92, 52), render.ColorClear)),
	}

	d.SmallCube.Scale = math3d.Splat3(10)
	d.SmallCube.Position = math3d.V3(20, 0, -100)
	d.LargeCube.Scale = math3d.Splat3(20)
	d.LargeCube.Position = math3d.V3(0, 0, -150)
	d.Cylinder.Scale = math3d.Splat3(100)
	// The front of the wall reaches z=-40, in front of a near plane at -50.
	d.Cylinder.Position = math3d.V3(0, 0, -140)

	d.Add(d.SmallCube, d.LargeCube, d.Cylinder)
	d.Update(0)
	return d
}

// Update poses the scene for the given tick. The pose depends only on tick,
// so frames can be rendered out of order or in parallel.
func (d *Demo) Update(tick int) {
	t := float64(tick)
	a0, a1, a2 := smallCubeSpin*t, largeCubeSpin*t, cylinderSpin*t

	d.SmallCube.Rotation = math3d.V3(-a0, a0, -a0)
	d.LargeCube.Rotation = math3d.V3(a1, -a1, a1)
	d.Cylinder.Rotation = math3d.V3(0, a2, 0)

	seconds := t / DemoTickRate
	d.LargeCube.Position.Z = -150 + 125*math.Sin(seconds*0.25)
}
