package scene

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/texel/pkg/math3d"
)

// SpinAxis is one rotation angle whose angular velocity decays to zero
// through a critically damped spring.
type SpinAxis struct {
	Angle    float64
	Velocity float64 // radians per update

	spring harmonica.Spring
	accel  float64 // spring state for Velocity
}

// NewSpinAxis creates an axis updated fps times per second.
func NewSpinAxis(fps int) SpinAxis {
	return SpinAxis{
		// Frequency 4 settles in well under a second with no overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by the current velocity, then eases the velocity
// toward zero.
func (a *SpinAxis) Update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Spin drives Euler rotation from impulses, e.g. mouse drags.
type Spin struct {
	X, Y, Z SpinAxis
	fps     int
}

// NewSpin creates a spin at rest.
func NewSpin(fps int) *Spin {
	s := &Spin{fps: fps}
	s.Reset()
	return s
}

// Update advances every axis by one step.
func (s *Spin) Update() {
	s.X.Update()
	s.Y.Update()
	s.Z.Update()
}

// Impulse adds angular velocity to each axis.
func (s *Spin) Impulse(x, y, z float64) {
	s.X.Velocity += x
	s.Y.Velocity += y
	s.Z.Velocity += z
}

// Reset stops the spin and returns every angle to zero.
func (s *Spin) Reset() {
	s.X = NewSpinAxis(s.fps)
	s.Y = NewSpinAxis(s.fps)
	s.Z = NewSpinAxis(s.fps)
}

// Rotation returns the current angles as an Euler rotation.
func (s *Spin) Rotation() math3d.Vec3 {
	return math3d.V3(s.X.Angle, s.Y.Angle, s.Z.Angle)
}
