package scene

import (
	"math"

	"github.com/taigrr/texel/pkg/math3d"
)

// Camera places the viewer in world space. With no rotation it looks down
// -Z with +Y up, which is the orientation the rasterizer expects.
type Camera struct {
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	view     math3d.Mat4
	viewPose *pose // Pose view was built for; nil before the first build
}

type pose struct {
	position         math3d.Vec3
	pitch, yaw, roll float64
}

// NewCamera creates a camera at the origin.
func NewCamera() *Camera {
	return &Camera{}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetRotation sets pitch, yaw and roll in radians.
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch, c.Yaw, c.Roll = pitch, yaw, roll
}

// Forward returns the view direction in world space.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// MoveForward moves along the view direction; negative moves back.
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Forward().Scale(distance)))
}

// LookAt turns the camera toward target. Roll is reset.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.SetRotation(math.Asin(dir.Y), math.Atan2(-dir.X, -dir.Z), 0)
}

// ViewMatrix returns the world to camera transform. The matrix is cached
// and rebuilt whenever the pose fields differ from the cached pose, so the
// fields may be assigned directly.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	p := pose{position: c.Position, pitch: c.Pitch, yaw: c.Yaw, roll: c.Roll}
	if c.viewPose == nil || *c.viewPose != p {
		rot := math3d.RotateZ(-c.Roll).
			Mul(math3d.RotateX(-c.Pitch)).
			Mul(math3d.RotateY(-c.Yaw))
		c.view = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewPose = &p
	}
	return c.view
}
