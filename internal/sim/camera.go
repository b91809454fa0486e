package sim

import (
	"math"

	"github.com/Versifine/surf/internal/physics"
)

const maxPitch = 89

// Camera is the first-person view. It does not move on its own; the runner
// places it at the character's eye every tick.
type Camera struct {
	pos   physics.Vec3
	pitch float64
	yaw   float64
}

var _ physics.View = (*Camera)(nil)

func (c *Camera) Position() physics.Vec3 {
	return c.pos
}

func (c *Camera) Forward() physics.Vec3 {
	return physics.DirectionFromAngles(c.pitch, c.yaw)
}

func (c *Camera) Angles() physics.Vec3 {
	return physics.Vec3{c.pitch, c.yaw, 0}
}

func (c *Camera) Follow(pos physics.Vec3) {
	c.pos = pos
}

// SetAngles clamps pitch to ±89 degrees and wraps yaw into [0, 360).
func (c *Camera) SetAngles(pitch, yaw float64) {
	c.pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	c.yaw = math.Mod(yaw, 360)
	if c.yaw < 0 {
		c.yaw += 360
	}
}

func (c *Camera) Look(dPitch, dYaw float64) {
	c.SetAngles(c.pitch+dPitch, c.yaw+dYaw)
}

// HoldPoint sits a fixed distance in front of a view.
type HoldPoint struct {
	View     physics.View
	Distance float64
}

func (h HoldPoint) Position() physics.Vec3 {
	return h.View.Position().Add(h.View.Forward().Mul(h.Distance))
}

// Avatar is the logical player model. It takes the view yaw while the
// collider stays axis aligned.
type Avatar struct {
	rot physics.Quat
}

func (a *Avatar) SetRotation(rot physics.Quat) {
	a.rot = rot
}

func (a *Avatar) Rotation() physics.Quat {
	if a.rot == (physics.Quat{}) {
		return physics.Identity()
	}
	return a.rot
}

// Facing is the horizontal direction the avatar looks.
func (a *Avatar) Facing() physics.Vec3 {
	return a.Rotation().Rotate(physics.Vec3{0, 0, 1})
}
