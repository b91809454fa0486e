package movement

import (
	"math"

	"github.com/Versifine/surf/internal/physics"
)

const minimumResidualSpeed = 1e-4

// GroundProbe answers support queries for the reference solver.
type GroundProbe interface {
	// GroundHeight returns the highest solid surface top under feet's XZ
	// position that lies within [feet.Y-below, feet.Y+above].
	GroundHeight(feet physics.Vec3, above, below float64) (float64, bool)
}

// Surf is a reference solver: quake-style ground and air acceleration,
// friction, jumping, gravity, swimming and crouch easing. Ground contact
// comes from Ground; without one the player never lands.
type Surf struct {
	Ground GroundProbe
}

var _ Solver = Surf{}

func (sf Surf) CrouchStep(s *State, cfg Config, dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	setup := s.setup
	if s.Height <= 0 {
		s.Height = setup.DefaultHeight
	}

	target := setup.DefaultHeight
	if s.Crouching {
		target *= setup.CrouchingHeight
	}

	before := s.Height
	s.Height = moveTowards(s.Height, target, setup.CrouchingSpeed*dt)

	// Keep the feet planted: the origin is the collider centre.
	if s.Grounded {
		s.Origin[1] += (s.Height - before) / 2
	}
}

func (sf Surf) MainStep(s *State, cfg Config, dt float64) {
	if s == nil || dt <= 0 {
		return
	}

	wishDir, wishSpeed := wishMove(s, cfg)

	if s.SubmergedBody {
		sf.swim(s, cfg, wishDir, wishSpeed, dt)
	} else {
		sf.walk(s, cfg, wishDir, wishSpeed, dt)
	}

	clampVelocity(&s.Velocity, cfg.MaxVelocity)
	s.Origin = s.Origin.Add(s.Velocity.Mul(dt))
	sf.settle(s, dt)
	s.WishJump = false
}

func (sf Surf) walk(s *State, cfg Config, wishDir physics.Vec3, wishSpeed, dt float64) {
	s.Grounded = sf.onGround(s)

	if s.Grounded && !s.WishJump {
		applyFriction(&s.Velocity, cfg.Friction, cfg.StopSpeed, dt)
		accelerate(&s.Velocity, wishDir, wishSpeed, cfg.Acceleration, dt)
		if s.Velocity.Y() < 0 {
			s.Velocity[1] = 0
		}
		return
	}

	if s.Grounded && s.WishJump {
		s.Velocity[1] = cfg.JumpForce
		s.Grounded = false
	}
	airAccelerate(&s.Velocity, wishDir, wishSpeed, cfg.AirAcceleration, cfg.AirCap, dt)
	s.Velocity[1] -= cfg.Gravity * dt
}

func (sf Surf) swim(s *State, cfg Config, wishDir physics.Vec3, wishSpeed, dt float64) {
	s.Grounded = false
	applyFriction(&s.Velocity, cfg.SwimFriction, cfg.StopSpeed, dt)
	accelerate(&s.Velocity, wishDir, math.Min(wishSpeed, cfg.SwimSpeed), cfg.Acceleration, dt)

	if s.WishJump {
		s.Velocity[1] = cfg.SwimSpeed
		return
	}
	s.Velocity[1] = moveTowards(s.Velocity.Y(), -cfg.SinkSpeed, cfg.Gravity*dt)
}

func (sf Surf) onGround(s *State) bool {
	if sf.Ground == nil || s.Velocity.Y() > 0 {
		return false
	}
	_, ok := sf.Ground.GroundHeight(feetOf(s), physics.GroundSnapTolerance, physics.GroundSnapTolerance)
	return ok
}

// settle snaps the player onto a surface it fell into this step.
func (sf Surf) settle(s *State, dt float64) {
	if sf.Ground == nil || s.Velocity.Y() > 0 {
		return
	}

	above := physics.GroundSnapTolerance + math.Abs(s.Velocity.Y())*dt
	if s.setup.UseStepOffset && s.Grounded && s.setup.StepOffset > above {
		above = s.setup.StepOffset
	}
	top, ok := sf.Ground.GroundHeight(feetOf(s), above, physics.GroundSnapTolerance)
	if !ok {
		return
	}
	s.Origin[1] = top + s.Height/2
	s.Velocity[1] = 0
	s.Grounded = true
}

func feetOf(s *State) physics.Vec3 {
	return physics.Vec3{s.Origin.X(), s.Origin.Y() - s.Height/2, s.Origin.Z()}
}

func wishMove(s *State, cfg Config) (physics.Vec3, float64) {
	yaw := s.Yaw()
	forward := physics.DirectionFromAngles(0, yaw)
	right := physics.RightFromYaw(yaw)

	wish := forward.Mul(s.ForwardMove).Add(right.Mul(s.SideMove))
	if wish.Len() <= minimumResidualSpeed {
		return physics.Vec3{}, 0
	}

	speed := cfg.WalkSpeed
	switch {
	case s.Crouching:
		speed = cfg.CrouchSpeed
	case s.Sprinting:
		speed = cfg.SprintSpeed
	}
	return wish.Normalize(), speed
}

func accelerate(vel *physics.Vec3, wishDir physics.Vec3, wishSpeed, accel, dt float64) {
	current := vel.Dot(wishDir)
	add := wishSpeed - current
	if add <= 0 {
		return
	}
	accelSpeed := math.Min(accel*dt*wishSpeed, add)
	*vel = vel.Add(wishDir.Mul(accelSpeed))
}

func airAccelerate(vel *physics.Vec3, wishDir physics.Vec3, wishSpeed, accel, airCap, dt float64) {
	capped := math.Min(wishSpeed, airCap)
	current := vel.Dot(wishDir)
	add := capped - current
	if add <= 0 {
		return
	}
	accelSpeed := math.Min(accel*wishSpeed*dt, add)
	*vel = vel.Add(wishDir.Mul(accelSpeed))
}

func applyFriction(vel *physics.Vec3, friction, stopSpeed, dt float64) {
	speed := physics.Horizontal(*vel).Len()
	if speed < minimumResidualSpeed {
		vel[0] = 0
		vel[2] = 0
		return
	}

	control := math.Max(speed, stopSpeed)
	newSpeed := math.Max(speed-control*friction*dt, 0)
	scale := newSpeed / speed
	vel[0] *= scale
	vel[2] *= scale
}

func clampVelocity(vel *physics.Vec3, limit float64) {
	if limit <= 0 {
		return
	}
	for i := range vel {
		vel[i] = math.Max(-limit, math.Min(limit, vel[i]))
	}
}

func moveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}
