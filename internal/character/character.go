package character

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/movement"
	"github.com/Versifine/surf/internal/physics"
	"github.com/Versifine/surf/internal/submersion"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	sprintThreshold = 0.5
	crouchThreshold = 0.5
)

// Deps are the collaborators of a Character. Body, View and Solver are
// required; everything else may be nil.
type Deps struct {
	Body   physics.Body
	View   physics.View
	Solver movement.Solver
	Input  input.Source

	Triggers physics.TriggerSource
	// Probe is the collider that follows the view for camera submersion.
	Probe submersion.Mover
	// PlayerRotation receives the view yaw. The collider itself is never
	// rotated.
	PlayerRotation physics.Rotator
}

// Resizer is implemented by bodies whose collider can follow the crouch
// height.
type Resizer interface {
	Resize(size physics.Vec3)
}

// Frame reports what one Tick did.
type Frame struct {
	Tick            uint64
	Displacement    physics.Vec3
	Origin          physics.Vec3
	Velocity        physics.Vec3
	Height          float64
	SubmergedBody   bool
	SubmergedCamera bool
	Crouching       bool
	Grounded        bool
}

// Character keeps a host physics body and the movement state in step. The
// state origin is authoritative: each tick folds any displacement the host
// applied since the last tick into the origin, runs the solver and writes
// the origin back to the body.
type Character struct {
	cfg     config.CharacterConfig
	moveCfg movement.Config
	deps    Deps

	state   *movement.State
	tracker *submersion.Tracker
	probe   *submersion.CameraProbe

	prev        physics.Vec3
	allowCrouch bool
	jumpPending bool
	active      bool
	tick        uint64

	bus     *input.Bus
	jumpSub input.Subscription
}

func New(cfg config.CharacterConfig, moveCfg movement.Config, deps Deps) (*Character, error) {
	if deps.View == nil {
		return nil, ErrNoView
	}
	if deps.Body == nil {
		return nil, ErrNoBody
	}
	if deps.Solver == nil {
		return nil, ErrNoSolver
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("character config: %w", err)
	}

	size := cfg.ColliderVec()
	setup := movement.Setup{
		SlopeLimit:           moveCfg.SlopeLimit,
		PushForce:            cfg.PushForce,
		SlidingEnabled:       cfg.SlidingEnabled,
		LaddersEnabled:       cfg.LaddersEnabled,
		AngledLaddersEnabled: cfg.SupportAngledLadders,
		UseStepOffset:        cfg.UseStepOffset,
		StepOffset:           cfg.StepOffset,
		DefaultHeight:        size.Y(),
		CrouchingHeight:      cfg.CrouchingHeightMultiplier,
		CrouchingSpeed:       cfg.CrouchingSpeed,
		ViewOffset:           physics.Vec3{0, cfg.ViewHeight, 0},
	}

	origin := deps.Body.Position()
	c := &Character{
		cfg:         cfg,
		moveCfg:     moveCfg,
		deps:        deps,
		state:       movement.NewState(origin, setup),
		tracker:     submersion.NewTracker(),
		probe:       submersion.NewCameraProbe(deps.Probe),
		prev:        origin,
		allowCrouch: cfg.CrouchingEnabled,
	}
	c.probe.MoveTo(deps.View.Position())
	return c, nil
}

func (c *Character) Start(bus *input.Bus) error {
	if c.active {
		return ErrAlreadyStarted
	}
	c.tracker.Watch(c.deps.Triggers, c.deps.Body.ID())
	c.probe.Start(c.deps.Triggers)
	if bus != nil {
		c.bus = bus
		c.jumpSub = bus.Subscribe(input.ActionJump, func(input.Action) {
			c.jumpPending = true
		})
	}
	c.active = true
	slog.Info("Character started", "component", "character", "collider", c.deps.Body.ID(), "origin", c.state.Origin)
	return nil
}

func (c *Character) Stop() {
	if !c.active {
		return
	}
	if c.bus != nil {
		c.bus.Unsubscribe(c.jumpSub)
		c.bus = nil
	}
	c.tracker.Unwatch()
	c.tracker.Reset()
	c.probe.Stop()
	c.jumpPending = false
	c.active = false
	slog.Info("Character stopped", "component", "character")
}

func (c *Character) Active() bool {
	return c.active
}

// Tick runs one synchronization frame.
func (c *Character) Tick(dt float64) (Frame, error) {
	if !c.active {
		return Frame{}, ErrInactive
	}
	c.tick++
	s := c.state
	body := c.deps.Body

	c.foldInput()

	body.SetRotation(physics.Identity())

	displacement := body.Position().Sub(c.prev)
	body.SetPosition(c.prev)
	s.Origin = s.Origin.Add(displacement)

	if c.tracker.Refresh() {
		slog.Debug("Body submersion changed", "component", "character", "submerged", c.tracker.Submerged(), "volumes", c.tracker.Len())
	}
	s.SubmergedBody = c.tracker.Submerged()
	s.SubmergedCamera = c.probe.Submerged()
	c.probe.MoveTo(c.deps.View.Position())

	if c.cfg.CrouchingEnabled && c.allowCrouch {
		c.deps.Solver.CrouchStep(s, c.moveCfg, dt)
	}
	c.deps.Solver.MainStep(s, c.moveCfg, dt)

	body.SetPosition(s.Origin)
	c.prev = s.Origin
	if r, ok := body.(Resizer); ok {
		size := c.cfg.ColliderVec()
		size[1] = s.Height
		r.Resize(size)
	}
	if c.deps.PlayerRotation != nil {
		c.deps.PlayerRotation.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(-s.Yaw()), physics.Up))
	}

	body.SetRotation(physics.Identity())

	return Frame{
		Tick:            c.tick,
		Displacement:    displacement,
		Origin:          s.Origin,
		Velocity:        s.Velocity,
		Height:          s.Height,
		SubmergedBody:   s.SubmergedBody,
		SubmergedCamera: s.SubmergedCamera,
		Crouching:       s.Crouching,
		Grounded:        s.Grounded,
	}, nil
}

func (c *Character) foldInput() {
	s := c.state
	var snap input.Snapshot
	if c.deps.Input != nil {
		snap = c.deps.Input.Snapshot()
	}

	s.HorizontalAxis = snap.Move.X()
	s.VerticalAxis = snap.Move.Y()
	s.Sprinting = snap.Move.Len() > sprintThreshold
	s.Crouching = snap.Crouch > crouchThreshold
	s.SideMove = axisMove(s.HorizontalAxis, c.moveCfg.Acceleration)
	s.ForwardMove = axisMove(s.VerticalAxis, c.moveCfg.Acceleration)
	s.ViewAngles = c.deps.View.Angles()

	if c.jumpPending {
		s.WishJump = true
		c.jumpPending = false
	}
}

func axisMove(axis, accel float64) float64 {
	switch {
	case axis > 0:
		return accel
	case axis < 0:
		return -accel
	default:
		return 0
	}
}

// SetAllowCrouch gates the crouch step at runtime. It has no effect when
// crouching is disabled in the config.
func (c *Character) SetAllowCrouch(allow bool) {
	c.allowCrouch = allow
}

// State returns a copy of the movement state.
func (c *Character) State() movement.State {
	return *c.state
}

// Teleport moves the character without the jump being seen as host
// displacement on the next tick.
func (c *Character) Teleport(pos physics.Vec3) {
	c.state.Origin = pos
	c.state.Velocity = physics.Vec3{}
	c.prev = pos
	c.deps.Body.SetPosition(pos)
	slog.Debug("Character teleported", "component", "character", "origin", pos)
}

// ViewOrigin is where the view should sit for the current state. The view
// offset shrinks with the collider while crouching.
func (c *Character) ViewOrigin() physics.Vec3 {
	s := c.state
	setup := s.Setup()
	offset := setup.ViewOffset
	if setup.DefaultHeight > 0 {
		offset = offset.Mul(s.Height / setup.DefaultHeight)
	}
	return s.Origin.Add(offset)
}

// Speed is the horizontal speed of the movement state.
func (c *Character) Speed() float64 {
	v := c.state.Velocity
	return math.Hypot(v.X(), v.Z())
}
