package grab

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/physics"
)

var (
	ErrNoRaycaster = errors.New("grab: raycaster is not set")
	ErrNoView      = errors.New("grab: view is not set")
	ErrNoHoldPoint = errors.New("grab: hold point is not set")
)

type State uint8

const (
	Idle State = iota
	Holding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	default:
		return "unknown"
	}
}

type Deps struct {
	Raycaster physics.Raycaster
	View      physics.View
	HoldPoint physics.Point
}

// Controller picks up dynamic bodies in front of the view and drives them
// toward a hold point every physics tick.
type Controller struct {
	cfg  config.GrabConfig
	mask physics.LayerMask
	deps Deps

	held physics.RigidBody

	bus  *input.Bus
	subs []input.Subscription
}

func New(cfg config.GrabConfig, deps Deps) (*Controller, error) {
	if deps.Raycaster == nil {
		return nil, ErrNoRaycaster
	}
	if deps.View == nil {
		return nil, ErrNoView
	}
	if deps.HoldPoint == nil {
		return nil, ErrNoHoldPoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grab config: %w", err)
	}
	return &Controller{
		cfg:  cfg,
		mask: cfg.LayerMask(),
		deps: deps,
	}, nil
}

// Start subscribes Grab and Throw to their input actions.
func (c *Controller) Start(bus *input.Bus) {
	c.unsubscribe()
	if bus == nil {
		return
	}
	c.bus = bus
	c.subs = []input.Subscription{
		bus.Subscribe(input.ActionGrab, func(input.Action) { c.Grab() }),
		bus.Subscribe(input.ActionThrow, func(input.Action) { c.Throw() }),
	}
}

// Stop unsubscribes and drops anything held so it falls again.
func (c *Controller) Stop() {
	c.unsubscribe()
	c.drop()
}

func (c *Controller) unsubscribe() {
	if c.bus == nil {
		return
	}
	for _, sub := range c.subs {
		c.bus.Unsubscribe(sub)
	}
	c.bus = nil
	c.subs = nil
}

func (c *Controller) State() State {
	if c.current() == nil {
		return Idle
	}
	return Holding
}

func (c *Controller) Held() (physics.RigidBody, bool) {
	held := c.current()
	return held, held != nil
}

// current returns the held body, forgetting it if the host destroyed it.
func (c *Controller) current() physics.RigidBody {
	if c.held == nil {
		return nil
	}
	if !c.held.Alive() {
		slog.Debug("Held body destroyed", "component", "grab")
		c.held = nil
		return nil
	}
	return c.held
}

// Grab toggles: it drops a held body, otherwise tries to pick one up.
func (c *Controller) Grab() {
	if c.current() != nil {
		c.drop()
		return
	}
	c.tryGrab()
}

func (c *Controller) tryGrab() {
	origin := c.deps.View.Position()
	dir := c.deps.View.Forward()
	hit, ok := c.deps.Raycaster.Raycast(origin, dir, c.cfg.Range, c.mask)
	if !ok || hit.Distance > c.cfg.Range {
		return
	}
	body := hit.Body
	if body == nil || !body.Alive() || body.Kinematic() {
		return
	}

	body.SetUseGravity(false)
	body.SetLinearDamping(c.cfg.HoldDamping)
	c.held = body
	slog.Debug("Body grabbed", "component", "grab", "distance", hit.Distance)
}

func (c *Controller) drop() {
	held := c.current()
	if held == nil {
		return
	}
	held.SetUseGravity(true)
	held.SetLinearDamping(0)
	c.held = nil
	slog.Debug("Body dropped", "component", "grab")
}

// Throw releases the held body along the view direction.
func (c *Controller) Throw() {
	held := c.current()
	if held == nil {
		return
	}
	held.SetUseGravity(true)
	held.SetLinearDamping(0)
	held.SetVelocity(c.deps.View.Forward().Mul(c.cfg.ThrowSpeed))
	c.held = nil
	slog.Debug("Body thrown", "component", "grab", "speed", c.cfg.ThrowSpeed)
}

// FixedTick pulls the held body toward the hold point. The velocity is
// proportional to the offset with no derivative term.
func (c *Controller) FixedTick(dt float64) {
	held := c.current()
	if held == nil {
		return
	}
	toHold := c.deps.HoldPoint.Position().Sub(held.Position())
	held.SetVelocity(toHold.Mul(c.cfg.Force * dt))
}
