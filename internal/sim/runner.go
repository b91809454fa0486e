package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/surf/internal/character"
	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/debug"
	"github.com/Versifine/surf/internal/grab"
	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/movement"
	"github.com/Versifine/surf/internal/physics"
	"github.com/Versifine/surf/internal/trace"
)

// Runner owns the fixed-step loop. Each Step polls input, synchronizes the
// character, drives the grab controller, advances the engine and records a
// trace row, all on the calling goroutine.
type Runner struct {
	cfg    config.Config
	dt     float64
	scene  *Scene
	camera *Camera
	avatar *Avatar
	bus    *input.Bus
	driver input.Driver

	char    *character.Character
	grabber *grab.Controller
	trace   *trace.Recorder

	tick int
	last character.Frame
}

func NewRunner(cfg config.Config, driver input.Driver, rec *trace.Recorder) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if driver == nil {
		driver = input.NewState()
	}

	scene := BuildScene(cfg)
	r := &Runner{
		cfg:    cfg,
		dt:     cfg.TickSeconds(),
		scene:  scene,
		camera: &Camera{},
		avatar: &Avatar{},
		bus:    input.NewBus(),
		driver: driver,
		trace:  rec,
	}
	r.camera.Follow(scene.Spawn.Add(physics.Up.Mul(cfg.Character.ViewHeight)))

	char, err := character.New(cfg.Character, cfg.Movement, character.Deps{
		Body:           scene.Player,
		View:           r.camera,
		Solver:         movement.Surf{Ground: scene.Engine},
		Input:          driver,
		Triggers:       scene.Engine,
		Probe:          scene.Probe,
		PlayerRotation: r.avatar,
	})
	if err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}
	r.char = char

	grabber, err := grab.New(cfg.Grab, grab.Deps{
		Raycaster: scene.Engine,
		View:      r.camera,
		HoldPoint: HoldPoint{View: r.camera, Distance: cfg.Grab.HoldDistance},
	})
	if err != nil {
		return nil, fmt.Errorf("create grabber: %w", err)
	}
	r.grabber = grabber

	if err := r.char.Start(r.bus); err != nil {
		return nil, err
	}
	r.grabber.Start(r.bus)
	r.camera.Follow(r.char.ViewOrigin())
	return r, nil
}

func (r *Runner) Close() {
	r.grabber.Stop()
	r.char.Stop()
}

func (r *Runner) Step() error {
	r.driver.Poll(r.tick, r.bus)
	if look := r.driver.Snapshot().Look; look.Len() > 0 {
		r.camera.Look(look.X(), look.Y())
	}

	frame, err := r.char.Tick(r.dt)
	if err != nil {
		return fmt.Errorf("tick %d: %w", r.tick, err)
	}
	r.camera.Follow(r.char.ViewOrigin())

	r.grabber.FixedTick(r.dt)
	r.scene.Update()
	r.scene.Engine.Step(r.dt)

	if err := r.trace.Write(r.row(frame)); err != nil {
		return err
	}
	r.last = frame
	r.tick++
	return nil
}

func (r *Runner) row(f character.Frame) trace.Row {
	return trace.Row{
		Tick:            f.Tick,
		X:               f.Origin.X(),
		Y:               f.Origin.Y(),
		Z:               f.Origin.Z(),
		DX:              f.Displacement.X(),
		DY:              f.Displacement.Y(),
		DZ:              f.Displacement.Z(),
		Speed:           r.char.Speed(),
		Height:          f.Height,
		Grounded:        f.Grounded,
		Crouching:       f.Crouching,
		SubmergedBody:   f.SubmergedBody,
		SubmergedCamera: f.SubmergedCamera,
		Grab:            r.grabber.State().String(),
	}
}

// Run steps ticks times, or until ctx is done when ticks is not positive.
func (r *Runner) Run(ctx context.Context, ticks int) error {
	for i := 0; ticks <= 0 || i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
	}
	slog.Info("Run finished", "component", "sim", "ticks", r.tick, "origin", r.last.Origin)
	return nil
}

// RunPaced is Run at wall-clock speed, for interactive sessions.
func (r *Runner) RunPaced(ctx context.Context, ticks int) error {
	ticker := time.NewTicker(time.Duration(r.dt * float64(time.Second)))
	defer ticker.Stop()

	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) Tick() int                       { return r.tick }
func (r *Runner) LastFrame() character.Frame      { return r.last }
func (r *Runner) Scene() *Scene                   { return r.scene }
func (r *Runner) Camera() *Camera                 { return r.camera }
func (r *Runner) Avatar() *Avatar                 { return r.avatar }
func (r *Runner) Character() *character.Character { return r.char }
func (r *Runner) Grabber() *grab.Controller       { return r.grabber }
func (r *Runner) Bus() *input.Bus                 { return r.bus }

var _ debug.Target = (*Runner)(nil)

func (r *Runner) Look(dPitch, dYaw float64) {
	r.camera.Look(dPitch, dYaw)
}

func (r *Runner) Teleport(pos physics.Vec3) {
	r.char.Teleport(pos)
	r.camera.Follow(r.char.ViewOrigin())
}

func (r *Runner) Status() debug.Status {
	s := r.char.State()
	angles := r.camera.Angles()
	return debug.Status{
		Tick:            r.tick,
		Origin:          s.Origin,
		Velocity:        s.Velocity,
		Pitch:           angles.X(),
		Yaw:             angles.Y(),
		Grounded:        s.Grounded,
		Crouching:       s.Crouching,
		SubmergedBody:   s.SubmergedBody,
		SubmergedCamera: s.SubmergedCamera,
		Grab:            r.grabber.State().String(),
	}
}
