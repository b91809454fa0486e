package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Versifine/surf/internal/movement"
	"github.com/Versifine/surf/internal/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Character CharacterConfig `yaml:"character"`
	Movement  movement.Config `yaml:"movement"`
	Grab      GrabConfig      `yaml:"grab"`
	Probe     ProbeConfig     `yaml:"probe"`
	Sim       SimConfig       `yaml:"sim"`
	Logging   LoggingConfig   `yaml:"logging"`
	Trace     TraceConfig     `yaml:"trace"`
}

type CharacterConfig struct {
	ColliderSize  [3]float64 `yaml:"collider_size"`
	Weight        float64    `yaml:"weight"`
	PushForce     float64    `yaml:"push_force"`
	SolidCollider bool       `yaml:"solid_collider"`
	ViewHeight    float64    `yaml:"view_height"`

	CrouchingHeightMultiplier float64 `yaml:"crouching_height_multiplier"`
	CrouchingSpeed            float64 `yaml:"crouching_speed"`

	CrouchingEnabled     bool `yaml:"crouching_enabled"`
	SlidingEnabled       bool `yaml:"sliding_enabled"`
	LaddersEnabled       bool `yaml:"ladders_enabled"`
	SupportAngledLadders bool `yaml:"support_angled_ladders"`

	UseStepOffset bool    `yaml:"use_step_offset"`
	StepOffset    float64 `yaml:"step_offset"`
}

type GrabConfig struct {
	Range        float64 `yaml:"range"`
	Force        float64 `yaml:"force"`
	Layers       []uint8 `yaml:"layers"`
	HoldDamping  float64 `yaml:"hold_damping"`
	ThrowSpeed   float64 `yaml:"throw_speed"`
	HoldDistance float64 `yaml:"hold_distance"`
}

type ProbeConfig struct {
	Radius float64 `yaml:"radius"`
}

type SimConfig struct {
	TickRate int `yaml:"tick_rate"`
	Ticks    int `yaml:"ticks"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TraceConfig struct {
	Path string `yaml:"path"`
}

func Default() Config {
	return Config{
		Character: CharacterConfig{
			ColliderSize:              [3]float64{1, 2, 1},
			Weight:                    75,
			PushForce:                 2,
			ViewHeight:                0.6,
			CrouchingHeightMultiplier: 0.5,
			CrouchingSpeed:            10,
			CrouchingEnabled:          true,
			LaddersEnabled:            true,
			SupportAngledLadders:      true,
			StepOffset:                0.35,
		},
		Movement: movement.DefaultConfig(),
		Grab: GrabConfig{
			Range:        4,
			Force:        500,
			HoldDamping:  10,
			ThrowSpeed:   10,
			HoldDistance: 2,
		},
		Probe: ProbeConfig{Radius: 0.1},
		Sim: SimConfig{
			TickRate: 50,
			Ticks:    500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type checker struct {
	errs []error
}

func (c *checker) check(ok bool, format string, args ...any) {
	if !ok {
		c.errs = append(c.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
}

func (c Config) Validate() error {
	ck := &checker{}
	ck.errs = append(ck.errs, c.Character.Validate(), c.Grab.Validate())

	m := c.Movement
	ck.check(m.Gravity >= 0, "movement.gravity must not be negative, got %g", m.Gravity)
	ck.check(m.WalkSpeed > 0, "movement.walk_speed must be positive, got %g", m.WalkSpeed)
	ck.check(m.MaxVelocity > 0, "movement.max_velocity must be positive, got %g", m.MaxVelocity)

	ck.check(c.Probe.Radius > 0, "probe.radius must be positive, got %g", c.Probe.Radius)
	ck.check(c.Sim.TickRate > 0, "sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	ck.check(c.Sim.Ticks >= 0, "sim.ticks must not be negative, got %d", c.Sim.Ticks)

	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		ck.check(false, "logging.format %q unknown", c.Logging.Format)
	}

	return errors.Join(ck.errs...)
}

func (ch CharacterConfig) Validate() error {
	ck := &checker{}
	for i, v := range ch.ColliderSize {
		ck.check(v > 0, "character.collider_size[%d] must be positive, got %g", i, v)
	}
	ck.check(ch.Weight > 0, "character.weight must be positive, got %g", ch.Weight)
	ck.check(ch.PushForce >= 0, "character.push_force must not be negative, got %g", ch.PushForce)
	ck.check(ch.CrouchingHeightMultiplier > 0 && ch.CrouchingHeightMultiplier <= 1,
		"character.crouching_height_multiplier must be in (0, 1], got %g", ch.CrouchingHeightMultiplier)
	ck.check(ch.CrouchingSpeed > 0, "character.crouching_speed must be positive, got %g", ch.CrouchingSpeed)
	ck.check(ch.StepOffset >= 0, "character.step_offset must not be negative, got %g", ch.StepOffset)
	return errors.Join(ck.errs...)
}

func (g GrabConfig) Validate() error {
	ck := &checker{}
	ck.check(g.Range > 0, "grab.range must be positive, got %g", g.Range)
	ck.check(g.Force > 0, "grab.force must be positive, got %g", g.Force)
	ck.check(g.HoldDamping >= 0, "grab.hold_damping must not be negative, got %g", g.HoldDamping)
	ck.check(g.ThrowSpeed >= 0, "grab.throw_speed must not be negative, got %g", g.ThrowSpeed)
	for _, layer := range g.Layers {
		ck.check(layer < 32, "grab.layers entry %d out of range [0, 31]", layer)
	}
	return errors.Join(ck.errs...)
}

// ColliderVec returns ColliderSize as a vector.
func (ch CharacterConfig) ColliderVec() physics.Vec3 {
	return physics.Vec3{ch.ColliderSize[0], ch.ColliderSize[1], ch.ColliderSize[2]}
}

// LayerMask folds Layers into a mask. An empty list matches every layer.
func (g GrabConfig) LayerMask() physics.LayerMask {
	if len(g.Layers) == 0 {
		return physics.AllLayers
	}
	var mask physics.LayerMask
	for _, layer := range g.Layers {
		mask |= physics.LayerBit(layer)
	}
	return mask
}

// TickSeconds is the fixed timestep implied by Sim.TickRate.
func (c Config) TickSeconds() float64 {
	if c.Sim.TickRate <= 0 {
		return 0
	}
	return 1 / float64(c.Sim.TickRate)
}
