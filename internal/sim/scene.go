package sim

import (
	"log/slog"

	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/engine"
	"github.com/Versifine/surf/internal/physics"
)

const (
	LayerWorld   uint8 = 0
	LayerProps   uint8 = 1
	LayerPlayer  uint8 = 2
	platformMinX       = 6.0
	platformMaxX       = 12.0
	platformSpeed      = 1.0
)

// Scene is the demo level: a floor, a row of crates in front of the spawn,
// a platform sliding back and forth along X and a pool of water behind the
// spawn.
type Scene struct {
	Engine   *engine.Engine
	Player   engine.Body
	Probe    engine.Body
	Platform engine.Body
	Water    engine.Volume
	Crates   []engine.Body
	Spawn    physics.Vec3
}

func BuildScene(cfg config.Config) *Scene {
	eng := engine.New(physics.DefaultGravity)
	size := cfg.Character.ColliderVec()

	s := &Scene{
		Engine: eng,
		Spawn:  physics.Vec3{0, size.Y() / 2, 0},
	}

	eng.AddStatic(physics.Vec3{0, -0.5, 0}, physics.Vec3{40, 1, 40}, LayerWorld)
	s.Platform = eng.AddKinematic(physics.Vec3{8, 0.25, 0}, physics.Vec3{3, 0.5, 3}, LayerWorld, physics.Vec3{platformSpeed, 0, 0})
	s.Water = eng.AddVolume(physics.Vec3{0, 1, -8}, physics.Vec3{6, 2, 6}, true)

	crate := physics.Vec3{0.5, 0.5, 0.5}
	for _, x := range []float64{-1.5, 0, 1.5} {
		s.Crates = append(s.Crates, eng.AddDynamic(physics.Vec3{x, 0.25, 3}, crate, LayerProps, 10))
	}

	s.Player = eng.AddCharacter(s.Spawn, size, LayerPlayer, cfg.Character.SolidCollider, cfg.Character.Weight)
	s.Probe = eng.AddProbe(s.Spawn, cfg.Probe.Radius)

	slog.Info("Scene built", "component", "sim", "crates", len(s.Crates), "spawn", s.Spawn)
	return s
}

// Update runs scene scripting ahead of the engine step.
func (s *Scene) Update() {
	if !s.Platform.Alive() {
		return
	}
	pos := s.Platform.Position()
	vel := s.Platform.Velocity()
	switch {
	case pos.X() >= platformMaxX && vel.X() > 0:
		s.Platform.SetVelocity(physics.Vec3{-platformSpeed, 0, 0})
	case pos.X() <= platformMinX && vel.X() < 0:
		s.Platform.SetVelocity(physics.Vec3{platformSpeed, 0, 0})
	}
}
