package engine

import (
	"github.com/Versifine/surf/internal/physics"
	"github.com/mlange-42/ark/ecs"
)

// Body is a comparable handle to a body entity. Every accessor is a no-op
// or returns the zero value once the body is destroyed.
type Body struct {
	eng    *Engine
	entity ecs.Entity
}

var (
	_ physics.Body      = Body{}
	_ physics.RigidBody = Body{}
)

func (b Body) Alive() bool {
	return b.eng != nil && b.eng.world.Alive(b.entity)
}

func (b Body) ID() physics.ColliderID {
	if !b.Alive() {
		return 0
	}
	return b.eng.colliders.Get(b.entity).ID
}

func (b Body) Kind() Kind {
	if !b.Alive() {
		return KindStatic
	}
	return b.eng.colliders.Get(b.entity).Kind
}

func (b Body) Kinematic() bool {
	k := b.Kind()
	return k != KindDynamic
}

func (b Body) Position() physics.Vec3 {
	if !b.Alive() {
		return physics.Vec3{}
	}
	return b.eng.transforms.Get(b.entity).Position
}

func (b Body) SetPosition(pos physics.Vec3) {
	if !b.Alive() {
		return
	}
	b.eng.transforms.Get(b.entity).Position = pos
}

func (b Body) Rotation() physics.Quat {
	if !b.Alive() {
		return physics.Identity()
	}
	return b.eng.transforms.Get(b.entity).Rotation
}

func (b Body) SetRotation(rot physics.Quat) {
	if !b.Alive() {
		return
	}
	b.eng.transforms.Get(b.entity).Rotation = rot
}

func (b Body) Bounds() physics.AABB {
	if !b.Alive() {
		return physics.AABB{}
	}
	return b.eng.bounds(b.entity)
}

// Resize changes the full size of the box, keeping its centre.
func (b Body) Resize(size physics.Vec3) {
	if !b.Alive() {
		return
	}
	b.eng.shapes.Get(b.entity).HalfExtents = size.Mul(0.5)
}

func (b Body) Velocity() physics.Vec3 {
	if !b.Alive() {
		return physics.Vec3{}
	}
	return b.eng.motions.Get(b.entity).Velocity
}

func (b Body) SetVelocity(v physics.Vec3) {
	if !b.Alive() {
		return
	}
	b.eng.motions.Get(b.entity).Velocity = v
}

func (b Body) UseGravity() bool {
	if !b.Alive() {
		return false
	}
	return b.eng.motions.Get(b.entity).UseGravity
}

func (b Body) SetUseGravity(enabled bool) {
	if !b.Alive() {
		return
	}
	b.eng.motions.Get(b.entity).UseGravity = enabled
}

func (b Body) LinearDamping() float64 {
	if !b.Alive() {
		return 0
	}
	return b.eng.motions.Get(b.entity).Damping
}

func (b Body) SetLinearDamping(damping float64) {
	if !b.Alive() {
		return
	}
	b.eng.motions.Get(b.entity).Damping = damping
}

// Volume is a comparable handle to a trigger volume entity.
type Volume struct {
	eng    *Engine
	entity ecs.Entity
}

var _ physics.Volume = Volume{}

func (v Volume) Alive() bool {
	return v.eng != nil && v.eng.world.Alive(v.entity)
}

func (v Volume) IsLiquid() bool {
	if !v.Alive() {
		return false
	}
	return v.eng.triggers.Get(v.entity).Liquid
}

func (v Volume) Bounds() physics.AABB {
	if !v.Alive() {
		return physics.AABB{}
	}
	return v.eng.bounds(v.entity)
}
