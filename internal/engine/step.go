package engine

import (
	"math"

	"github.com/Versifine/surf/internal/physics"
	"github.com/mlange-42/ark/ecs"
)

type bodyInfo struct {
	entity   ecs.Entity
	box      physics.AABB
	collider Collider
	velocity physics.Vec3
}

// Step advances the world by dt: kinematic bodies move first and carry
// their riders, then dynamic bodies integrate gravity and damping and
// settle onto supports, solid characters are separated from the dynamic
// bodies they overlap, then trigger overlaps are dispatched.
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	e.moveKinematic(dt)
	e.integrateDynamic(dt)
	e.separateCharacters()
	e.Sync()
	e.tick++
}

func (e *Engine) snapshot() []bodyInfo {
	var out []bodyInfo
	query := e.bodyFilter.Query()
	for query.Next() {
		t, s, c, m := query.Get()
		out = append(out, bodyInfo{
			entity:   query.Entity(),
			box:      s.Bounds(t.Position),
			collider: *c,
			velocity: m.Velocity,
		})
	}
	return out
}

func (e *Engine) moveKinematic(dt float64) {
	bodies := e.snapshot()
	carried := make(map[ecs.Entity]struct{})

	for _, mover := range bodies {
		if mover.collider.Kind != KindKinematic || mover.velocity.Len() == 0 {
			continue
		}
		delta := mover.velocity.Mul(dt)

		for _, rider := range bodies {
			if rider.collider.Kind != KindDynamic && rider.collider.Kind != KindCharacter {
				continue
			}
			if _, done := carried[rider.entity]; done {
				continue
			}
			if !restsOn(rider.box, mover.box) {
				continue
			}
			t := e.transforms.Get(rider.entity)
			t.Position = t.Position.Add(delta)
			carried[rider.entity] = struct{}{}
		}

		t := e.transforms.Get(mover.entity)
		t.Position = t.Position.Add(delta)
	}
}

func (e *Engine) integrateDynamic(dt float64) {
	for _, b := range e.snapshot() {
		if b.collider.Kind != KindDynamic {
			continue
		}
		t := e.transforms.Get(b.entity)
		m := e.motions.Get(b.entity)

		if m.UseGravity {
			m.Velocity[1] += e.gravity * dt
		}
		if m.Damping > 0 {
			m.Velocity = m.Velocity.Mul(1 / (1 + m.Damping*dt))
		}

		oldBottom := b.box.Min.Y()
		t.Position = t.Position.Add(m.Velocity.Mul(dt))
		if m.Velocity.Y() > 0 {
			continue
		}

		box := e.bounds(b.entity)
		top, ok := e.supportTop(b.entity, box, oldBottom)
		if !ok {
			continue
		}
		t.Position[1] += top - box.Min.Y()
		m.Velocity[1] = 0
	}
}

// supportTop finds the highest solid top the box fell onto or through
// since its bottom was at prevBottom.
func (e *Engine) supportTop(self ecs.Entity, box physics.AABB, prevBottom float64) (float64, bool) {
	best, found := 0.0, false
	for _, other := range e.snapshot() {
		if other.entity == self || !other.collider.Solid {
			continue
		}
		if !box.OverlapsXZ(other.box) {
			continue
		}
		top := other.box.Max.Y()
		if top < box.Min.Y()-physics.GroundSnapTolerance || top > prevBottom+physics.GroundSnapTolerance {
			continue
		}
		if !found || top > best {
			best, found = top, true
		}
	}
	return best, found
}

// separateCharacters pushes dynamic bodies out of solid characters along the
// shallower horizontal axis. The character takes the dynamic body's share of
// the combined mass as its own displacement.
func (e *Engine) separateCharacters() {
	bodies := e.snapshot()
	for _, ch := range bodies {
		if ch.collider.Kind != KindCharacter || !ch.collider.Solid {
			continue
		}
		for _, other := range bodies {
			if other.collider.Kind != KindDynamic {
				continue
			}
			push, ok := horizontalPenetration(e.bounds(ch.entity), e.bounds(other.entity))
			if !ok {
				continue
			}

			cm := e.motions.Get(ch.entity).Mass
			om := e.motions.Get(other.entity).Mass
			share := 0.5
			if cm+om > 0 {
				share = cm / (cm + om)
			}

			ot := e.transforms.Get(other.entity)
			ot.Position = ot.Position.Add(push.Mul(share))
			ct := e.transforms.Get(ch.entity)
			ct.Position = ct.Position.Sub(push.Mul(1 - share))
		}
	}
}

// horizontalPenetration returns the shortest X or Z translation that moves b
// out of a.
func horizontalPenetration(a, b physics.AABB) (physics.Vec3, bool) {
	if !a.Intersects(b) {
		return physics.Vec3{}, false
	}
	dx := math.Min(a.Max.X(), b.Max.X()) - math.Max(a.Min.X(), b.Min.X())
	dz := math.Min(a.Max.Z(), b.Max.Z()) - math.Max(a.Min.Z(), b.Min.Z())
	ac, bc := a.Center(), b.Center()
	if dx <= dz {
		if bc.X() < ac.X() {
			dx = -dx
		}
		return physics.Vec3{dx, 0, 0}, true
	}
	if bc.Z() < ac.Z() {
		dz = -dz
	}
	return physics.Vec3{0, 0, dz}, true
}

func restsOn(rider, support physics.AABB) bool {
	gap := rider.Min.Y() - support.Max.Y()
	return gap >= -physics.GroundSnapTolerance && gap <= physics.GroundSnapTolerance &&
		rider.OverlapsXZ(support)
}
