package engine

import (
	"log/slog"

	"github.com/Versifine/surf/internal/physics"
	"github.com/mlange-42/ark/ecs"
)

// Engine is a small host physics world. Bodies and trigger volumes are ECS
// entities; handles stay valid until Destroy and report Alive false after.
// It integrates velocities, moves kinematic bodies with their riders,
// tracks trigger overlaps and answers ray casts. It resolves no contacts.
type Engine struct {
	world *ecs.World

	bodies  *ecs.Map4[Transform, Shape, Collider, Motion]
	volumes *ecs.Map3[Transform, Shape, Trigger]

	transforms *ecs.Map[Transform]
	shapes     *ecs.Map[Shape]
	colliders  *ecs.Map[Collider]
	motions    *ecs.Map[Motion]
	triggers   *ecs.Map[Trigger]

	bodyFilter   *ecs.Filter4[Transform, Shape, Collider, Motion]
	volumeFilter *ecs.Filter3[Transform, Shape, Trigger]

	byID     map[physics.ColliderID]ecs.Entity
	nextID   physics.ColliderID
	watchers map[physics.ColliderID]*watcher
	gravity  float64
	tick     uint64
}

func New(gravity float64) *Engine {
	world := ecs.NewWorld()
	return &Engine{
		world:        world,
		bodies:       ecs.NewMap4[Transform, Shape, Collider, Motion](world),
		volumes:      ecs.NewMap3[Transform, Shape, Trigger](world),
		transforms:   ecs.NewMap[Transform](world),
		shapes:       ecs.NewMap[Shape](world),
		colliders:    ecs.NewMap[Collider](world),
		motions:      ecs.NewMap[Motion](world),
		triggers:     ecs.NewMap[Trigger](world),
		bodyFilter:   ecs.NewFilter4[Transform, Shape, Collider, Motion](world),
		volumeFilter: ecs.NewFilter3[Transform, Shape, Trigger](world),
		byID:         make(map[physics.ColliderID]ecs.Entity),
		watchers:     make(map[physics.ColliderID]*watcher),
		gravity:      gravity,
	}
}

// Tick returns the number of completed Step calls.
func (e *Engine) Tick() uint64 {
	return e.tick
}

func (e *Engine) AddStatic(center, size physics.Vec3, layer uint8) Body {
	return e.spawn(center, size, Collider{Layer: layer, Solid: true, Kind: KindStatic}, Motion{})
}

func (e *Engine) AddDynamic(center, size physics.Vec3, layer uint8, mass float64) Body {
	return e.spawn(center, size, Collider{Layer: layer, Solid: true, Kind: KindDynamic}, Motion{UseGravity: true, Mass: mass})
}

// AddKinematic spawns a solid body that moves at a constant velocity until
// changed, carrying whatever rests on top of it.
func (e *Engine) AddKinematic(center, size physics.Vec3, layer uint8, velocity physics.Vec3) Body {
	return e.spawn(center, size, Collider{Layer: layer, Solid: true, Kind: KindKinematic}, Motion{Velocity: velocity})
}

// AddCharacter spawns the collider of a character controller. A solid
// character blocks ray casts and shoves dynamic bodies it overlaps, trading
// displacement by mass.
func (e *Engine) AddCharacter(center, size physics.Vec3, layer uint8, solid bool, mass float64) Body {
	return e.spawn(center, size, Collider{Layer: layer, Solid: solid, Kind: KindCharacter}, Motion{Mass: mass})
}

func (e *Engine) AddProbe(center physics.Vec3, radius float64) Body {
	d := radius * 2
	return e.spawn(center, physics.Vec3{d, d, d}, Collider{Kind: KindProbe}, Motion{})
}

func (e *Engine) AddVolume(center, size physics.Vec3, liquid bool) Volume {
	t := Transform{Position: center, Rotation: physics.Identity()}
	s := Shape{HalfExtents: size.Mul(0.5)}
	tr := Trigger{Liquid: liquid}
	entity := e.volumes.NewEntity(&t, &s, &tr)
	return Volume{eng: e, entity: entity}
}

func (e *Engine) spawn(center, size physics.Vec3, c Collider, m Motion) Body {
	e.nextID++
	c.ID = e.nextID
	t := Transform{Position: center, Rotation: physics.Identity()}
	s := Shape{HalfExtents: size.Mul(0.5)}
	entity := e.bodies.NewEntity(&t, &s, &c, &m)
	e.byID[c.ID] = entity
	return Body{eng: e, entity: entity}
}

// Body looks up a live body by collider id.
func (e *Engine) Body(id physics.ColliderID) (Body, bool) {
	entity, ok := e.byID[id]
	if !ok || !e.world.Alive(entity) {
		return Body{}, false
	}
	return Body{eng: e, entity: entity}, true
}

// DestroyBody removes the body. Watchers registered for it are dropped and
// no exit events are sent; outstanding handles report Alive false.
func (e *Engine) DestroyBody(b Body) {
	if !b.Alive() {
		return
	}
	id := e.colliders.Get(b.entity).ID
	delete(e.byID, id)
	delete(e.watchers, id)
	e.world.RemoveEntity(b.entity)
	slog.Debug("Body destroyed", "component", "engine", "collider", id)
}

// DestroyVolume removes the volume without notifying the colliders inside.
func (e *Engine) DestroyVolume(v Volume) {
	if !v.Alive() {
		return
	}
	e.world.RemoveEntity(v.entity)
	slog.Debug("Volume destroyed", "component", "engine")
}

// Push displaces a body outside of its own motion, the way a host would
// resolve an external contact.
func (e *Engine) Push(b Body, delta physics.Vec3) {
	if !b.Alive() {
		return
	}
	t := e.transforms.Get(b.entity)
	t.Position = t.Position.Add(delta)
}

func (e *Engine) bounds(entity ecs.Entity) physics.AABB {
	return e.shapes.Get(entity).Bounds(e.transforms.Get(entity).Position)
}
