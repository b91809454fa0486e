package physics

// ColliderID identifies a collider inside the host engine. Trigger callbacks
// are keyed by it.
type ColliderID uint32

// Body is the transform of the collider driven by the character controller.
type Body interface {
	ID() ColliderID
	Position() Vec3
	SetPosition(pos Vec3)
	Rotation() Quat
	SetRotation(rot Quat)
}

// RigidBody is a dynamic body that may be destroyed by the host at any time.
// Callers check Alive before every use.
type RigidBody interface {
	Alive() bool
	Kinematic() bool
	Position() Vec3
	Velocity() Vec3
	SetVelocity(v Vec3)
	UseGravity() bool
	SetUseGravity(enabled bool)
	LinearDamping() float64
	SetLinearDamping(damping float64)
}

// Volume is a trigger volume handle. Handles must be comparable so they can
// be used as set keys.
type Volume interface {
	Alive() bool
	IsLiquid() bool
}

type TriggerListener interface {
	OnTriggerEnter(v Volume)
	OnTriggerExit(v Volume)
}

type TriggerSource interface {
	// WatchTriggers delivers enter/exit events for the collider to l until
	// the returned cancel func is called.
	WatchTriggers(id ColliderID, l TriggerListener) (cancel func())
}

type LayerMask uint32

const AllLayers = ^LayerMask(0)

func LayerBit(layer uint8) LayerMask {
	if layer > 31 {
		return 0
	}
	return LayerMask(1) << layer
}

func (m LayerMask) Has(layer uint8) bool {
	return m&LayerBit(layer) != 0
}

type RayHit struct {
	// Body is nil when the ray hit a static collider.
	Body     RigidBody
	Point    Vec3
	Distance float64
}

type Raycaster interface {
	Raycast(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool)
}

// View is the logical first-person viewpoint.
type View interface {
	Position() Vec3
	Forward() Vec3
	// Angles returns pitch, yaw, roll in degrees.
	Angles() Vec3
}

type Point interface {
	Position() Vec3
}

type Rotator interface {
	SetRotation(rot Quat)
}
