package engine

import "github.com/Versifine/surf/internal/physics"

type Kind uint8

const (
	KindStatic Kind = iota
	KindDynamic
	// KindKinematic bodies move only by their own velocity and carry riders.
	KindKinematic
	// KindCharacter is moved by its controller and carried by platforms.
	KindCharacter
	KindProbe
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	case KindKinematic:
		return "kinematic"
	case KindCharacter:
		return "character"
	case KindProbe:
		return "probe"
	default:
		return "unknown"
	}
}

type Transform struct {
	Position physics.Vec3
	Rotation physics.Quat
}

type Shape struct {
	HalfExtents physics.Vec3
}

func (s Shape) Bounds(center physics.Vec3) physics.AABB {
	return physics.BoxAt(center, s.HalfExtents.Mul(2))
}

type Collider struct {
	ID    physics.ColliderID
	Layer uint8
	// Solid colliders block ray casts and support other bodies.
	Solid bool
	Kind  Kind
}

type Motion struct {
	Velocity   physics.Vec3
	UseGravity bool
	Damping    float64
	Mass       float64
}

type Trigger struct {
	Liquid bool
}
