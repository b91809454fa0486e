package physics

const (
	CollisionAxisTolerance = 1e-9

	// GroundSnapTolerance is how far above a surface top a collider bottom may
	// sit and still count as resting on it.
	GroundSnapTolerance = 0.05

	DefaultGravity = -9.81
)
