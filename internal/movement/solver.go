package movement

// Solver advances a State by dt seconds. Implementations must not keep
// hidden per-call state: identical inputs give identical results.
type Solver interface {
	// CrouchStep eases the collider height before the main step so the
	// main step's collision queries see the updated extent.
	CrouchStep(s *State, cfg Config, dt float64)
	MainStep(s *State, cfg Config, dt float64)
}
