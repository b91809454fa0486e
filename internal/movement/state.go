package movement

import "github.com/Versifine/surf/internal/physics"

// Setup holds per-instance settings copied into a State once at
// initialization. They are read-only afterwards.
type Setup struct {
	SlopeLimit           float64
	PushForce            float64
	SlidingEnabled       bool
	LaddersEnabled       bool
	AngledLaddersEnabled bool
	UseStepOffset        bool
	StepOffset           float64
	DefaultHeight        float64
	CrouchingHeight      float64 // multiplier applied to DefaultHeight
	CrouchingSpeed       float64
	ViewOffset           physics.Vec3
}

// State is the mutable per-tick record of the controlled player.
type State struct {
	Origin   physics.Vec3
	Velocity physics.Vec3

	// ViewAngles is pitch, yaw, roll in degrees.
	ViewAngles     physics.Vec3
	VerticalAxis   float64
	HorizontalAxis float64
	SideMove       float64
	ForwardMove    float64
	Sprinting      bool
	Crouching      bool
	WishJump       bool

	SubmergedBody   bool
	SubmergedCamera bool

	Grounded bool
	Height   float64

	setup Setup
}

func NewState(origin physics.Vec3, setup Setup) *State {
	return &State{
		Origin: origin,
		Height: setup.DefaultHeight,
		setup:  setup,
	}
}

func (s *State) Setup() Setup {
	return s.setup
}

// Yaw returns the view yaw in degrees.
func (s *State) Yaw() float64 {
	return s.ViewAngles.Y()
}
