package input

import "github.com/go-gl/mathgl/mgl64"

type Action string

const (
	ActionJump  Action = "jump"
	ActionGrab  Action = "grab"
	ActionThrow Action = "throw"
)

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionJump, ActionGrab, ActionThrow:
		return Action(s), true
	default:
		return "", false
	}
}

// Snapshot is the continuous part of the input for one tick. Edge-triggered
// actions travel over the Bus instead.
type Snapshot struct {
	// Move is the strafe (X) and forward (Y) axis pair in [-1, 1].
	Move   mgl64.Vec2
	Crouch float64
	// Look is a pitch/yaw change in degrees to apply this tick.
	Look mgl64.Vec2
}

type Source interface {
	Snapshot() Snapshot
}

// Driver feeds a tick loop: Poll runs on the tick goroutine and publishes
// any edge actions due for that tick.
type Driver interface {
	Source
	Poll(tick int, bus *Bus)
}
