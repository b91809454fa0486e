package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a Driver fed from another goroutine (a terminal reader, a
// window callback). Setters only record intent; Poll publishes queued
// actions on the tick goroutine.
type State struct {
	mu      sync.Mutex
	current Snapshot
	pending []Action
}

func NewState() *State {
	return &State{}
}

func (s *State) SetMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Move = mgl64.Vec2{clampAxis(x), clampAxis(y)}
}

func (s *State) SetCrouch(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Crouch = v
}

func (s *State) Press(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, a)
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{}
	s.pending = s.pending[:0]
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) Poll(_ int, bus *Bus) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if bus == nil {
		return
	}
	for _, a := range pending {
		bus.Publish(a)
	}
}

func clampAxis(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
