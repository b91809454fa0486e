package input

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Step holds input for ticks [At, Until). Press actions fire once, at At.
// Overlapping steps combine: the last move wins, the strongest crouch wins
// and look deltas add up.
type Step struct {
	At     int       `yaml:"at"`
	Until  int       `yaml:"until"`
	Move   []float64 `yaml:"move"`
	Crouch float64   `yaml:"crouch"`
	Look   []float64 `yaml:"look"`
	Press  []string  `yaml:"press"`
}

// Script replays a fixed input timeline, for headless runs and tests.
type Script struct {
	Steps []Step `yaml:"steps"`

	current Snapshot
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	for i, step := range s.Steps {
		if step.At < 0 {
			return nil, fmt.Errorf("step %d: negative start tick %d", i, step.At)
		}
		if len(step.Move) != 0 && len(step.Move) != 2 {
			return nil, fmt.Errorf("step %d: move needs 2 values, got %d", i, len(step.Move))
		}
		if len(step.Look) != 0 && len(step.Look) != 2 {
			return nil, fmt.Errorf("step %d: look needs 2 values, got %d", i, len(step.Look))
		}
		for _, name := range step.Press {
			if _, ok := ParseAction(name); !ok {
				return nil, fmt.Errorf("step %d: unknown action %q", i, name)
			}
		}
	}
	return s, nil
}

func (s *Script) Snapshot() Snapshot {
	return s.current
}

func (s *Script) Poll(tick int, bus *Bus) {
	var snap Snapshot
	for _, step := range s.Steps {
		if step.At <= tick && tick < step.Until {
			if len(step.Move) == 2 {
				snap.Move = mgl64.Vec2{clampAxis(step.Move[0]), clampAxis(step.Move[1])}
			}
			if step.Crouch > snap.Crouch {
				snap.Crouch = step.Crouch
			}
			if len(step.Look) == 2 {
				snap.Look = snap.Look.Add(mgl64.Vec2{step.Look[0], step.Look[1]})
			}
		}
	}
	s.current = snap

	if bus == nil {
		return
	}
	for _, step := range s.Steps {
		if step.At != tick {
			continue
		}
		for _, name := range step.Press {
			bus.Publish(Action(name))
		}
	}
}

// End returns the first tick after which the script has nothing left to do.
func (s *Script) End() int {
	end := 0
	for _, step := range s.Steps {
		if step.Until > end {
			end = step.Until
		}
		if step.At+1 > end {
			end = step.At + 1
		}
	}
	return end
}
