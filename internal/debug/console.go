package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/physics"
	"golang.org/x/term"
)

const (
	defaultMovePulse  = 180 * time.Millisecond
	defaultStatusRate = 5
	yawStep           = 5.0
	pitchStep         = 5.0
)

// Status is what the console shows about the running simulation.
type Status struct {
	Tick            int
	Origin          physics.Vec3
	Velocity        physics.Vec3
	Pitch           float64
	Yaw             float64
	Grounded        bool
	Crouching       bool
	SubmergedBody   bool
	SubmergedCamera bool
	Grab            string
}

// Target is driven by console commands. Its methods are only called from
// Poll, on the tick goroutine.
type Target interface {
	Look(dPitch, dYaw float64)
	Teleport(pos physics.Vec3)
	Status() Status
}

// Console is an interactive input driver. Keys are read in raw mode on the
// goroutine running Start; movement, actions and commands take effect when
// the tick loop calls Poll.
type Console struct {
	target     Target
	state      *input.State
	out        io.Writer
	movePulse  time.Duration
	statusRate int
	now        func() time.Time

	mu            sync.Mutex
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	crouch        bool
	look          [2]float64
	commands      []string
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

var _ input.Driver = (*Console)(nil)

func NewConsole(target Target, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		target:     target,
		state:      input.NewState(),
		out:        out,
		movePulse:  defaultMovePulse,
		statusRate: defaultStatusRate,
		now:        time.Now,
	}
}

// Attach sets the target when it has to be built after the console.
func (c *Console) Attach(target Target) {
	c.target = target
}

// Start puts stdin in raw mode and reads keys until ctx is done.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.target == nil {
		return fmt.Errorf("console target is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, E grab, Q throw, C crouch, arrows look, :help)\r\n")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C
			return context.Canceled
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) Snapshot() input.Snapshot {
	return c.state.Snapshot()
}

// Poll applies expired pulses, runs queued commands and publishes queued
// actions. It runs on the tick goroutine.
func (c *Console) Poll(tick int, bus *input.Bus) {
	c.mu.Lock()
	x, y := c.movementLocked(c.now())
	crouch := c.crouch
	look := c.look
	c.look = [2]float64{}
	commands := c.commands
	c.commands = nil
	c.mu.Unlock()

	c.state.SetMove(x, y)
	if crouch {
		c.state.SetCrouch(1)
	} else {
		c.state.SetCrouch(0)
	}
	c.state.Poll(tick, bus)
	if c.target == nil {
		return
	}
	if look != ([2]float64{}) {
		c.target.Look(look[0], look[1])
	}
	for _, cmd := range commands {
		c.executeCommand(cmd)
	}
	if c.statusRate > 0 && tick%c.statusRate == 0 {
		c.renderStatusLine()
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case ' ':
		c.state.Press(input.ActionJump)
	case 'e', 'E':
		c.state.Press(input.ActionGrab)
	case 'q', 'Q':
		c.state.Press(input.ActionThrow)
	case 'c', 'C':
		c.toggleCrouch()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.queueLook(0, -yawStep)
		case 'C': // right
			c.queueLook(0, yawStep)
		case 'A': // up
			c.queueLook(-pitchStep, 0)
		case 'B': // down
			c.queueLook(pitchStep, 0)
		}
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		if cmd != "" {
			c.commands = append(c.commands, cmd)
		}
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n")
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s \r:%s", buf, buf)
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		st := c.target.Status()
		fmt.Fprintf(c.out, "[debug] tick=%d pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) ground=%t water=%t/%t grab=%s\r\n",
			st.Tick,
			st.Origin.X(), st.Origin.Y(), st.Origin.Z(),
			st.Velocity.X(), st.Velocity.Y(), st.Velocity.Z(),
			st.Grounded, st.SubmergedBody, st.SubmergedCamera, st.Grab,
		)
	case "tp":
		vals, ok := parseFloats(parts[1:], 3)
		if !ok {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		pos := physics.Vec3{vals[0], vals[1], vals[2]}
		c.target.Teleport(pos)
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", pos.X(), pos.Y(), pos.Z())
	case "look":
		vals, ok := parseFloats(parts[1:], 2)
		if !ok {
			fmt.Fprint(c.out, "[debug] usage: :look <pitch> <yaw>\r\n")
			return
		}
		st := c.target.Status()
		c.target.Look(vals[0]-st.Pitch, vals[1]-st.Yaw)
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func parseFloats(args []string, n int) ([]float64, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  E: grab or drop\r\n")
	fmt.Fprint(c.out, "  Q: throw\r\n")
	fmt.Fprint(c.out, "  C: toggle crouch\r\n")
	fmt.Fprint(c.out, "  Arrows: look +/-5\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :look <pitch> <yaw>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	crouch := c.crouch
	c.mu.Unlock()

	st := c.target.Status()
	snap := c.state.Snapshot()
	line := fmt.Sprintf(
		"[MOVE:%+.0f,%+.0f CRH:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t water:%t grab:%s]",
		snap.Move.X(), snap.Move.Y(),
		boolLabel(crouch),
		st.Yaw, st.Pitch,
		st.Origin.X(), st.Origin.Y(), st.Origin.Z(),
		st.Grounded, st.SubmergedBody, st.Grab,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// pulse holds a direction for movePulse and cancels its opposite.
func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = c.now().Add(c.movePulse)
	*opposite = time.Time{}
}

func (c *Console) movementLocked(now time.Time) (x, y float64) {
	active := func(until *time.Time) bool {
		if until.IsZero() {
			return false
		}
		if !now.Before(*until) {
			*until = time.Time{}
			return false
		}
		return true
	}
	if active(&c.forwardUntil) {
		y = 1
	}
	if active(&c.backwardUntil) {
		y = -1
	}
	if active(&c.rightUntil) {
		x = 1
	}
	if active(&c.leftUntil) {
		x = -1
	}
	return x, y
}

func (c *Console) queueLook(dPitch, dYaw float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.look[0] += dPitch
	c.look[1] += dYaw
}

func (c *Console) toggleCrouch() {
	c.mu.Lock()
	c.crouch = !c.crouch
	enabled := c.crouch
	c.mu.Unlock()
	slog.Debug("debug crouch toggled", "component", "debug", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.crouch = false
	c.look = [2]float64{}
	c.mu.Unlock()
	c.state.Clear()
}
