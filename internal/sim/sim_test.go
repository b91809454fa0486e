package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/grab"
	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/physics"
	"github.com/Versifine/surf/internal/trace"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s mismatch: got=%.6f want=%.6f tol=%.6f", field, got, want, tol)
	}
}

func newRunner(t *testing.T, driver input.Driver, rec *trace.Recorder) *Runner {
	t.Helper()
	r, err := NewRunner(config.Default(), driver, rec)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func stepN(t *testing.T, r *Runner, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := r.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
}

func TestStandingStill(t *testing.T) {
	r := newRunner(t, nil, nil)
	spawn := r.Scene().Spawn

	stepN(t, r, 50)

	f := r.LastFrame()
	if !physics.NearlyEqualVec(f.Origin, spawn) {
		t.Fatalf("origin drifted to %v from %v", f.Origin, spawn)
	}
	if !f.Grounded {
		t.Fatal("player should be grounded on the floor")
	}
	if r.Scene().Player.Position() != f.Origin {
		t.Fatalf("body %v != origin %v", r.Scene().Player.Position(), f.Origin)
	}
}

func TestWalkForwardFollowsYaw(t *testing.T) {
	script, err := input.ParseScript([]byte("steps:\n  - at: 0\n    until: 50\n    move: [0, 1]\n"))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	r := newRunner(t, script, nil)
	r.Camera().SetAngles(0, 90)

	stepN(t, r, 50)

	f := r.LastFrame()
	if f.Origin.X() > -2 {
		t.Fatalf("origin.x = %.3f, yaw 90 should walk toward -X", f.Origin.X())
	}
	approxEqual(t, f.Origin.Z(), 0, 1e-6, "origin z")
	approxEqual(t, f.Origin.Y(), 1, 1e-6, "origin y")

	facing := r.Avatar().Facing()
	if !facing.ApproxEqualThreshold(physics.Vec3{-1, 0, 0}, 1e-9) {
		t.Fatalf("avatar facing %v, want -X", facing)
	}
}

func TestPlatformCarriesPlayer(t *testing.T) {
	r := newRunner(t, nil, nil)
	platform := r.Scene().Platform
	r.Teleport(physics.Vec3{8, 1.5, 0})

	stepN(t, r, 2)
	startPlayer := r.LastFrame().Origin.X()
	startPlatform := platform.Position().X()

	stepN(t, r, 20)

	f := r.LastFrame()
	if f.Displacement.X() <= 0 {
		t.Fatalf("displacement = %v, want platform motion along +X", f.Displacement)
	}
	approxEqual(t, f.Origin.X()-startPlayer, platform.Position().X()-startPlatform, 1e-6, "carried distance")
	approxEqual(t, f.Origin.Y(), 1.5, 1e-6, "rider height")
}

func TestWaterSubmersion(t *testing.T) {
	r := newRunner(t, nil, nil)
	r.Teleport(physics.Vec3{0, 1, -8})

	stepN(t, r, 2)

	f := r.LastFrame()
	if !f.SubmergedBody {
		t.Fatal("body should be submerged in the pool")
	}
	if !f.SubmergedCamera {
		t.Fatal("camera should be submerged in the pool")
	}

	r.Teleport(r.Scene().Spawn)
	stepN(t, r, 2)
	f = r.LastFrame()
	if f.SubmergedBody || f.SubmergedCamera {
		t.Fatalf("still submerged after leaving the pool: body=%v camera=%v", f.SubmergedBody, f.SubmergedCamera)
	}
}

func TestDestroyedPoolIsForgotten(t *testing.T) {
	r := newRunner(t, nil, nil)
	r.Teleport(physics.Vec3{0, 1, -8})
	stepN(t, r, 2)

	if !r.LastFrame().SubmergedBody {
		t.Fatal("body should be submerged before the pool is destroyed")
	}

	r.Scene().Engine.DestroyVolume(r.Scene().Water)
	stepN(t, r, 2)

	f := r.LastFrame()
	if f.SubmergedCamera {
		t.Fatal("camera probe kept a destroyed volume")
	}
	if f.SubmergedBody {
		t.Fatal("body still submerged after its only liquid volume was destroyed")
	}
}

func TestGrabAndThrowCrate(t *testing.T) {
	state := input.NewState()
	r := newRunner(t, state, nil)
	r.Camera().SetAngles(24, 0)
	crate := r.Scene().Crates[1]

	state.Press(input.ActionGrab)
	stepN(t, r, 1)
	held, ok := r.Grabber().Held()
	if !ok || held != crate {
		t.Fatalf("grabbed %v (ok=%v), want middle crate", held, ok)
	}
	if crate.UseGravity() {
		t.Fatal("held crate should not use gravity")
	}

	stepN(t, r, 100)
	hold := HoldPoint{View: r.Camera(), Distance: config.Default().Grab.HoldDistance}.Position()
	if d := crate.Position().Sub(hold).Len(); d > 0.05 {
		t.Fatalf("crate %.3f from hold point", d)
	}

	state.Press(input.ActionThrow)
	stepN(t, r, 1)
	if r.Grabber().State() != grab.Idle {
		t.Fatal("throw should release the crate")
	}
	if crate.Velocity().Z() <= 0 || !crate.UseGravity() {
		t.Fatalf("thrown crate velocity %v gravity %v", crate.Velocity(), crate.UseGravity())
	}
}

func newSolidRunner(t *testing.T, driver input.Driver) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Character.SolidCollider = true
	r, err := NewRunner(cfg, driver, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestSolidColliderStillGrabs(t *testing.T) {
	state := input.NewState()
	r := newSolidRunner(t, state)
	r.Camera().SetAngles(24, 0)

	state.Press(input.ActionGrab)
	stepN(t, r, 1)

	held, ok := r.Grabber().Held()
	if !ok || held != r.Scene().Crates[1] {
		t.Fatalf("grabbed %v (ok=%v), want middle crate through the player's own collider", held, ok)
	}
}

func TestSolidColliderShovesCrate(t *testing.T) {
	r := newSolidRunner(t, nil)
	crate := r.Scene().Crates[1]
	r.Teleport(physics.Vec3{0, 1, 2.6})

	stepN(t, r, 2)

	if z := crate.Position().Z(); z < 3.2 {
		t.Fatalf("crate z = %.3f, want it shoved past 3.2", z)
	}
	if z := r.LastFrame().Origin.Z(); z >= 2.6 {
		t.Fatalf("origin z = %.3f, want the crate's push folded into the origin", z)
	}
}

func TestHeldCrateDestroyed(t *testing.T) {
	state := input.NewState()
	r := newRunner(t, state, nil)
	r.Camera().SetAngles(24, 0)

	state.Press(input.ActionGrab)
	stepN(t, r, 1)
	r.Scene().Engine.DestroyBody(r.Scene().Crates[1])
	stepN(t, r, 1)

	if r.Grabber().State() != grab.Idle {
		t.Fatal("grabber should drop a destroyed crate")
	}
}

func TestRunWritesTrace(t *testing.T) {
	var buf bytes.Buffer
	r := newRunner(t, nil, trace.NewRecorder(&buf))

	if err := r.Run(context.Background(), 10); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := trace.Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("rows = %d, want 10", len(rows))
	}
	if rows[9].Tick != 10 || rows[9].Grab != "idle" {
		t.Fatalf("last row = %+v", rows[9])
	}
	if r.Tick() != 10 {
		t.Fatalf("runner tick = %d, want 10", r.Tick())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRunner(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if r.Tick() != 0 {
		t.Fatalf("ticks = %d after cancelled run", r.Tick())
	}
}

func TestStatusAndLook(t *testing.T) {
	r := newRunner(t, nil, nil)
	r.Look(10, -30)

	st := r.Status()
	approxEqual(t, st.Pitch, 10, 1e-9, "pitch")
	approxEqual(t, st.Yaw, 330, 1e-9, "yaw")
	if st.Grab != "idle" {
		t.Fatalf("grab = %q, want idle", st.Grab)
	}
}

func TestCameraClampsPitch(t *testing.T) {
	c := &Camera{}
	c.SetAngles(120, 725)
	a := c.Angles()
	approxEqual(t, a.X(), 89, 0, "pitch")
	approxEqual(t, a.Y(), 5, 1e-9, "yaw")
}

func TestPlatformReverses(t *testing.T) {
	s := BuildScene(config.Default())
	s.Platform.SetPosition(physics.Vec3{platformMaxX, 0.25, 0})

	s.Update()
	if s.Platform.Velocity().X() >= 0 {
		t.Fatal("platform should turn around at the far end")
	}

	s.Platform.SetPosition(physics.Vec3{platformMinX, 0.25, 0})
	s.Update()
	if s.Platform.Velocity().X() <= 0 {
		t.Fatal("platform should turn around at the near end")
	}
}
