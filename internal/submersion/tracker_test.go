package submersion

import (
	"testing"

	"github.com/Versifine/surf/internal/physics"
)

type mockVolume struct {
	liquid bool
	dead   bool
}

func (v *mockVolume) Alive() bool    { return !v.dead }
func (v *mockVolume) IsLiquid() bool { return v.liquid }

type mockTriggerSource struct {
	listeners map[physics.ColliderID]physics.TriggerListener
	cancelled int
}

func newMockTriggerSource() *mockTriggerSource {
	return &mockTriggerSource{listeners: make(map[physics.ColliderID]physics.TriggerListener)}
}

func (m *mockTriggerSource) WatchTriggers(id physics.ColliderID, l physics.TriggerListener) func() {
	m.listeners[id] = l
	return func() {
		delete(m.listeners, id)
		m.cancelled++
	}
}

func TestTrackerEnterExitLiquid(t *testing.T) {
	tracker := NewTracker()
	water := &mockVolume{liquid: true}

	tracker.OnTriggerEnter(water)
	if tracker.Submerged() {
		t.Fatalf("submerged before Refresh, want false")
	}
	tracker.Refresh()
	if !tracker.Submerged() {
		t.Fatalf("submerged = false after entering water")
	}

	tracker.OnTriggerExit(water)
	tracker.Refresh()
	if tracker.Submerged() {
		t.Fatalf("submerged = true after leaving water")
	}
}

func TestTrackerRefreshIsIdempotent(t *testing.T) {
	tracker := NewTracker()
	tracker.OnTriggerEnter(&mockVolume{liquid: true})

	if !tracker.Refresh() {
		t.Fatalf("first Refresh did not recompute")
	}
	first := tracker.Submerged()
	if tracker.Refresh() {
		t.Fatalf("second Refresh recomputed without any trigger event")
	}
	if tracker.Submerged() != first {
		t.Fatalf("submerged changed between refreshes: %t -> %t", first, tracker.Submerged())
	}
	if tracker.Recomputes() != 1 {
		t.Fatalf("recomputes = %d, want 1", tracker.Recomputes())
	}
}

func TestTrackerIgnoresDuplicatesAndNonLiquid(t *testing.T) {
	tracker := NewTracker()
	zone := &mockVolume{}

	tracker.OnTriggerEnter(zone)
	tracker.OnTriggerEnter(zone)
	tracker.Refresh()

	if tracker.Len() != 1 {
		t.Fatalf("len = %d, want 1", tracker.Len())
	}
	if tracker.Submerged() {
		t.Fatalf("non-liquid volume marked submerged")
	}
}

func TestTrackerPrunesDestroyedVolumes(t *testing.T) {
	tracker := NewTracker()
	water := &mockVolume{liquid: true}
	zone := &mockVolume{}

	tracker.OnTriggerEnter(water)
	tracker.Refresh()

	water.dead = true
	tracker.OnTriggerEnter(zone)
	tracker.Refresh()

	if tracker.Submerged() {
		t.Fatalf("destroyed water volume still counts as submerged")
	}
	if tracker.Len() != 1 {
		t.Fatalf("len = %d after prune, want 1", tracker.Len())
	}
	if tracker.Refresh() {
		t.Fatalf("Refresh after prune recomputed again")
	}
}

func TestTrackerDropsVolumeDestroyedWithoutExit(t *testing.T) {
	tracker := NewTracker()
	water := &mockVolume{liquid: true}

	tracker.OnTriggerEnter(water)
	tracker.Refresh()
	if !tracker.Submerged() {
		t.Fatalf("submerged = false after entering water")
	}

	water.dead = true
	if !tracker.Refresh() {
		t.Fatalf("Refresh did not recompute after the only volume was destroyed")
	}
	if tracker.Submerged() {
		t.Fatalf("destroyed water volume still counts as submerged")
	}
	if tracker.Len() != 0 {
		t.Fatalf("len = %d after prune, want 0", tracker.Len())
	}
	if tracker.Refresh() {
		t.Fatalf("Refresh after prune recomputed again")
	}
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	tracker.OnTriggerEnter(&mockVolume{liquid: true})
	tracker.Refresh()

	tracker.Reset()
	if tracker.Submerged() || tracker.Len() != 0 {
		t.Fatalf("Reset left submerged=%t len=%d", tracker.Submerged(), tracker.Len())
	}
}

func TestTrackerWatchAndUnwatch(t *testing.T) {
	src := newMockTriggerSource()
	tracker := NewTracker()

	tracker.Watch(src, 7)
	listener, ok := src.listeners[7]
	if !ok {
		t.Fatalf("tracker not registered for collider 7")
	}
	listener.OnTriggerEnter(&mockVolume{liquid: true})
	tracker.Refresh()
	if !tracker.Submerged() {
		t.Fatalf("event delivered through source was not tracked")
	}

	tracker.Unwatch()
	if _, ok := src.listeners[7]; ok {
		t.Fatalf("listener still registered after Unwatch")
	}
	tracker.Unwatch()
	if src.cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", src.cancelled)
	}
}
