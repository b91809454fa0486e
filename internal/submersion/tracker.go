// Package submersion derives body and camera submersion flags from trigger
// volume events.
package submersion

import (
	"log/slog"

	"github.com/Versifine/surf/internal/physics"
)

// Tracker keeps the set of trigger volumes overlapping a collider. The
// submerged flag is only recomputed when the set size changes.
type Tracker struct {
	volumes    map[physics.Volume]struct{}
	lastCount  int
	submerged  bool
	recomputes int
	cancel     func()
}

func NewTracker() *Tracker {
	return &Tracker{volumes: make(map[physics.Volume]struct{})}
}

func (t *Tracker) OnTriggerEnter(v physics.Volume) {
	if v == nil {
		return
	}
	t.volumes[v] = struct{}{}
}

func (t *Tracker) OnTriggerExit(v physics.Volume) {
	if v == nil {
		return
	}
	delete(t.volumes, v)
}

// Refresh recomputes the submerged flag if volumes entered or left since the
// last call, or if a tracked volume was destroyed without an exit event.
// Destroyed volumes are pruned on the way. It reports whether a recompute
// happened.
func (t *Tracker) Refresh() bool {
	if len(t.volumes) == t.lastCount && !t.hasDead() {
		return false
	}

	submerged := false
	for v := range t.volumes {
		if !v.Alive() {
			delete(t.volumes, v)
			continue
		}
		if v.IsLiquid() {
			submerged = true
		}
	}

	if submerged != t.submerged {
		slog.Debug("Body submersion changed", "submerged", submerged, "volumes", len(t.volumes))
	}
	t.submerged = submerged
	t.lastCount = len(t.volumes)
	t.recomputes++
	return true
}

func (t *Tracker) hasDead() bool {
	for v := range t.volumes {
		if !v.Alive() {
			return true
		}
	}
	return false
}

func (t *Tracker) Submerged() bool {
	return t.submerged
}

func (t *Tracker) Len() int {
	return len(t.volumes)
}

// Recomputes counts how many times Refresh rebuilt the flag.
func (t *Tracker) Recomputes() int {
	return t.recomputes
}

// Reset drops every tracked volume and clears the flag.
func (t *Tracker) Reset() {
	clear(t.volumes)
	t.lastCount = 0
	t.submerged = false
}

// Watch registers the tracker for trigger events of collider id. A previous
// registration is cancelled first.
func (t *Tracker) Watch(src physics.TriggerSource, id physics.ColliderID) {
	t.Unwatch()
	if src == nil {
		return
	}
	t.cancel = src.WatchTriggers(id, t)
}

func (t *Tracker) Unwatch() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
