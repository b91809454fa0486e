package engine

import (
	"sort"

	"github.com/Versifine/surf/internal/physics"
)

type watcher struct {
	listener physics.TriggerListener
	inside   map[Volume]struct{}
}

var _ physics.TriggerSource = (*Engine)(nil)

// WatchTriggers replaces any listener already registered for id. Overlaps
// are evaluated on the next Sync.
func (e *Engine) WatchTriggers(id physics.ColliderID, l physics.TriggerListener) (cancel func()) {
	w := &watcher{listener: l, inside: make(map[Volume]struct{})}
	e.watchers[id] = w
	return func() {
		if e.watchers[id] == w {
			delete(e.watchers, id)
		}
	}
}

type volumeInfo struct {
	handle Volume
	box    physics.AABB
}

// Sync dispatches trigger enter and exit events for every watched collider.
// Volumes destroyed since the last Sync are forgotten without an exit.
func (e *Engine) Sync() {
	var volumes []volumeInfo
	query := e.volumeFilter.Query()
	for query.Next() {
		t, s, _ := query.Get()
		volumes = append(volumes, volumeInfo{
			handle: Volume{eng: e, entity: query.Entity()},
			box:    s.Bounds(t.Position),
		})
	}

	ids := make([]physics.ColliderID, 0, len(e.watchers))
	for id := range e.watchers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		w := e.watchers[id]
		body, ok := e.Body(id)
		if !ok {
			delete(e.watchers, id)
			continue
		}
		e.syncWatcher(w, body.Bounds(), volumes)
	}
}

func (e *Engine) syncWatcher(w *watcher, box physics.AABB, volumes []volumeInfo) {
	var entered, exited []Volume
	now := make(map[Volume]struct{}, len(w.inside))
	for _, v := range volumes {
		if !box.Intersects(v.box) {
			continue
		}
		now[v.handle] = struct{}{}
		if _, was := w.inside[v.handle]; !was {
			entered = append(entered, v.handle)
		}
	}
	for _, v := range volumes {
		if _, was := w.inside[v.handle]; was {
			if _, still := now[v.handle]; !still {
				exited = append(exited, v.handle)
			}
		}
	}
	w.inside = now

	for _, v := range exited {
		w.listener.OnTriggerExit(v)
	}
	for _, v := range entered {
		w.listener.OnTriggerEnter(v)
	}
}
