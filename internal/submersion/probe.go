package submersion

import (
	"github.com/Versifine/surf/internal/physics"
)

const DefaultProbeRadius = 0.1

// Mover positions the probe's collider in the host engine.
type Mover interface {
	ID() physics.ColliderID
	SetPosition(pos physics.Vec3)
}

// CameraProbe is a small always-on trigger that follows the view so camera
// submersion can differ from body submersion while partially surfaced.
type CameraProbe struct {
	collider Mover
	volumes  map[physics.Volume]struct{}
	cancel   func()
}

func NewCameraProbe(collider Mover) *CameraProbe {
	return &CameraProbe{
		collider: collider,
		volumes:  make(map[physics.Volume]struct{}),
	}
}

func (p *CameraProbe) OnTriggerEnter(v physics.Volume) {
	if v == nil {
		return
	}
	p.volumes[v] = struct{}{}
}

func (p *CameraProbe) OnTriggerExit(v physics.Volume) {
	if v == nil {
		return
	}
	delete(p.volumes, v)
}

// Submerged reports whether the probe overlaps any live liquid volume. It is
// evaluated on every call.
func (p *CameraProbe) Submerged() bool {
	if p == nil {
		return false
	}
	submerged := false
	for v := range p.volumes {
		if !v.Alive() {
			delete(p.volumes, v)
			continue
		}
		if v.IsLiquid() {
			submerged = true
		}
	}
	return submerged
}

func (p *CameraProbe) MoveTo(pos physics.Vec3) {
	if p == nil || p.collider == nil {
		return
	}
	p.collider.SetPosition(pos)
}

func (p *CameraProbe) Start(src physics.TriggerSource) {
	p.Stop()
	if src == nil || p.collider == nil {
		return
	}
	p.cancel = src.WatchTriggers(p.collider.ID(), p)
}

func (p *CameraProbe) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	clear(p.volumes)
}
