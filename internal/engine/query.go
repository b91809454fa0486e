package engine

import (
	"github.com/Versifine/surf/internal/physics"
)

var _ physics.Raycaster = (*Engine)(nil)

// Raycast returns the nearest solid collider on a layer in mask along dir.
// Colliders containing origin are skipped. Hits on static colliders carry a
// nil Body.
func (e *Engine) Raycast(origin, dir physics.Vec3, maxDist float64, mask physics.LayerMask) (physics.RayHit, bool) {
	if dir.Len() == 0 || maxDist <= 0 {
		return physics.RayHit{}, false
	}
	dir = dir.Normalize()

	var (
		best  bodyInfo
		dist  float64
		found bool
	)
	for _, b := range e.snapshot() {
		if !b.collider.Solid || !mask.Has(b.collider.Layer) || b.box.Contains(origin) {
			continue
		}
		d, ok := b.box.RayDistance(origin, dir, maxDist)
		if !ok {
			continue
		}
		if !found || d < dist {
			best, dist, found = b, d, true
		}
	}
	if !found {
		return physics.RayHit{}, false
	}

	hit := physics.RayHit{
		Point:    origin.Add(dir.Mul(dist)),
		Distance: dist,
	}
	if best.collider.Kind != KindStatic {
		hit.Body = Body{eng: e, entity: best.entity}
	}
	return hit, true
}

// GroundHeight returns the highest solid top whose footprint contains feet
// and which lies within [feet.Y-below, feet.Y+above].
func (e *Engine) GroundHeight(feet physics.Vec3, above, below float64) (float64, bool) {
	best, found := 0.0, false
	for _, b := range e.snapshot() {
		if !b.collider.Solid {
			continue
		}
		if feet.X() < b.box.Min.X() || feet.X() > b.box.Max.X() ||
			feet.Z() < b.box.Min.Z() || feet.Z() > b.box.Max.Z() {
			continue
		}
		top := b.box.Max.Y()
		if top < feet.Y()-below || top > feet.Y()+above {
			continue
		}
		if !found || top > best {
			best, found = top, true
		}
	}
	return best, found
}
