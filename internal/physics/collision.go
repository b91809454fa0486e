package physics

import "math"

type AABB struct {
	Min Vec3
	Max Vec3
}

// BoxAt builds an axis-aligned box of the given full size centred on center.
func BoxAt(center, size Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() < o.Max.X() &&
		b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() &&
		b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() &&
		b.Max.Z() > o.Min.Z()
}

// OverlapsXZ reports whether the footprints of both boxes overlap.
func (b AABB) OverlapsXZ(o AABB) bool {
	return b.Min.X() < o.Max.X() &&
		b.Max.X() > o.Min.X() &&
		b.Min.Z() < o.Max.Z() &&
		b.Max.Z() > o.Min.Z()
}

func (b AABB) Contains(p Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// RayDistance returns the distance along dir at which a ray starting at
// origin enters the box. A ray starting inside the box hits at distance 0.
// dir must be normalized for the distance to be in world units.
func (b AABB) RayDistance(origin, dir Vec3, maxDist float64) (float64, bool) {
	tMin := 0.0
	tMax := maxDist

	for axis := 0; axis < 3; axis++ {
		o := origin[axis]
		d := dir[axis]
		lo := b.Min[axis]
		hi := b.Max[axis]

		if NearlyZero(d) {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}
