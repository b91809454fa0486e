package physics

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func TestBoxAtCentersOnPoint(t *testing.T) {
	box := BoxAt(Vec3{1, 2, 3}, Vec3{1, 2, 1})

	approxEqual(t, box.Min.X(), 0.5, 1e-9, "min.x")
	approxEqual(t, box.Min.Y(), 1.0, 1e-9, "min.y")
	approxEqual(t, box.Max.Y(), 3.0, 1e-9, "max.y")
	if !NearlyEqualVec(box.Center(), Vec3{1, 2, 3}) {
		t.Fatalf("center = %v, want (1,2,3)", box.Center())
	}
}

func TestAABBIntersects(t *testing.T) {
	a := BoxAt(Vec3{0, 0, 0}, Vec3{1, 1, 1})

	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"overlapping", BoxAt(Vec3{0.5, 0, 0}, Vec3{1, 1, 1}), true},
		{"touching faces", BoxAt(Vec3{1, 0, 0}, Vec3{1, 1, 1}), false},
		{"separate", BoxAt(Vec3{3, 0, 0}, Vec3{1, 1, 1}), false},
		{"contained", BoxAt(Vec3{0, 0, 0}, Vec3{0.2, 0.2, 0.2}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Fatalf("Intersects = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestAABBContains(t *testing.T) {
	box := BoxAt(Vec3{0, 1, 0}, Vec3{1, 2, 1})

	tests := []struct {
		name string
		p    Vec3
		want bool
	}{
		{"centre", Vec3{0, 1, 0}, true},
		{"on a face", Vec3{0.5, 1, 0}, true},
		{"above", Vec3{0, 2.1, 0}, false},
		{"beside", Vec3{0, 1, -0.6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.p); got != tt.want {
				t.Fatalf("Contains(%v) = %t, want %t", tt.p, got, tt.want)
			}
		})
	}
}

func TestRayDistance(t *testing.T) {
	box := BoxAt(Vec3{0, 0, 5}, Vec3{1, 1, 1})

	tests := []struct {
		name     string
		origin   Vec3
		dir      Vec3
		maxDist  float64
		wantHit  bool
		wantDist float64
	}{
		{"straight hit", Vec3{0, 0, 0}, Vec3{0, 0, 1}, 10, true, 4.5},
		{"out of range", Vec3{0, 0, 0}, Vec3{0, 0, 1}, 4, false, 0},
		{"pointing away", Vec3{0, 0, 0}, Vec3{0, 0, -1}, 10, false, 0},
		{"parallel miss", Vec3{2, 0, 0}, Vec3{0, 0, 1}, 10, false, 0},
		{"inside", Vec3{0, 0, 5}, Vec3{1, 0, 0}, 10, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ok := box.RayDistance(tt.origin, tt.dir, tt.maxDist)
			if ok != tt.wantHit {
				t.Fatalf("hit = %t, want %t", ok, tt.wantHit)
			}
			if ok {
				approxEqual(t, dist, tt.wantDist, 1e-9, "distance")
			}
		})
	}
}

func TestDirectionFromAngles(t *testing.T) {
	fwd := DirectionFromAngles(0, 0)
	if !NearlyEqualVec(fwd, Vec3{0, 0, 1}) {
		t.Fatalf("forward(0,0) = %v, want +Z", fwd)
	}

	down := DirectionFromAngles(90, 0)
	approxEqual(t, down.Y(), -1, 1e-9, "down.y")

	right := RightFromYaw(0)
	approxEqual(t, right.Dot(fwd), 0, 1e-9, "right·forward")
	if !NearlyEqualVec(right, Vec3{-1, 0, 0}) {
		t.Fatalf("right(0) = %v, want -X", right)
	}
}

func TestLayerMask(t *testing.T) {
	mask := LayerBit(3) | LayerBit(5)
	if !mask.Has(3) || !mask.Has(5) {
		t.Fatalf("mask %b missing layers 3/5", mask)
	}
	if mask.Has(4) {
		t.Fatalf("mask %b should not contain layer 4", mask)
	}
	if !AllLayers.Has(31) {
		t.Fatalf("AllLayers should contain layer 31")
	}
	if LayerBit(40) != 0 {
		t.Fatalf("LayerBit(40) = %b, want 0", LayerBit(40))
	}
}
