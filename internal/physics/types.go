package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

type Quat = mgl64.Quat

var Up = Vec3{0, 1, 0}

func Identity() Quat {
	return mgl64.QuatIdent()
}

// Horizontal drops the vertical component.
func Horizontal(v Vec3) Vec3 {
	return Vec3{v.X(), 0, v.Z()}
}

// DirectionFromAngles converts pitch/yaw degrees into a unit look vector.
// Yaw 0 looks down +Z, positive pitch looks down.
func DirectionFromAngles(pitch, yaw float64) Vec3 {
	yawRad := mgl64.DegToRad(yaw)
	pitchRad := mgl64.DegToRad(pitch)
	return Vec3{
		-math.Sin(yawRad) * math.Cos(pitchRad),
		-math.Sin(pitchRad),
		math.Cos(yawRad) * math.Cos(pitchRad),
	}
}

// RightFromYaw is the horizontal strafe-right vector for a yaw in degrees.
func RightFromYaw(yaw float64) Vec3 {
	yawRad := mgl64.DegToRad(yaw)
	return Vec3{-math.Cos(yawRad), 0, -math.Sin(yawRad)}
}

func NearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}

func NearlyEqualVec(a, b Vec3) bool {
	return NearlyEqual(a.X(), b.X()) && NearlyEqual(a.Y(), b.Y()) && NearlyEqual(a.Z(), b.Z())
}
