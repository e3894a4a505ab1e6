package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Forward is the local look axis of cameras and actors.
	Forward = mgl64.Vec3{0, 0, -1}
	// Up is the world up axis.
	Up = mgl64.Vec3{0, 1, 0}
)

// LookRotation returns the orientation whose Forward axis points along dir.
// ok is false for zero or non-finite directions.
func LookRotation(dir mgl64.Vec3) (q mgl64.Quat, ok bool) {
	l := dir.Len()
	if l < 1e-9 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.QuatIdent(), false
	}
	f := dir.Mul(1 / l)

	up := Up
	if math.Abs(f.Dot(up)) > 0.999 {
		up = mgl64.Vec3{0, 0, 1}
	}
	r := f.Cross(up).Normalize()
	u := r.Cross(f)

	m := mgl64.Mat3FromCols(r, u, f.Mul(-1))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), true
}

// LookAtRotation is LookRotation from eye toward target.
func LookAtRotation(eye, target mgl64.Vec3) (mgl64.Quat, bool) {
	return LookRotation(target.Sub(eye))
}

// Slerp interpolates along the shorter arc.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, Clamp01(t))
}

// Yaw returns the heading of dir around the up axis; (0,0,1) is zero.
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// YawDirection is the inverse of Yaw on the horizontal plane.
func YawDirection(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}
