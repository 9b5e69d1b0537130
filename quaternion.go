package heliscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// slerpLinearThreshold is the cosine above which two quaternions are treated as close enough to normalized-lerp between.
const slerpLinearThreshold = 0.9995

// EulerToQuaternion returns the quaternion for an XYZ Euler rotation in radians. The X rotation is applied first,
// then Y, then Z (so the resulting quaternion is Rz * Ry * Rx).
func EulerToQuaternion(euler mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(euler.Z(), euler.Y(), euler.X(), mgl64.ZYX)
}

// gimbalLockThreshold is how close the sine of the Y rotation has to be to +/- 1 for QuaternionToEuler to treat the rotation
// as gimbal-locked.
const gimbalLockThreshold = 1 - 1e-12

// QuaternionToEuler converts a unit quaternion to XYZ Euler angles in radians; it's the inverse of EulerToQuaternion.
// At gimbal lock (a Y rotation of +/- 90 degrees) the X and Z rotations act around the same axis, so the combined angle is
// returned as the X rotation with a Z rotation of 0; the angles differ from the ones the quaternion was built from, but
// describe the same rotation. The quaternion must be normalized and non-zero; degenerate input propagates NaN.
func QuaternionToEuler(quat mgl64.Quat) mgl64.Vec3 {

	w, x, y, z := quat.W, quat.V.X(), quat.V.Y(), quat.V.Z()

	sinYaw := mgl64.Clamp(2*(w*y-x*z), -1, 1)

	// Rz(0) * Ry(+/-90) * Rx(a) has no Z component, so x / w = tan(a / 2) for either sign of Y.
	if math.Abs(sinYaw) > gimbalLockThreshold {
		return mgl64.Vec3{2 * math.Atan2(x, w), math.Copysign(math.Pi/2, sinYaw), 0}
	}

	pitch := math.Atan2(2*(y*z+w*x), w*w-x*x-y*y+z*z)
	yaw := math.Asin(sinYaw)
	roll := math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)

	return mgl64.Vec3{pitch, yaw, roll}

}

// Vec4ToQuaternion reinterprets a 4-component value stored as x, y, z, w as a quaternion.
func Vec4ToQuaternion(value mgl64.Vec4) mgl64.Quat {
	return mgl64.Quat{W: value.W(), V: mgl64.Vec3{value.X(), value.Y(), value.Z()}}
}

// QuaternionToVec4 packs a quaternion into a 4-component value ordered x, y, z, w.
func QuaternionToVec4(quat mgl64.Quat) mgl64.Vec4 {
	return mgl64.Vec4{quat.V.X(), quat.V.Y(), quat.V.Z(), quat.W}
}

// Slerp spherically interpolates from one unit quaternion to another by percent, following the shortest arc. The result is
// normalized.
func Slerp(from, to mgl64.Quat, percent float64) mgl64.Quat {

	cosTheta := from.Dot(to)

	// q and -q are the same rotation; flip to take the short way around
	if cosTheta < 0 {
		to = to.Scale(-1)
		cosTheta = -cosTheta
	}

	if cosTheta > slerpLinearThreshold {
		return mgl64.QuatNlerp(from, to, percent)
	}

	theta := math.Acos(mgl64.Clamp(cosTheta, -1, 1))
	sinTheta := math.Sin(theta)

	ratioA := math.Sin((1-percent)*theta) / sinTheta
	ratioB := math.Sin(percent*theta) / sinTheta

	return from.Scale(ratioA).Add(to.Scale(ratioB)).Normalize()

}

// Smoothstep eases a normalized fraction with the cubic (3 - 2u) * u^2, which has zero slope at both u = 0 and u = 1.
func Smoothstep(u float64) float64 {
	return (3 - 2*u) * u * u
}
