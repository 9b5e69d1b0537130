package heliscene

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NewMatrix4 returns a new identity matrix. Matrices in heliscene are mgl64.Mat4 values, which are column-major and
// expect column vectors (so a point is transformed as matrix.Mul4x1(point)).
func NewMatrix4() mgl64.Mat4 {
	return mgl64.Ident4()
}

// NewMatrix4Compose returns a local transform matrix built from a position, a rotation quaternion, and a scale vector, applied
// in scale, rotation, translation order (T * R * S).
func NewMatrix4Compose(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	transform := mgl64.Translate3D(position.X(), position.Y(), position.Z())
	transform = transform.Mul4(rotation.Mat4())
	return transform.Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NewNormalMatrix returns the inverse-transpose of the provided world matrix with its translation column and projective row
// cleared, so that it only transforms direction vectors (normals) correctly under non-uniform scaling.
func NewNormalMatrix(world mgl64.Mat4) mgl64.Mat4 {
	normal := world.Inv().Transpose()
	return zeroTranslation(normal)
}

func zeroTranslation(matrix mgl64.Mat4) mgl64.Mat4 {
	matrix.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	matrix.SetRow(3, mgl64.Vec4{0, 0, 0, 1})
	return matrix
}

// NewProjectionPerspective generates a perspective frustum matrix. fovY is the vertical field of view in degrees, near and far
// are the clipping planes, and viewWidth and viewHeight are the size of the viewport the projection renders into.
func NewProjectionPerspective(fovY, near, far, viewWidth, viewHeight float64) mgl64.Mat4 {
	aspect := 1.0
	if viewHeight != 0 {
		aspect = viewWidth / viewHeight
	}
	return mgl64.Perspective(mgl64.DegToRad(fovY), aspect, near, far)
}

// NewLookAtPose returns the pose (object-to-world) matrix of an object at the eye position facing the target, which is the inverse
// of the view matrix mgl64.LookAtV returns. If eye and target are the same point, the identity rotation is kept.
func NewLookAtPose(eye, target, up mgl64.Vec3) mgl64.Mat4 {

	if eye.ApproxEqual(target) {
		return mgl64.Translate3D(eye.X(), eye.Y(), eye.Z())
	}

	forward := target.Sub(eye).Normalize()
	if up.Len() == 0 || math.Abs(forward.Dot(up.Normalize())) > 0.9999 {
		// The up vector can't be parallel to the view direction, so we sub in another axis
		if math.Abs(forward.Dot(mgl64.Vec3{1, 0, 0})) < 0.9999 {
			up = mgl64.Vec3{1, 0, 0}
		} else {
			up = mgl64.Vec3{0, 0, 1}
		}
	}

	return mgl64.LookAtV(eye, target, up).Inv()

}

// MatrixTranslation returns the translation column of the matrix given.
func MatrixTranslation(matrix mgl64.Mat4) mgl64.Vec3 {
	return matrix.Col(3).Vec3()
}

// MatrixRotation returns the rotation of a translate / rotate / scale matrix as a quaternion, with any scale divided out of
// its basis columns first.
func MatrixRotation(matrix mgl64.Mat4) mgl64.Quat {
	rotation := mgl64.Ident4()
	for col := 0; col < 3; col++ {
		rotation.SetCol(col, safeNormalize(matrix.Col(col).Vec3()).Vec4(0))
	}
	return mgl64.Mat4ToQuat(rotation).Normalize()
}

// MatrixToFloat32s returns the matrix as 16 float32 values in column-major order, which is the layout GPU uniform buffers expect.
func MatrixToFloat32s(matrix mgl64.Mat4) [16]float32 {
	out := [16]float32{}
	for i, v := range matrix {
		out[i] = float32(v)
	}
	return out
}

func appendMatrix(buf []byte, matrix mgl64.Mat4) []byte {
	for _, v := range MatrixToFloat32s(matrix) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func appendVec4(buf []byte, vec mgl64.Vec4) []byte {
	for _, v := range vec {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	}
	return buf
}
