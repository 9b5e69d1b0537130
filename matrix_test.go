package heliscene

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func approxEqual(expected, actual []float64) bool {
	for i := range expected {
		if math.Abs(expected[i]-actual[i]) > 1e-6 {
			return false
		}
	}
	return true
}

func assertMatrixEqual(t *testing.T, expected, actual mgl64.Mat4, msgAndArgs ...any) {
	t.Helper()
	if !approxEqual(expected[:], actual[:]) {
		assert.Fail(t, fmt.Sprintf("matrices differ:\nexpected\n%v\ngot\n%v", expected, actual), msgAndArgs...)
	}
}

func assertVec3Equal(t *testing.T, expected, actual mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	if !approxEqual(expected[:], actual[:]) {
		assert.Fail(t, fmt.Sprintf("vectors differ: expected %v, got %v", expected, actual), msgAndArgs...)
	}
}

func assertQuatEqual(t *testing.T, expected, actual mgl64.Quat, msgAndArgs ...any) {
	t.Helper()
	if !approxEqual([]float64{expected.W, expected.V[0], expected.V[1], expected.V[2]}, []float64{actual.W, actual.V[0], actual.V[1], actual.V[2]}) {
		assert.Fail(t, fmt.Sprintf("quaternions differ: expected %v, got %v", expected, actual), msgAndArgs...)
	}
}

func BenchmarkMatrixInversion(b *testing.B) {

	b.ReportAllocs()

	mat := mgl64.HomogRotate3D(0.24, mgl64.Vec3{0, 1, 0.2}.Normalize()).Mul4(mgl64.Translate3D(1, 4, -12))

	for i := 0; i < b.N; i++ {
		mat.Inv()
	}

}

func TestMatrixInversion(t *testing.T) {

	matrices := []mgl64.Mat4{
		mgl64.HomogRotate3D(0.1, mgl64.Vec3{0, 1, 0}),
		mgl64.Translate3D(-10, 0.1, 3232.1976),
		mgl64.Scale3D(10, 0.1, -0.45),
		NewMatrix4Compose(mgl64.Vec3{-1, -1, -1}, EulerToQuaternion(mgl64.Vec3{0.334, 0, 0.1}), mgl64.Vec3{10, 1, 0.5}),
	}

	for i, mat := range matrices {
		assertMatrixEqual(t, mgl64.Ident4(), mat.Mul4(mat.Inv()), "matrix #%d * its inverse should be identity", i)
	}

}

func TestMatrixComposeOrder(t *testing.T) {

	position := mgl64.Vec3{1, 2, 3}
	rotation := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	scale := mgl64.Vec3{2, 2, 2}

	mat := NewMatrix4Compose(position, rotation, scale)

	// Scale first, then rotate, then translate: +X scaled to 2, rotated 90 degrees about +Y to -Z, moved by the position
	assertVec3Equal(t, mgl64.Vec3{1, 2, 1}, mat.Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3())
	assertVec3Equal(t, position, MatrixTranslation(mat))

}

func TestNormalMatrix(t *testing.T) {

	// A plane tilted 45 degrees, squashed along Y. Its normal must stay perpendicular to the plane after transformation.
	world := mgl64.Translate3D(5, -3, 2).Mul4(mgl64.Scale3D(1, 0.25, 1))
	normal := NewNormalMatrix(world)

	tangent := world.Mul4x1(mgl64.Vec4{1, 1, 0, 0}).Vec3()
	n := normal.Mul4x1(mgl64.Vec4{-1, 1, 0, 0}).Vec3()

	assert.InDelta(t, 0, tangent.Dot(n), epsilon, "transformed normal should be perpendicular to the transformed surface")

	// Translation never reaches directions
	assert.Equal(t, mgl64.Vec4{0, 0, 0, 1}, normal.Col(3))
	assert.Equal(t, mgl64.Vec4{0, 0, 0, 1}, normal.Row(3))

}

func TestProjectionPerspective(t *testing.T) {

	square := NewProjectionPerspective(90, 0.1, 100, 100, 100)
	wide := NewProjectionPerspective(90, 0.1, 100, 200, 100)

	assert.InDelta(t, 1, square.At(0, 0), epsilon)
	assert.InDelta(t, 1, square.At(1, 1), epsilon)
	assert.InDelta(t, 0.5, wide.At(0, 0), epsilon)

	// A zero height viewport falls back to a square aspect ratio rather than dividing by zero
	assertMatrixEqual(t, square, NewProjectionPerspective(90, 0.1, 100, 100, 0))

}

func TestLookAtPose(t *testing.T) {

	eye := mgl64.Vec3{0, 0, 10}
	pose := NewLookAtPose(eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})

	assertVec3Equal(t, eye, MatrixTranslation(pose))
	// Cameras look down their local -Z
	assertVec3Equal(t, mgl64.Vec3{0, 0, -1}, pose.Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3())
	assertMatrixEqual(t, mgl64.LookAtV(eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}), pose.Inv())

	// Looking straight down with +Y as up is degenerate, but still produces a valid pose
	down := NewLookAtPose(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	assertVec3Equal(t, mgl64.Vec3{0, -1, 0}, down.Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3())

	// Looking at your own position keeps the identity rotation
	assertMatrixEqual(t, mgl64.Translate3D(1, 2, 3), NewLookAtPose(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0}))

}

func TestMatrixToFloat32s(t *testing.T) {

	mat := mgl64.Translate3D(1, 2, 3)
	floats := MatrixToFloat32s(mat)

	// Column-major: the translation is in the last column
	assert.Equal(t, [4]float32{1, 2, 3, 1}, [4]float32{floats[12], floats[13], floats[14], floats[15]})
	assert.Len(t, appendMatrix(nil, mat), 64)

}

func TestEulerQuaternionRoundTrip(t *testing.T) {

	rotations := []mgl64.Vec3{
		{0, 0, 0},
		{0.3, -0.4, 0.5},
		{math.Pi / 2, 0, 0},
		{0, 0, -math.Pi / 3},
		{-1.2, 1.1, 2.5},
	}

	for _, euler := range rotations {
		assertVec3Equal(t, euler, QuaternionToEuler(EulerToQuaternion(euler)), "round trip of %v", euler)
	}

}

func TestEulerQuaternionGimbalLock(t *testing.T) {

	rotations := []mgl64.Vec3{
		{0.3, math.Pi / 2, 0.2},
		{0.3, -math.Pi / 2, 0.2},
		{-1, math.Pi / 2, 2.5},
		{0, -math.Pi / 2, 0},
	}

	for _, euler := range rotations {

		quat := EulerToQuaternion(euler)
		converted := QuaternionToEuler(quat)

		assert.InDelta(t, euler.Y(), converted.Y(), 1e-9, "yaw of %v", euler)
		assert.InDelta(t, 0, converted.Z(), 1e-9, "locked roll of %v folds into pitch", euler)
		assertMatrixEqual(t, quat.Mat4(), EulerToQuaternion(converted).Mat4(), "rotation of %v", euler)

	}

}

func TestEulerQuaternionOrder(t *testing.T) {

	euler := mgl64.Vec3{0.2, 0.7, -0.4}

	expected := mgl64.HomogRotate3DZ(euler.Z()).Mul4(mgl64.HomogRotate3DY(euler.Y())).Mul4(mgl64.HomogRotate3DX(euler.X()))

	assertMatrixEqual(t, expected, EulerToQuaternion(euler).Mat4())

}

func TestSlerp(t *testing.T) {

	from := mgl64.QuatIdent()
	to := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})

	assertQuatEqual(t, from, Slerp(from, to, 0))
	assertQuatEqual(t, to, Slerp(from, to, 1))

	half := Slerp(from, to, 0.5)
	assertQuatEqual(t, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0}), half)

	// -to is the same rotation as to; the result should still take the short way around
	flipped := Slerp(from, to.Scale(-1), 0.5)
	assertQuatEqual(t, half, flipped)

	for i := 0; i <= 10; i++ {
		assert.InDelta(t, 1, Slerp(from, to, float64(i)/10).Len(), epsilon)
	}

	// Nearly identical rotations fall back to a normalized lerp
	near := mgl64.QuatRotate(0.001, mgl64.Vec3{1, 0, 0})
	assert.InDelta(t, 1, Slerp(from, near, 0.5).Len(), epsilon)

}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0))
	assert.Equal(t, 1.0, Smoothstep(1))
	assert.Equal(t, 0.5, Smoothstep(0.5))
	assert.InDelta(t, 0.15625, Smoothstep(0.25), epsilon)
	assert.InDelta(t, 1-Smoothstep(0.25), Smoothstep(0.75), epsilon)
}
