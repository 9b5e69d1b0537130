package heliscene

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"
)

// OrientationMode indicates how a Camera's local rotation is determined.
type OrientationMode int

const (
	// OrientationEuler orients the Camera from its XYZ Euler rotation, like any other Node.
	OrientationEuler OrientationMode = iota
	// OrientationLookAt orients the Camera from a look-at matrix; position and rotation setters are ignored in this mode.
	OrientationLookAt
)

// Camera represents a camera (where you look from) in heliscene. A Camera is a Node that additionally owns a perspective
// projection, which is cached and only rebuilt when the field of view, clipping planes, or viewport change. The Camera's
// world matrix is its pose (camera-to-world); the view matrix is its inverse.
type Camera struct {
	*Node

	near, far   float64 // The near and far clipping plane. Near defaults to 0.1, Far to 100.
	fieldOfView float64 // Vertical field of view in degrees
	viewport    image.Rectangle

	orientation OrientationMode
	lookAtPose  mgl64.Mat4 // Local pose used in OrientationLookAt mode

	updateProjectionMatrix bool
	cachedProjectionMatrix mgl64.Mat4
	projectionRebuilds     int
}

// NewCamera creates a new, unattached Camera with the given name and viewport size.
func NewCamera(name string, w, h int) *Camera {

	camera := &Camera{
		Node:                   NewNode(name),
		near:                   0.1,
		far:                    100,
		fieldOfView:            60,
		viewport:               image.Rect(0, 0, w, h),
		lookAtPose:             mgl64.Ident4(),
		updateProjectionMatrix: true,
	}

	camera.Node.setSelf(camera)

	return camera

}

// Type returns the NodeType for this object.
func (camera *Camera) Type() NodeType {
	return NodeTypeCamera
}

// Update rebuilds the Camera's Transform if necessary (as Node.Update() does), and also rebuilds its projection matrix if the
// projection settings changed.
func (camera *Camera) Update(forceChildren bool) bool {
	updated := camera.Node.Update(forceChildren)
	camera.Projection()
	return updated
}

// Projection returns the Camera's projection matrix. The matrix is cached; it's only rebuilt after the field of view, near or
// far plane, or viewport have changed.
func (camera *Camera) Projection() mgl64.Mat4 {

	if !camera.updateProjectionMatrix {
		return camera.cachedProjectionMatrix
	}

	camera.updateProjectionMatrix = false
	camera.projectionRebuilds++

	camera.cachedProjectionMatrix = NewProjectionPerspective(camera.fieldOfView, camera.near, camera.far, float64(camera.viewport.Dx()), float64(camera.viewport.Dy()))

	return camera.cachedProjectionMatrix

}

// ViewMatrix returns the Camera's view matrix, which is the inverse of its cached world matrix.
func (camera *Camera) ViewMatrix() mgl64.Mat4 {
	return camera.Transform().World().Inv()
}

// ViewProjection returns the combined projection * view matrix. It's calculated on every call rather than cached, as the
// projection and the transform are invalidated independently of one another.
func (camera *Camera) ViewProjection() mgl64.Mat4 {
	return camera.Projection().Mul4(camera.ViewMatrix())
}

// AspectRatio returns the aspect ratio (width / height) of the Camera's viewport.
func (camera *Camera) AspectRatio() float64 {
	if camera.viewport.Dy() == 0 {
		return 1
	}
	return float64(camera.viewport.Dx()) / float64(camera.viewport.Dy())
}

// Viewport returns the rectangle the Camera renders into.
func (camera *Camera) Viewport() image.Rectangle {
	return camera.viewport
}

// SetViewport sets the rectangle the Camera renders into.
func (camera *Camera) SetViewport(viewport image.Rectangle) {
	if camera.viewport == viewport {
		return
	}
	camera.viewport = viewport
	camera.updateProjectionMatrix = true
}

// Resize sets the Camera's viewport to the given size, keeping its origin.
func (camera *Camera) Resize(w, h int) {
	camera.SetViewport(image.Rect(camera.viewport.Min.X, camera.viewport.Min.Y, camera.viewport.Min.X+w, camera.viewport.Min.Y+h))
}

// SetFieldOfView sets the vertical field of the view of the camera in degrees.
func (camera *Camera) SetFieldOfView(fovY float64) {
	if camera.fieldOfView == fovY {
		return
	}
	camera.fieldOfView = fovY
	camera.updateProjectionMatrix = true
}

// FieldOfView returns the vertical field of view in degrees.
func (camera *Camera) FieldOfView() float64 {
	return camera.fieldOfView
}

// Near returns the near plane of a camera.
func (camera *Camera) Near() float64 {
	return camera.near
}

// SetNear sets the near plane of a camera.
func (camera *Camera) SetNear(near float64) {
	if camera.near == near {
		return
	}
	camera.near = near
	camera.updateProjectionMatrix = true
}

// Far returns the far plane of a camera.
func (camera *Camera) Far() float64 {
	return camera.far
}

// SetFar sets the far plane of the camera.
func (camera *Camera) SetFar(far float64) {
	if camera.far == far {
		return
	}
	camera.far = far
	camera.updateProjectionMatrix = true
}

// OrientationMode returns how the Camera is currently oriented.
func (camera *Camera) OrientationMode() OrientationMode {
	return camera.orientation
}

// SetOrientationMode switches the Camera between Euler and LookAt orientation. Switching to OrientationLookAt without calling
// LookAt() or SetLookAtMatrix() freezes the Camera at its current local pose; switching back to OrientationEuler keeps the
// look-at position and orientation as the Camera's position and Euler rotation.
func (camera *Camera) SetOrientationMode(mode OrientationMode) {

	if camera.orientation == mode {
		return
	}

	if mode == OrientationLookAt {
		camera.enterLookAt(NewMatrix4Compose(camera.position, EulerToQuaternion(camera.rotation), camera.scale))
		return
	}

	// Keep the look-at orientation so the Camera doesn't snap back to its old Euler rotation
	camera.rotation = QuaternionToEuler(MatrixRotation(camera.lookAtPose))
	camera.orientation = OrientationEuler
	camera.Node.localOverride = nil
	camera.dirtyTransform()

}

// LookAt points the Camera from its current local position towards the target (in the parent's space), using up as the up
// direction, and switches the Camera to OrientationLookAt.
func (camera *Camera) LookAt(target, up mgl64.Vec3) {
	camera.enterLookAt(NewLookAtPose(camera.position, target, up))
}

// SetLookAtMatrix orients the Camera using the view matrix given (as returned by mgl64.LookAtV) and switches the Camera to
// OrientationLookAt. The Camera's position is taken from the translation of the view matrix's inverse.
func (camera *Camera) SetLookAtMatrix(view mgl64.Mat4) {
	camera.enterLookAt(view.Inv())
}

func (camera *Camera) enterLookAt(pose mgl64.Mat4) {
	camera.orientation = OrientationLookAt
	camera.lookAtPose = pose
	camera.position = MatrixTranslation(pose)
	camera.Node.localOverride = camera.lookAtLocal
	camera.dirtyTransform()
}

func (camera *Camera) lookAtLocal() mgl64.Mat4 {
	return camera.lookAtPose
}

func (camera *Camera) lookAtLocked(setter string) bool {
	if camera.orientation == OrientationLookAt {
		Logger().Debug("camera setter ignored in look-at mode", "camera", camera.name, "setter", setter)
		return true
	}
	return false
}

// SetPosition sets the Camera's local position. It's ignored while the Camera is in OrientationLookAt mode.
func (camera *Camera) SetPosition(x, y, z float64) {
	if !camera.lookAtLocked("SetPosition") {
		camera.Node.SetPosition(x, y, z)
	}
}

// SetPositionVec sets the Camera's local position. It's ignored while the Camera is in OrientationLookAt mode.
func (camera *Camera) SetPositionVec(position mgl64.Vec3) {
	camera.SetPosition(position.X(), position.Y(), position.Z())
}

// SetRotation sets the Camera's local Euler rotation. It's ignored while the Camera is in OrientationLookAt mode.
func (camera *Camera) SetRotation(x, y, z float64) {
	if !camera.lookAtLocked("SetRotation") {
		camera.Node.SetRotation(x, y, z)
	}
}

// SetRotationVec sets the Camera's local Euler rotation. It's ignored while the Camera is in OrientationLookAt mode.
func (camera *Camera) SetRotationVec(rotation mgl64.Vec3) {
	camera.SetRotation(rotation.X(), rotation.Y(), rotation.Z())
}

// SetRotationQuat sets the Camera's local rotation from a unit quaternion. It's ignored while the Camera is in OrientationLookAt mode.
func (camera *Camera) SetRotationQuat(quat mgl64.Quat) {
	camera.SetRotationVec(QuaternionToEuler(quat))
}

// WorldToClip transforms a world-space point into homogeneous clip space.
func (camera *Camera) WorldToClip(point mgl64.Vec3) mgl64.Vec4 {
	return camera.ViewProjection().Mul4x1(point.Vec4(1))
}

// WorldToScreen transforms a world-space point into viewport pixel coordinates (with +Y going down). The boolean return is false
// if the point is behind the Camera, in which case the pixel coordinates are meaningless.
func (camera *Camera) WorldToScreen(point mgl64.Vec3) (mgl64.Vec2, bool) {
	return clipToScreen(camera.WorldToClip(point), camera.viewport)
}

func clipToScreen(clip mgl64.Vec4, viewport image.Rectangle) (mgl64.Vec2, bool) {

	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}

	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()

	return mgl64.Vec2{
		float64(viewport.Min.X) + (ndcX+1)/2*float64(viewport.Dx()),
		float64(viewport.Min.Y) + (1-ndcY)/2*float64(viewport.Dy()),
	}, true

}
