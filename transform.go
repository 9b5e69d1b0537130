package heliscene

import "github.com/go-gl/mathgl/mgl64"

// Transform holds the cached matrices for a Node: its local matrix (relative to its parent), its world matrix (relative to the
// world origin), and its normal matrix (the inverse-transpose of the world matrix, for transforming direction vectors).
// A Transform is only valid while its owning Node isn't dirty; Node.Update() rebuilds it.
type Transform struct {
	local  mgl64.Mat4
	world  mgl64.Mat4
	normal mgl64.Mat4
}

// NewTransform returns a new Transform with all matrices set to identity.
func NewTransform() Transform {
	return Transform{
		local:  mgl64.Ident4(),
		world:  mgl64.Ident4(),
		normal: mgl64.Ident4(),
	}
}

// Update stores the local matrix given and recomposes the world and normal matrices. parentWorld is the parent's world matrix;
// pass nil for a root, in which case the world matrix equals the local matrix.
func (transform *Transform) Update(local mgl64.Mat4, parentWorld *mgl64.Mat4) {
	transform.local = local
	if parentWorld != nil {
		transform.world = parentWorld.Mul4(local)
	} else {
		transform.world = local
	}
	transform.normal = NewNormalMatrix(transform.world)
}

// Local returns the local matrix (relative to the parent).
func (transform *Transform) Local() mgl64.Mat4 {
	return transform.local
}

// World returns the world matrix, composed of all parents' local matrices.
func (transform *Transform) World() mgl64.Mat4 {
	return transform.world
}

// Normal returns the normal matrix: the inverse-transpose of the world matrix with translation zeroed.
func (transform *Transform) Normal() mgl64.Mat4 {
	return transform.normal
}
