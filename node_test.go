package heliscene

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHelicopterTree builds Body -> (MainRotor, TailBoom -> TailRotor) under a scene.
func newHelicopterTree() (*Scene, *Node, *Node, *Node, *Node) {
	scene := NewScene("test")
	body := scene.NewNode("Body")
	mainRotor := body.NewChild("MainRotor")
	tailBoom := body.NewChild("TailBoom")
	tailRotor := tailBoom.NewChild("TailRotor")
	return scene, body, mainRotor, tailBoom, tailRotor
}

func TestNewNode(t *testing.T) {

	node := NewNode("node")

	assert.Equal(t, -1, node.ID())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, node.Scale())
	assert.True(t, node.IsDirty())
	assert.Nil(t, node.Parent())
	assert.Equal(t, NodeTypeNode, node.Type())

	assert.True(t, node.Update(false))
	assert.False(t, node.IsDirty())
	assertMatrixEqual(t, mgl64.Ident4(), node.Transform().World())

}

func TestNodeDirtyFlag(t *testing.T) {

	_, body, mainRotor, _, _ := newHelicopterTree()

	body.SetPosition(1, 2, 3)
	require.True(t, body.Update(false))

	world := mainRotor.Transform().World()

	// Nothing changed, so nothing is recomputed
	assert.False(t, body.Update(false))
	assert.False(t, mainRotor.Update(false))
	assert.Equal(t, world, mainRotor.Transform().World())

	// Every setter dirties the node
	mainRotor.SetRotation(0, 1, 0)
	assert.True(t, mainRotor.IsDirty())
	assert.True(t, body.Update(false), "a dirty descendant counts as an update")
	assert.False(t, mainRotor.IsDirty())

	mainRotor.SetScale(2, 2, 2)
	assert.True(t, mainRotor.IsDirty())
	mainRotor.Update(false)

	mainRotor.SetPositionVec(mgl64.Vec3{0, 1, 0})
	assert.True(t, mainRotor.IsDirty())

}

func TestNodeForcesChildren(t *testing.T) {

	scene, body, _, tailBoom, tailRotor := newHelicopterTree()

	tailBoom.SetPosition(0, 0, 2)
	tailRotor.SetPosition(1, 0, 0)
	scene.Update()

	// Only the root is dirty, but its descendants must follow it
	body.SetPosition(0, 5, 0)
	assert.False(t, tailRotor.IsDirty())
	assert.True(t, scene.Update())

	assertVec3Equal(t, mgl64.Vec3{1, 5, 2}, tailRotor.WorldPosition().Vec3())

}

func TestHierarchicalComposition(t *testing.T) {

	root := NewNode("R")
	child := root.NewChild("C")
	child.SetPosition(0, 2, 0)
	child.SetRotation(0, 0.5, 0)

	root.SetPosition(1, 0, 0)
	root.Update(true)

	assertMatrixEqual(t, mgl64.Translate3D(1, 0, 0).Mul4(child.Transform().Local()), child.Transform().World())

}

func TestNodeScaleAffectsChildren(t *testing.T) {

	root := NewNode("R")
	child := root.NewChild("C")
	child.SetPosition(1, 0, 0)

	root.SetScale(2, 2, 2)
	root.Update(false)

	assertVec3Equal(t, mgl64.Vec3{2, 0, 0}, child.WorldPosition().Vec3())
	assertVec3Equal(t, mgl64.Vec3{2, 2, 2}, child.WorldPoint(mgl64.Vec3{0, 1, 1}).Vec3())

}

func TestNodeRotationQuat(t *testing.T) {

	node := NewNode("node")
	node.SetRotationQuat(mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}))
	node.Update(false)

	assertVec3Equal(t, mgl64.Vec3{0, 0.5, 0}, node.Rotation())
	assertVec3Equal(t, mgl64.Vec3{math.Cos(0.5), 0, -math.Sin(0.5)}, node.WorldPoint(mgl64.Vec3{1, 0, 0}).Vec3())

}

func TestNodeIDs(t *testing.T) {

	parent := NewNode("parent")
	a := parent.NewChild("a")
	b := parent.NewChild("b")
	c := parent.NewChild("c")

	assert.Equal(t, []int{0, 1, 2}, []int{a.ID(), b.ID(), c.ID()})

	// Re-adding moves a node to the end with a fresh ID
	parent.RemoveChildren(a)
	assert.Equal(t, -1, a.ID())
	assert.Nil(t, a.Parent())

	require.NoError(t, parent.AddChildren(a))
	assert.Equal(t, 3, a.ID())
	assert.Equal(t, []INode{b, c, a}, parent.Children())

	assert.Same(t, b, parent.ChildList().ByID(1))
	assert.Same(t, a, parent.ChildList().ByID(3))
	assert.Nil(t, parent.ChildList().ByID(0))
	assert.Same(t, c, parent.ChildList().ByName("c"))

	assert.Equal(t, 2, a.Index())

}

func TestNodeReparent(t *testing.T) {

	_, body, mainRotor, tailBoom, _ := newHelicopterTree()

	require.NoError(t, tailBoom.AddChildren(mainRotor))

	assert.Same(t, tailBoom, mainRotor.Parent())
	assert.Len(t, body.Children(), 1)
	assert.Len(t, tailBoom.Children(), 2)
	assert.True(t, mainRotor.IsDirty())

	mainRotor.Unparent()
	assert.Nil(t, mainRotor.Parent())
	assert.Len(t, tailBoom.Children(), 1)

}

func TestNodeCycleRejected(t *testing.T) {

	_, body, _, tailBoom, tailRotor := newHelicopterTree()

	err := tailRotor.AddChildren(body)
	assert.True(t, errors.Is(err, ErrCycle), "adding an ancestor should fail with ErrCycle, got %v", err)

	err = tailBoom.AddChildren(tailBoom)
	assert.True(t, errors.Is(err, ErrCycle))

	assert.ErrorIs(t, tailBoom.AddChildren(nil), ErrNilNode)

	// The failed attempts changed nothing
	assert.Same(t, tailBoom, tailRotor.Parent())
	assert.Nil(t, body.Parent())

}

func TestNodeGetAndPath(t *testing.T) {

	_, body, mainRotor, tailBoom, tailRotor := newHelicopterTree()

	assert.Same(t, tailRotor, body.Get("TailBoom/TailRotor"))
	assert.Same(t, tailRotor, body.Get(" TailBoom / TailRotor "))
	assert.Same(t, tailBoom, tailRotor.Get("../"))
	assert.Same(t, mainRotor, tailRotor.Get("../../MainRotor"))
	assert.Nil(t, body.Get("TailBoom/Missing"))

	assert.Equal(t, "TailBoom/TailRotor", tailRotor.Path())
	assert.Equal(t, "", body.Path())

	assert.Same(t, tailRotor, body.FindByName("TailRotor"))
	assert.Same(t, body, tailRotor.Root())
	assert.Equal(t, []INode{mainRotor, tailBoom, tailRotor}, body.ChildrenRecursive())

}

func TestHierarchyAsString(t *testing.T) {

	scene, body, _, tailBoom, _ := newHelicopterTree()
	tailBoom.ChildList().NewLight("Beacon", LightPoint)
	body.ChildList().NewCamera("Chase", 320, 180)
	body.SetPosition(1, 2, 3)
	scene.Update()

	str := body.HierarchyAsString()

	assert.True(t, strings.HasPrefix(str, " [ROOT] Body : [1.00, 2.00, 3.00]\n"), str)
	assert.Contains(t, str, "[NODE] TailRotor")
	assert.Contains(t, str, "[POINT] Beacon")
	assert.Contains(t, str, "[CAM] Chase")

}

func TestNodeTypes(t *testing.T) {
	assert.True(t, NodeTypeDirectionalLight.Is(NodeTypeLight))
	assert.True(t, NodeTypeCamera.Is(NodeTypeNode))
	assert.False(t, NodeTypeNode.Is(NodeTypeCamera))
	assert.False(t, NodeTypePointLight.Is(NodeTypeDirectionalLight))
}

func TestEmbeddedNodesKeepTheirType(t *testing.T) {

	parent := NewNode("parent")
	camera := parent.ChildList().NewCamera("camera", 100, 100)
	light := parent.ChildList().NewLight("sun", LightDirectional)

	children := parent.Children()
	require.Len(t, children, 2)

	assert.Same(t, camera, children[0])
	assert.Same(t, light, children[1])
	assert.Same(t, parent, camera.Parent())

	child := camera.NewChild("attached")
	assert.Same(t, camera, child.Parent().(*Camera))

}

func TestAppendTriangles(t *testing.T) {

	root := NewNode("root")
	root.AddMeshes(NewCube())
	child := root.NewChild("child")
	child.AddMeshes(NewCube())
	child.SetPosition(10, 0, 0)
	root.Update(false)

	tris := TriangleList{}
	root.AppendTriangles(&tris, true)
	require.Len(t, tris, 24)

	// The child's triangles are moved into world space
	for _, tri := range tris[12:] {
		assert.InDelta(t, 10, tri.Center().X(), 1.0+epsilon)
	}

	local := TriangleList{}
	root.AppendTriangles(&local, false)
	for _, tri := range local[12:] {
		assert.InDelta(t, 0, tri.Center().X(), 1.0+epsilon)
	}

}

func BenchmarkNodeUpdate(b *testing.B) {

	root := NewNode("root")
	parent := root
	for i := 0; i < 100; i++ {
		parent = parent.NewChild("child")
		parent.SetPosition(0, 1, 0)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		root.SetRotation(0, float64(i)*0.01, 0)
		root.Update(false)
	}

}
