package heliscene

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// NodeType represents a Node's type. Node types are categorized, and can be said to extend or "be of" more general types.
// For example, a directional light has a type of NodeTypeDirectionalLight, which is also NodeTypeLight, but not NodeTypePointLight.
type NodeType string

const (
	NodeTypeNode   NodeType = "Node"       // NodeTypeNode represents any generic node
	NodeTypeCamera NodeType = "NodeCamera" // NodeTypeCamera represents specifically a Camera

	NodeTypeLight            NodeType = "NodeLight"            // NodeTypeLight represents any generic light
	NodeTypeAmbientLight     NodeType = "NodeLightAmbient"     // NodeTypeAmbientLight represents specifically an ambient light
	NodeTypePointLight       NodeType = "NodeLightPoint"       // NodeTypePointLight represents specifically a point light
	NodeTypeDirectionalLight NodeType = "NodeLightDirectional" // NodeTypeDirectionalLight represents specifically a directional (sun) light
)

// Is returns true if a NodeType satisfies another NodeType category. A specific node type can be said to
// contain a more general one, but not vice-versa. For example, a Camera (which has type NodeTypeCamera) can be
// said to be a Node (NodeTypeNode), but the reverse is not true (a NodeTypeNode is not a NodeTypeCamera).
func (nt NodeType) Is(other NodeType) bool {
	if nt == other {
		return true
	}
	return strings.Contains(string(nt), string(other))
}

// INode represents an object that exists in 3D space and can be positioned relative to an origin point.
// By default, this origin point is {0, 0, 0} (or world origin), but Nodes can be parented
// to other Nodes to change this origin (making their movements relative and their transforms
// successive). Cameras and Lights fully implement the INode interface by means of embedding Node.
type INode interface {
	// Name returns the object's name.
	Name() string
	// SetName sets the object's name.
	SetName(name string)
	// ID returns the object's ID, which is unique within the NodeList that owns it. Unattached Nodes have an ID of -1.
	ID() int
	// Type returns the NodeType for this object.
	Type() NodeType
	// SetData sets user-customizeable data that could be usefully stored on this node.
	SetData(data any)
	// Data returns user-customizeable data that could be usefully stored on this node.
	Data() any
	// Properties returns the Node's named properties (for example, those imported from a glTF node's extras).
	Properties() *Properties

	// Parent returns the Node's parent. If the Node has no parent (it's a scene root or unattached), this will return nil.
	Parent() INode
	// Root returns the top-most ancestor of this Node (or the Node itself, if it has no parent).
	Root() INode
	// Children returns a copy of the Node's children slice.
	Children() []INode
	// ChildrenRecursive returns the Node's recursive children (i.e. children, grandchildren, etc), depth-first.
	ChildrenRecursive() []INode
	// NewChild creates a new Node with the given name and attaches it as the last child of this Node.
	NewChild(name string) *Node
	// AddChildren parents the provided Nodes to this Node, moving them from any list that previously owned them.
	// If adding a Node would make it its own ancestor, AddChildren stops and returns ErrCycle.
	AddChildren(children ...INode) error
	// RemoveChildren removes the provided children from this Node, leaving them unattached.
	RemoveChildren(children ...INode)
	// Unparent removes the Node from the list that owns it.
	Unparent()
	// Index returns the index of the Node in its owning list, or -1 if it's unattached.
	Index() int
	// Get searches a node's hierarchy using a slash-separated path of names (i.e. "Body/MainRotor"). ".." goes up a level.
	Get(path string) INode
	// Path returns the slash-separated path of names from the root to this Node (not including the root's name).
	Path() string
	// FindByName returns the first Node with the given name in this Node's hierarchy (including the Node itself), depth-first.
	FindByName(name string) INode
	// HierarchyAsString returns a string displaying the hierarchy of this Node, and all recursive children.
	HierarchyAsString() string
	// SearchTree returns a NodeFilter that searches this Node's descendants (not including the Node itself).
	SearchTree() NodeFilter

	// Position returns the Node's local position.
	Position() mgl64.Vec3
	// SetPosition sets the Node's local position (relative to its parent).
	SetPosition(x, y, z float64)
	SetPositionVec(position mgl64.Vec3)
	// Rotation returns the Node's local rotation as XYZ Euler angles in radians.
	Rotation() mgl64.Vec3
	// SetRotation sets the Node's local rotation as XYZ Euler angles in radians.
	SetRotation(x, y, z float64)
	SetRotationVec(rotation mgl64.Vec3)
	// SetRotationQuat sets the Node's local rotation from a unit quaternion, which is converted to XYZ Euler angles.
	SetRotationQuat(quat mgl64.Quat)
	// Scale returns the Node's local scale.
	Scale() mgl64.Vec3
	// SetScale sets the Node's local scale (relative to its parent).
	SetScale(x, y, z float64)
	SetScaleVec(scale mgl64.Vec3)

	// IsDirty returns whether the Node's Transform is stale and needs to be rebuilt by Update().
	IsDirty() bool
	// Update rebuilds the Node's Transform if it's dirty or forceChildren is true, and then updates its children, forcing them
	// to rebuild if this Node did. It returns true if this Node or any of its descendants rebuilt their Transform.
	Update(forceChildren bool) bool
	// Transform returns the Node's cached Transform.
	Transform() *Transform
	// WorldPosition returns the Node's origin transformed by its cached world matrix.
	WorldPosition() mgl64.Vec4
	// WorldPoint returns the given local point transformed by the Node's cached world matrix.
	WorldPoint(point mgl64.Vec3) mgl64.Vec4

	// Meshes returns the Meshes attached to this Node.
	Meshes() []*Mesh
	// AddMeshes attaches Meshes to this Node.
	AddMeshes(meshes ...*Mesh)
	// AppendTriangles appends the triangles of this Node's Meshes and all of its descendants' Meshes to out. If worldSpace is
	// true, triangles are transformed by each Node's cached world and normal matrices.
	AppendTriangles(out *TriangleList, worldSpace bool)

	node() *Node
}

// Node represents a minimal struct that fully implements the INode interface. Camera and Light embed Node
// into their structs to automatically easily implement INode.
type Node struct {
	id               int
	name             string
	position         mgl64.Vec3
	rotation         mgl64.Vec3 // XYZ Euler angles, in radians
	scale            mgl64.Vec3
	transform        Transform
	isTransformDirty bool
	self             INode     // The outermost struct embedding this Node (i.e. the *Camera for a Camera's Node)
	list             *NodeList // The list that owns this Node; nil when unattached
	children         NodeList
	meshes           []*Mesh
	data             any
	properties       *Properties

	localOverride     func() mgl64.Mat4 // If set, used in place of the position / rotation / scale composition
	onTransformUpdate func()
}

// NewNode returns a new, unattached Node. Use NodeList.NewNode() or Node.NewChild() to create a Node that's already
// part of a hierarchy.
func NewNode(name string) *Node {

	node := &Node{
		id:               -1,
		name:             name,
		scale:            mgl64.Vec3{1, 1, 1},
		transform:        NewTransform(),
		isTransformDirty: true,
		properties:       NewProperties(),
	}

	node.setSelf(node)

	return node

}

func (node *Node) setSelf(self INode) {
	node.self = self
	node.children.owner = self
}

func (node *Node) node() *Node {
	return node
}

// ID returns the object's ID, which is unique within the NodeList that owns it. Unattached Nodes have an ID of -1.
func (node *Node) ID() int {
	return node.id
}

// Name returns the object's name.
func (node *Node) Name() string {
	return node.name
}

// SetName sets the object's name.
func (node *Node) SetName(name string) {
	node.name = name
}

// Type returns the NodeType for this object.
func (node *Node) Type() NodeType {
	return NodeTypeNode
}

// SetData sets user-customizeable data that could be usefully stored on this node.
func (node *Node) SetData(data any) {
	node.data = data
}

// Data returns user-customizeable data that could be usefully stored on this node.
func (node *Node) Data() any {
	return node.data
}

// Properties returns the Node's named properties.
func (node *Node) Properties() *Properties {
	return node.properties
}

// SearchTree returns a NodeFilter that searches this Node's descendants (not including the Node itself).
func (node *Node) SearchTree() NodeFilter {
	return newNodeFilter(false, node.self)
}

// dirtyTransform marks the Node's Transform as needing to be rebuilt. Descendants don't need to be marked, as Update()
// forces children to rebuild whenever their parent does.
func (node *Node) dirtyTransform() {
	node.isTransformDirty = true
}

// IsDirty returns whether the Node's Transform is stale and needs to be rebuilt by Update().
func (node *Node) IsDirty() bool {
	return node.isTransformDirty
}

// Update rebuilds the Node's Transform if it's dirty or forceChildren is true, and then updates its children, forcing them
// to rebuild if this Node did. It returns true if this Node or any of its descendants rebuilt their Transform, which
// callers can use to skip work for frames where nothing moved.
func (node *Node) Update(forceChildren bool) bool {

	updated := false

	if node.isTransformDirty || forceChildren {

		var local mgl64.Mat4
		if node.localOverride != nil {
			local = node.localOverride()
		} else {
			local = NewMatrix4Compose(node.position, EulerToQuaternion(node.rotation), node.scale)
		}

		if parent := node.Parent(); parent != nil {
			parentWorld := parent.Transform().World()
			node.transform.Update(local, &parentWorld)
		} else {
			node.transform.Update(local, nil)
		}

		node.isTransformDirty = false
		updated = true

		if node.onTransformUpdate != nil {
			node.onTransformUpdate()
		}

	}

	changed := updated

	for _, child := range node.children.items {
		if child.Update(updated) {
			changed = true
		}
	}

	return changed

}

// Transform returns the Node's cached Transform. Call Update() (or Scene.Update()) first for the matrices to be current.
func (node *Node) Transform() *Transform {
	return &node.transform
}

// WorldPosition returns the Node's origin transformed by its cached world matrix.
func (node *Node) WorldPosition() mgl64.Vec4 {
	return node.transform.world.Col(3) // The translation column is the transformed origin
}

// WorldPoint returns the given local point transformed by the Node's cached world matrix.
func (node *Node) WorldPoint(point mgl64.Vec3) mgl64.Vec4 {
	return node.transform.world.Mul4x1(point.Vec4(1))
}

// Position returns the Node's local position.
func (node *Node) Position() mgl64.Vec3 {
	return node.position
}

// SetPosition sets the Node's local position (relative to its parent). If this object has no parent, the position is
// relative to world origin (0, 0, 0).
func (node *Node) SetPosition(x, y, z float64) {
	node.position = mgl64.Vec3{x, y, z}
	node.dirtyTransform()
}

// SetPositionVec sets the Node's local position using the vector provided.
func (node *Node) SetPositionVec(position mgl64.Vec3) {
	node.SetPosition(position.X(), position.Y(), position.Z())
}

// Rotation returns the Node's local rotation as XYZ Euler angles in radians.
func (node *Node) Rotation() mgl64.Vec3 {
	return node.rotation
}

// SetRotation sets the Node's local rotation as XYZ Euler angles in radians.
func (node *Node) SetRotation(x, y, z float64) {
	node.rotation = mgl64.Vec3{x, y, z}
	node.dirtyTransform()
}

// SetRotationVec sets the Node's local rotation using XYZ Euler angles in radians in the vector provided.
func (node *Node) SetRotationVec(rotation mgl64.Vec3) {
	node.SetRotation(rotation.X(), rotation.Y(), rotation.Z())
}

// SetRotationQuat sets the Node's local rotation from a quaternion, which is converted to XYZ Euler angles. The quaternion
// must be normalized and non-zero; a degenerate quaternion will give NaN angles.
func (node *Node) SetRotationQuat(quat mgl64.Quat) {
	node.SetRotationVec(QuaternionToEuler(quat))
}

// Scale returns the Node's local scale.
func (node *Node) Scale() mgl64.Vec3 {
	return node.scale
}

// SetScale sets the Node's local scale (relative to its parent).
func (node *Node) SetScale(x, y, z float64) {
	node.scale = mgl64.Vec3{x, y, z}
	node.dirtyTransform()
}

// SetScaleVec sets the Node's local scale using the vector provided.
func (node *Node) SetScaleVec(scale mgl64.Vec3) {
	node.SetScale(scale.X(), scale.Y(), scale.Z())
}

// Parent returns the Node's parent. If the Node has no parent (it's a scene root or unattached), this will return nil.
func (node *Node) Parent() INode {
	if node.list == nil {
		return nil
	}
	return node.list.owner
}

// Root returns the top-most ancestor of this Node (or the Node itself, if it has no parent).
func (node *Node) Root() INode {
	var root INode = node.self
	for parent := root.Parent(); parent != nil; parent = parent.Parent() {
		root = parent
	}
	return root
}

// NewChild creates a new Node with the given name and attaches it as the last child of this Node.
func (node *Node) NewChild(name string) *Node {
	return node.children.NewNode(name)
}

// ChildList returns the NodeList that holds this Node's children, which can be used to create Cameras or Lights as children.
func (node *Node) ChildList() *NodeList {
	return &node.children
}

// AddChildren parents the provided Nodes to this Node, moving them from any list that previously owned them.
// If adding a Node would make it its own ancestor, AddChildren stops and returns ErrCycle.
func (node *Node) AddChildren(children ...INode) error {
	return node.children.Add(children...)
}

// RemoveChildren removes the provided children from this Node, leaving them unattached.
func (node *Node) RemoveChildren(children ...INode) {
	node.children.Remove(children...)
}

// Unparent removes the Node from the list that owns it.
func (node *Node) Unparent() {
	if node.list != nil {
		node.list.Remove(node.self)
	}
}

// Index returns the index of the Node in its owning list, or -1 if it's unattached.
func (node *Node) Index() int {
	if node.list == nil {
		return -1
	}
	return node.list.indexOf(node)
}

// Children returns a copy of the Node's children slice.
func (node *Node) Children() []INode {
	return node.children.Items()
}

// ChildrenRecursive returns the Node's recursive children (i.e. children, grandchildren, etc), depth-first.
func (node *Node) ChildrenRecursive() []INode {
	out := []INode{}
	for _, child := range node.children.items {
		out = append(out, child)
		out = append(out, child.ChildrenRecursive()...)
	}
	return out
}

// FindByName returns the first Node with the given name in this Node's hierarchy (including the Node itself), depth-first.
// If there's no such Node, it returns nil.
func (node *Node) FindByName(name string) INode {
	if node.name == name {
		return node.self
	}
	for _, child := range node.children.items {
		if found := child.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Meshes returns the Meshes attached to this Node.
func (node *Node) Meshes() []*Mesh {
	return append([]*Mesh{}, node.meshes...)
}

// AddMeshes attaches Meshes to this Node. Meshes aren't owned by the Node, so the same Mesh can be shared between Nodes.
func (node *Node) AddMeshes(meshes ...*Mesh) {
	node.meshes = append(node.meshes, meshes...)
}

// AppendTriangles appends the triangles of this Node's Meshes and all of its descendants' Meshes to out. If worldSpace is
// true, triangles are transformed by each Node's cached world and normal matrices; otherwise they're left in object space.
func (node *Node) AppendTriangles(out *TriangleList, worldSpace bool) {

	world := mgl64.Ident4()
	normal := mgl64.Ident4()

	if worldSpace {
		world = node.transform.world
		normal = node.transform.normal
	}

	for _, mesh := range node.meshes {
		mesh.appendTriangles(out, world, normal)
	}

	for _, child := range node.children.items {
		child.AppendTriangles(out, worldSpace)
	}

}

// HierarchyAsString returns a string displaying the hierarchy of this Node, and all recursive children.
// This is a useful function to debug the layout of a node tree, for example.
// All Nodes except for the top-level Node will show their type by means of a prefix ("CAM" for Cameras, for example).
// All Nodes listed in the hierarchy will also show their cached world positions, truncated to the first 2 decimals.
func (node *Node) HierarchyAsString() string {

	var printNode func(node INode, level int) string

	printNode = func(node INode, level int) string {

		prefix := ""

		if level == 0 {
			prefix = "ROOT"
		} else {

			nodeType := node.Type()

			if nodeType.Is(NodeTypeCamera) {
				prefix = "CAM"
			} else if nodeType.Is(NodeTypeAmbientLight) {
				prefix = "AMB"
			} else if nodeType.Is(NodeTypeDirectionalLight) {
				prefix = "DIR"
			} else if nodeType.Is(NodeTypePointLight) {
				prefix = "POINT"
			} else {
				prefix = "NODE"
			}

		}

		str := ""

		for i := 0; i < level; i++ {
			str += "    |"
		}

		wp := node.WorldPosition()
		floatTruncation := 2
		wpStr := "[" + strconv.FormatFloat(wp.X(), 'f', floatTruncation, 64) + ", " + strconv.FormatFloat(wp.Y(), 'f', floatTruncation, 64) + ", " + strconv.FormatFloat(wp.Z(), 'f', floatTruncation, 64) + "]"

		if level > 0 {
			str += "-"
		}
		str += " [" + prefix + "] " + node.Name() + " : " + wpStr + "\n"

		for _, child := range node.Children() {
			str += printNode(child, level+1)
		}

		return str
	}

	return printNode(node.self, 0)
}

// Get searches a node's hierarchy using a string to find a specified node. The path is in the format of names of nodes, separated by forward
// slashes ('/'), and is relative to the node you use to call Get. As an example of Get, if you had a tail rotor parented to a tail boom, which was
// parented to a helicopter body, it would be found from the body at "TailBoom/TailRotor". Note also that you can use "../" to
// "go up one" in the hierarchy (so rotor.Get("../") would return the TailBoom node).
// Get() trims the extra spaces from the beginning and end of each path segment.
func (node *Node) Get(path string) INode {

	split := []string{}

	for _, s := range strings.Split(path, `/`) {
		if s = strings.TrimSpace(s); len(s) > 0 {
			split = append(split, s)
		}
	}

	var current INode = node.self

	for _, name := range split {

		if current == nil {
			return nil
		}

		if name == ".." {
			current = current.Parent()
			continue
		}

		var next INode
		for _, child := range current.Children() {
			if child.Name() == name {
				next = child
				break
			}
		}
		current = next

	}

	return current

}

// Path returns a string indicating the hierarchical path to get this Node from the root. The path returned will be absolute, such that
// passing it to Get() called on the root node will return this node. The path returned will not contain the root node's name.
func (node *Node) Path() string {

	if node.Parent() == nil {
		return ""
	}

	path := node.Name()

	for parent := node.Parent(); parent != nil && parent.Parent() != nil; parent = parent.Parent() {
		path = parent.Name() + "/" + path
	}

	return path

}
