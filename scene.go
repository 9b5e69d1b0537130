package heliscene

import "github.com/pkg/errors"

// Scene is a complete scene: a list of root Nodes (each the top of its own hierarchy), the Cameras and Lights registered in
// it, and the Camera currently used to view it.
type Scene struct {
	Name         string
	roots        NodeList
	cameras      []*Camera
	lights       []*Light
	activeCamera *Camera
}

// NewScene creates a new, empty Scene.
func NewScene(name string) *Scene {
	return &Scene{
		Name: name,
	}
}

// Roots returns the Scene's list of root Nodes.
func (scene *Scene) Roots() *NodeList {
	return &scene.roots
}

// NewNode creates a new root Node in the Scene.
func (scene *Scene) NewNode(name string) *Node {
	return scene.roots.NewNode(name)
}

// AddNodes adds existing Nodes to the Scene as roots, detaching them from any previous parent.
func (scene *Scene) AddNodes(nodes ...INode) error {
	return scene.roots.Add(nodes...)
}

// NewCamera creates a new root Camera in the Scene and registers it. If the Scene has no active Camera, the new Camera
// becomes active.
func (scene *Scene) NewCamera(name string, w, h int) *Camera {
	camera := scene.roots.NewCamera(name, w, h)
	scene.registerCamera(camera)
	return camera
}

// AddCamera registers an existing Camera with the Scene. A Camera that isn't attached to anything is added as a root; a
// Camera that's already part of a hierarchy (for example, a chase camera parented to a helicopter) is left where it is.
// If the Scene has no active Camera, the Camera becomes active.
func (scene *Scene) AddCamera(camera *Camera) error {

	if camera == nil {
		return errors.Wrap(ErrNilNode, "adding camera to scene")
	}

	if camera.list == nil {
		if err := scene.roots.Add(camera); err != nil {
			return err
		}
	}

	scene.registerCamera(camera)
	return nil

}

func (scene *Scene) registerCamera(camera *Camera) {

	for _, existing := range scene.cameras {
		if existing == camera {
			return
		}
	}

	scene.cameras = append(scene.cameras, camera)

	if scene.activeCamera == nil {
		scene.activeCamera = camera
	}

}

// Cameras returns the Cameras registered with the Scene.
func (scene *Scene) Cameras() []*Camera {
	return append([]*Camera{}, scene.cameras...)
}

// SetActiveCamera sets the Camera used to view the Scene, registering it if necessary.
func (scene *Scene) SetActiveCamera(camera *Camera) error {
	if err := scene.AddCamera(camera); err != nil {
		return err
	}
	scene.activeCamera = camera
	return nil
}

// ActiveCamera returns the Camera used to view the Scene, or nil if the Scene has no Cameras.
func (scene *Scene) ActiveCamera() *Camera {
	return scene.activeCamera
}

// NewLight creates a new root Light in the Scene and registers it.
func (scene *Scene) NewLight(name string, kind LightKind) *Light {
	light := scene.roots.NewLight(name, kind)
	scene.registerLight(light)
	return light
}

// AddLight registers an existing Light with the Scene. As with AddCamera, an unattached Light is added as a root.
func (scene *Scene) AddLight(light *Light) error {

	if light == nil {
		return errors.Wrap(ErrNilNode, "adding light to scene")
	}

	if light.list == nil {
		if err := scene.roots.Add(light); err != nil {
			return err
		}
	}

	scene.registerLight(light)
	return nil

}

func (scene *Scene) registerLight(light *Light) {
	for _, existing := range scene.lights {
		if existing == light {
			return
		}
	}
	scene.lights = append(scene.lights, light)
}

// Lights returns the Lights registered with the Scene.
func (scene *Scene) Lights() []*Light {
	return append([]*Light{}, scene.lights...)
}

// FindNode returns the first Node with the given name in the Scene, searching each root's hierarchy depth-first in order.
// It returns nil if no Node has that name.
func (scene *Scene) FindNode(name string) INode {
	for _, root := range scene.roots.items {
		if found := root.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// SearchTree returns a NodeFilter that searches every Node in the Scene, roots included.
func (scene *Scene) SearchTree() NodeFilter {
	return newNodeFilter(true, scene.roots.Items()...)
}

// Nodes returns every Node in the Scene, depth-first.
func (scene *Scene) Nodes() []INode {
	out := []INode{}
	for _, root := range scene.roots.items {
		out = append(out, root)
		out = append(out, root.ChildrenRecursive()...)
	}
	return out
}

// Update rebuilds the Transforms of every dirty Node in the Scene (and their descendants). It returns true if any Node's
// Transform was rebuilt.
func (scene *Scene) Update() bool {
	updated := false
	for _, root := range scene.roots.items {
		if root.Update(false) {
			updated = true
		}
	}
	return updated
}

// AppendTriangles appends the triangles of every Mesh in the Scene to out, optionally transformed into world space.
func (scene *Scene) AppendTriangles(out *TriangleList, worldSpace bool) {
	for _, root := range scene.roots.items {
		root.AppendTriangles(out, worldSpace)
	}
}

// HierarchyAsString returns the hierarchy of every root in the Scene, one after another.
func (scene *Scene) HierarchyAsString() string {
	str := ""
	for _, root := range scene.roots.items {
		str += root.HierarchyAsString()
	}
	return str
}
