package heliscene

// Library represents a collection of Scenes, Meshes, and SceneAnimations, as loaded from a glTF / GLB file.
type Library struct {
	Scenes        []*Scene                   // A slice of Scenes
	ExportedScene *Scene                     // The scene marked as the default scene in the file (or the first scene, if none was)
	Meshes        map[string]*Mesh           // A Map of Meshes to their names
	Animations    map[string]*SceneAnimation // A Map of SceneAnimations to their names
}

// NewLibrary creates a new Library.
func NewLibrary() *Library {
	return &Library{
		Scenes:     []*Scene{},
		Meshes:     map[string]*Mesh{},
		Animations: map[string]*SceneAnimation{},
	}
}

// FindScene searches all scenes in a Library to find the one with the provided name. If a scene with the given name isn't found,
// FindScene will return nil.
func (lib *Library) FindScene(name string) *Scene {
	for _, scene := range lib.Scenes {
		if scene.Name == name {
			return scene
		}
	}
	return nil
}

// AddScene creates a new, empty Scene with the given name and adds it to the Library.
func (lib *Library) AddScene(sceneName string) *Scene {
	newScene := NewScene(sceneName)
	lib.Scenes = append(lib.Scenes, newScene)
	return newScene
}

// FindNode allows you to find a node by name by searching through each of a Library's scenes. If the Node with the given name isn't found,
// FindNode will return nil.
func (lib *Library) FindNode(objectName string) INode {
	for _, scene := range lib.Scenes {
		if n := scene.FindNode(objectName); n != nil {
			return n
		}
	}
	return nil
}

// BindAnimations binds every SceneAnimation in the Library to the Nodes of the given Scene, returning the totals of bound
// and unmatched AnimationNodes.
func (lib *Library) BindAnimations(scene *Scene) (bound, missing int) {
	for _, anim := range lib.Animations {
		b, m := anim.BindScene(scene)
		bound += b
		missing += m
	}
	return
}
