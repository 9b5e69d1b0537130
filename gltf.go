package heliscene

import (
	"bytes"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/qmuntal/gltf/modeler"
)

const lightsExtension = "KHR_lights_punctual"

type GLTFLoadOptions struct {
	// Width and height of loaded Cameras' viewports. If either is 0 or less, cameras load with a 640x360 viewport, or with the
	// aspect ratio stored in the file, if there is one.
	CameraWidth, CameraHeight int
	// If BindAnimations is true, each loaded SceneAnimation is bound to the Nodes of the Library's ExportedScene.
	BindAnimations bool
}

// DefaultGLTFLoadOptions creates an instance of GLTFLoadOptions with some sensible defaults.
func DefaultGLTFLoadOptions() *GLTFLoadOptions {
	return &GLTFLoadOptions{
		CameraWidth:    -1,
		CameraHeight:   -1,
		BindAnimations: true,
	}
}

// LoadGLTFFile loads a .gltf or .glb file from the filepath given, using a provided GLTFLoadOptions struct to alter how the file is
// loaded. Passing nil for loadOptions will load the file using default load options. External buffers are resolved relative to
// the file's directory.
// LoadGLTFFile will return a Library, and an error if the process fails.
func LoadGLTFFile(path string, loadOptions *GLTFLoadOptions) (*Library, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	return LoadGLTFDocument(doc, loadOptions)

}

// LoadGLTFData loads a .gltf or .glb file from the byte data given, using a provided GLTFLoadOptions struct to alter how the file is
// loaded. Passing nil for loadOptions will load the file using default load options. Buffers must be embedded (as a GLB binary
// chunk or as data URIs).
// LoadGLTFData will return a Library, and an error if the process fails.
func LoadGLTFData(data []byte, loadOptions *GLTFLoadOptions) (*Library, error) {

	decoder := gltf.NewDecoder(bytes.NewReader(data))

	// gltf.NewDocument() would start with an empty default scene, hiding files that don't define any.
	doc := &gltf.Document{}

	if err := decoder.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decoding glTF data")
	}

	return LoadGLTFDocument(doc, loadOptions)

}

// LoadGLTFDocument builds a Library from an already-decoded glTF document. Loading happens in two phases: every animation is
// parsed into a SceneAnimation first (keyed by the names of the nodes it targets), and only once the node hierarchy and scenes
// are built are the SceneAnimations bound to live Nodes by name. Animated names with no matching Node are tolerated.
func LoadGLTFDocument(doc *gltf.Document, loadOptions *GLTFLoadOptions) (*Library, error) {

	if loadOptions == nil {
		loadOptions = DefaultGLTFLoadOptions()
	}

	library := NewLibrary()

	for i, gltfMesh := range doc.Meshes {

		mesh, err := loadGLTFMesh(doc, gltfMesh, i)
		if err != nil {
			return nil, errors.Wrapf(err, "loading mesh %d (%q)", i, gltfMesh.Name)
		}

		library.Meshes[mesh.Name] = mesh

	}

	// Phase one: animations are parsed before any Node exists.
	for i, gltfAnim := range doc.Animations {

		anim, err := loadGLTFAnimation(doc, gltfAnim)
		if err != nil {
			return nil, errors.Wrapf(err, "loading animation %d (%q)", i, gltfAnim.Name)
		}

		library.Animations[anim.Name] = anim

	}

	objects := make([]INode, len(doc.Nodes))

	for i, node := range doc.Nodes {

		var obj INode
		name := nodeName(node, i)

		if node.Camera != nil {

			obj = loadGLTFCamera(doc.Cameras[*node.Camera], name, loadOptions)

		} else if lighting, exists := node.Extensions[lightsExtension]; exists {

			lights, ok := doc.Extensions[lightsExtension].(lightspunctual.Lights)
			index, indexOK := lighting.(lightspunctual.LightIndex)

			if ok && indexOK && int(index) < len(lights) {
				obj = loadGLTFLight(lights[index], name)
			} else {
				Logger().Warn("light extension on node couldn't be resolved; loading as a plain node", "node", name)
				obj = NewNode(name)
			}

		} else {
			obj = NewNode(name)
		}

		if extras, ok := node.Extras.(map[string]any); ok {
			for name, value := range extras {
				obj.Properties().Add(name).Set(value)
			}
		}

		if node.Mesh != nil {
			if mesh := library.Meshes[meshName(doc.Meshes[*node.Mesh], int(*node.Mesh))]; mesh != nil {
				obj.AddMeshes(mesh)
			}
		}

		obj.SetPosition(float64(node.Translation[0]), float64(node.Translation[1]), float64(node.Translation[2]))
		obj.SetScale(float64(node.Scale[0]), float64(node.Scale[1]), float64(node.Scale[2]))
		obj.SetRotationQuat(Vec4ToQuaternion(mgl64.Vec4{float64(node.Rotation[0]), float64(node.Rotation[1]), float64(node.Rotation[2]), float64(node.Rotation[3])}))

		objects[i] = obj

	}

	for i, node := range doc.Nodes {
		for _, childIndex := range node.Children {
			if err := objects[i].AddChildren(objects[childIndex]); err != nil {
				return nil, errors.Wrapf(err, "parenting node %d (%q) to node %d (%q)", childIndex, objects[childIndex].Name(), i, objects[i].Name())
			}
		}
	}

	// Set up scene roots. A document whose scenes list no nodes at all (such as one started with gltf.NewDocument(), which
	// carries an empty default scene) is treated as having no scenes.

	sceneNodes := 0
	for _, s := range doc.Scenes {
		sceneNodes += len(s.Nodes)
	}

	scenes := doc.Scenes
	if sceneNodes == 0 && len(objects) > 0 {
		scenes = nil
	}

	for _, s := range scenes {

		scene := library.AddScene(s.Name)

		for _, n := range s.Nodes {

			obj := objects[n]

			if obj.Parent() != nil || obj.ID() >= 0 {
				Logger().Warn("node is already part of another scene; skipping", "node", obj.Name(), "scene", s.Name)
				continue
			}

			if err := scene.AddNodes(obj); err != nil {
				return nil, errors.Wrapf(err, "adding node %q to scene %q", obj.Name(), s.Name)
			}

		}

		registerSceneObjects(scene)

	}

	if len(library.Scenes) == 0 {

		// A file without scenes still gets one, holding every parentless node.
		scene := library.AddScene("Scene")

		for _, obj := range objects {
			if obj.Parent() == nil {
				if err := scene.AddNodes(obj); err != nil {
					return nil, errors.Wrapf(err, "adding node %q to scene", obj.Name())
				}
			}
		}

		registerSceneObjects(scene)

	}

	if doc.Scene != nil && len(scenes) > 0 && int(*doc.Scene) < len(library.Scenes) {
		library.ExportedScene = library.Scenes[*doc.Scene]
	} else {
		library.ExportedScene = library.Scenes[0]
	}

	library.ExportedScene.Update()

	// Phase two: bind the animations to the finished hierarchy.
	if loadOptions.BindAnimations {
		for _, anim := range library.Animations {
			bound, missing := anim.BindScene(library.ExportedScene)
			Logger().Debug("bound animation", "animation", anim.Name, "bound", bound, "missing", missing)
		}
	}

	return library, nil

}

func registerSceneObjects(scene *Scene) {
	for _, node := range scene.Nodes() {
		switch obj := node.(type) {
		case *Camera:
			scene.registerCamera(obj)
		case *Light:
			scene.registerLight(obj)
		}
	}
}

// nodeName returns the glTF node's name, or "Node.<index>" for unnamed nodes so that animation channels can still find them.
func nodeName(gltfNode *gltf.Node, index int) string {
	if gltfNode.Name != "" {
		return gltfNode.Name
	}
	return "Node." + strconv.Itoa(index)
}

func meshName(gltfMesh *gltf.Mesh, index int) string {
	if gltfMesh.Name != "" {
		return gltfMesh.Name
	}
	return "Mesh." + strconv.Itoa(index)
}

func loadGLTFMesh(doc *gltf.Document, gltfMesh *gltf.Mesh, index int) (*Mesh, error) {

	newMesh := NewMesh(meshName(gltfMesh, index))
	missingNormals := false

	for p, v := range gltfMesh.Primitives {

		if v.Mode != gltf.PrimitiveTriangles {
			Logger().Warn("skipping non-triangle primitive", "mesh", newMesh.Name, "primitive", p)
			continue
		}

		posAccessor, exists := v.Attributes[gltf.POSITION]
		if !exists {
			return nil, errors.Errorf("primitive %d has no POSITION attribute", p)
		}

		posBuffer := [][3]float32{}
		vertPos, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], posBuffer)
		if err != nil {
			return nil, errors.Wrapf(err, "reading positions of primitive %d", p)
		}

		vertices := make([]mgl64.Vec3, len(vertPos))
		for i, pos := range vertPos {
			vertices[i] = mgl64.Vec3{float64(pos[0]), float64(pos[1]), float64(pos[2])}
		}

		start := newMesh.AddVertices(vertices...)

		if normalAccessor, normalExists := v.Attributes[gltf.NORMAL]; normalExists {

			normalBuffer := [][3]float32{}
			normals, err := modeler.ReadNormal(doc, doc.Accessors[normalAccessor], normalBuffer)
			if err != nil {
				return nil, errors.Wrapf(err, "reading normals of primitive %d", p)
			}

			for _, n := range normals {
				newMesh.Normals = append(newMesh.Normals, mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])})
			}

		} else {
			missingNormals = true
		}

		var indices []uint32

		if v.Indices != nil {

			indexBuffer := []uint32{}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*v.Indices], indexBuffer)
			if err != nil {
				return nil, errors.Wrapf(err, "reading indices of primitive %d", p)
			}

		} else {
			indices = make([]uint32, len(vertices))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		offset := make([]uint32, len(indices))
		for i, j := range indices {
			offset[i] = start + j
		}

		if err := newMesh.AddTriangles(offset...); err != nil {
			return nil, err
		}

	}

	// Normals are per-vertex across the whole Mesh, so a primitive without them invalidates the rest.
	if missingNormals && len(newMesh.Normals) > 0 {
		Logger().Warn("mesh has primitives without normals; using face normals", "mesh", newMesh.Name)
		newMesh.Normals = nil
	}

	newMesh.UpdateBounds()

	return newMesh, nil

}

func loadGLTFAnimation(doc *gltf.Document, gltfAnim *gltf.Animation) (*SceneAnimation, error) {

	anim := NewSceneAnimation(gltfAnim.Name)

	for c, channel := range gltfAnim.Channels {

		if channel.Sampler < 0 || channel.Sampler >= len(gltfAnim.Samplers) {
			return nil, errors.Errorf("channel %d: sampler %d out of range of %d samplers", c, channel.Sampler, len(gltfAnim.Samplers))
		}

		sampler := gltfAnim.Samplers[channel.Sampler]

		channelName := "root"
		if channel.Target.Node != nil {
			if int(*channel.Target.Node) >= len(doc.Nodes) {
				return nil, errors.Errorf("channel %d: target node %d out of range of %d nodes", c, *channel.Target.Node, len(doc.Nodes))
			}
			channelName = nodeName(doc.Nodes[*channel.Target.Node], int(*channel.Target.Node))
		}

		var animChannel *AnimationChannel

		switch channel.Target.Path {
		case gltf.TRSTranslation:
			animChannel = anim.NewNode(channelName).Position
		case gltf.TRSRotation:
			animChannel = anim.NewNode(channelName).Rotation
		case gltf.TRSScale:
			animChannel = anim.NewNode(channelName).Scale
		default:
			Logger().Debug("skipping unsupported animation channel", "animation", anim.Name, "node", channelName)
			continue
		}

		if sampler.Interpolation == gltf.InterpolationStep {
			Logger().Debug("step interpolation is eased like any other channel", "animation", anim.Name, "node", channelName)
		}

		id, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Input], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "reading input of channel %d", c)
		}

		inputData, ok := id.([]float32)
		if !ok {
			return nil, errors.Errorf("channel %d: input accessor isn't scalar float data", c)
		}

		od, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Output], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "reading output of channel %d", c)
		}

		var values []mgl64.Vec4

		switch outputData := od.(type) {
		case [][3]float32:
			for _, p := range outputData {
				values = append(values, mgl64.Vec4{float64(p[0]), float64(p[1]), float64(p[2]), 0})
			}
		case [][4]float32:
			for _, p := range outputData {
				values = append(values, mgl64.Vec4{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])})
			}
		default:
			return nil, errors.Errorf("channel %d: unsupported output accessor data %T", c, od)
		}

		// Cubic spline samplers store an in-tangent, the value, and an out-tangent for every key; only the values are used.
		stride, offset := 1, 0
		if sampler.Interpolation == gltf.InterpolationCubicSpline {
			stride, offset = 3, 1
		}

		for i, t := range inputData {

			valueIndex := i*stride + offset
			if valueIndex >= len(values) {
				return nil, errors.Errorf("channel %d: %d keys but only %d values", c, len(inputData), len(values))
			}

			if _, err := animChannel.NewKey(float64(t), values[valueIndex]); err != nil {
				return nil, errors.Wrapf(err, "channel %d (%s of %q)", c, animChannel.Kind, channelName)
			}

		}

	}

	return anim, nil

}

func loadGLTFCamera(gltfCam *gltf.Camera, name string, loadOptions *GLTFLoadOptions) *Camera {

	camWidth := loadOptions.CameraWidth
	camHeight := loadOptions.CameraHeight

	if camWidth <= 0 || camHeight <= 0 {
		camWidth = 640
		camHeight = 360
		if gltfCam.Perspective != nil && gltfCam.Perspective.AspectRatio != nil && *gltfCam.Perspective.AspectRatio > 0 {
			camWidth = int(math.Round(float64(camHeight) * float64(*gltfCam.Perspective.AspectRatio)))
		}
	}

	newCam := NewCamera(name, camWidth, camHeight)

	if gltfCam.Perspective != nil {
		newCam.SetNear(float64(gltfCam.Perspective.Znear))
		if gltfCam.Perspective.Zfar != nil {
			newCam.SetFar(float64(*gltfCam.Perspective.Zfar))
		}
		newCam.SetFieldOfView(mgl64.RadToDeg(float64(gltfCam.Perspective.Yfov)))
	} else {
		Logger().Warn("only perspective cameras are supported; using default perspective", "camera", name)
	}

	return newCam

}

func loadGLTFLight(lightData *lightspunctual.Light, name string) *Light {

	var light *Light

	switch lightData.Type {
	case lightspunctual.TypeDirectional:
		light = NewLight(name, LightDirectional)
	case lightspunctual.TypePoint:
		light = NewLight(name, LightPoint)
	default:
		// Any unsupported light type just gets turned into an ambient light
		light = NewLight(name, LightAmbient)
	}

	light.Color = mgl64.Vec3{float64(lightData.Color[0]), float64(lightData.Color[1]), float64(lightData.Color[2])}

	if lightData.Intensity != nil {
		light.Energy = float64(*lightData.Intensity)
		if light.Kind != LightDirectional {
			light.Energy /= 80 // Point lights are exported in watts
		}
	}

	if lightData.Range != nil && !math.IsInf(float64(*lightData.Range), 0) {
		light.Range = float64(*lightData.Range)
	}

	return light

}
