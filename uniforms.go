package heliscene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// LightUniform is the per-frame data a renderer needs for one Light, in world space.
type LightUniform struct {
	Kind      LightKind
	Position  mgl64.Vec3
	Direction mgl64.Vec3 // Normalized; only meaningful for directional lights
	Color     mgl64.Vec3 // Color multiplied by energy
	Range     float64
}

// FrameUniforms is the per-frame data a renderer needs to draw a Scene: the active Camera's matrices and world position, and
// every Light that's switched on.
type FrameUniforms struct {
	View           mgl64.Mat4
	Projection     mgl64.Mat4
	ViewProjection mgl64.Mat4
	CameraPosition mgl64.Vec4
	Lights         []LightUniform
}

// FrameUniforms gathers the Scene's per-frame uniforms from its cached transforms, so Update() should be called first.
// The boolean return is false if the Scene has no active Camera.
func (scene *Scene) FrameUniforms() (FrameUniforms, bool) {

	camera := scene.activeCamera
	if camera == nil {
		return FrameUniforms{}, false
	}

	uniforms := FrameUniforms{
		View:           camera.ViewMatrix(),
		Projection:     camera.Projection(),
		CameraPosition: camera.WorldPosition(),
	}
	uniforms.ViewProjection = uniforms.Projection.Mul4(uniforms.View)

	for _, light := range scene.lights {

		if !light.On {
			continue
		}

		uniforms.Lights = append(uniforms.Lights, LightUniform{
			Kind:      light.Kind,
			Position:  light.WorldPosition().Vec3(),
			Direction: light.WorldDirection(),
			Color:     light.Color.Mul(light.Energy),
			Range:     light.Range,
		})

	}

	return uniforms, true

}

// Bytes packs the uniforms as little-endian float32 values, ready to be uploaded to a GPU buffer. The layout is the
// view-projection matrix (16 floats, column-major) and the camera position (4 floats), followed by three vec4s per light:
// (position, kind), (direction, range), and (color, 1).
func (uniforms FrameUniforms) Bytes() []byte {

	buf := make([]byte, 0, (16+4+len(uniforms.Lights)*12)*4)
	buf = appendMatrix(buf, uniforms.ViewProjection)
	buf = appendVec4(buf, uniforms.CameraPosition)

	for _, light := range uniforms.Lights {
		buf = appendVec4(buf, light.Position.Vec4(float64(light.Kind)))
		buf = appendVec4(buf, light.Direction.Vec4(light.Range))
		buf = appendVec4(buf, light.Color.Vec4(1))
	}

	return buf

}

// NodeUniforms is the per-draw data a renderer needs for one Node.
type NodeUniforms struct {
	World  mgl64.Mat4
	Normal mgl64.Mat4
}

// NewNodeUniforms returns the Node's cached world and normal matrices.
func NewNodeUniforms(node INode) NodeUniforms {
	transform := node.Transform()
	return NodeUniforms{
		World:  transform.World(),
		Normal: transform.Normal(),
	}
}

// Bytes packs the world and normal matrices (in that order) as little-endian, column-major float32 values.
func (uniforms NodeUniforms) Bytes() []byte {
	buf := make([]byte, 0, 32*4)
	buf = appendMatrix(buf, uniforms.World)
	return appendMatrix(buf, uniforms.Normal)
}
