package heliscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightKind indicates what sort of light a Light is.
type LightKind int

const (
	LightAmbient     LightKind = iota // LightAmbient lights every surface equally, regardless of position or facing.
	LightPoint                        // LightPoint emits light in all directions from its world position.
	LightDirectional                  // LightDirectional emits parallel light along its local -Z axis (like the sun).
)

func (kind LightKind) String() string {
	switch kind {
	case LightAmbient:
		return "ambient"
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	}
	return "unknown"
}

// Light is a Node that emits light. Lights take part in the hierarchy like any other Node, so a point light
// parented to a helicopter's fuselage moves with it.
type Light struct {
	*Node
	Kind  LightKind
	Color mgl64.Vec3 // Color is the color of the Light.
	// Energy is the overall energy of the Light. Internally, technically there's no difference between a brighter color and a
	// higher energy, but this is here for convenience / adherance to glTF / 3D modelers.
	Energy float64
	// Range is the distance after which a point light fully attenuates. If this is 0 (the default), it falls off using
	// something akin to the inverse square law.
	Range float64
	On    bool // If the light is on and contributing to the scene.
}

// NewLight creates a new, unattached white Light of the given kind with an energy of 1.
func NewLight(name string, kind LightKind) *Light {

	light := &Light{
		Node:   NewNode(name),
		Kind:   kind,
		Color:  mgl64.Vec3{1, 1, 1},
		Energy: 1,
		On:     true,
	}

	light.Node.setSelf(light)

	return light

}

// Type returns the NodeType for this object.
func (light *Light) Type() NodeType {
	switch light.Kind {
	case LightAmbient:
		return NodeTypeAmbientLight
	case LightPoint:
		return NodeTypePointLight
	case LightDirectional:
		return NodeTypeDirectionalLight
	}
	return NodeTypeLight
}

// WorldDirection returns the normalized world-space direction the Light points in (its local -Z axis). This is
// only meaningful for directional lights.
func (light *Light) WorldDirection() mgl64.Vec3 {
	return safeNormalize(light.Transform().Normal().Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3())
}

// Illuminate returns the color the Light contributes to a surface at the given world-space point facing the given
// world-space (normalized) normal.
func (light *Light) Illuminate(point, normal mgl64.Vec3) mgl64.Vec3 {

	if !light.On {
		return mgl64.Vec3{}
	}

	var diffuseFactor float64

	switch light.Kind {

	case LightAmbient:
		diffuseFactor = 1

	case LightDirectional:
		diffuseFactor = math.Max(normal.Dot(light.WorldDirection().Mul(-1)), 0)

	case LightPoint:

		lightPos := light.WorldPosition().Vec3()
		diffuse := math.Max(normal.Dot(safeNormalize(lightPos.Sub(point))), 0)
		delta := lightPos.Sub(point)
		distance := delta.Dot(delta)

		if light.Range == 0 {
			diffuseFactor = diffuse * (1.0 / (1.0 + (0.1 * distance))) * 2
		} else {
			pd := light.Range * light.Range
			diffuseFactor = diffuse * math.Max(math.Min(1.0-math.Pow(distance/pd, 4), 1), 0)
		}

	}

	return light.Color.Mul(diffuseFactor * light.Energy)

}
