package heliscene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Properties is an unordered set of named values carried on a Node, used to tag Nodes (for example, marking which Nodes
// are rotors) or to carry data from an imported file's "extras".
type Properties struct {
	props map[string]*Property
}

// NewProperties returns a new, empty Properties object.
func NewProperties() *Properties {
	return &Properties{props: map[string]*Property{}}
}

// Clone returns a copy of the Properties object. Values are copied shallowly.
func (props *Properties) Clone() *Properties {
	newProps := NewProperties()
	for k, v := range props.props {
		newProps.Add(k).Set(v.Value)
	}
	return newProps
}

// Clear removes every property.
func (props *Properties) Clear() {
	props.props = map[string]*Property{}
}

// Remove removes the named property.
func (props *Properties) Remove(propName string) {
	delete(props.props, propName)
}

// Has returns true if the Properties object has properties by all of the names specified, and false otherwise.
func (props *Properties) Has(propNames ...string) bool {
	for _, name := range propNames {
		if _, exists := props.props[name]; !exists {
			return false
		}
	}
	return true
}

// Add returns the named property, creating it (with a nil value) if it doesn't exist yet.
func (props *Properties) Add(propName string) *Property {
	if _, ok := props.props[propName]; !ok {
		props.props[propName] = &Property{}
	}
	return props.props[propName]
}

// Get returns the named property, or nil if it doesn't exist.
func (props *Properties) Get(propName string) *Property {
	return props.props[propName]
}

// Names returns the names of every property, sorted.
func (props *Properties) Names() []string {
	names := make([]string, 0, len(props.props))
	for name := range props.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of properties.
func (props *Properties) Count() int {
	return len(props.props)
}

// Property is a single named value on a Node.
type Property struct {
	Value any
}

// Set sets the property's value.
func (prop *Property) Set(value any) {
	prop.Value = value
}

// IsBool returns true if the Property is a boolean value.
func (prop *Property) IsBool() bool {
	_, ok := prop.Value.(bool)
	return ok
}

// AsBool returns the Property's value as a bool, or false if it isn't one.
func (prop *Property) AsBool() bool {
	b, _ := prop.Value.(bool)
	return b
}

// IsString returns true if the Property is a string.
func (prop *Property) IsString() bool {
	_, ok := prop.Value.(string)
	return ok
}

// AsString returns the Property's value as a string, or an empty string if it isn't one.
func (prop *Property) AsString() string {
	s, _ := prop.Value.(string)
	return s
}

// IsNumber returns true if the Property is a float64 or an int.
func (prop *Property) IsNumber() bool {
	switch prop.Value.(type) {
	case float64, int:
		return true
	}
	return false
}

// AsFloat64 returns the Property's value as a float64. Ints are converted; anything else returns 0.
func (prop *Property) AsFloat64() float64 {
	switch v := prop.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// IsVec3 returns true if the Property is a 3D vector, either as an mgl64.Vec3 or as a list of three numbers (as decoded
// from JSON).
func (prop *Property) IsVec3() bool {
	_, ok := prop.vec3()
	return ok
}

// AsVec3 returns the Property's value as a 3D vector, or a zero vector if it isn't one.
func (prop *Property) AsVec3() mgl64.Vec3 {
	v, _ := prop.vec3()
	return v
}

func (prop *Property) vec3() (mgl64.Vec3, bool) {

	switch v := prop.Value.(type) {

	case mgl64.Vec3:
		return v, true

	case []any:
		if len(v) != 3 {
			return mgl64.Vec3{}, false
		}
		out := mgl64.Vec3{}
		for i, component := range v {
			f, ok := component.(float64)
			if !ok {
				return mgl64.Vec3{}, false
			}
			out[i] = f
		}
		return out, true

	}

	return mgl64.Vec3{}, false

}
