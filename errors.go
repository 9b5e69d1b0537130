package heliscene

import "github.com/pkg/errors"

var (
	// ErrCycle is returned when attaching a Node would make it its own ancestor.
	ErrCycle = errors.New("attaching node would create a cycle")
	// ErrKeyOutOfOrder is returned when a key is added to a KeyList with a time earlier than the last key's.
	ErrKeyOutOfOrder = errors.New("animation key out of order")
	// ErrNilNode is returned when a nil Node is passed where a Node is required.
	ErrNilNode = errors.New("nil node")
)
