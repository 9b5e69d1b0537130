package heliscene

import (
	"sort"

	"github.com/pkg/errors"
)

// NodeList is an ordered list of Nodes that owns them; every Node's children are held in a NodeList, as are a Scene's root
// Nodes. IDs are handed out by the list in insertion order, so within one list, a higher ID always means a later insertion.
// A Node appears in at most one NodeList at a time.
type NodeList struct {
	owner  INode // The Node whose children this list holds; nil for a Scene's roots
	items  []INode
	nextID int
}

// Owner returns the Node whose children this list holds, or nil for a Scene's root list.
func (list *NodeList) Owner() INode {
	return list.owner
}

// NewNode creates a new Node with the given name and appends it to the list.
func (list *NodeList) NewNode(name string) *Node {
	node := NewNode(name)
	list.attach(node)
	return node
}

// NewCamera creates a new Camera with the given name and viewport size and appends it to the list.
func (list *NodeList) NewCamera(name string, w, h int) *Camera {
	camera := NewCamera(name, w, h)
	list.attach(camera)
	return camera
}

// NewLight creates a new Light of the given kind and appends it to the list.
func (list *NodeList) NewLight(name string, kind LightKind) *Light {
	light := NewLight(name, kind)
	list.attach(light)
	return light
}

// Add appends existing Nodes to the list, detaching them from whichever list owned them before and giving them new IDs.
// Adding a Node that's already in this list does nothing. If a Node is nil or is an ancestor of (or is) this list's owner,
// Add stops and returns an error; Nodes before it in the argument list stay added.
func (list *NodeList) Add(nodes ...INode) error {

	for _, n := range nodes {

		if n == nil || n.node() == nil {
			return ErrNilNode
		}

		base := n.node()

		for ancestor := list.owner; ancestor != nil; ancestor = ancestor.Parent() {
			if ancestor.node() == base {
				return errors.Wrapf(ErrCycle, "can't add %q under %q", base.name, list.owner.Name())
			}
		}

		if base.list == list {
			continue
		}

		if base.list != nil {
			base.list.remove(base)
		}

		list.attach(base.self)

	}

	return nil

}

func (list *NodeList) attach(n INode) {
	base := n.node()
	base.id = list.nextID
	base.list = list
	base.dirtyTransform()
	list.nextID++
	list.items = append(list.items, n)
}

// Remove removes the given Nodes from the list, leaving them unattached (with an ID of -1). Nodes not in the list are ignored.
func (list *NodeList) Remove(nodes ...INode) {
	for _, n := range nodes {
		if n != nil && n.node() != nil {
			list.remove(n.node())
		}
	}
}

func (list *NodeList) remove(base *Node) bool {

	index := list.indexOf(base)
	if index < 0 {
		return false
	}

	list.items[index] = nil
	list.items = append(list.items[:index], list.items[index+1:]...)

	base.list = nil
	base.id = -1
	base.dirtyTransform()

	return true

}

func (list *NodeList) indexOf(base *Node) int {
	for i, n := range list.items {
		if n.node() == base {
			return i
		}
	}
	return -1
}

// Len returns the number of Nodes in the list.
func (list *NodeList) Len() int {
	return len(list.items)
}

// At returns the Node at the given index.
func (list *NodeList) At(index int) INode {
	return list.items[index]
}

// Items returns a copy of the list's Nodes, in insertion order.
func (list *NodeList) Items() []INode {
	return append(make([]INode, 0, len(list.items)), list.items...)
}

// ByID returns the Node in the list with the given ID, or nil if there isn't one.
func (list *NodeList) ByID(id int) INode {
	// IDs are ascending in list order, so the list is searchable
	index := sort.Search(len(list.items), func(i int) bool { return list.items[i].ID() >= id })
	if index < len(list.items) && list.items[index].ID() == id {
		return list.items[index]
	}
	return nil
}

// ByName returns the first Node directly in the list with the given name, or nil if there isn't one.
func (list *NodeList) ByName(name string) INode {
	for _, n := range list.items {
		if n.Name() == name {
			return n
		}
	}
	return nil
}
