package heliscene

import (
	"regexp"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	nfSortModeNone = iota
	nfSortModeAxis
	nfSortModeDistance
)

// NodeFilter represents a chain of node filters, executed in sequence to collect the desired nodes out of an entire
// hierarchy. Filters are executed lazily, only once a finishing function (First(), INodes(), ForEach(), etc) is called, so
// a NodeFilter can be built once and run again each frame. Filter functions return a new NodeFilter, leaving the original
// as it was.
type NodeFilter struct {
	Filters  []func(INode) bool // The filters a Node must pass to be included.
	MaxDepth int                // How many levels below the starting point to search; less than zero searches everything.

	starts         []INode
	includeStarts  bool
	stopOnFiltered bool
	sortMode       int
	sortAxis       int
	sortTo         mgl64.Vec3
	reverseSort    bool
}

func newNodeFilter(includeStarts bool, starts ...INode) NodeFilter {
	return NodeFilter{
		MaxDepth:      -1,
		starts:        starts,
		includeStarts: includeStarts,
	}
}

func (nf NodeFilter) passes(node INode) bool {
	for _, filter := range nf.Filters {
		if !filter(node) {
			return false
		}
	}
	return true
}

// walk visits node and its descendants depth-first, calling visit for each Node that passes the filters. It returns false
// if visit asked to stop.
func (nf NodeFilter) walk(node INode, depth int, visit func(INode) bool) bool {

	passed := true

	if depth > 0 || nf.includeStarts {
		passed = nf.passes(node)
		if passed && !visit(node) {
			return false
		}
	}

	if nf.stopOnFiltered && !passed {
		return true
	}

	if nf.MaxDepth >= 0 && depth >= nf.MaxDepth {
		return true
	}

	for _, child := range node.node().children.items {
		if !nf.walk(child, depth+1, visit) {
			return false
		}
	}

	return true

}

func (nf NodeFilter) forEach(visit func(INode) bool) {
	startDepth := 0
	if nf.includeStarts {
		startDepth = 1
	}
	for _, start := range nf.starts {
		if !nf.walk(start, startDepth, visit) {
			return
		}
	}
}

func (nf NodeFilter) execute() []INode {

	out := []INode{}
	nf.forEach(func(node INode) bool {
		out = append(out, node)
		return true
	})

	switch nf.sortMode {
	case nfSortModeAxis:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].WorldPosition()[nf.sortAxis], out[j].WorldPosition()[nf.sortAxis]
			if nf.reverseSort {
				return a > b
			}
			return a < b
		})
	case nfSortModeDistance:
		sort.SliceStable(out, func(i, j int) bool {
			a := out[i].WorldPosition().Vec3().Sub(nf.sortTo).LenSqr()
			b := out[j].WorldPosition().Vec3().Sub(nf.sortTo).LenSqr()
			if nf.reverseSort {
				return a > b
			}
			return a < b
		})
	}

	return out

}

// ByFunc filters the selection of Nodes by the provided function, which returns true for Nodes to include.
func (nf NodeFilter) ByFunc(filterFunc func(node INode) bool) NodeFilter {
	nf.Filters = append(append([]func(INode) bool{}, nf.Filters...), filterFunc)
	return nf
}

// ByName filters the selection of Nodes down to those whose names are exactly the name given.
func (nf NodeFilter) ByName(name string) NodeFilter {
	return nf.ByFunc(func(node INode) bool { return node.Name() == name })
}

// ByRegex filters the selection of Nodes by matching their names against the given regular expression. Passing plain text
// selects Nodes whose names contain it. An invalid expression matches nothing.
func (nf NodeFilter) ByRegex(regexString string) NodeFilter {
	re, err := regexp.Compile(regexString)
	if err != nil {
		Logger().Warn("invalid node filter regex; nothing will match", "regex", regexString, "err", err)
		return nf.ByFunc(func(node INode) bool { return false })
	}
	return nf.ByFunc(func(node INode) bool { return re.MatchString(node.Name()) })
}

// ByType filters the selection of Nodes down to those that satisfy the NodeType given (see NodeType.Is()).
func (nf NodeFilter) ByType(nodeType NodeType) NodeFilter {
	return nf.ByFunc(func(node INode) bool { return node.Type().Is(nodeType) })
}

// ByProps filters the selection of Nodes down to those that have properties by all of the names given.
func (nf NodeFilter) ByProps(propNames ...string) NodeFilter {
	return nf.ByFunc(func(node INode) bool { return node.Properties().Has(propNames...) })
}

// ByProp filters the selection of Nodes down to those with a property of the given name and value.
func (nf NodeFilter) ByProp(propName string, propValue any) NodeFilter {
	return nf.ByFunc(func(node INode) bool {
		prop := node.Properties().Get(propName)
		return prop != nil && prop.Value == propValue
	})
}

// ByParentProps filters the selection of Nodes down to those whose parent has properties by all of the names given.
func (nf NodeFilter) ByParentProps(propNames ...string) NodeFilter {
	return nf.ByFunc(func(node INode) bool {
		return node.Parent() != nil && node.Parent().Properties().Has(propNames...)
	})
}

// Not filters out the Nodes given.
func (nf NodeFilter) Not(others ...INode) NodeFilter {
	return nf.ByFunc(func(node INode) bool {
		for _, other := range others {
			if node == other {
				return false
			}
		}
		return true
	})
}

// StopOnFiltered makes the NodeFilter skip the children of any Node that doesn't pass the filters.
func (nf NodeFilter) StopOnFiltered() NodeFilter {
	nf.stopOnFiltered = true
	return nf
}

// SetMaxDepth sets how many levels below the starting point the NodeFilter searches; 1 searches only direct children
// (or a Scene's roots), and a value less than zero searches the entire tree.
func (nf NodeFilter) SetMaxDepth(depth int) NodeFilter {
	nf.MaxDepth = depth
	return nf
}

// SortByX sorts the results of the NodeFilter by their world X position. Sorts do not combine.
func (nf NodeFilter) SortByX() NodeFilter {
	nf.sortMode, nf.sortAxis = nfSortModeAxis, 0
	return nf
}

// SortByY sorts the results of the NodeFilter by their world Y position. Sorts do not combine.
func (nf NodeFilter) SortByY() NodeFilter {
	nf.sortMode, nf.sortAxis = nfSortModeAxis, 1
	return nf
}

// SortByZ sorts the results of the NodeFilter by their world Z position. Sorts do not combine.
func (nf NodeFilter) SortByZ() NodeFilter {
	nf.sortMode, nf.sortAxis = nfSortModeAxis, 2
	return nf
}

// SortByDistance sorts the results of the NodeFilter by their world distance to the given point, closest first.
// Sorts do not combine.
func (nf NodeFilter) SortByDistance(to mgl64.Vec3) NodeFilter {
	nf.sortMode = nfSortModeDistance
	nf.sortTo = to
	return nf
}

// SortReverse reverses any sorting performed on the NodeFilter.
func (nf NodeFilter) SortReverse() NodeFilter {
	nf.reverseSort = true
	return nf
}

// ForEach calls the callback on each filtered Node in hierarchy order, stopping if it returns false. ForEach doesn't
// allocate a slice for the results, and so ignores sorting.
func (nf NodeFilter) ForEach(callback func(node INode) bool) {
	if nf.sortMode != nfSortModeNone {
		Logger().Warn("NodeFilter.ForEach() ignores sorting")
	}
	nf.forEach(callback)
}

// First returns the first Node in the NodeFilter; if the NodeFilter is empty, this function returns nil.
func (nf NodeFilter) First() INode {
	if nf.sortMode != nfSortModeNone {
		return nf.Get(0)
	}
	var result INode
	nf.forEach(func(node INode) bool { result = node; return false })
	return result
}

// Last returns the last Node in the NodeFilter; if the NodeFilter is empty, this function returns nil.
func (nf NodeFilter) Last() INode {
	out := nf.execute()
	if len(out) == 0 {
		return nil
	}
	return out[len(out)-1]
}

// Get returns the Node at the given index in the NodeFilter; if index is invalid (<0 or >= len(nodes)), this function
// returns nil.
func (nf NodeFilter) Get(index int) INode {
	out := nf.execute()
	if index < 0 || index >= len(out) {
		return nil
	}
	return out[index]
}

// Count returns the number of Nodes that pass the filters.
func (nf NodeFilter) Count() int {
	count := 0
	nf.forEach(func(INode) bool {
		count++
		return true
	})
	return count
}

// IsEmpty returns true if no Nodes pass the filters.
func (nf NodeFilter) IsEmpty() bool {
	return nf.First() == nil
}

// Index returns the index of the given Node in the NodeFilter's results, or -1 if it isn't in them.
func (nf NodeFilter) Index(node INode) int {
	for index, child := range nf.execute() {
		if child == node {
			return index
		}
	}
	return -1
}

// Contains returns true if the given Node passes the filters.
func (nf NodeFilter) Contains(node INode) bool {
	return nf.Index(node) >= 0
}

// INodes returns the NodeFilter's results as a slice of INodes.
func (nf NodeFilter) INodes() []INode {
	return nf.execute()
}

// Cameras returns the Cameras in the NodeFilter's results.
func (nf NodeFilter) Cameras() []*Camera {
	out := []*Camera{}
	for _, n := range nf.execute() {
		if camera, ok := n.(*Camera); ok {
			out = append(out, camera)
		}
	}
	return out
}

// Lights returns the Lights in the NodeFilter's results.
func (nf NodeFilter) Lights() []*Light {
	out := []*Light{}
	for _, n := range nf.execute() {
		if light, ok := n.(*Light); ok {
			out = append(out, light)
		}
	}
	return out
}
