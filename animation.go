package heliscene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ChannelKind indicates which property of a Node an AnimationChannel drives.
type ChannelKind int

const (
	ChannelPosition ChannelKind = iota
	ChannelRotation             // Rotation channels hold quaternions (X, Y, Z, W) and are interpolated spherically.
	ChannelScale
)

func (kind ChannelKind) String() string {
	switch kind {
	case ChannelPosition:
		return "position"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	}
	return "unknown"
}

// AnimationChannel is a time series of keys animating a single property of a Node.
type AnimationChannel struct {
	Kind      ChannelKind
	keys      KeyList
	animation *SceneAnimation
}

func newAnimationChannel(kind ChannelKind, animation *SceneAnimation) *AnimationChannel {
	return &AnimationChannel{
		Kind:      kind,
		animation: animation,
	}
}

// NewKey adds a key to the channel, extending the owning SceneAnimation's start and end times to include it.
// Keys earlier than the channel's last key are rejected with ErrKeyOutOfOrder.
func (channel *AnimationChannel) NewKey(time float64, value mgl64.Vec4) (*AnimationKey, error) {

	key, err := channel.keys.NewKey(time, value)
	if err != nil {
		return nil, err
	}

	if channel.animation != nil {
		channel.animation.updateDuration(time)
	}

	return key, nil

}

// Keys returns the channel's KeyList.
func (channel *AnimationChannel) Keys() *KeyList {
	return &channel.keys
}

// bracket returns the keys around t and the eased blend factor between them. If only one key applies, it's returned as low
// with a nil high.
func (channel *AnimationChannel) bracket(t float64) (low, high *AnimationKey, percent float64) {

	low, high = channel.keys.Keys(t)

	if low == nil {
		return high, nil, 0
	}

	if high == nil || high.Time == low.Time {
		return low, nil, 0
	}

	return low, high, Smoothstep((t - low.Time) / (high.Time - low.Time))

}

// CurrentValue returns the channel's value at time t. Between two keys, the values are blended using a smoothstep-eased
// fraction, so motion eases in and out of every key. Before the first key the first value is held, and after the last key
// the last value is held. A channel with no keys returns the zero vector.
func (channel *AnimationChannel) CurrentValue(t float64) mgl64.Vec4 {

	low, high, c := channel.bracket(t)

	if low == nil {
		return mgl64.Vec4{}
	}

	if high == nil {
		return low.Value
	}

	return low.Value.Mul(1 - c).Add(high.Value.Mul(c))

}

// CurrentQuatValue returns the channel's value at time t as a quaternion, spherically interpolating between keys along the
// shortest arc using the same eased fraction as CurrentValue. A channel with no keys returns the identity quaternion.
func (channel *AnimationChannel) CurrentQuatValue(t float64) mgl64.Quat {

	low, high, c := channel.bracket(t)

	if low == nil {
		return mgl64.QuatIdent()
	}

	if high == nil {
		return Vec4ToQuaternion(low.Value)
	}

	return Slerp(Vec4ToQuaternion(low.Value), Vec4ToQuaternion(high.Value), c)

}

// AnimationNode holds the position, rotation, and scale channels animating a single named Node. It's matched to a live Node
// by name when its SceneAnimation is bound.
type AnimationNode struct {
	name      string
	Position  *AnimationChannel
	Rotation  *AnimationChannel
	Scale     *AnimationChannel
	node      INode
	animation *SceneAnimation
}

func newAnimationNode(name string, animation *SceneAnimation) *AnimationNode {
	return &AnimationNode{
		name:      name,
		Position:  newAnimationChannel(ChannelPosition, animation),
		Rotation:  newAnimationChannel(ChannelRotation, animation),
		Scale:     newAnimationChannel(ChannelScale, animation),
		animation: animation,
	}
}

// Name returns the name of the Node this AnimationNode animates.
func (animNode *AnimationNode) Name() string {
	return animNode.name
}

// Channel returns the AnimationNode's channel of the given kind.
func (animNode *AnimationNode) Channel(kind ChannelKind) *AnimationChannel {
	switch kind {
	case ChannelRotation:
		return animNode.Rotation
	case ChannelScale:
		return animNode.Scale
	}
	return animNode.Position
}

// Bind sets the live Node this AnimationNode writes to. Passing nil unbinds it.
func (animNode *AnimationNode) Bind(node INode) {
	animNode.node = node
}

// Bound returns the live Node this AnimationNode writes to, or nil if it's unbound.
func (animNode *AnimationNode) Bound() INode {
	return animNode.node
}

// Update evaluates the AnimationNode's channels at time t and writes the results onto the bound Node, marking its transform
// dirty. Channels without keys are skipped, leaving that property of the Node as it was. Unbound AnimationNodes do nothing.
func (animNode *AnimationNode) Update(t float64) {

	if animNode.node == nil {
		return
	}

	if animNode.Position.keys.Len() > 0 {
		animNode.node.SetPositionVec(animNode.Position.CurrentValue(t).Vec3())
	}

	if animNode.Rotation.keys.Len() > 0 {
		animNode.node.SetRotationQuat(animNode.Rotation.CurrentQuatValue(t))
	}

	if animNode.Scale.keys.Len() > 0 {
		animNode.node.SetScaleVec(animNode.Scale.CurrentValue(t).Vec3())
	}

}

// SceneAnimation is a named animation made up of AnimationNodes, each animating one Node of a scene. The SceneAnimation
// tracks its own start and end times from every key added to it, and evaluates all of its AnimationNodes at its current time
// when updated.
//
// A SceneAnimation doesn't advance or loop on its own; SetCurrentTime() is its only clock, and whatever drives it (like an
// AnimationPlayer) is responsible for wrapping the time back to StartTime() once it passes EndTime().
type SceneAnimation struct {
	Name        string
	nodes       map[string]*AnimationNode
	order       []*AnimationNode
	currentTime float64
	startTime   float64
	endTime     float64
	hasKeys     bool
}

// NewSceneAnimation creates a new, empty SceneAnimation.
func NewSceneAnimation(name string) *SceneAnimation {
	return &SceneAnimation{
		Name:  name,
		nodes: map[string]*AnimationNode{},
	}
}

// NewNode returns the AnimationNode animating the Node of the given name, creating it if it doesn't exist yet.
func (anim *SceneAnimation) NewNode(name string) *AnimationNode {

	if existing, ok := anim.nodes[name]; ok {
		return existing
	}

	animNode := newAnimationNode(name, anim)
	anim.nodes[name] = animNode
	anim.order = append(anim.order, animNode)
	return animNode

}

// Node returns the AnimationNode for the given Node name, or nil if there isn't one.
func (anim *SceneAnimation) Node(name string) *AnimationNode {
	return anim.nodes[name]
}

// Nodes returns the SceneAnimation's AnimationNodes in the order they were created.
func (anim *SceneAnimation) Nodes() []*AnimationNode {
	return append([]*AnimationNode{}, anim.order...)
}

func (anim *SceneAnimation) updateDuration(t float64) {

	if !anim.hasKeys {
		anim.startTime = t
		anim.endTime = t
		anim.hasKeys = true
		return
	}

	if t < anim.startTime {
		anim.startTime = t
	}

	if t > anim.endTime {
		anim.endTime = t
	}

}

// StartTime returns the time of the earliest key in the SceneAnimation.
func (anim *SceneAnimation) StartTime() float64 {
	return anim.startTime
}

// EndTime returns the time of the latest key in the SceneAnimation.
func (anim *SceneAnimation) EndTime() float64 {
	return anim.endTime
}

// Duration returns the span between the earliest and latest keys in the SceneAnimation. It's never negative.
func (anim *SceneAnimation) Duration() float64 {
	return anim.endTime - anim.startTime
}

// SetCurrentTime sets the time the SceneAnimation is evaluated at on the next Update().
func (anim *SceneAnimation) SetCurrentTime(t float64) {
	anim.currentTime = t
}

// CurrentTime returns the time the SceneAnimation is evaluated at.
func (anim *SceneAnimation) CurrentTime() float64 {
	return anim.currentTime
}

// Update evaluates every AnimationNode at the current time, writing the results onto their bound Nodes.
func (anim *SceneAnimation) Update() {
	for _, animNode := range anim.order {
		animNode.Update(anim.currentTime)
	}
}

// Bind binds every AnimationNode to the Node returned by resolver for its name. AnimationNodes the resolver returns nil for
// are left unbound; not every animated name needs a live Node. It returns how many AnimationNodes were bound and how many
// weren't.
func (anim *SceneAnimation) Bind(resolver func(name string) INode) (bound, missing int) {

	for _, animNode := range anim.order {

		node := resolver(animNode.name)
		animNode.Bind(node)

		if node == nil {
			missing++
			Logger().Debug("animation node has no matching scene node", "animation", anim.Name, "node", animNode.name)
			continue
		}

		bound++

	}

	return

}

// BindScene binds the SceneAnimation's AnimationNodes to the Nodes of the same name in the given Scene.
func (anim *SceneAnimation) BindScene(scene *Scene) (bound, missing int) {
	return anim.Bind(scene.FindNode)
}

// BindHierarchy binds the SceneAnimation's AnimationNodes to the Nodes of the same name found in root's hierarchy (including
// root itself).
func (anim *SceneAnimation) BindHierarchy(root INode) (bound, missing int) {
	return anim.Bind(root.FindByName)
}
