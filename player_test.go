package heliscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlayerFixture returns a node bound to a two second animation that moves it along +X by one unit per second.
func newPlayerFixture(t *testing.T) (*Node, *SceneAnimation) {

	node := NewNode("node")
	anim := NewSceneAnimation("slide")
	track := anim.NewNode("node")

	for i := 0; i <= 2; i++ {
		_, err := track.Position.NewKey(float64(i), mgl64.Vec4{float64(i), 0, 0, 0})
		require.NoError(t, err)
	}

	anim.BindHierarchy(node)

	return node, anim

}

func TestPlayerPlay(t *testing.T) {

	node, anim := newPlayerFixture(t)
	node.SetPosition(5, 5, 5)

	player := NewAnimationPlayer()
	player.Play(anim)

	assert.True(t, player.Playing)
	assert.Equal(t, 0.0, player.Playhead)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, node.Position(), "playing applies the first frame immediately")

	player.Update(1)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, node.Position())

	// Playing the same animation again doesn't restart it
	player.Play(anim)
	assert.Equal(t, 1.0, player.Playhead)

	player.Stop()
	player.Update(0.5)
	assert.Equal(t, 1.0, player.Playhead)
	assert.Equal(t, 1.0, anim.CurrentTime())

}

func TestPlayerLoop(t *testing.T) {

	node, anim := newPlayerFixture(t)

	finished := 0
	player := NewAnimationPlayer()
	player.FinishMode = FinishModeLoop
	player.OnFinish = func() { finished++ }
	player.Play(anim)

	player.Update(1.5)
	assert.Equal(t, 0, finished)

	player.Update(1)
	assert.Equal(t, 0.5, player.Playhead)
	assert.Equal(t, 1, finished)
	assert.True(t, player.Playing)
	assert.Equal(t, anim.CurrentTime(), player.Playhead)
	assertVec3Equal(t, mgl64.Vec3{Smoothstep(0.5) * 1, 0, 0}, node.Position())

	// Playing backwards wraps around to the end
	player.PlaySpeed = -1
	player.Update(1)
	assert.Equal(t, 1.5, player.Playhead)
	assert.Equal(t, 2, finished)

}

func TestPlayerPingPong(t *testing.T) {

	_, anim := newPlayerFixture(t)

	finished := 0
	player := NewAnimationPlayer()
	player.FinishMode = FinishModePingPong
	player.OnFinish = func() { finished++ }
	player.Play(anim)

	player.Update(2.5)
	assert.Equal(t, 1.5, player.Playhead)
	assert.Equal(t, -1.0, player.PlaySpeed)
	assert.Equal(t, 0, finished, "bouncing off the end isn't a finish")

	player.Update(2)
	assert.Equal(t, 0.5, player.Playhead)
	assert.Equal(t, 1.0, player.PlaySpeed)
	assert.Equal(t, 1, finished)

}

func TestPlayerStop(t *testing.T) {

	node, anim := newPlayerFixture(t)

	finished := 0
	player := NewAnimationPlayer()
	player.OnFinish = func() { finished++ }
	player.Play(anim)

	require.Equal(t, FinishModeStop, player.FinishMode)

	player.Update(3)
	assert.Equal(t, 2.0, player.Playhead)
	assert.False(t, player.Playing)
	assert.Equal(t, 1, finished)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, node.Position())

	player.Update(1)
	assert.Equal(t, 1, finished, "a stopped player doesn't finish again")

}

func TestPlayerEmptyAnimation(t *testing.T) {

	player := NewAnimationPlayer()
	player.FinishMode = FinishModeLoop
	player.Play(NewSceneAnimation("empty"))

	player.Update(1)
	assert.Equal(t, 0.0, player.Playhead)

	var nothing AnimationPlayer
	assert.NotPanics(t, func() { nothing.Update(1) })

}
