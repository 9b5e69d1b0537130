package heliscene

import "math"

// FinishMode indicates what an AnimationPlayer does when its playhead runs off either end of its SceneAnimation.
type FinishMode int

const (
	FinishModeLoop     FinishMode = iota // FinishModeLoop wraps the playhead back around to the other end of the animation.
	FinishModePingPong                   // FinishModePingPong reflects the playhead and reverses the play direction.
	FinishModeStop                       // FinishModeStop clamps the playhead to the end it passed and stops playback.
)

// AnimationPlayer drives a SceneAnimation's clock from frame deltas, handling looping, ping-ponging, and stopping at the
// ends of the animation.
type AnimationPlayer struct {
	Animation  *SceneAnimation
	Playhead   float64 // Playhead is the current time of the animation, in seconds.
	PlaySpeed  float64 // PlaySpeed scales the time passed to Update(); negative values play in reverse.
	Playing    bool
	FinishMode FinishMode
	// OnFinish is called when the playhead passes the end of the animation in FinishModeLoop or FinishModeStop, or when it
	// returns to the start in FinishModePingPong.
	OnFinish func()
}

// NewAnimationPlayer returns a new AnimationPlayer that plays at normal speed and stops once it finishes.
func NewAnimationPlayer() *AnimationPlayer {
	return &AnimationPlayer{
		PlaySpeed:  1,
		FinishMode: FinishModeStop,
	}
}

// Play starts playing the given SceneAnimation from its start time. Calling Play with the animation that's already playing
// does nothing.
func (ap *AnimationPlayer) Play(animation *SceneAnimation) {

	if ap.Animation != animation || !ap.Playing {
		ap.Animation = animation
		ap.Playhead = animation.StartTime()
		ap.Playing = true
		ap.apply()
	}

}

// Stop pauses playback, leaving the playhead where it is.
func (ap *AnimationPlayer) Stop() {
	ap.Playing = false
}

// Update advances the playhead by dt (scaled by PlaySpeed), handles the animation's ends according to the FinishMode, and
// writes the animation's values at the new playhead onto its bound Nodes.
func (ap *AnimationPlayer) Update(dt float64) {

	if !ap.Playing || ap.Animation == nil {
		return
	}

	ap.Playhead += dt * ap.PlaySpeed

	start := ap.Animation.StartTime()
	end := ap.Animation.EndTime()
	length := end - start

	finished := false

	switch ap.FinishMode {

	case FinishModeLoop:

		if ap.Playhead > end || ap.Playhead < start {

			if length <= 0 {
				ap.Playhead = start
			} else if ap.Playhead > end {
				ap.Playhead = start + math.Mod(ap.Playhead-start, length)
			} else {
				ap.Playhead = end - math.Mod(start-ap.Playhead, length)
			}

			finished = true

		}

	case FinishModePingPong:

		if ap.Playhead > end {
			ap.Playhead = math.Max(end-(ap.Playhead-end), start)
			ap.PlaySpeed *= -1
		} else if ap.Playhead < start {
			ap.Playhead = math.Min(start+(start-ap.Playhead), end)
			ap.PlaySpeed *= -1
			finished = true
		}

	case FinishModeStop:

		if ap.Playhead > end || ap.Playhead < start {
			ap.Playhead = math.Max(math.Min(ap.Playhead, end), start)
			ap.Playing = false
			finished = true
		}

	}

	ap.apply()

	if finished && ap.OnFinish != nil {
		ap.OnFinish()
	}

}

func (ap *AnimationPlayer) apply() {
	ap.Animation.SetCurrentTime(ap.Playhead)
	ap.Animation.Update()
}
