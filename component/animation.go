package component

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
)

// Frame is one atlas cell of an animation and how long it stays on screen.
// A zero Duration keeps the previous frame's duration.
type Frame struct {
	Col      int
	Row      int
	Duration float64
}

// TotalDuration sums the positive frame durations.
func TotalDuration(frames []Frame) float64 {
	total := 0.0
	for _, f := range frames {
		if f.Duration > 0 {
			total += f.Duration
		}
	}
	return total
}

// FrameEventFunc runs when playback arrives at a frame. key is empty for
// animations set through SetCurrentAnimation.
type FrameEventFunc func(key string, frame int)

type frameEvent struct {
	frame int
	fn    FrameEventFunc
}

// sequence gives every registered animation an identity, so re-playing the
// active animation can be detected even after a same-named overwrite.
type sequence struct {
	frames []Frame
}

// AnimationPlayer advances a frame index over time for named animations and
// fires per-frame callbacks at most once per pass through a frame.
type AnimationPlayer struct {
	animations map[string]*sequence
	events     map[string][]frameEvent
	fired      map[int]bool

	current       *sequence
	key           string
	index         int
	elapsed       float64
	frameDuration float64
	speed         float64
	looping       bool
	autoAdvance   bool
}

func NewAnimationPlayer() *AnimationPlayer {
	return &AnimationPlayer{
		animations:  make(map[string]*sequence),
		events:      make(map[string][]frameEvent),
		fired:       make(map[int]bool),
		speed:       1,
		looping:     true,
		autoAdvance: true,
	}
}

// AddAnimation registers frames under name, replacing any previous entry.
// Playback state is left alone.
func (p *AnimationPlayer) AddAnimation(name string, frames []Frame) error {
	if name == "" {
		return fmt.Errorf("%w: animation name is empty", common.ErrInvalidArgument)
	}
	if len(frames) == 0 {
		return fmt.Errorf("%w: animation %q has no frames", common.ErrInvalidArgument, name)
	}
	p.animations[name] = &sequence{frames: append([]Frame(nil), frames...)}
	if _, ok := p.events[name]; !ok {
		p.events[name] = nil
	}
	return nil
}

// AddFrameEvent registers fn to run when animation name reaches frame.
func (p *AnimationPlayer) AddFrameEvent(name string, frame int, fn FrameEventFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: nil frame event callback", common.ErrInvalidArgument)
	}
	seq, ok := p.animations[name]
	if !ok {
		return fmt.Errorf("%w: animation %q", common.ErrNotFound, name)
	}
	if frame < 0 || frame >= len(seq.frames) {
		return fmt.Errorf("%w: frame %d outside [0, %d]", common.ErrInvalidArgument, frame, len(seq.frames)-1)
	}
	p.events[name] = append(p.events[name], frameEvent{frame: frame, fn: fn})
	return nil
}

// RemoveFrameEvent drops every callback registered on frame of name.
func (p *AnimationPlayer) RemoveFrameEvent(name string, frame int) {
	evts, ok := p.events[name]
	if !ok {
		return
	}
	kept := evts[:0]
	for _, ev := range evts {
		if ev.frame != frame {
			kept = append(kept, ev)
		}
	}
	p.events[name] = kept
}

// ClearFrameEvents drops every callback of name.
func (p *AnimationPlayer) ClearFrameEvents(name string) {
	if _, ok := p.events[name]; ok {
		p.events[name] = nil
	}
}

// Play starts the animation registered as name. Playing the animation that is
// already active does nothing.
func (p *AnimationPlayer) Play(name string) error {
	if name == "" {
		return fmt.Errorf("%w: animation name is empty", common.ErrInvalidArgument)
	}
	seq, ok := p.animations[name]
	if !ok {
		return fmt.Errorf("%w: animation %q", common.ErrNotFound, name)
	}
	if seq == p.current {
		return nil
	}
	p.current = seq
	p.key = name
	p.looping = true
	p.index = 0
	p.elapsed = 0
	clear(p.fired)
	p.fireFrameEvents()
	return nil
}

// SetCurrentAnimation plays an unnamed animation. Frame events never fire for
// it because events are keyed by animation name.
func (p *AnimationPlayer) SetCurrentAnimation(frames []Frame) {
	if len(frames) == 0 {
		return
	}
	p.current = &sequence{frames: append([]Frame(nil), frames...)}
	p.key = ""
	p.index = 0
	p.elapsed = 0
	clear(p.fired)
}

// Update advances playback by dt seconds, at most one frame per call.
func (p *AnimationPlayer) Update(dt float64) {
	if !p.autoAdvance || p.current == nil || len(p.current.frames) == 0 {
		return
	}
	frames := p.current.frames

	p.elapsed += dt
	if d := frames[p.index].Duration; d > 0 {
		p.frameDuration = d
	}

	step := p.frameDuration / p.speed
	if p.elapsed < step {
		return
	}

	p.index++
	p.elapsed -= step

	if p.index >= len(frames) {
		if p.looping {
			p.index = 0
			clear(p.fired)
		} else {
			p.index = len(frames) - 1
			p.autoAdvance = false
		}
	}

	// On the terminal clamp the last frame was already marked when it was
	// entered, so this cannot fire it twice.
	p.fireFrameEvents()
}

func (p *AnimationPlayer) fireFrameEvents() {
	if p.key == "" || p.fired[p.index] {
		return
	}
	key, idx := p.key, p.index
	var due []FrameEventFunc
	for _, ev := range p.events[key] {
		if ev.frame == idx {
			due = append(due, ev.fn)
		}
	}
	if len(due) == 0 {
		return
	}
	p.fired[idx] = true
	for _, fn := range due {
		fn(key, idx)
	}
}

// SetSpeedToTargetDuration scales playback so one pass of the active
// animation lasts target seconds.
func (p *AnimationPlayer) SetSpeedToTargetDuration(target float64) {
	if p.current == nil || len(p.current.frames) == 0 || target <= 0 {
		return
	}
	total := TotalDuration(p.current.frames)
	if total == 0 {
		return
	}
	p.speed = total / target
}

func (p *AnimationPlayer) ResetSpeed() {
	p.speed = 1
}

func (p *AnimationPlayer) SetSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("%w: animation speed must be > 0, got %v", common.ErrInvalidArgument, speed)
	}
	p.speed = speed
	return nil
}

func (p *AnimationPlayer) Speed() float64 {
	return p.speed
}

// SetFrameIndex seeks to frame i and re-arms its events. Out-of-range
// indexes are ignored.
func (p *AnimationPlayer) SetFrameIndex(i int) error {
	if p.current == nil || len(p.current.frames) == 0 {
		return fmt.Errorf("%w: no animation is playing", common.ErrInvalidState)
	}
	if i < 0 || i >= len(p.current.frames) {
		return nil
	}
	p.index = i
	clear(p.fired)
	p.fireFrameEvents()
	return nil
}

func (p *AnimationPlayer) FrameIndex() int {
	return p.index
}

// CurrentFrame returns the frame on screen.
func (p *AnimationPlayer) CurrentFrame() (Frame, error) {
	if p.current == nil || len(p.current.frames) == 0 {
		return Frame{}, fmt.Errorf("%w: no animation is playing", common.ErrInvalidState)
	}
	return p.current.frames[p.index], nil
}

// CurrentAnimation returns the active frames, or nil.
func (p *AnimationPlayer) CurrentAnimation() []Frame {
	if p.current == nil {
		return nil
	}
	return p.current.frames
}

// Animation returns the frames registered as name.
func (p *AnimationPlayer) Animation(name string) ([]Frame, bool) {
	seq, ok := p.animations[name]
	if !ok {
		return nil, false
	}
	return seq.frames, true
}

func (p *AnimationPlayer) CurrentKey() string {
	return p.key
}

// Active reports whether the sequence registered as name is the one
// playing. It turns false once name is overwritten by AddAnimation.
func (p *AnimationPlayer) Active(name string) bool {
	seq, ok := p.animations[name]
	return ok && seq == p.current
}

func (p *AnimationPlayer) IsPlaying(name string) bool {
	return p.current != nil && p.key != "" && p.key == name
}

// Finished reports whether a non-looping animation has come to rest on its
// last frame.
func (p *AnimationPlayer) Finished() bool {
	if p.current == nil || len(p.current.frames) == 0 {
		return false
	}
	return !p.looping && p.index == len(p.current.frames)-1 && !p.autoAdvance
}

func (p *AnimationPlayer) SetLooping(looping bool) {
	p.looping = looping
}

func (p *AnimationPlayer) Looping() bool {
	return p.looping
}

func (p *AnimationPlayer) SetAutoAdvance(auto bool) {
	p.autoAdvance = auto
}

func (p *AnimationPlayer) AutoAdvance() bool {
	return p.autoAdvance
}
