// Package screen drives a screen at a fixed update rate and renders it once
// per frame through a world-space and a screen-space batch.
package screen

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
)

// Stepper receives the fixed-rate updates of a Loop.
type Stepper interface {
	Update(dt float64)
	PostUpdate()
}

// Loop turns variable frame deltas into fixed update steps. Each frame adds
// at most MaxAccumulator seconds, so a long stall cannot trigger a burst of
// catch-up updates.
type Loop struct {
	fixedStep      float64
	maxAccumulator float64
	accumulator    float64

	window  float64
	frames  int
	updates int
	fps     int
	ups     int
}

func NewLoop(fixedStep, maxAccumulator float64) (*Loop, error) {
	if fixedStep <= 0 || maxAccumulator <= 0 {
		return nil, fmt.Errorf("%w: loop step %v max accumulator %v", common.ErrInvalidArgument, fixedStep, maxAccumulator)
	}
	return &Loop{fixedStep: fixedStep, maxAccumulator: maxAccumulator}, nil
}

// Advance accumulates delta and runs as many Update/PostUpdate pairs as fit.
// It returns how many ran.
func (l *Loop) Advance(delta float64, s Stepper) int {
	if delta < 0 {
		delta = 0
	}
	l.accumulator += min(delta, l.maxAccumulator)

	n := 0
	for l.accumulator >= l.fixedStep {
		s.Update(l.fixedStep)
		l.accumulator -= l.fixedStep
		s.PostUpdate()
		l.updates++
		n++
	}

	l.sample(delta)
	return n
}

// sample publishes FPS and UPS once per second of frame time.
func (l *Loop) sample(delta float64) {
	l.frames++
	l.window += delta
	if l.window < 1 {
		return
	}
	l.fps = l.frames
	l.ups = l.updates
	l.frames = 0
	l.updates = 0
	l.window = 0
}

func (l *Loop) FixedStep() float64 { return l.fixedStep }

// Accumulator is the time carried into the next frame.
func (l *Loop) Accumulator() float64 { return l.accumulator }

// FPS is the frame count of the last full one-second window.
func (l *Loop) FPS() int { return l.fps }

// UPS is the update count of the last full one-second window.
func (l *Loop) UPS() int { return l.ups }
