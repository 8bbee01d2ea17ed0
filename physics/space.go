// Package physics adapts the Chipmunk rigid-body solver to the world manager's
// step contract.
package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sketchbook/common"
)

// World is the physics contract the world manager steps once per fixed update.
type World interface {
	Step(dt float64, velocityIterations, positionIterations int)
	Dispose()
}

// Space owns a Chipmunk space and every body created through it.
type Space struct {
	space    *cp.Space
	bodies   []*Body
	steps    int
	disposed bool
}

// NewSpace creates a space with the given gravity in pixels/s².
func NewSpace(gravityX, gravityY float64) *Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: gravityX, Y: gravityY})
	return &Space{space: space}
}

// Space returns the underlying Chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// Step advances the simulation. Chipmunk has a single solver iteration count,
// so the velocity and position budgets are summed.
func (s *Space) Step(dt float64, velocityIterations, positionIterations int) {
	if s == nil || s.disposed || s.space == nil || dt <= 0 {
		return
	}
	if iters := velocityIterations + positionIterations; iters > 0 {
		s.space.Iterations = uint(iters)
	}
	s.space.Step(dt)
	s.steps++
}

// Steps reports how many times the space was advanced.
func (s *Space) Steps() int {
	if s == nil {
		return 0
	}
	return s.steps
}

// Dispose removes every tracked body. Later steps are no-ops.
func (s *Space) Dispose() {
	if s == nil || s.disposed {
		return
	}
	for _, b := range s.bodies {
		b.remove()
	}
	s.bodies = nil
	s.space = nil
	s.disposed = true
}

func (s *Space) Disposed() bool {
	return s == nil || s.disposed
}

// AddBox creates a dynamic box body centred on (x, y) with a fixed rotation.
func (s *Space) AddBox(x, y, w, h, mass float64) (*Body, error) {
	if s == nil || s.disposed || s.space == nil {
		return nil, fmt.Errorf("%w: physics space disposed", common.ErrInvalidState)
	}
	if w <= 0 || h <= 0 || mass <= 0 {
		return nil, fmt.Errorf("%w: box %vx%v mass %v", common.ErrInvalidArgument, w, h, mass)
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewBox(body, w, h, 0)
	shape.SetFriction(0.8)

	s.space.AddBody(body)
	s.space.AddShape(shape)

	b := &Body{owner: s, body: body, shape: shape}
	s.bodies = append(s.bodies, b)
	return b, nil
}

// Body is a handle to a body owned by a Space.
type Body struct {
	owner   *Space
	body    *cp.Body
	shape   *cp.Shape
	removed bool
}

func (b *Body) Position() (float64, float64) {
	if b == nil || b.body == nil {
		return 0, 0
	}
	p := b.body.Position()
	return p.X, p.Y
}

func (b *Body) SetPosition(x, y float64) {
	if b == nil || b.body == nil || b.removed {
		return
	}
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (b *Body) Velocity() (float64, float64) {
	if b == nil || b.body == nil {
		return 0, 0
	}
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *Body) SetVelocity(vx, vy float64) {
	if b == nil || b.body == nil || b.removed {
		return
	}
	b.body.SetVelocity(vx, vy)
}

func (b *Body) Removed() bool {
	return b == nil || b.removed
}

// Remove takes the body out of its space.
func (b *Body) Remove() {
	if b == nil || b.removed {
		return
	}
	b.remove()
	if b.owner == nil {
		return
	}
	for i, other := range b.owner.bodies {
		if other == b {
			b.owner.bodies = append(b.owner.bodies[:i], b.owner.bodies[i+1:]...)
			break
		}
	}
}

func (b *Body) remove() {
	if b.removed {
		return
	}
	b.removed = true
	if b.owner == nil || b.owner.space == nil {
		return
	}
	if b.shape != nil {
		b.owner.space.RemoveShape(b.shape)
	}
	if b.body != nil {
		b.owner.space.RemoveBody(b.body)
	}
}
