package component

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/physics"
)

// PhysicsBody ties a transform to a rigid body. Velocity requested during an
// update is applied to the body, and after the world steps the body centre
// is copied back into the transform.
type PhysicsBody struct {
	transform *Transform
	body      *physics.Body
	vx, vy    float64
	pending   bool
	disposed  bool
}

func NewPhysicsBody(t *Transform, body *physics.Body) (*PhysicsBody, error) {
	if t == nil || body == nil {
		return nil, fmt.Errorf("%w: physics body needs a transform and a body", common.ErrInvalidArgument)
	}
	return &PhysicsBody{transform: t, body: body}, nil
}

// SetVelocity queues a velocity for the next update.
func (p *PhysicsBody) SetVelocity(vx, vy float64) {
	p.vx, p.vy = vx, vy
	p.pending = true
}

func (p *PhysicsBody) Velocity() (float64, float64) {
	return p.body.Velocity()
}

func (p *PhysicsBody) Body() *physics.Body {
	return p.body
}

func (p *PhysicsBody) Update(float64) {
	if p.disposed || !p.pending {
		return
	}
	p.body.SetVelocity(p.vx, p.vy)
	p.pending = false
}

func (p *PhysicsBody) PostUpdate() {
	if p.disposed || p.body.Removed() {
		return
	}
	cx, cy := p.body.Position()
	p.transform.X = cx - p.transform.Width/2
	p.transform.Y = cy - p.transform.Height/2
}

func (p *PhysicsBody) Dispose() {
	if p.disposed {
		return
	}
	p.body.Remove()
	p.disposed = true
}

func (p *PhysicsBody) Disposed() bool { return p.disposed }
