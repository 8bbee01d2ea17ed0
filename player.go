package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/input"
	"github.com/milk9111/sketchbook/physics"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/world"
	"go.uber.org/zap"
)

const playerMass = 1

// Player walks in eight directions and casts wisps.
type Player struct {
	world.RenderableBase

	kind  *kind
	keys  *component.KeyController
	body  *component.PhysicsBody
	sheet *component.SpriteSheet
	anim  *component.AnimationPlayer

	// held counts the keys down per direction so two bindings of one
	// direction can overlap.
	held    [4]int
	casting bool

	limitW float64
	limitH float64
}

const (
	dirLeft = iota
	dirRight
	dirUp
	dirDown
)

// NewPlayer places a player centred on (x, y). A positive limit keeps it
// inside [0, limitW] x [0, limitH].
func NewPlayer(k *kind, space *physics.Space, poller input.Poller, x, y, limitW, limitH float64, events *component.FrameEventEmitter) (*Player, error) {
	spec := k.spec
	w, h := spec.Size.Width, spec.Size.Height
	t := component.NewTransform(x-w/2, y-h/2, spec.Z, w, h, false, false)

	p := &Player{
		RenderableBase: world.NewRenderableBase(k.class, t),
		kind:           k,
		limitW:         limitW,
		limitH:         limitH,
	}

	keys, err := component.NewKeyController(poller)
	if err != nil {
		return nil, err
	}
	bindings := []struct {
		key    ebiten.Key
		action component.KeyAction
	}{
		{ebiten.KeyA, p.hold(dirLeft)},
		{ebiten.KeyArrowLeft, p.hold(dirLeft)},
		{ebiten.KeyD, p.hold(dirRight)},
		{ebiten.KeyArrowRight, p.hold(dirRight)},
		{ebiten.KeyW, p.hold(dirUp)},
		{ebiten.KeyArrowUp, p.hold(dirUp)},
		{ebiten.KeyS, p.hold(dirDown)},
		{ebiten.KeyArrowDown, p.hold(dirDown)},
		{ebiten.KeySpace, p.cast},
	}
	for _, b := range bindings {
		if err := keys.Bind(b.key, b.action); err != nil {
			return nil, err
		}
	}
	p.keys = keys

	box, err := space.AddBox(x, y, w, h, playerMass)
	if err != nil {
		return nil, err
	}
	body, err := component.NewPhysicsBody(t, box)
	if err != nil {
		box.Remove()
		return nil, err
	}
	p.body = body

	sheet, anim, err := k.visual(events)
	if err != nil {
		box.Remove()
		return nil, err
	}
	p.sheet, p.anim = sheet, anim
	if err := p.AddVisual(sheet, anim); err != nil {
		box.Remove()
		return nil, err
	}

	p.AddComponent(keys)
	p.AddComponent(body)
	return p, nil
}

func (p *Player) hold(dir int) component.KeyAction {
	return func(pressed bool) {
		if pressed {
			p.held[dir]++
		} else if p.held[dir] > 0 {
			p.held[dir]--
		}
		p.steer()
	}
}

func (p *Player) cast(pressed bool) {
	if !pressed || p.casting {
		return
	}
	p.casting = true
	p.play("cast")
}

func (p *Player) steer() {
	vx, vy := 0.0, 0.0
	if p.held[dirLeft] > 0 {
		vx--
	}
	if p.held[dirRight] > 0 {
		vx++
	}
	if p.held[dirUp] > 0 {
		vy--
	}
	if p.held[dirDown] > 0 {
		vy++
	}
	if vx != 0 && vy != 0 {
		vx, vy = vx/math.Sqrt2, vy/math.Sqrt2
	}
	speed := p.kind.spec.Speed
	p.body.SetVelocity(vx*speed, vy*speed)

	switch {
	case vx < 0:
		p.Transform.FlipX = true
	case vx > 0:
		p.Transform.FlipX = false
	}
}

// Moving reports whether any direction is held.
func (p *Player) Moving() bool {
	for _, n := range p.held {
		if n > 0 {
			return true
		}
	}
	return false
}

func (p *Player) Casting() bool { return p.casting }

func (p *Player) Update(dt float64) {
	p.RenderableBase.Update(dt)

	if p.casting {
		if !p.anim.Finished() {
			return
		}
		p.casting = false
	}
	if p.Moving() {
		p.play("run")
	} else {
		p.play("idle")
	}
}

func (p *Player) PostUpdate() {
	p.RenderableBase.PostUpdate()
	if p.limitW <= 0 || p.limitH <= 0 {
		return
	}
	t := p.Transform
	x := common.Clamp(t.X, 0, p.limitW-t.Width)
	y := common.Clamp(t.Y, 0, p.limitH-t.Height)
	if x != t.X || y != t.Y {
		t.X, t.Y = x, y
		p.body.Body().SetPosition(x+t.Width/2, y+t.Height/2)
	}
}

func (p *Player) play(name string) {
	if err := p.kind.spec.Play(p.anim, name); err != nil {
		p.kind.log.Warn("player animation missing", zap.String("animation", name), zap.Error(err))
	}
}

// Center is the middle of the player in world pixels.
func (p *Player) Center() (float64, float64) {
	return p.Transform.Center()
}

// Animation exposes the player's animation state.
func (p *Player) Animation() *component.AnimationPlayer {
	return p.anim
}

func (p *Player) applySpec(spec *prefabs.ObjectSpec, events *component.FrameEventEmitter) error {
	if err := spec.Apply(p.anim, events); err != nil {
		return err
	}
	if p.casting && !p.anim.Active("cast") {
		p.casting = false
	}
	return nil
}
