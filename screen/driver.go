package screen

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/world"
)

// ClearColor fills the framebuffer before each frame.
var ClearColor = color.RGBA{R: 0x26, G: 0x26, B: 0x33, A: 0xff}

// Driver runs the active screen: fixed updates through its Loop, then a
// visual update and a render each frame.
type Driver struct {
	loop   *Loop
	screen Screen
	game   render.Batch
	ui     render.Batch
}

func NewDriver(loop *Loop, game, ui render.Batch) *Driver {
	return &Driver{loop: loop, game: game, ui: ui}
}

// SetScreen switches screens. A switch during an update takes effect from
// the next fixed step.
func (d *Driver) SetScreen(s Screen) {
	d.screen = s
}

func (d *Driver) Screen() Screen {
	return d.screen
}

func (d *Driver) Loop() *Loop {
	return d.loop
}

// Frame advances by delta and renders to surface.
func (d *Driver) Frame(delta float64, surface render.Surface) {
	d.Advance(delta)
	d.Render(surface)
}

// Advance runs the fixed steps covered by delta, then the per-frame visual
// update.
func (d *Driver) Advance(delta float64) int {
	n := d.loop.Advance(delta, updateSystem{d})
	d.updateVisuals(delta)
	return n
}

type updateSystem struct {
	d *Driver
}

func (u updateSystem) Update(dt float64) {
	s := u.d.screen
	if s == nil {
		return
	}
	if m := managerOf(s); m != nil {
		m.Update(dt)
	}
	s.Update(dt)
}

func (u updateSystem) PostUpdate() {
	if s := u.d.screen; s != nil {
		s.PostUpdate()
	}
}

func (d *Driver) updateVisuals(dt float64) {
	s := d.screen
	if s == nil {
		return
	}
	s.UpdateVisuals(dt)
	m := managerOf(s)
	if m == nil {
		return
	}
	for _, r := range m.Renderables() {
		if !r.Core().PendingRemoval() {
			r.UpdateVisuals(dt)
		}
	}
}

// Render clears surface and draws the world-space batch, then the
// screen-space batch.
func (d *Driver) Render(surface render.Surface) {
	if surface != nil {
		surface.Fill(ClearColor)
	}
	s := d.screen
	if s == nil {
		return
	}

	gameProj, uiProj := ebiten.GeoM{}, ebiten.GeoM{}
	if p, ok := s.(Projector); ok {
		gameProj, uiProj = p.GameProjection(), p.UIProjection()
	}

	if d.game != nil {
		d.game.SetProjection(gameProj)
		d.game.Begin()
		if m := managerOf(s); m != nil {
			m.SortRenderables()
			for _, r := range m.Renderables() {
				if !r.Core().PendingRemoval() {
					r.Render(d.game)
				}
			}
		}
		s.DrawGame(d.game)
		d.game.End()
	}

	if d.ui != nil {
		d.ui.SetProjection(uiProj)
		d.ui.Begin()
		s.DrawUI(d.ui)
		d.ui.End()
	}
}

func managerOf(s Screen) *world.Manager {
	ws, ok := s.(WorldScreen)
	if !ok {
		return nil
	}
	m := ws.World()
	if m == nil || m.Disposed() {
		return nil
	}
	return m
}
