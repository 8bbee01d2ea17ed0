package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/input"
	"github.com/milk9111/sketchbook/render"
)

// MenuScreen waits for the player to start a session or quit. Enter and
// Escape mirror the two buttons.
type MenuScreen struct {
	ui   *ebitenui.UI
	keys *component.KeyController
}

// NewMenuScreen wraps ui, which may be nil when no window is available.
func NewMenuScreen(poller input.Poller, ui *ebitenui.UI, onPlay, onQuit func()) (*MenuScreen, error) {
	keys, err := component.NewKeyController(poller)
	if err != nil {
		return nil, err
	}
	on := func(fn func()) component.KeyAction {
		return func(pressed bool) {
			if pressed && fn != nil {
				fn()
			}
		}
	}
	if err := keys.Bind(ebiten.KeyEnter, on(onPlay)); err != nil {
		return nil, err
	}
	if err := keys.Bind(ebiten.KeyEscape, on(onQuit)); err != nil {
		return nil, err
	}
	return &MenuScreen{ui: ui, keys: keys}, nil
}

func (m *MenuScreen) Update(dt float64) {
	m.keys.Update(dt)
}

func (m *MenuScreen) PostUpdate() {}

// UpdateVisuals drives the widgets once per frame, since their input
// handling expects ebiten's frame rate.
func (m *MenuScreen) UpdateVisuals(float64) {
	if m.ui != nil {
		m.ui.Update()
	}
}

func (m *MenuScreen) DrawGame(render.Batch) {}

func (m *MenuScreen) DrawUI(render.Batch) {}

func (m *MenuScreen) DrawOverlay(dst *ebiten.Image) {
	if m.ui != nil {
		m.ui.Draw(dst)
	}
}

func (m *MenuScreen) Latch() {
	m.keys.Latch()
}
