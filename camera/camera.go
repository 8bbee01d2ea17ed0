// Package camera positions an orthographic view over the world and produces
// the projection the world-space batch draws with.
package camera

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/common"
)

// Manager follows a target with a deadzone and smoothing, and keeps the view
// inside the world limits. Positions are the view centre in world pixels,
// y grows downwards.
type Manager struct {
	PosX float64
	PosY float64

	// minimum visible world size, kept on every Resize
	minViewW float64
	minViewH float64
	viewW    float64
	viewH    float64
	screenW  int
	screenH  int
	zoom     float64

	deadzoneW float64
	deadzoneH float64
	lerp      float64

	limited bool
	left    float64
	top     float64
	right   float64
	bottom  float64

	projection ebiten.GeoM
}

// New creates a camera showing at least viewW x viewH world pixels, centred
// on the middle of that area.
func New(viewW, viewH float64) *Manager {
	m := &Manager{
		minViewW: viewW,
		minViewH: viewH,
		viewW:    viewW,
		viewH:    viewH,
		screenW:  int(viewW),
		screenH:  int(viewH),
		zoom:     1,
		lerp:     0.1,
		PosX:     viewW / 2,
		PosY:     viewH / 2,
	}
	m.Update()
	return m
}

// Screen returns a fixed camera whose projection maps pixels 1:1, for
// drawing overlays.
func Screen(w, h int) *Manager {
	return New(float64(w), float64(h))
}

// SetDeadzone sets how far the target may stray from the centre, per axis,
// before the camera moves.
func (m *Manager) SetDeadzone(w, h float64) {
	m.deadzoneW = math.Max(w, 0)
	m.deadzoneH = math.Max(h, 0)
}

// SetWorldLimits bounds the view to the rectangle [left, right] x [top, bottom].
func (m *Manager) SetWorldLimits(left, top, right, bottom float64) {
	m.left, m.top, m.right, m.bottom = left, top, right, bottom
	m.limited = true
}

// ClearWorldLimits lets the camera move anywhere.
func (m *Manager) ClearWorldLimits() {
	m.limited = false
}

// SetLerpFactor sets the follow smoothing: 0 never moves, 1 snaps.
func (m *Manager) SetLerpFactor(f float64) {
	m.lerp = common.Clamp(f, 0, 1)
}

func (m *Manager) LerpFactor() float64 {
	return m.lerp
}

// SetZoom scales the view. Values above 1 magnify.
func (m *Manager) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	m.zoom = z
	m.Update()
}

func (m *Manager) Zoom() float64 {
	return m.zoom
}

// Viewport returns the visible world size.
func (m *Manager) Viewport() (float64, float64) {
	return m.viewW / m.zoom, m.viewH / m.zoom
}

// ViewTopLeft returns the world position of the view's top-left corner.
func (m *Manager) ViewTopLeft() (float64, float64) {
	w, h := m.Viewport()
	return m.PosX - w/2, m.PosY - h/2
}

// SetPosition moves the view centre without clamping.
func (m *Manager) SetPosition(x, y float64) {
	m.PosX, m.PosY = x, y
	m.Update()
}

// SnapTo centres the view on (x, y) at once, within the world limits.
func (m *Manager) SnapTo(x, y float64) {
	m.PosX, m.PosY = x, y
	m.constrain()
	m.Update()
}

// Follow moves the view toward a target. Inside the deadzone nothing moves;
// outside it the camera eases toward keeping the target on the deadzone edge.
func (m *Manager) Follow(targetX, targetY float64) {
	destX, destY := m.PosX, m.PosY

	if dx := targetX - m.PosX; math.Abs(dx) > m.deadzoneW {
		if dx > 0 {
			destX = targetX - m.deadzoneW
		} else {
			destX = targetX + m.deadzoneW
		}
	}
	if dy := targetY - m.PosY; math.Abs(dy) > m.deadzoneH {
		if dy > 0 {
			destY = targetY - m.deadzoneH
		} else {
			destY = targetY + m.deadzoneH
		}
	}

	m.PosX = common.Lerp(m.PosX, destX, m.lerp)
	m.PosY = common.Lerp(m.PosY, destY, m.lerp)

	m.constrain()
	m.Update()
}

func (m *Manager) constrain() {
	if !m.limited {
		return
	}
	w, h := m.Viewport()
	m.PosX = clampAxis(m.PosX, m.left, m.right, w/2)
	m.PosY = clampAxis(m.PosY, m.top, m.bottom, h/2)
}

// clampAxis keeps a half-extent window inside [lo, hi], centring it when
// the range is smaller than the window.
func clampAxis(v, lo, hi, half float64) float64 {
	minV := lo + half
	maxV := hi - half
	if maxV < minV {
		return (lo + hi) / 2
	}
	return common.Clamp(v, minV, maxV)
}

// Resize fits the minimum view into a w x h pixel screen and extends the
// view along the longer axis so nothing is stretched.
func (m *Manager) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.screenW, m.screenH = w, h
	scale := math.Min(float64(w)/m.minViewW, float64(h)/m.minViewH)
	m.viewW = float64(w) / scale
	m.viewH = float64(h) / scale
	m.constrain()
	m.Update()
}

// ScreenSize returns the pixel size set by the last Resize.
func (m *Manager) ScreenSize() (int, int) {
	return m.screenW, m.screenH
}

// Update recomputes the projection from the current position and zoom.
func (m *Manager) Update() {
	left, top := m.ViewTopLeft()
	scale := m.zoom * float64(m.screenW) / m.viewW

	m.projection.Reset()
	m.projection.Translate(-left, -top)
	m.projection.Scale(scale, scale)
}

// Projection maps world pixels to screen pixels.
func (m *Manager) Projection() ebiten.GeoM {
	return m.projection
}

// WorldToScreen applies the projection to a world point.
func (m *Manager) WorldToScreen(x, y float64) (float64, float64) {
	return m.projection.Apply(x, y)
}
