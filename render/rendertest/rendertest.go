// Package rendertest provides in-memory render contracts for tests.
package rendertest

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/render"
)

// Atlas is a sized atlas with no pixels.
type Atlas struct {
	W, H     int
	disposed int
}

func NewAtlas(w, h int) *Atlas {
	return &Atlas{W: w, H: h}
}

func (a *Atlas) Size() (int, int)     { return a.W, a.H }
func (a *Atlas) Image() *ebiten.Image { return nil }
func (a *Atlas) Dispose()             { a.disposed++ }
func (a *Atlas) Disposed() bool       { return a.disposed > 0 }

// DisposeCount reports how many times Dispose was called.
func (a *Atlas) DisposeCount() int { return a.disposed }

// DrawCall is one recorded Batch.Draw.
type DrawCall struct {
	Region         render.Region
	X, Y           float64
	OriginX        float64
	OriginY        float64
	Width, Height  float64
	ScaleX, ScaleY float64
	Rotation       float64
}

// Batch records draw calls and Begin/End pairs.
type Batch struct {
	Calls      []DrawCall
	Begins     int
	Ends       int
	Projection ebiten.GeoM
	drawing    bool
}

func (b *Batch) Begin() {
	b.Begins++
	b.drawing = true
}

func (b *Batch) End() {
	b.Ends++
	b.drawing = false
}

func (b *Batch) SetProjection(m ebiten.GeoM) {
	b.Projection = m
}

func (b *Batch) Draw(region render.Region, x, y, originX, originY, width, height, scaleX, scaleY, rotation float64) {
	if !b.drawing {
		panic("rendertest: Draw outside Begin/End")
	}
	b.Calls = append(b.Calls, DrawCall{
		Region:   region,
		X:        x,
		Y:        y,
		OriginX:  originX,
		OriginY:  originY,
		Width:    width,
		Height:   height,
		ScaleX:   scaleX,
		ScaleY:   scaleY,
		Rotation: rotation,
	})
}

// Reset forgets recorded calls.
func (b *Batch) Reset() {
	b.Calls = nil
	b.Begins = 0
	b.Ends = 0
}

// Surface counts clears.
type Surface struct {
	Fills int
	Last  color.Color
}

func (s *Surface) Fill(clr color.Color) {
	s.Fills++
	s.Last = clr
}
