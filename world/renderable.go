package world

import (
	"fmt"
	"math"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/render"
)

// Renderable objects are drawn by z index after the fixed-step updates.
type Renderable interface {
	Object
	ZIndex() int
	UpdateVisuals(dt float64)
	Render(batch render.Batch)
}

// Visual pairs a sprite sheet with the player choosing its frame.
type Visual struct {
	Sheet  *component.SpriteSheet
	Player *component.AnimationPlayer
}

// RenderableBase is a Base with a transform and a list of visuals drawn in
// order.
type RenderableBase struct {
	Base
	Transform *component.Transform

	// MirrorSize makes every sheet draw at the transform's width and height.
	MirrorSize bool

	visuals []Visual
}

func NewRenderableBase(class *Class, t *component.Transform) RenderableBase {
	if t == nil {
		t = &component.Transform{}
	}
	r := RenderableBase{Base: NewBase(class), Transform: t}
	r.AddComponent(t)
	return r
}

func (r *RenderableBase) AddVisual(sheet *component.SpriteSheet, player *component.AnimationPlayer) error {
	if sheet == nil || player == nil {
		return fmt.Errorf("%w: visual needs a sprite sheet and a player", common.ErrInvalidArgument)
	}
	r.visuals = append(r.visuals, Visual{Sheet: sheet, Player: player})
	return nil
}

func (r *RenderableBase) Visuals() []Visual {
	return r.visuals
}

// ZIndex is the transform's Z rounded down.
func (r *RenderableBase) ZIndex() int {
	return int(math.Floor(r.Transform.Z))
}

func (r *RenderableBase) FlipX() bool { return r.Transform.FlipX }
func (r *RenderableBase) FlipY() bool { return r.Transform.FlipY }

// UpdateVisuals moves every sheet to the transform and advances its player.
func (r *RenderableBase) UpdateVisuals(dt float64) {
	t := r.Transform
	for _, v := range r.visuals {
		v.Sheet.UpdatePosition(t.X, t.Y)
		v.Sheet.SetFlip(t.FlipX, t.FlipY)
		if r.MirrorSize {
			v.Sheet.SetRenderSize(t.Width, t.Height)
		}
		v.Player.Update(dt)
	}
}

// Render draws the current frame of each visual. Visuals with nothing
// playing are skipped.
func (r *RenderableBase) Render(batch render.Batch) {
	t := r.Transform
	for _, v := range r.visuals {
		frame, err := v.Player.CurrentFrame()
		if err != nil {
			continue
		}
		v.Sheet.SetFlip(t.FlipX, t.FlipY)
		v.Sheet.Render(batch, frame)
	}
}
