package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageBatch draws regions onto an ebiten image. The target is rebound every
// frame with SetTarget because ebiten hands a fresh screen to Draw.
type ImageBatch struct {
	target     *ebiten.Image
	projection ebiten.GeoM
	drawing    bool
	draws      int
}

func NewImageBatch() *ImageBatch {
	return &ImageBatch{}
}

func (b *ImageBatch) SetTarget(img *ebiten.Image) {
	b.target = img
}

func (b *ImageBatch) SetProjection(m ebiten.GeoM) {
	b.projection = m
}

func (b *ImageBatch) Begin() {
	if b.drawing {
		panic("render: Begin called twice without End")
	}
	b.drawing = true
	b.draws = 0
}

func (b *ImageBatch) End() {
	if !b.drawing {
		panic("render: End called without Begin")
	}
	b.drawing = false
}

// Draws reports how many regions were drawn since the last Begin.
func (b *ImageBatch) Draws() int {
	return b.draws
}

// Draw maps the region onto a width x height quad at (x, y). Scale and
// rotation are applied around (originX, originY), relative to (x, y).
func (b *ImageBatch) Draw(region Region, x, y, originX, originY, width, height, scaleX, scaleY, rotation float64) {
	if !b.drawing {
		panic("render: Draw called outside Begin/End")
	}
	if b.target == nil || region.Atlas == nil {
		return
	}
	img := region.Atlas.Image()
	if img == nil {
		return
	}
	sub, ok := img.SubImage(region.Bounds).(*ebiten.Image)
	if !ok {
		return
	}
	sw := float64(region.Bounds.Dx())
	sh := float64(region.Bounds.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	if region.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(sw, 0)
	}
	if region.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, sh)
	}
	op.GeoM.Scale(width/sw, height/sh)
	op.GeoM.Translate(-originX, -originY)
	op.GeoM.Scale(scaleX, scaleY)
	op.GeoM.Rotate(rotation * math.Pi / 180)
	op.GeoM.Translate(x+originX, y+originY)
	op.GeoM.Concat(b.projection)
	op.Filter = ebiten.FilterNearest

	b.target.DrawImage(sub, op)
	b.draws++
}
