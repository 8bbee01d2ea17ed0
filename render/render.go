// Package render holds the drawing contracts the runtime depends on and their
// ebiten implementations.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Batch issues draw calls between Begin and End. Coordinates are pixel-space
// and are mapped to the target through the projection.
type Batch interface {
	Begin()
	Draw(region Region, x, y, originX, originY, width, height, scaleX, scaleY, rotation float64)
	End()
	SetProjection(m ebiten.GeoM)
}

// Atlas is a texture holding a grid of sprite cells. Atlases are shared and
// are never disposed by the objects drawing them.
type Atlas interface {
	Size() (int, int)
	Image() *ebiten.Image
	Dispose()
	Disposed() bool
}

// Region is a sub-rectangle of an atlas, optionally mirrored.
type Region struct {
	Atlas  Atlas
	Bounds image.Rectangle
	FlipX  bool
	FlipY  bool
}

// Surface is the framebuffer cleared before each frame. *ebiten.Image
// satisfies it.
type Surface interface {
	Fill(clr color.Color)
}

// CellRegion selects grid cell (col, row) of a fixed cell size.
func CellRegion(a Atlas, col, row, cellW, cellH int, flipX, flipY bool) Region {
	x := col * cellW
	y := row * cellH
	return Region{
		Atlas:  a,
		Bounds: image.Rect(x, y, x+cellW, y+cellH),
		FlipX:  flipX,
		FlipY:  flipY,
	}
}
