package component

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/render"
)

// SpriteSheetOptions describes how an atlas is cut into cells. Zero scale
// factors default to 1.
type SpriteSheetOptions struct {
	Cols    int
	Rows    int
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// SpriteSheet draws one cell of a shared atlas. It never disposes the atlas.
type SpriteSheet struct {
	atlas render.Atlas
	cellW int
	cellH int

	x, y             float64
	offsetX, offsetY float64
	originX, originY float64
	rotation         float64
	renderW, renderH float64
	scaleX, scaleY   float64
	flipX, flipY     bool
}

func NewSpriteSheet(atlas render.Atlas, opts SpriteSheetOptions) (*SpriteSheet, error) {
	if atlas == nil {
		return nil, fmt.Errorf("%w: sprite sheet atlas is nil", common.ErrInvalidArgument)
	}
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return nil, fmt.Errorf("%w: sprite sheet grid %dx%d", common.ErrInvalidArgument, opts.Cols, opts.Rows)
	}
	w, h := atlas.Size()
	s := &SpriteSheet{
		atlas:   atlas,
		cellW:   w / opts.Cols,
		cellH:   h / opts.Rows,
		offsetX: opts.OffsetX,
		offsetY: opts.OffsetY,
	}

	sx, sy := opts.ScaleX, opts.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if err := s.SetScale(sx, sy); err != nil {
		return nil, err
	}
	return s, nil
}

// SetScale resizes the drawn cell and moves the rotation origin back to its
// centre.
func (s *SpriteSheet) SetScale(sx, sy float64) error {
	if sx <= 0 || sy <= 0 {
		return fmt.Errorf("%w: sprite sheet scale (%v, %v)", common.ErrInvalidArgument, sx, sy)
	}
	s.scaleX, s.scaleY = sx, sy
	s.renderW = float64(s.cellW) * sx
	s.renderH = float64(s.cellH) * sy
	s.originX = s.renderW / 2
	s.originY = s.renderH / 2
	return nil
}

func (s *SpriteSheet) Scale() (float64, float64) {
	return s.scaleX, s.scaleY
}

// SetRenderSize overrides the drawn size without touching the scale. Objects
// that mirror their transform size call this every visual update.
func (s *SpriteSheet) SetRenderSize(w, h float64) {
	s.renderW, s.renderH = w, h
}

func (s *SpriteSheet) RenderSize() (float64, float64) {
	return s.renderW, s.renderH
}

func (s *SpriteSheet) CellSize() (int, int) {
	return s.cellW, s.cellH
}

func (s *SpriteSheet) SetRotationOrigin(x, y float64) {
	s.originX, s.originY = x, y
}

func (s *SpriteSheet) RotationOrigin() (float64, float64) {
	return s.originX, s.originY
}

// SetRotation sets the rotation in degrees.
func (s *SpriteSheet) SetRotation(deg float64) {
	s.rotation = deg
}

func (s *SpriteSheet) Rotation() float64 {
	return s.rotation
}

func (s *SpriteSheet) SetOffset(x, y float64) {
	s.offsetX, s.offsetY = x, y
}

func (s *SpriteSheet) Offset() (float64, float64) {
	return s.offsetX, s.offsetY
}

func (s *SpriteSheet) SetFlip(x, y bool) {
	s.flipX, s.flipY = x, y
}

func (s *SpriteSheet) Flip() (bool, bool) {
	return s.flipX, s.flipY
}

// UpdatePosition places the sheet at (x, y) minus its pixel offset.
func (s *SpriteSheet) UpdatePosition(x, y float64) {
	s.x = x - s.offsetX
	s.y = y - s.offsetY
}

func (s *SpriteSheet) Position() (float64, float64) {
	return s.x, s.y
}

func (s *SpriteSheet) Atlas() render.Atlas {
	return s.atlas
}

// Render draws frame's cell with a single batch call.
func (s *SpriteSheet) Render(batch render.Batch, frame Frame) {
	region := render.CellRegion(s.atlas, frame.Col, frame.Row, s.cellW, s.cellH, s.flipX, s.flipY)
	batch.Draw(region, s.x, s.y, s.originX, s.originY, s.renderW, s.renderH, 1, 1, s.rotation)
}
