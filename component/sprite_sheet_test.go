package component

import (
	"errors"
	"image"
	"testing"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/render/rendertest"
)

func TestNewSpriteSheetValidation(t *testing.T) {
	cases := []struct {
		name     string
		opts     SpriteSheetOptions
		nilAtlas bool
	}{
		{"nil_atlas", SpriteSheetOptions{Cols: 1, Rows: 1}, true},
		{"zero_cols", SpriteSheetOptions{Cols: 0, Rows: 1}, false},
		{"negative_rows", SpriteSheetOptions{Cols: 1, Rows: -2}, false},
		{"negative_scale", SpriteSheetOptions{Cols: 1, Rows: 1, ScaleX: -1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var err error
			if c.nilAtlas {
				_, err = NewSpriteSheet(nil, c.opts)
			} else {
				_, err = NewSpriteSheet(rendertest.NewAtlas(64, 64), c.opts)
			}
			if !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSpriteSheetScale(t *testing.T) {
	s, err := NewSpriteSheet(rendertest.NewAtlas(160, 128), SpriteSheetOptions{Cols: 5, Rows: 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if w, h := s.CellSize(); w != 32 || h != 32 {
		t.Fatalf("expected 32x32 cells, got %dx%d", w, h)
	}

	cases := []struct {
		name   string
		sx, sy float64
	}{
		{"unit", 1, 1},
		{"double", 2, 2},
		{"uneven", 0.5, 3},
		{"tiny", 0.01, 0.01},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// A manual origin is overwritten by the next SetScale.
			s.SetRotationOrigin(-5, -5)
			if err := s.SetScale(c.sx, c.sy); err != nil {
				t.Fatalf("set scale: %v", err)
			}
			w, h := s.RenderSize()
			if w != 32*c.sx || h != 32*c.sy {
				t.Fatalf("expected render size %vx%v, got %vx%v", 32*c.sx, 32*c.sy, w, h)
			}
			ox, oy := s.RotationOrigin()
			if ox != w/2 || oy != h/2 {
				t.Fatalf("expected origin at centre, got (%v,%v)", ox, oy)
			}
		})
	}

	for _, bad := range [][2]float64{{0, 1}, {1, 0}, {-1, 2}} {
		if err := s.SetScale(bad[0], bad[1]); !errors.Is(err, common.ErrInvalidArgument) {
			t.Fatalf("scale %v: expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestSpriteSheetOffsetNotScaled(t *testing.T) {
	s, err := NewSpriteSheet(rendertest.NewAtlas(64, 16), SpriteSheetOptions{Cols: 4, Rows: 1, OffsetX: 3, OffsetY: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_ = s.SetScale(4, 4)
	s.UpdatePosition(100, 50)
	if x, y := s.Position(); x != 97 || y != 48 {
		t.Fatalf("expected (97,48), got (%v,%v)", x, y)
	}
}

func TestSpriteSheetRender(t *testing.T) {
	atlas := rendertest.NewAtlas(160, 128)
	s, err := NewSpriteSheet(atlas, SpriteSheetOptions{Cols: 5, Rows: 4, ScaleX: 2, ScaleY: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.UpdatePosition(10, 20)
	s.SetFlip(true, false)
	s.SetRotation(90)

	b := &rendertest.Batch{}
	b.Begin()
	s.Render(b, Frame{Col: 2, Row: 1})
	b.End()

	if len(b.Calls) != 1 {
		t.Fatalf("expected one draw, got %d", len(b.Calls))
	}
	call := b.Calls[0]
	if call.Region.Bounds != image.Rect(64, 32, 96, 64) {
		t.Fatalf("unexpected region %v", call.Region.Bounds)
	}
	if !call.Region.FlipX || call.Region.FlipY {
		t.Fatalf("flip flags not applied: %+v", call.Region)
	}
	if call.Region.Atlas != atlas {
		t.Fatalf("expected shared atlas")
	}
	if call.X != 10 || call.Y != 20 || call.Width != 64 || call.Height != 64 {
		t.Fatalf("unexpected placement %+v", call)
	}
	if call.OriginX != 32 || call.OriginY != 32 || call.Rotation != 90 {
		t.Fatalf("unexpected origin/rotation %+v", call)
	}
	if call.ScaleX != 1 || call.ScaleY != 1 {
		t.Fatalf("expected unit scale on draw, got %v,%v", call.ScaleX, call.ScaleY)
	}
	if atlas.Disposed() {
		t.Fatalf("sprite sheet must never dispose its atlas")
	}
}
