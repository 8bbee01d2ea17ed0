package render_test

import (
	"errors"
	"image"
	"testing"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/render/rendertest"
)

type countingLoader struct {
	loads   map[string]int
	atlases []*rendertest.Atlas
	err     error
}

func (l *countingLoader) load(key string) (render.Atlas, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.loads == nil {
		l.loads = make(map[string]int)
	}
	l.loads[key]++
	a := rendertest.NewAtlas(64, 32)
	l.atlases = append(l.atlases, a)
	return a, nil
}

func TestCacheAcquireRelease(t *testing.T) {
	l := &countingLoader{}
	c := render.NewCache(l.load, nil)

	a1, h1, err := c.Acquire("player.png")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	a2, h2, err := c.Acquire("player.png")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("expected shared atlas for the same key")
	}
	if l.loads["player.png"] != 1 {
		t.Fatalf("expected one load, got %d", l.loads["player.png"])
	}
	if c.Refs("player.png") != 2 {
		t.Fatalf("expected 2 refs, got %d", c.Refs("player.png"))
	}

	if c.Release(h1) {
		t.Fatalf("first release must not dispose while referenced")
	}
	if !c.Release(h2) {
		t.Fatalf("last release should dispose")
	}
	if l.atlases[0].DisposeCount() != 1 {
		t.Fatalf("expected atlas disposed once, got %d", l.atlases[0].DisposeCount())
	}
	if c.Refs("player.png") != 0 {
		t.Fatalf("expected no refs after release")
	}
}

func TestCacheStaleHandle(t *testing.T) {
	l := &countingLoader{}
	c := render.NewCache(l.load, nil)

	_, old, err := c.Acquire("wisp.png")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !c.Release(old) {
		t.Fatalf("expected dispose on last release")
	}

	// reload creates a new generation; the old handle must not touch it
	_, fresh, err := c.Acquire("wisp.png")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if c.Release(old) {
		t.Fatalf("stale handle must not release the new generation")
	}
	if c.Refs("wisp.png") != 1 {
		t.Fatalf("expected fresh generation untouched, refs=%d", c.Refs("wisp.png"))
	}
	if l.atlases[1].Disposed() {
		t.Fatalf("fresh atlas disposed by stale handle")
	}
	if !c.Release(fresh) {
		t.Fatalf("expected fresh handle to dispose")
	}
}

func TestCacheErrors(t *testing.T) {
	t.Run("empty_key", func(t *testing.T) {
		c := render.NewCache((&countingLoader{}).load, nil)
		if _, _, err := c.Acquire(""); !errors.Is(err, common.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
	t.Run("loader_failure", func(t *testing.T) {
		boom := errors.New("boom")
		c := render.NewCache((&countingLoader{err: boom}).load, nil)
		if _, _, err := c.Acquire("x.png"); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped loader error, got %v", err)
		}
	})
	t.Run("zero_handle", func(t *testing.T) {
		c := render.NewCache((&countingLoader{}).load, nil)
		if c.Release(render.AtlasHandle{}) {
			t.Fatalf("zero handle must release nothing")
		}
	})
}

func TestCellRegion(t *testing.T) {
	a := rendertest.NewAtlas(160, 128)
	r := render.CellRegion(a, 2, 1, 32, 32, true, false)
	if r.Bounds != image.Rect(64, 32, 96, 64) {
		t.Fatalf("unexpected bounds %v", r.Bounds)
	}
	if !r.FlipX || r.FlipY {
		t.Fatalf("unexpected flips x=%v y=%v", r.FlipX, r.FlipY)
	}
	if r.Atlas != a {
		t.Fatalf("region lost its atlas")
	}
}

func TestNewImageAtlasNil(t *testing.T) {
	if _, err := render.NewImageAtlas(nil); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
