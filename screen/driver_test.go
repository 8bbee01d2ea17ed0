package screen

import (
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/render/rendertest"
	"github.com/milk9111/sketchbook/world"
)

type traceScreen struct {
	trace   *[]string
	manager *world.Manager
	game    ebiten.GeoM
}

func (s *traceScreen) add(e string) { *s.trace = append(*s.trace, e) }

func (s *traceScreen) Update(float64)              { s.add("screen.update") }
func (s *traceScreen) PostUpdate()                 { s.add("screen.post") }
func (s *traceScreen) UpdateVisuals(float64)       { s.add("screen.visuals") }
func (s *traceScreen) DrawGame(render.Batch)       { s.add("screen.game") }
func (s *traceScreen) DrawUI(render.Batch)         { s.add("screen.ui") }
func (s *traceScreen) World() *world.Manager       { return s.manager }
func (s *traceScreen) GameProjection() ebiten.GeoM { return s.game }
func (s *traceScreen) UIProjection() ebiten.GeoM   { return ebiten.GeoM{} }

var tileClass = world.NewClass("tile", false)

type tile struct {
	world.RenderableBase
	trace *[]string
	name  string
}

func newTile(t *testing.T, name string, z float64, trace *[]string) *tile {
	t.Helper()
	tl := &tile{
		RenderableBase: world.NewRenderableBase(tileClass, component.NewTransform(0, 0, z, 16, 16, false, false)),
		trace:          trace,
		name:           name,
	}
	sheet, err := component.NewSpriteSheet(rendertest.NewAtlas(16, 16), component.SpriteSheetOptions{Cols: 1, Rows: 1})
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	p := component.NewAnimationPlayer()
	if err := p.AddAnimation("idle", []component.Frame{{Duration: 1}}); err != nil {
		t.Fatalf("animation: %v", err)
	}
	_ = p.Play("idle")
	if err := tl.AddVisual(sheet, p); err != nil {
		t.Fatalf("visual: %v", err)
	}
	return tl
}

func (tl *tile) Update(dt float64) {
	tl.RenderableBase.Update(dt)
	*tl.trace = append(*tl.trace, tl.name+".update")
}

func (tl *tile) UpdateVisuals(dt float64) {
	tl.RenderableBase.UpdateVisuals(dt)
	*tl.trace = append(*tl.trace, tl.name+".visuals")
}

func (tl *tile) Render(b render.Batch) {
	tl.RenderableBase.Render(b)
	*tl.trace = append(*tl.trace, tl.name+".render")
}

func TestDriverFrameOrder(t *testing.T) {
	var trace []string
	m := world.NewManager()
	top := newTile(t, "top", 5, &trace)
	bottom := newTile(t, "bottom", 1, &trace)
	if _, err := m.Add(top); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.Add(bottom); err != nil {
		t.Fatalf("add: %v", err)
	}

	var proj ebiten.GeoM
	proj.Translate(-10, -20)
	s := &traceScreen{trace: &trace, manager: m, game: proj}

	loop, _ := NewLoop(0.5, 1)
	game, ui := &rendertest.Batch{}, &rendertest.Batch{}
	d := NewDriver(loop, game, ui)
	d.SetScreen(s)

	surface := &rendertest.Surface{}
	d.Frame(0.5, surface)

	want := []string{
		"bottom.update", "top.update", "screen.update", "screen.post",
		"screen.visuals", "top.visuals", "bottom.visuals",
		"bottom.render", "top.render", "screen.game",
		"screen.ui",
	}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("unexpected frame order\nwant %v\ngot  %v", want, trace)
	}
	if surface.Fills != 1 || surface.Last != ClearColor {
		t.Fatalf("expected one clear, got %d", surface.Fills)
	}
	if game.Begins != 1 || game.Ends != 1 || ui.Begins != 1 || ui.Ends != 1 {
		t.Fatalf("expected one begin/end per batch")
	}
	if len(game.Calls) != 2 || len(ui.Calls) != 0 {
		t.Fatalf("expected 2 world draws and no ui draws, got %d/%d", len(game.Calls), len(ui.Calls))
	}
	if game.Projection != proj {
		t.Fatalf("expected camera projection on the game batch")
	}
}

func TestDriverSkipsPendingRemoval(t *testing.T) {
	var trace []string
	m := world.NewManager()
	gone := newTile(t, "gone", 0, &trace)
	if _, err := m.Add(gone); err != nil {
		t.Fatalf("add: %v", err)
	}
	s := &traceScreen{trace: &trace, manager: m}
	loop, _ := NewLoop(0.5, 1)
	game := &rendertest.Batch{}
	d := NewDriver(loop, game, &rendertest.Batch{})
	d.SetScreen(s)

	gone.MarkToDestroy()
	d.Frame(0.1, &rendertest.Surface{})

	if len(game.Calls) != 0 {
		t.Fatalf("pending removal object drawn")
	}
	for _, e := range trace {
		if e == "gone.visuals" || e == "gone.render" {
			t.Fatalf("pending removal object got %s", e)
		}
	}
}

func TestDriverWithoutScreen(t *testing.T) {
	loop, _ := NewLoop(0.5, 1)
	d := NewDriver(loop, &rendertest.Batch{}, &rendertest.Batch{})
	surface := &rendertest.Surface{}
	d.Frame(1, surface)
	if surface.Fills != 1 {
		t.Fatalf("expected clear even without a screen")
	}
}
