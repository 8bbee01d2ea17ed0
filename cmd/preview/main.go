// Command preview plays the animations of one prefab in a small window.
// Left and right cycle animations, F toggles the horizontal flip.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sketchbook/assets"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/screen"
)

const viewSize = 320

type previewGame struct {
	spec   *prefabs.ObjectSpec
	sheet  *component.SpriteSheet
	anim   *component.AnimationPlayer
	loop   *screen.Loop
	batch  *render.ImageBatch
	names  []string
	choice int
	flip   bool
}

func newPreview(name string, loop *screen.Loop) (*previewGame, error) {
	spec, err := prefabs.LoadObjectSpec(name)
	if err != nil {
		return nil, err
	}
	img, err := assets.LoadImage(spec.Sheet)
	if err != nil {
		return nil, err
	}
	atlas, err := render.NewImageAtlas(img)
	if err != nil {
		return nil, err
	}
	sheet, err := component.NewSpriteSheet(atlas, spec.SheetOptions())
	if err != nil {
		return nil, err
	}
	anim := component.NewAnimationPlayer()
	if err := spec.Apply(anim, nil); err != nil {
		return nil, err
	}

	g := &previewGame{spec: spec, sheet: sheet, anim: anim, loop: loop, batch: render.NewImageBatch()}
	for i, a := range spec.Animations {
		g.names = append(g.names, a.Name)
		if a.Name == spec.DefaultAnimation {
			g.choice = i
		}
	}
	return g, nil
}

// Update ticks once per frame at the loop's fixed rate, so a step is one
// animation update.
func (g *previewGame) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.choice = (g.choice + 1) % len(g.names)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.choice = (g.choice + len(g.names) - 1) % len(g.names)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.flip = !g.flip
	}
	if err := g.spec.Play(g.anim, g.names[g.choice]); err != nil {
		return err
	}
	// Space replays a finished one-shot.
	if g.anim.Finished() && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		_ = g.anim.SetFrameIndex(0)
		g.anim.SetAutoAdvance(true)
	}
	g.anim.Update(g.loop.FixedStep())
	return nil
}

func (g *previewGame) Draw(dst *ebiten.Image) {
	dst.Fill(screen.ClearColor)
	w, h := g.sheet.RenderSize()
	g.sheet.UpdatePosition((viewSize-w)/2, (viewSize-h)/2)
	g.sheet.SetFlip(g.flip, false)

	frame, err := g.anim.CurrentFrame()
	if err == nil {
		g.batch.SetTarget(dst)
		g.batch.Begin()
		g.sheet.Render(g.batch, frame)
		g.batch.End()
	}
	ebitenutil.DebugPrint(dst, fmt.Sprintf("%s: %s  frame %d/%d\n<- -> animation  F flip  Space replay",
		g.spec.Name, g.names[g.choice], g.anim.FrameIndex()+1, len(g.anim.CurrentAnimation())))
}

func (g *previewGame) Layout(int, int) (int, int) {
	return viewSize, viewSize
}

func main() {
	name := flag.String("prefab", "player.yaml", "prefab to preview")
	dir := flag.String("dir", "prefabs", "on-disk prefab directory")
	ups := flag.Int("ups", 60, "animation updates per second")
	flag.Parse()

	prefabs.Dir = *dir
	loop, err := screen.NewLoop(1/float64(*ups), 0.25)
	if err != nil {
		log.Fatal(err)
	}
	g, err := newPreview(*name, loop)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetTPS(*ups)
	ebiten.SetWindowSize(viewSize*2, viewSize*2)
	ebiten.SetWindowTitle("preview: " + *name)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
