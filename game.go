package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/assets"
	"github.com/milk9111/sketchbook/config"
	"github.com/milk9111/sketchbook/input"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/screen"
	"go.uber.org/zap"
)

// overlay is implemented by screens that draw straight onto the frame after
// both batches, such as ebitenui widgets and text.
type overlay interface {
	DrawOverlay(dst *ebiten.Image)
}

type latcher interface {
	Latch()
}

type resizer interface {
	Resize(w, h int)
}

// App is the ebiten.Game. ebiten calls Update once per frame; the driver
// turns the measured frame time into fixed steps.
type App struct {
	cfg *config.Config
	log *zap.Logger

	loop    *screen.Loop
	driver  *screen.Driver
	game    *render.ImageBatch
	ui      *render.ImageBatch
	atlases *render.Cache
	watcher *prefabs.Watcher
	poller  input.Poller

	menu *MenuScreen
	play *PlayScreen

	last   time.Time
	width  int
	height int
	quit   bool
}

func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	loop, err := screen.NewLoop(cfg.Loop.FixedTimestep(), cfg.Loop.MaxAccumulator)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:     cfg,
		log:     log,
		loop:    loop,
		game:    render.NewImageBatch(),
		ui:      render.NewImageBatch(),
		atlases: render.NewCache(render.ImageLoader(assets.LoadImage), log.Named("atlas")),
		poller:  input.Keyboard{},
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}
	a.driver = screen.NewDriver(loop, a.game, a.ui)

	prefabs.Dir = cfg.Prefabs.Dir
	if cfg.Prefabs.Watch {
		w, err := prefabs.NewWatcher(cfg.Prefabs.Dir, log.Named("prefabs"))
		if err != nil {
			log.Warn("prefab hot reload disabled", zap.String("dir", cfg.Prefabs.Dir), zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	a.menu, err = NewMenuScreen(a.poller, newMenuUI(cfg.Window.Title, a.StartPlay, a.Quit), a.StartPlay, a.Quit)
	if err != nil {
		return nil, err
	}
	a.switchTo(a.menu)
	return a, nil
}

// StartPlay opens a new session. A session that fails to load leaves the
// menu up.
func (a *App) StartPlay() {
	if a.play != nil {
		return
	}
	ps, err := NewPlayScreen(PlayOptions{
		Config:  a.cfg,
		Log:     a.log.Named("play"),
		Atlases: a.atlases,
		Sounds:  loadSound,
		Poller:  a.poller,
		Changes: a.changes,
		Metrics: func() (int, int) { return a.loop.FPS(), a.loop.UPS() },
		Exit:    a.ShowMenu,
	})
	if err != nil {
		a.log.Error("play session failed to start", zap.Error(err))
		return
	}
	a.play = ps
	a.switchTo(ps)
}

// ShowMenu ends the running session, if any, and returns to the menu.
func (a *App) ShowMenu() {
	if a.play != nil {
		a.play.Close()
		a.play = nil
	}
	a.switchTo(a.menu)
}

func (a *App) Quit() {
	a.quit = true
}

func (a *App) switchTo(s screen.Screen) {
	if l, ok := s.(latcher); ok {
		l.Latch()
	}
	if r, ok := s.(resizer); ok {
		r.Resize(a.width, a.height)
	}
	a.driver.SetScreen(s)
}

func (a *App) changes() []prefabs.Change {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Drain()
}

func (a *App) Update() error {
	now := time.Now()
	var delta float64
	if !a.last.IsZero() {
		delta = now.Sub(a.last).Seconds()
	}
	a.last = now

	a.driver.Advance(delta)
	if a.quit {
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(dst *ebiten.Image) {
	a.game.SetTarget(dst)
	a.ui.SetTarget(dst)
	a.driver.Render(dst)
	if o, ok := a.driver.Screen().(overlay); ok {
		o.DrawOverlay(dst)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.width, a.height
	}
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		if r, ok := a.driver.Screen().(resizer); ok {
			r.Resize(a.width, a.height)
		}
	}
	return a.width, a.height
}

// Close ends any session and frees what the app still holds.
func (a *App) Close() {
	if a.play != nil {
		a.play.Close()
		a.play = nil
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("prefab watcher close failed", zap.Error(err))
		}
	}
	a.atlases.Clear()
}

func loadSound(path string) (Sound, error) {
	p, err := assets.LoadAudioPlayer(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}
