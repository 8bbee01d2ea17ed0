package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/sketchbook/camera"
	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/config"
	"github.com/milk9111/sketchbook/input"
	"github.com/milk9111/sketchbook/physics"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/world"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

const (
	playerPrefab = "player.yaml"
	wispPrefab   = "wisp.yaml"

	// wisps appear this far in front of the player
	castReach = 40
	hudIcons  = 8
	hudIcon   = 24
)

// PlayOptions are what a PlayScreen needs from the app.
type PlayOptions struct {
	Config  *config.Config
	Log     *zap.Logger
	Atlases *render.Cache
	Sounds  SoundLoader
	Poller  input.Poller

	// Changes returns prefab edits since the last call. Nil disables
	// hot reload.
	Changes func() []prefabs.Change
	// Metrics returns the loop's FPS and UPS for the overlay.
	Metrics func() (fps, ups int)
	// Exit is called when the player leaves the session.
	Exit func()
}

type specApplier interface {
	applySpec(spec *prefabs.ObjectSpec, events *component.FrameEventEmitter) error
}

// PlayScreen is one session: a player in a bounded world casting wisps.
type PlayScreen struct {
	log    *zap.Logger
	world  *world.Manager
	space  *physics.Space
	cam    *camera.Manager
	hud    *camera.Manager
	keys   *component.KeyController
	player *Player

	kinds      map[string]*kind
	playerKind *kind
	wispKind   *kind
	wisps      int
	cast       int

	changes     func() []prefabs.Change
	metrics     func() (int, int)
	exit        func()
	showMetrics bool
	face        text.Face
}

func NewPlayScreen(opts PlayOptions) (*PlayScreen, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Atlases == nil || opts.Poller == nil {
		return nil, fmt.Errorf("%w: play screen needs an atlas cache and an input poller", common.ErrInvalidArgument)
	}

	s := &PlayScreen{
		log:         log,
		kinds:       make(map[string]*kind),
		changes:     opts.Changes,
		metrics:     opts.Metrics,
		exit:        opts.Exit,
		showMetrics: cfg.Debug.ShowMetrics,
		face:        text.NewGoXFace(basicfont.Face7x13),
	}

	s.space = physics.NewSpace(cfg.Physics.GravityX, cfg.Physics.GravityY)
	classes := world.NewClassTable()
	s.world = world.NewManager(
		world.WithPhysics(s.space, cfg.Loop.FixedTimestep(), cfg.Physics.VelocityIterations, cfg.Physics.PositionIterations),
		world.WithLogger(log.Named("world")),
		world.WithClassTable(classes),
		world.OnManagerDestroy(func() {
			log.Info("play session ended", zap.Int("wisps_cast", s.cast))
		}),
	)

	var err error
	s.playerKind, err = s.loadKind(playerClass, playerPrefab, opts, classes)
	if err != nil {
		s.world.Dispose()
		return nil, err
	}
	s.wispKind, err = s.loadKind(wispClass, wispPrefab, opts, classes)
	if err != nil {
		s.world.Dispose()
		return nil, err
	}

	cc := cfg.Camera
	s.cam = camera.New(float64(cfg.Window.Width), float64(cfg.Window.Height))
	s.cam.SetDeadzone(cc.DeadzoneWidth, cc.DeadzoneHeight)
	s.cam.SetLerpFactor(cc.Lerp)
	s.cam.SetZoom(cc.Zoom)
	s.cam.SetWorldLimits(0, 0, cc.WorldWidth, cc.WorldHeight)
	s.hud = camera.Screen(cfg.Window.Width, cfg.Window.Height)

	s.player, err = NewPlayer(s.playerKind, s.space, opts.Poller, cc.WorldWidth/2, cc.WorldHeight/2, cc.WorldWidth, cc.WorldHeight, s.eventsFor(s.playerKind))
	if err != nil {
		s.world.Dispose()
		return nil, err
	}
	if _, err := s.world.Add(s.player); err != nil {
		s.world.Dispose()
		return nil, err
	}
	s.cam.SnapTo(s.player.Center())

	s.keys, err = component.NewKeyController(opts.Poller)
	if err != nil {
		s.world.Dispose()
		return nil, err
	}
	_ = s.keys.Bind(ebiten.KeyEscape, func(pressed bool) {
		if pressed && s.exit != nil {
			s.exit()
		}
	})
	return s, nil
}

func (s *PlayScreen) loadKind(class *world.Class, prefab string, opts PlayOptions, classes *world.ClassTable) (*kind, error) {
	spec, err := prefabs.LoadObjectSpec(prefab)
	if err != nil {
		return nil, err
	}
	k, err := newKind(class, spec, opts.Atlases, opts.Sounds, classes, s.log)
	if err != nil {
		return nil, err
	}
	s.kinds[prefab] = k
	return k, nil
}

// eventsFor routes the frame events of k's animations.
func (s *PlayScreen) eventsFor(k *kind) *component.FrameEventEmitter {
	return &component.FrameEventEmitter{Handlers: []component.FrameEventHandler{
		func(anim string, frame int, evt component.FrameEvent) {
			switch evt.Type {
			case component.FrameEventSound:
				k.PlaySound(evt.Payload)
			case component.FrameEventSpawn:
				s.spawn(evt.Payload)
			default:
				s.log.Debug("frame event",
					zap.String("class", k.class.Name()),
					zap.String("animation", anim),
					zap.Int("frame", frame),
					zap.String("type", string(evt.Type)),
					zap.String("payload", evt.Payload),
				)
			}
		},
	}}
}

func (s *PlayScreen) spawn(prefab string) {
	if s.kinds[prefab] != s.wispKind {
		s.log.Warn("spawn of unknown prefab", zap.String("prefab", prefab))
		return
	}
	x, y := s.player.Center()
	flip := s.player.FlipX()
	if flip {
		x -= castReach
	} else {
		x += castReach
	}
	if err := s.SpawnWisp(x, y, flip); err != nil {
		s.log.Error("wisp spawn failed", zap.Error(err))
	}
}

// SpawnWisp adds a wisp centred on (x, y), drifting left when flipX is set.
func (s *PlayScreen) SpawnWisp(x, y float64, flipX bool) error {
	var src []byte
	if name := s.wispKind.spec.Script; name != "" {
		var err error
		src, err = prefabs.LoadScript(name)
		if err != nil {
			return fmt.Errorf("wisp script %s: %w", name, err)
		}
	}
	w, err := NewWisp(s.wispKind, src, x, y, flipX, s.eventsFor(s.wispKind), func(*Wisp) { s.wisps-- })
	if err != nil {
		return err
	}
	if _, err := s.world.Add(w); err != nil {
		return err
	}
	s.wisps++
	s.cast++
	return nil
}

func (s *PlayScreen) Update(dt float64) {
	s.keys.Update(dt)
	if s.changes != nil {
		for _, c := range s.changes() {
			s.reload(c)
		}
	}
}

// PostUpdate moves the camera after physics has placed the player.
func (s *PlayScreen) PostUpdate() {
	if s.player.Disposed() {
		return
	}
	s.cam.Follow(s.player.Center())
}

func (s *PlayScreen) UpdateVisuals(float64) {}

func (s *PlayScreen) DrawGame(render.Batch) {}

// DrawUI shows one wisp icon per live wisp.
func (s *PlayScreen) DrawUI(batch render.Batch) {
	if s.wisps == 0 || !s.wispKind.Loaded() {
		return
	}
	atlas, err := s.wispKind.Atlas()
	if err != nil {
		return
	}
	w, h := atlas.Size()
	grid := s.wispKind.spec.Grid
	region := render.CellRegion(atlas, 0, 0, w/grid.Cols, h/grid.Rows, false, false)
	for i := range min(s.wisps, hudIcons) {
		x := float64(16 + i*(hudIcon+4))
		batch.Draw(region, x, 16, 0, 0, hudIcon, hudIcon, 1, 1, 0)
	}
}

// DrawOverlay prints the loop metrics straight onto the frame.
func (s *PlayScreen) DrawOverlay(dst *ebiten.Image) {
	if !s.showMetrics || s.metrics == nil {
		return
	}
	fps, ups := s.metrics()
	msg := fmt.Sprintf("FPS %d  UPS %d  objects %d  wisps %d", fps, ups, len(s.world.Live()), s.wisps)
	op := &text.DrawOptions{}
	sw, _ := s.hud.ScreenSize()
	op.GeoM.Translate(float64(sw)-8, 8)
	op.PrimaryAlign = text.AlignEnd
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, msg, s.face, op)
}

func (s *PlayScreen) World() *world.Manager {
	return s.world
}

func (s *PlayScreen) GameProjection() ebiten.GeoM {
	return s.cam.Projection()
}

func (s *PlayScreen) UIProjection() ebiten.GeoM {
	return s.hud.Projection()
}

func (s *PlayScreen) Resize(w, h int) {
	s.cam.Resize(w, h)
	s.hud = camera.Screen(w, h)
}

// Latch keeps keys held during the switch from firing.
func (s *PlayScreen) Latch() {
	s.keys.Latch()
	s.player.keys.Latch()
}

func (s *PlayScreen) Player() *Player {
	return s.player
}

// Wisps is the number of wisps alive or waiting to be added.
func (s *PlayScreen) Wisps() int {
	return s.wisps
}

func (s *PlayScreen) Camera() *camera.Manager {
	return s.cam
}

// Close ends the session, releasing every object and class resource.
func (s *PlayScreen) Close() {
	if s.world.Disposed() {
		return
	}
	s.world.Destroy()
}

func (s *PlayScreen) reload(c prefabs.Change) {
	if c.Script {
		s.reloadScript(c.Name)
		return
	}
	k, ok := s.kinds[c.Name]
	if !ok {
		s.log.Debug("prefab change ignored", zap.String("prefab", c.Name))
		return
	}
	spec, err := prefabs.LoadObjectSpec(c.Name)
	if err != nil {
		s.log.Warn("prefab reload failed", zap.String("prefab", c.Name), zap.Error(err))
		return
	}
	if spec.Sheet != k.spec.Sheet {
		s.log.Warn("sheet change applies to the next session", zap.String("prefab", c.Name), zap.String("sheet", spec.Sheet))
		spec.Sheet = k.spec.Sheet
	}
	k.spec = spec

	events := s.eventsFor(k)
	applied := 0
	for _, obj := range s.world.Live() {
		a, ok := obj.(specApplier)
		if !ok || obj.Core().Class() != k.class || obj.Core().PendingRemoval() {
			continue
		}
		if err := a.applySpec(spec, events); err != nil {
			s.log.Warn("prefab apply failed", zap.String("prefab", c.Name), zap.Stringer("object", obj.Core().Handle()), zap.Error(err))
			continue
		}
		applied++
	}
	s.log.Info("prefab reloaded", zap.String("prefab", c.Name), zap.Int("objects", applied))
}

func (s *PlayScreen) reloadScript(name string) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		s.log.Warn("script reload failed", zap.String("script", name), zap.Error(err))
		return
	}
	base := strings.TrimPrefix(name, "scripts/")
	reloaded := 0
	for _, obj := range s.world.Live() {
		w, ok := obj.(*Wisp)
		if !ok || w.script == nil || w.script.Name() != base {
			continue
		}
		if err := w.script.Reload(src); err != nil {
			s.log.Warn("script reload failed", zap.String("script", name), zap.Error(err))
			return
		}
		reloaded++
	}
	s.log.Info("script reloaded", zap.String("script", name), zap.Int("objects", reloaded))
}
