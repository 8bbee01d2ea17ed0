package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ObjectSpec describes how a renderable object looks and moves.
type ObjectSpec struct {
	Name             string          `yaml:"name"`
	Sheet            string          `yaml:"sheet"`
	Grid             GridSpec        `yaml:"grid"`
	Offset           PointSpec       `yaml:"offset"`
	Scale            PointSpec       `yaml:"scale"`
	Size             SizeSpec        `yaml:"size"`
	Z                float64         `yaml:"z"`
	DefaultAnimation string          `yaml:"default_animation"`
	Animations       []AnimationSpec `yaml:"animations"`
	Script           string          `yaml:"script"`
	Speed            float64         `yaml:"speed"`
	Lifetime         float64         `yaml:"lifetime"`
}

type GridSpec struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type AnimationSpec struct {
	Name   string      `yaml:"name"`
	Loop   *bool       `yaml:"loop"`
	Frames []FrameSpec `yaml:"frames"`
	Events []EventSpec `yaml:"events"`
}

type FrameSpec struct {
	Col      int     `yaml:"col"`
	Row      int     `yaml:"row"`
	Duration float64 `yaml:"duration"`
}

type EventSpec struct {
	Frame   int    `yaml:"frame"`
	Type    string `yaml:"type"`
	Payload string `yaml:"payload"`
}

// LoadObjectSpec loads and validates prefab name, e.g. "player.yaml".
func LoadObjectSpec(name string) (*ObjectSpec, error) {
	spec, err := LoadSpec[ObjectSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// Validate checks the fields an object needs to be built.
func (s *ObjectSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}
	if strings.TrimSpace(s.Sheet) == "" {
		return fmt.Errorf("%w: sheet is required", common.ErrInvalidArgument)
	}
	if s.Grid.Cols <= 0 || s.Grid.Rows <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", common.ErrInvalidArgument, s.Grid.Cols, s.Grid.Rows)
	}
	if s.Scale.X < 0 || s.Scale.Y < 0 {
		return fmt.Errorf("%w: scale must not be negative", common.ErrInvalidArgument)
	}
	if s.Size.Width <= 0 || s.Size.Height <= 0 {
		return fmt.Errorf("%w: size must be positive", common.ErrInvalidArgument)
	}
	if len(s.Animations) == 0 {
		return fmt.Errorf("%w: at least one animation is required", common.ErrInvalidArgument)
	}

	seen := make(map[string]bool, len(s.Animations))
	for _, a := range s.Animations {
		if a.Name == "" {
			return fmt.Errorf("%w: animation without a name", common.ErrInvalidArgument)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate animation %q", common.ErrInvalidArgument, a.Name)
		}
		seen[a.Name] = true
		if len(a.Frames) == 0 {
			return fmt.Errorf("%w: animation %q has no frames", common.ErrInvalidArgument, a.Name)
		}
		for i, f := range a.Frames {
			if f.Col < 0 || f.Col >= s.Grid.Cols || f.Row < 0 || f.Row >= s.Grid.Rows {
				return fmt.Errorf("%w: animation %q frame %d cell (%d,%d) outside grid", common.ErrInvalidArgument, a.Name, i, f.Col, f.Row)
			}
		}
		for _, e := range a.Events {
			if e.Frame < 0 || e.Frame >= len(a.Frames) {
				return fmt.Errorf("%w: animation %q event on frame %d", common.ErrInvalidArgument, a.Name, e.Frame)
			}
			if e.Type == "" {
				return fmt.Errorf("%w: animation %q event without a type", common.ErrInvalidArgument, a.Name)
			}
		}
	}

	if s.DefaultAnimation == "" {
		s.DefaultAnimation = s.Animations[0].Name
	} else if !seen[s.DefaultAnimation] {
		return fmt.Errorf("%w: default animation %q", common.ErrNotFound, s.DefaultAnimation)
	}
	return nil
}

// SheetOptions converts the grid, scale and offset to sprite sheet options.
func (s *ObjectSpec) SheetOptions() component.SpriteSheetOptions {
	return component.SpriteSheetOptions{
		Cols:    s.Grid.Cols,
		Rows:    s.Grid.Rows,
		ScaleX:  s.Scale.X,
		ScaleY:  s.Scale.Y,
		OffsetX: s.Offset.X,
		OffsetY: s.Offset.Y,
	}
}

// Looping reports whether the animation repeats. Animations loop unless
// they say otherwise.
func (a AnimationSpec) Looping() bool {
	return a.Loop == nil || *a.Loop
}

func (a AnimationSpec) ComponentFrames() []component.Frame {
	out := make([]component.Frame, len(a.Frames))
	for i, f := range a.Frames {
		out[i] = component.Frame{Col: f.Col, Row: f.Row, Duration: f.Duration}
	}
	return out
}

func (a AnimationSpec) EventMap() *component.FrameEventMap {
	m := component.NewFrameEventMap()
	for _, e := range a.Events {
		m.Add(e.Frame, component.FrameEvent{Type: component.FrameEventType(e.Type), Payload: e.Payload})
	}
	return m
}

// Animation returns the animation called name.
func (s *ObjectSpec) Animation(name string) (AnimationSpec, bool) {
	for _, a := range s.Animations {
		if a.Name == name {
			return a, true
		}
	}
	return AnimationSpec{}, false
}

// Apply registers every animation and its events on p. A player that was
// already playing one of them restarts it with the new frames; otherwise the
// default animation starts.
func (s *ObjectSpec) Apply(p *component.AnimationPlayer, emitter *component.FrameEventEmitter) error {
	for _, a := range s.Animations {
		if err := p.AddAnimation(a.Name, a.ComponentFrames()); err != nil {
			return fmt.Errorf("prefabs: %s: %w", s.Name, err)
		}
		p.ClearFrameEvents(a.Name)
		if err := component.BindFrameEvents(p, a.Name, a.EventMap(), emitter); err != nil {
			return fmt.Errorf("prefabs: %s: %w", s.Name, err)
		}
	}

	name := s.DefaultAnimation
	if cur := p.CurrentKey(); cur != "" {
		if _, ok := s.Animation(cur); ok {
			name = cur
		}
	}
	return s.Play(p, name)
}

// Play switches p to animation name with its declared looping. Asking for
// the animation already running changes nothing.
func (s *ObjectSpec) Play(p *component.AnimationPlayer, name string) error {
	a, ok := s.Animation(name)
	if !ok {
		return fmt.Errorf("prefabs: %s: %w: animation %q", s.Name, common.ErrNotFound, name)
	}
	if p.Active(name) {
		return nil
	}
	if err := p.Play(name); err != nil {
		return fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	p.SetLooping(a.Looping())
	p.SetAutoAdvance(true)
	return nil
}
