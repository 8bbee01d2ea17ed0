package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/component"
)

type emitted struct {
	anim  string
	frame int
	evt   component.FrameEvent
}

func recordingEmitter(out *[]emitted) *component.FrameEventEmitter {
	return &component.FrameEventEmitter{Handlers: []component.FrameEventHandler{
		func(anim string, frame int, evt component.FrameEvent) {
			*out = append(*out, emitted{anim, frame, evt})
		},
	}}
}

func withDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestLoadEmbeddedPrefabs(t *testing.T) {
	withDir(t, t.TempDir())

	cases := []struct {
		file       string
		name       string
		animations int
		def        string
	}{
		{"player.yaml", "player", 3, "idle"},
		{"prefabs/wisp.yaml", "wisp", 1, "flicker"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadObjectSpec(c.file)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if spec.Name != c.name || len(spec.Animations) != c.animations || spec.DefaultAnimation != c.def {
				t.Fatalf("unexpected spec %+v", spec)
			}
		})
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)

	src := "name: ghost\nsheet: entities/wisp-sheet.png\ngrid: { cols: 4, rows: 1 }\n" +
		"size: { width: 16, height: 16 }\nanimations:\n  - name: still\n    frames:\n      - { col: 0, row: 0, duration: 1 }\n"
	if err := os.WriteFile(filepath.Join(dir, "wisp.yaml"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := LoadObjectSpec("wisp.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "ghost" || spec.DefaultAnimation != "still" {
		t.Fatalf("expected disk override, got %+v", spec)
	}
	if _, ok := ModTime("wisp.yaml"); !ok {
		t.Fatalf("expected mod time for disk prefab")
	}
	if _, ok := ModTime("player.yaml"); ok {
		t.Fatalf("embedded-only prefab has no mod time")
	}

	script, err := LoadScript("wisp.tengo")
	if err != nil || len(script) == 0 {
		t.Fatalf("expected embedded script, got %q, %v", script, err)
	}
}

func TestLoadMissing(t *testing.T) {
	withDir(t, t.TempDir())
	if _, err := LoadObjectSpec("nope.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
}

func validSpec() ObjectSpec {
	return ObjectSpec{
		Name:  "thing",
		Sheet: "entities/thing.png",
		Grid:  GridSpec{Cols: 2, Rows: 2},
		Size:  SizeSpec{Width: 8, Height: 8},
		Animations: []AnimationSpec{
			{Name: "a", Frames: []FrameSpec{{Col: 0, Row: 0, Duration: 0.5}, {Col: 1, Row: 1}}},
			{Name: "b", Frames: []FrameSpec{{Col: 1, Row: 0, Duration: 0.25}}},
		},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *ObjectSpec)
		want   error
	}{
		{"missing_name", func(s *ObjectSpec) { s.Name = " " }, common.ErrInvalidArgument},
		{"missing_sheet", func(s *ObjectSpec) { s.Sheet = "" }, common.ErrInvalidArgument},
		{"zero_grid", func(s *ObjectSpec) { s.Grid.Cols = 0 }, common.ErrInvalidArgument},
		{"negative_scale", func(s *ObjectSpec) { s.Scale.Y = -1 }, common.ErrInvalidArgument},
		{"zero_size", func(s *ObjectSpec) { s.Size.Height = 0 }, common.ErrInvalidArgument},
		{"no_animations", func(s *ObjectSpec) { s.Animations = nil }, common.ErrInvalidArgument},
		{"unnamed_animation", func(s *ObjectSpec) { s.Animations[1].Name = "" }, common.ErrInvalidArgument},
		{"duplicate_animation", func(s *ObjectSpec) { s.Animations[1].Name = "a" }, common.ErrInvalidArgument},
		{"empty_frames", func(s *ObjectSpec) { s.Animations[0].Frames = nil }, common.ErrInvalidArgument},
		{"cell_outside_grid", func(s *ObjectSpec) { s.Animations[0].Frames[1].Col = 2 }, common.ErrInvalidArgument},
		{"event_out_of_range", func(s *ObjectSpec) {
			s.Animations[1].Events = []EventSpec{{Frame: 1, Type: "sound"}}
		}, common.ErrInvalidArgument},
		{"event_without_type", func(s *ObjectSpec) {
			s.Animations[0].Events = []EventSpec{{Frame: 1}}
		}, common.ErrInvalidArgument},
		{"unknown_default", func(s *ObjectSpec) { s.DefaultAnimation = "zzz" }, common.ErrNotFound},
		{"valid", func(s *ObjectSpec) {}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := validSpec()
			c.mutate(&s)
			err := s.Validate()
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.DefaultAnimation != "a" {
					t.Fatalf("expected default to fall back to first animation, got %q", s.DefaultAnimation)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestApplyPlaysDefaultAndRoutesEvents(t *testing.T) {
	withDir(t, t.TempDir())
	spec, err := LoadObjectSpec("player.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var got []emitted
	p := component.NewAnimationPlayer()
	if err := spec.Apply(p, recordingEmitter(&got)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.CurrentKey() != "idle" || !p.Looping() {
		t.Fatalf("expected looping idle, got %q looping=%v", p.CurrentKey(), p.Looping())
	}

	if err := spec.Play(p, "run"); err != nil {
		t.Fatalf("play run: %v", err)
	}
	// Later run frames carry the first frame's duration forward.
	for range 4 {
		p.Update(0.08)
	}
	if p.FrameIndex() != 4 {
		t.Fatalf("expected frame 4, got %d", p.FrameIndex())
	}
	want := []emitted{
		{"run", 1, component.FrameEvent{Type: component.FrameEventSound, Payload: "step"}},
		{"run", 3, component.FrameEvent{Type: component.FrameEventSound, Payload: "step"}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestPlayNonLoopingAndIdempotent(t *testing.T) {
	withDir(t, t.TempDir())
	spec, err := LoadObjectSpec("player.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var got []emitted
	p := component.NewAnimationPlayer()
	if err := spec.Apply(p, recordingEmitter(&got)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := spec.Play(p, "cast"); err != nil {
		t.Fatalf("play cast: %v", err)
	}
	if p.Looping() {
		t.Fatalf("cast must not loop")
	}

	p.Update(0.1)
	p.Update(0.1)
	// Asking again mid-animation must not restart it.
	if err := spec.Play(p, "cast"); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if p.FrameIndex() != 2 {
		t.Fatalf("expected frame 2 after replay, got %d", p.FrameIndex())
	}
	p.Update(0.1)
	p.Update(0.2)
	if !p.Finished() {
		t.Fatalf("expected cast to finish")
	}
	if len(got) != 1 || got[0].evt.Type != component.FrameEventSpawn || got[0].evt.Payload != "wisp.yaml" {
		t.Fatalf("expected a single spawn event, got %+v", got)
	}

	// Switching away from a finished animation re-enables playback.
	if err := spec.Play(p, "idle"); err != nil {
		t.Fatalf("play idle: %v", err)
	}
	if !p.AutoAdvance() || !p.Looping() {
		t.Fatalf("expected idle to loop and advance")
	}

	if err := spec.Play(p, "dance"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyKeepsCurrentAnimationOnReload(t *testing.T) {
	withDir(t, t.TempDir())
	spec, err := LoadObjectSpec("player.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := component.NewAnimationPlayer()
	if err := spec.Apply(p, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := spec.Play(p, "run"); err != nil {
		t.Fatalf("play: %v", err)
	}

	// Reapplying registers fresh frames, so run restarts with them.
	p.Update(0.08)
	if err := spec.Apply(p, nil); err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if p.CurrentKey() != "run" || p.FrameIndex() != 0 {
		t.Fatalf("expected run restarted, got %q frame %d", p.CurrentKey(), p.FrameIndex())
	}
}
