package component

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/sketchbook/common"
	"go.uber.org/zap"
)

// Script runs a tengo program against its object's transform every update.
// The program sees the globals dt, elapsed, transform (x, y, z, flip_x,
// flip_y) and state, a map kept between runs. Writes to transform are
// copied back after each run.
type Script struct {
	name      string
	transform *Transform
	log       *zap.Logger

	compiled *tengo.Compiled
	vars     *tengo.Map
	state    *tengo.Map
	elapsed  float64

	failed   bool
	disposed bool
}

func NewScript(name string, src []byte, t *Transform, log *zap.Logger) (*Script, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: script %q has no transform", common.ErrInvalidArgument, name)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Script{
		name:      name,
		transform: t,
		log:       log,
		vars:      &tengo.Map{Value: map[string]tengo.Object{}},
		state:     &tengo.Map{Value: map[string]tengo.Object{}},
	}
	if err := s.Reload(src); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload recompiles the program and re-enables a script that had failed.
// State and elapsed time are kept.
func (s *Script) Reload(src []byte) error {
	script := tengo.NewScript(src)
	_ = script.Add("dt", 0.0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("transform", map[string]any{})
	_ = script.Add("state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script %q: compile: %w", s.name, err)
	}
	s.compiled = compiled
	s.failed = false
	return nil
}

func (s *Script) Name() string { return s.name }

// Failed reports whether a runtime error disabled the script.
func (s *Script) Failed() bool { return s.failed }

func (s *Script) Elapsed() float64 { return s.elapsed }

func (s *Script) Update(dt float64) {
	if s.disposed || s.failed || s.compiled == nil {
		return
	}
	s.elapsed += dt

	if err := s.run(dt); err != nil {
		s.failed = true
		s.log.Warn("script disabled after runtime error",
			zap.String("script", s.name),
			zap.Float64("elapsed", s.elapsed),
			zap.Error(err))
		return
	}
	s.writeBack()
}

func (s *Script) run(dt float64) error {
	t := s.transform
	v := s.vars.Value
	v["x"] = &tengo.Float{Value: t.X}
	v["y"] = &tengo.Float{Value: t.Y}
	v["z"] = &tengo.Float{Value: t.Z}
	v["flip_x"] = tengoBool(t.FlipX)
	v["flip_y"] = tengoBool(t.FlipY)

	if err := s.compiled.Set("dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Set("elapsed", s.elapsed); err != nil {
		return err
	}
	if err := s.compiled.Set("transform", s.vars); err != nil {
		return err
	}
	if err := s.compiled.Set("state", s.state); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Script) writeBack() {
	t := s.transform
	v := s.vars.Value
	if f, ok := tengo.ToFloat64(v["x"]); ok {
		t.X = f
	}
	if f, ok := tengo.ToFloat64(v["y"]); ok {
		t.Y = f
	}
	if f, ok := tengo.ToFloat64(v["z"]); ok {
		t.Z = f
	}
	if o, ok := v["flip_x"]; ok && o != nil {
		t.FlipX = !o.IsFalsy()
	}
	if o, ok := v["flip_y"]; ok && o != nil {
		t.FlipY = !o.IsFalsy()
	}
}

func tengoBool(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func (s *Script) PostUpdate() {}

func (s *Script) Dispose() {
	s.compiled = nil
	s.disposed = true
}

func (s *Script) Disposed() bool { return s.disposed }
