package component

import (
	"errors"
	"testing"

	"github.com/milk9111/sketchbook/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestScriptWritesTransform(t *testing.T) {
	src := []byte(`
transform.x = transform.x + 10 * dt
transform.y = elapsed
transform.flip_x = true
state.ticks = is_undefined(state.ticks) ? 1 : state.ticks + 1
transform.z = state.ticks
`)
	tr := NewTransform(5, 0, 0, 8, 8, false, false)
	s, err := NewScript("drift", src, tr, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s.Update(0.5)
	s.Update(0.5)

	if tr.X != 15 {
		t.Fatalf("expected x 15, got %v", tr.X)
	}
	if tr.Y != 1 {
		t.Fatalf("expected y to follow elapsed, got %v", tr.Y)
	}
	if !tr.FlipX || tr.FlipY {
		t.Fatalf("unexpected flips %v %v", tr.FlipX, tr.FlipY)
	}
	if tr.Z != 2 {
		t.Fatalf("expected state to persist between runs, z=%v", tr.Z)
	}
}

func TestScriptMathImport(t *testing.T) {
	src := []byte(`
math := import("math")
transform.x = math.abs(-3.5)
`)
	tr := NewTransform(0, 0, 0, 1, 1, false, false)
	s, err := NewScript("abs", src, tr, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Update(1.0 / 60.0)
	if s.Failed() {
		t.Fatalf("script failed")
	}
	if tr.X != 3.5 {
		t.Fatalf("expected 3.5, got %v", tr.X)
	}
}

func TestScriptRuntimeErrorDisables(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tr := NewTransform(1, 2, 0, 1, 1, false, false)
	s, err := NewScript("broken", []byte(`transform.x = transform.explode()`), tr, zap.New(core))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	s.Update(0.1)
	s.Update(0.1)

	if !s.Failed() {
		t.Fatalf("expected script disabled")
	}
	if n := logs.FilterMessage("script disabled after runtime error").Len(); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
	if tr.X != 1 {
		t.Fatalf("failed run must not write back, x=%v", tr.X)
	}

	if err := s.Reload([]byte(`transform.x = 9`)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	s.Update(0.1)
	if s.Failed() || tr.X != 9 {
		t.Fatalf("expected reload to re-enable the script, x=%v", tr.X)
	}
}

func TestScriptCompileErrors(t *testing.T) {
	tr := NewTransform(0, 0, 0, 1, 1, false, false)
	if _, err := NewScript("bad", []byte(`transform.x = (`), tr, nil); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewScript("nil", nil, nil, nil); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
