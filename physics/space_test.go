package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/sketchbook/common"
)

func TestSpaceStepMovesBody(t *testing.T) {
	s := NewSpace(0, 0)
	b, err := s.AddBox(100, 100, 16, 16, 1)
	if err != nil {
		t.Fatalf("add box: %v", err)
	}
	b.SetVelocity(60, 0)

	for i := 0; i < 60; i++ {
		s.Step(1.0/60.0, 6, 2)
	}

	x, y := b.Position()
	if math.Abs(x-160) > 1e-6 || math.Abs(y-100) > 1e-6 {
		t.Fatalf("expected body near (160,100), got (%v,%v)", x, y)
	}
	if s.Steps() != 60 {
		t.Fatalf("expected 60 steps, got %d", s.Steps())
	}
	if s.Space().Iterations != 8 {
		t.Fatalf("expected solver iterations 8, got %d", s.Space().Iterations)
	}
}

func TestSpaceDispose(t *testing.T) {
	s := NewSpace(0, 10)
	b, err := s.AddBox(0, 0, 4, 4, 1)
	if err != nil {
		t.Fatalf("add box: %v", err)
	}

	s.Dispose()
	s.Dispose()

	if !s.Disposed() {
		t.Fatalf("expected disposed")
	}
	if !b.Removed() {
		t.Fatalf("expected body removed on dispose")
	}
	s.Step(1.0/60.0, 6, 2)
	if s.Steps() != 0 {
		t.Fatalf("step after dispose must be a no-op")
	}
	if _, err := s.AddBox(0, 0, 4, 4, 1); !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestAddBoxValidation(t *testing.T) {
	s := NewSpace(0, 0)
	cases := []struct {
		name       string
		w, h, mass float64
	}{
		{"zero_width", 0, 4, 1},
		{"negative_height", 4, -1, 1},
		{"zero_mass", 4, 4, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.AddBox(0, 0, c.w, c.h, c.mass); !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestBodyRemove(t *testing.T) {
	s := NewSpace(0, 0)
	b, err := s.AddBox(0, 0, 4, 4, 1)
	if err != nil {
		t.Fatalf("add box: %v", err)
	}
	b.Remove()
	b.Remove()
	if len(s.bodies) != 0 {
		t.Fatalf("expected body untracked, have %d", len(s.bodies))
	}
	s.Dispose()
}
