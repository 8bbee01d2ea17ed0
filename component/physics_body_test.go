package component

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/physics"
)

func TestPhysicsBodySyncsTransform(t *testing.T) {
	space := physics.NewSpace(0, 0)
	defer space.Dispose()

	tr := NewTransform(0, 0, 0, 16, 16, false, false)
	cx, cy := tr.Center()
	body, err := space.AddBox(cx, cy, tr.Width, tr.Height, 1)
	if err != nil {
		t.Fatalf("add box: %v", err)
	}
	pb, err := NewPhysicsBody(tr, body)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	pb.SetVelocity(60, 0)
	for i := 0; i < 60; i++ {
		pb.Update(1.0 / 60.0)
		space.Step(1.0/60.0, 6, 2)
		pb.PostUpdate()
	}

	if math.Abs(tr.X-60) > 1e-6 || math.Abs(tr.Y) > 1e-6 {
		t.Fatalf("expected transform at (60,0), got (%v,%v)", tr.X, tr.Y)
	}
}

func TestPhysicsBodyDispose(t *testing.T) {
	space := physics.NewSpace(0, 0)
	defer space.Dispose()
	body, _ := space.AddBox(8, 8, 16, 16, 1)
	tr := NewTransform(0, 0, 0, 16, 16, false, false)
	pb, _ := NewPhysicsBody(tr, body)

	pb.Dispose()
	pb.Dispose()
	if !pb.Disposed() || !body.Removed() {
		t.Fatalf("expected body removed on dispose")
	}

	tr.X = 42
	pb.PostUpdate()
	if tr.X != 42 {
		t.Fatalf("disposed body must not move the transform")
	}

	if _, err := NewPhysicsBody(nil, body); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
