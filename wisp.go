package main

import (
	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/world"
)

// Wisp drifts under its script until its lifetime runs out.
type Wisp struct {
	world.RenderableBase

	kind   *kind
	script *component.Script
	anim   *component.AnimationPlayer
	ttl    float64
	gone   func(*Wisp)
}

// NewWisp centres a wisp on (x, y). src is the prefab's script, if any.
// gone runs once when the wisp is destroyed.
func NewWisp(k *kind, src []byte, x, y float64, flipX bool, events *component.FrameEventEmitter, gone func(*Wisp)) (*Wisp, error) {
	spec := k.spec
	w, h := spec.Size.Width, spec.Size.Height
	t := component.NewTransform(x-w/2, y-h/2, spec.Z, w, h, flipX, false)

	wisp := &Wisp{
		RenderableBase: world.NewRenderableBase(k.class, t),
		kind:           k,
		ttl:            spec.Lifetime,
		gone:           gone,
	}
	wisp.MirrorSize = true

	if spec.Script != "" {
		script, err := component.NewScript(spec.Script, src, t, k.log)
		if err != nil {
			return nil, err
		}
		wisp.script = script
		wisp.AddComponent(script)
	}

	sheet, anim, err := k.visual(events)
	if err != nil {
		return nil, err
	}
	wisp.anim = anim
	if err := wisp.AddVisual(sheet, anim); err != nil {
		return nil, err
	}
	return wisp, nil
}

func (w *Wisp) Update(dt float64) {
	w.RenderableBase.Update(dt)
	if w.kind.spec.Lifetime <= 0 {
		return
	}
	w.ttl -= dt
	if w.ttl <= 0 {
		w.MarkToDestroy()
	}
}

func (w *Wisp) OnDestroy() {
	if w.gone != nil {
		w.gone(w)
	}
}

// Remaining is the lifetime left in seconds.
func (w *Wisp) Remaining() float64 {
	return w.ttl
}

// Script is nil for wisps whose prefab has none.
func (w *Wisp) Script() *component.Script {
	return w.script
}

func (w *Wisp) applySpec(spec *prefabs.ObjectSpec, events *component.FrameEventEmitter) error {
	return spec.Apply(w.anim, events)
}
