// Package world holds the object lifecycle and the Manager that owns live
// objects, their render order and the per-class static teardown.
package world

import "github.com/milk9111/sketchbook/component"

// Object is anything a Manager can own. Concrete types embed Base (or
// RenderableBase) and override Update or PostUpdate when they need to,
// calling the embedded method to keep their components running.
type Object interface {
	Core() *Base
	Update(dt float64)
	PostUpdate()
}

// Destroyer is implemented by objects with teardown to run before their
// components are disposed.
type Destroyer interface {
	OnDestroy()
}

// DataDisposer is implemented by objects holding per-instance data to free
// after their components are disposed.
type DataDisposer interface {
	DisposeData()
}

// Base is the identity and lifecycle state shared by every object.
type Base struct {
	class      *Class
	handle     Handle
	components []component.Component

	pendingRemoval bool
	destroyed      bool
	disposed       bool
}

func NewBase(class *Class) Base {
	return Base{class: class}
}

func (b *Base) Core() *Base { return b }

func (b *Base) Class() *Class { return b.class }

// Handle is the object's id in its manager. It is zero before Add.
func (b *Base) Handle() Handle { return b.handle }

// AddComponent appends c to both the update and post-update passes.
func (b *Base) AddComponent(c component.Component) {
	if c == nil {
		return
	}
	b.components = append(b.components, c)
}

func (b *Base) Components() []component.Component {
	return b.components
}

// MarkToDestroy schedules removal on the manager's next update.
func (b *Base) MarkToDestroy() {
	b.pendingRemoval = true
}

func (b *Base) PendingRemoval() bool { return b.pendingRemoval }

func (b *Base) Disposed() bool { return b.disposed }

// Update runs every live component.
func (b *Base) Update(dt float64) {
	for _, c := range b.components {
		if !c.Disposed() {
			c.Update(dt)
		}
	}
}

func (b *Base) PostUpdate() {
	for _, c := range b.components {
		if !c.Disposed() {
			c.PostUpdate()
		}
	}
}

// Destroy runs obj's OnDestroy hook at most once and then disposes it.
func Destroy(obj Object) {
	if obj == nil {
		return
	}
	b := obj.Core()
	if b.disposed {
		return
	}
	if !b.destroyed {
		b.destroyed = true
		if d, ok := obj.(Destroyer); ok {
			d.OnDestroy()
		}
	}
	Dispose(obj)
}

// Dispose frees obj's components and then its own data. Later calls do
// nothing.
func Dispose(obj Object) {
	if obj == nil {
		return
	}
	b := obj.Core()
	if b.disposed {
		return
	}
	b.disposed = true
	for _, c := range b.components {
		if !c.Disposed() {
			c.Dispose()
		}
	}
	if d, ok := obj.(DataDisposer); ok {
		d.DisposeData()
	}
}
