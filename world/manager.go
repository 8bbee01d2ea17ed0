package world

import (
	"fmt"
	"sort"

	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/physics"
	"go.uber.org/zap"
)

// Option configures a Manager.
type Option func(*Manager)

// WithPhysics attaches a physics world stepped once per Update. The manager
// owns it and disposes it with itself.
func WithPhysics(w physics.World, timeStep float64, velocityIterations, positionIterations int) Option {
	return func(m *Manager) {
		m.physics = w
		m.timeStep = timeStep
		m.velIters = velocityIterations
		m.posIters = positionIterations
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClassTable sets where static teardowns are looked up on Dispose.
func WithClassTable(t *ClassTable) Option {
	return func(m *Manager) {
		if t != nil {
			m.classTable = t
		}
	}
}

// OnManagerDestroy runs fn at the start of Destroy.
func OnManagerDestroy(fn func()) Option {
	return func(m *Manager) {
		m.onDestroy = fn
	}
}

// Manager owns the live objects of one screen. Objects added during an
// update only join the live list on the next Update, and objects marked for
// removal are destroyed by the Update that finds them.
type Manager struct {
	live        []Object
	pending     []Object
	renderables []Renderable
	renderDirty bool

	classes []*Class
	seen    map[*Class]struct{}
	slots   slots

	physics  physics.World
	timeStep float64
	velIters int
	posIters int

	classTable *ClassTable
	onDestroy  func()
	log        *zap.Logger
	disposed   bool
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		seen:       make(map[*Class]struct{}),
		classTable: NewClassTable(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Add queues obj for the next Update and returns its handle. Renderables
// join the render list straight away.
func (m *Manager) Add(obj Object) (Handle, error) {
	if obj == nil {
		return 0, fmt.Errorf("%w: nil object", common.ErrInvalidArgument)
	}
	if m.disposed {
		return 0, fmt.Errorf("%w: manager disposed", common.ErrInvalidState)
	}
	b := obj.Core()
	if b.disposed {
		return 0, fmt.Errorf("%w: object already disposed", common.ErrInvalidState)
	}
	if b.handle.Valid() {
		return 0, fmt.Errorf("%w: object already added as %s", common.ErrInvalidState, b.handle)
	}

	b.handle = m.slots.insert(obj)
	m.pending = append(m.pending, obj)

	if c := b.class; c != nil {
		if _, ok := m.seen[c]; !ok {
			m.seen[c] = struct{}{}
			m.classes = append(m.classes, c)
		}
	}
	if r, ok := obj.(Renderable); ok {
		m.renderables = append(m.renderables, r)
		m.renderDirty = true
	}
	return b.handle, nil
}

// Update runs one fixed step: flush pending adds, update or destroy each
// live object from the tail, step physics, then post-update the survivors.
func (m *Manager) Update(dt float64) {
	if m.disposed {
		return
	}

	if len(m.pending) > 0 {
		m.live = append(m.live, m.pending...)
		clear(m.pending)
		m.pending = m.pending[:0]
	}

	for i := len(m.live) - 1; i >= 0; i-- {
		obj := m.live[i]
		b := obj.Core()
		if b.pendingRemoval {
			m.live = append(m.live[:i], m.live[i+1:]...)
			m.removeRenderable(obj)
			m.slots.release(b.handle)
			Destroy(obj)
			continue
		}
		obj.Update(dt)
		if m.disposed {
			return
		}
	}

	if m.physics != nil {
		m.physics.Step(m.timeStep, m.velIters, m.posIters)
	}

	for _, obj := range m.live {
		if !obj.Core().pendingRemoval {
			obj.PostUpdate()
		}
	}
}

func (m *Manager) removeRenderable(obj Object) {
	r, ok := obj.(Renderable)
	if !ok {
		return
	}
	for i, other := range m.renderables {
		if other == r {
			m.renderables = append(m.renderables[:i], m.renderables[i+1:]...)
			return
		}
	}
}

// SortRenderables orders the render list by z index, keeping insertion order
// for equal z. It only sorts after something changed the order.
func (m *Manager) SortRenderables() {
	if !m.renderDirty {
		return
	}
	sort.SliceStable(m.renderables, func(i, j int) bool {
		return m.renderables[i].ZIndex() < m.renderables[j].ZIndex()
	})
	m.renderDirty = false
}

// NotifyRenderOrderChanged asks for a re-sort, typically after a Z change.
func (m *Manager) NotifyRenderOrderChanged() {
	m.renderDirty = true
}

// Renderables returns the render list in its current order.
func (m *Manager) Renderables() []Renderable {
	return m.renderables
}

// Remove marks obj for destruction if it is on the live list.
func (m *Manager) Remove(obj Object) {
	if obj == nil {
		return
	}
	for _, other := range m.live {
		if other == obj {
			obj.Core().MarkToDestroy()
			return
		}
	}
}

// Lookup resolves a handle to its object while the object is owned here.
func (m *Manager) Lookup(h Handle) (Object, bool) {
	return m.slots.get(h)
}

// Live returns the live list. Callers must not modify it.
func (m *Manager) Live() []Object {
	return m.live
}

func (m *Manager) Pending() int {
	return len(m.pending)
}

// Classes returns every class ever added, in first-seen order.
func (m *Manager) Classes() []*Class {
	return m.classes
}

func (m *Manager) Physics() physics.World {
	return m.physics
}

func (m *Manager) Disposed() bool {
	return m.disposed
}

// Destroy runs the OnManagerDestroy hook and then disposes the manager.
func (m *Manager) Destroy() {
	if m.disposed {
		return
	}
	if m.onDestroy != nil {
		m.onDestroy()
	}
	m.Dispose()
}

// Dispose frees every owned object, then runs the static teardown of every
// class that was ever added, then releases the physics world. Objects are
// disposed without their OnDestroy hook.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true

	for _, obj := range m.live {
		Dispose(obj)
	}
	for _, obj := range m.pending {
		Dispose(obj)
	}

	m.disposeStatics()

	m.live = nil
	m.pending = nil
	m.renderables = nil
	m.classes = nil
	m.seen = nil
	m.slots.reset()

	if m.physics != nil {
		m.physics.Dispose()
		m.physics = nil
	}
}

func (m *Manager) disposeStatics() {
	cleaned := make(map[*Class]struct{}, len(m.classes))
	for _, c := range m.classes {
		if _, ok := cleaned[c]; ok || !c.HasStatics() {
			continue
		}
		td, ok := m.classTable.Lookup(c)
		if !ok {
			m.log.Error("class declares static resources but has no teardown",
				zap.String("class", c.Name()))
			continue
		}
		if err := runTeardown(td); err != nil {
			m.log.Error("static teardown failed",
				zap.String("class", c.Name()),
				zap.Error(err))
			continue
		}
		cleaned[c] = struct{}{}
	}
}

func runTeardown(td StaticTeardown) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return td.DisposeStatics()
}
