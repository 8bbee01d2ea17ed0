// Package component holds the per-object building blocks: transform,
// animation playback, sprite sheet drawing, controllers and scripted behaviour.
package component

// Component is updated by its owning object during the fixed-step pass.
type Component interface {
	Update(dt float64)
	PostUpdate()
	Dispose()
	Disposed() bool
}
