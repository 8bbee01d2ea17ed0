package screen

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/world"
)

// Screen is one state of the game: a menu, a level. Update and PostUpdate
// run at the fixed rate, the rest once per frame.
type Screen interface {
	Update(dt float64)
	PostUpdate()
	UpdateVisuals(dt float64)
	DrawGame(batch render.Batch)
	DrawUI(batch render.Batch)
}

// WorldScreen is a Screen whose objects live in a world Manager. The driver
// updates and draws the manager's objects along with the screen.
type WorldScreen interface {
	Screen
	World() *world.Manager
}

// Projector is implemented by screens with cameras. Screens without one draw
// both batches with the identity projection.
type Projector interface {
	GameProjection() ebiten.GeoM
	UIProjection() ebiten.GeoM
}
