package input

import "github.com/hajimehoshi/ebiten/v2"

// Poller answers key state queries. It is read once per update tick.
type Poller interface {
	IsKeyPressed(key ebiten.Key) bool
}

// Keyboard polls the ebiten keyboard.
type Keyboard struct{}

func (Keyboard) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// Keys is a fixed key state, handy for replaying input and for tests.
type Keys map[ebiten.Key]bool

func (k Keys) IsKeyPressed(key ebiten.Key) bool {
	return k[key]
}
