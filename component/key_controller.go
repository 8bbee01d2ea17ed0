package component

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/common"
	"github.com/milk9111/sketchbook/input"
)

// KeyAction receives true on press and false on release.
type KeyAction func(pressed bool)

type keyBinding struct {
	key    ebiten.Key
	action KeyAction
	down   bool
}

// KeyController polls bound keys once per update and calls their actions on
// press and release edges only.
type KeyController struct {
	poller   input.Poller
	bindings []*keyBinding
	disposed bool
}

func NewKeyController(poller input.Poller) (*KeyController, error) {
	if poller == nil {
		return nil, fmt.Errorf("%w: key controller poller is nil", common.ErrInvalidArgument)
	}
	return &KeyController{poller: poller}, nil
}

// Bind attaches action to key, replacing an earlier binding of that key.
// The key starts out released.
func (c *KeyController) Bind(key ebiten.Key, action KeyAction) error {
	if action == nil {
		return fmt.Errorf("%w: nil action for key %v", common.ErrInvalidArgument, key)
	}
	for _, b := range c.bindings {
		if b.key == key {
			b.action = action
			b.down = false
			return nil
		}
	}
	c.bindings = append(c.bindings, &keyBinding{key: key, action: action})
	return nil
}

// Pressed reports the last polled state of key.
func (c *KeyController) Pressed(key ebiten.Key) bool {
	for _, b := range c.bindings {
		if b.key == key {
			return b.down
		}
	}
	return false
}

func (c *KeyController) Update(float64) {
	if c.disposed {
		return
	}
	for _, b := range c.bindings {
		pressed := c.poller.IsKeyPressed(b.key)
		if pressed == b.down {
			continue
		}
		b.down = pressed
		b.action(pressed)
	}
}

// Latch records the current state of every bound key without calling any
// action. Keys held while a screen switches then do not fire on the new one.
func (c *KeyController) Latch() {
	for _, b := range c.bindings {
		b.down = c.poller.IsKeyPressed(b.key)
	}
}

func (c *KeyController) PostUpdate() {}

func (c *KeyController) Dispose() {
	c.bindings = nil
	c.disposed = true
}

func (c *KeyController) Disposed() bool { return c.disposed }
