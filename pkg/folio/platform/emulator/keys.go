package emulator

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// KeyMap maps keyboard keys to reader buttons.
type KeyMap map[sdl.Keycode]constants.Button

// DefaultKeyMap uses the arrows for the rocker, Enter or Space to confirm,
// Escape or Backspace to go back and P for power.
var DefaultKeyMap = KeyMap{
	sdl.K_ESCAPE:    constants.ButtonBack,
	sdl.K_BACKSPACE: constants.ButtonBack,
	sdl.K_RETURN:    constants.ButtonConfirm,
	sdl.K_SPACE:     constants.ButtonConfirm,
	sdl.K_LEFT:      constants.ButtonLeft,
	sdl.K_RIGHT:     constants.ButtonRight,
	sdl.K_UP:        constants.ButtonUp,
	sdl.K_DOWN:      constants.ButtonDown,
	sdl.K_p:         constants.ButtonPower,
}

// apply updates mask for a key going down or up. Unmapped keys leave it
// unchanged.
func (k KeyMap) apply(mask uint8, key sdl.Keycode, down bool) uint8 {
	b, ok := k[key]
	if !ok {
		return mask
	}
	if down {
		return mask | b.Mask()
	}
	return mask &^ b.Mask()
}
