package activity

import (
	"image"
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Renderer is the drawing surface shared by all activities. Calls are only
// made while holding a RenderLock; the activity core never looks at pixels.
type Renderer interface {
	ClearScreen()
	DrawImage(img image.Image, x, y, w, h int)
	DrawRect(x, y, w, h int)
	FillRect(x, y, w, h int)
	DrawText(x, y int, text string, style Style)
	DrawCenteredText(y int, text string, style Style)
	DisplayBuffer(mode constants.RefreshMode) error
	ScreenWidth() int
	ScreenHeight() int
	LineHeight() int
	TextWidth(text string, style Style) int
	Orientation() constants.Orientation
}

// Input is the polled, edge-detected button state. It is read-only from the
// point of view of activities.
type Input interface {
	IsPressed(b constants.Button) bool
	WasPressed(b constants.Button) bool
	WasReleased(b constants.Button) bool
	WasAnyPressed() bool
	WasAnyReleased() bool
	HeldTime() time.Duration
}

// PowerToken keeps the device out of low-power mode until released.
type PowerToken interface {
	Release()
}

// PowerPolicy hands out tokens that inhibit low-power mode. The render task
// holds one for the duration of every frame.
type PowerPolicy interface {
	Inhibit() PowerToken
}

type noPower struct{}

func (noPower) Inhibit() PowerToken { return noPower{} }
func (noPower) Release()            {}
