package activity

import (
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// diagnostic is the last-resort screen shown when neither the requested
// screen nor the recovery screen can be built. It has no exits: the user
// power cycles the device.
type diagnostic struct {
	*Base
	err error
}

func newDiagnosticActivity(m *Manager, err error) Activity {
	return &diagnostic{Base: NewBase("Diagnostic", m), err: err}
}

func (d *diagnostic) Render(*RenderLock) {
	r := d.Renderer()
	lh := r.LineHeight()
	mid := r.ScreenHeight() / 2

	r.ClearScreen()
	r.DrawCenteredText(mid-lh, "Fatal error", StyleBold)
	if d.err != nil {
		r.DrawCenteredText(mid+lh, d.err.Error(), StyleRegular)
	}
	r.DrawCenteredText(r.ScreenHeight()-2*lh, "Hold power to restart", StyleItalic)
	if err := r.DisplayBuffer(constants.FullRefresh); err != nil {
		d.Logger().Error("Unable to display diagnostic screen", "error", err)
	}
}

// PreventAutoSleep keeps the message on screen instead of the sleep image.
func (d *diagnostic) PreventAutoSleep() bool { return true }
