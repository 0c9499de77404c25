package screens

import (
	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// message shows one line of text until any button is released.
type message struct {
	*activity.Base
	deps  Deps
	text  string
	style activity.Style
}

func newMessage(m *activity.Manager, d Deps, text string, style activity.Style) *message {
	return &message{Base: activity.NewBase("FullScreenMessage", m), deps: d, text: text, style: style}
}

func (msg *message) Loop() {
	if msg.Input().WasAnyReleased() {
		msg.GoHome()
	}
}

func (msg *message) Render(*activity.RenderLock) {
	r := msg.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(r.ScreenHeight()/2-r.LineHeight()/2, msg.text, msg.style)
	display(msg.Base, constants.FullRefresh)
}
