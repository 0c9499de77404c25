package screens

import (
	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// sleepScreen stays on the panel while the device is powered down. Waking
// boots again, which resumes the last book.
type sleepScreen struct {
	*activity.Base
	deps Deps
}

func newSleep(m *activity.Manager, d Deps) *sleepScreen {
	return &sleepScreen{Base: activity.NewBase("Sleep", m), deps: d}
}

func (s *sleepScreen) PreventAutoSleep() bool { return true }

func (s *sleepScreen) Loop() {
	if s.Input().WasAnyReleased() {
		s.Manager().GoToBoot()
	}
}

func (s *sleepScreen) Render(*activity.RenderLock) {
	r := s.Renderer()
	w, h := r.ScreenWidth(), r.ScreenHeight()

	r.ClearScreen()
	if logo, err := s.deps.Icons.Logo(logoSize); err == nil {
		r.DrawImage(logo, (w-logoSize)/2, (h-logoSize)/2, logoSize, logoSize)
	}
	r.DrawCenteredText(h/2+70, s.deps.Tr.Tr("Sleeping"), activity.StyleItalic)
	display(s.Base, constants.FullRefresh)
}
