package screens

import (
	"errors"
	"os"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

const logoSize = 120

// boot shows the logo, then reopens the last book or goes home.
type boot struct {
	*activity.Base
	deps    Deps
	decided bool
}

func newBoot(m *activity.Manager, d Deps) *boot {
	return &boot{Base: activity.NewBase("Boot", m), deps: d}
}

func (b *boot) Loop() {
	if b.decided {
		return
	}
	b.decided = true

	path, ok := b.resumePath()
	if !ok {
		b.GoHome()
		return
	}
	b.Logger().Info("Resuming last book", "path", path)
	b.GoToReader(path)
}

func (b *boot) resumePath() (string, bool) {
	if b.deps.State == nil {
		return "", false
	}
	path, err := b.deps.State.LastBook()
	if errors.Is(err, state.ErrNoLastBook) {
		return "", false
	}
	if err != nil {
		b.Logger().Error("Failed to read last book", "error", err)
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		b.Logger().Warn("Last book is gone", "path", path, "error", err)
		return "", false
	}
	return path, true
}

func (b *boot) Render(*activity.RenderLock) {
	r := b.Renderer()
	w, h := r.ScreenWidth(), r.ScreenHeight()

	r.ClearScreen()
	if logo, err := b.deps.Icons.Logo(logoSize); err == nil {
		r.DrawImage(logo, (w-logoSize)/2, (h-logoSize)/2, logoSize, logoSize)
	} else {
		b.Logger().Error("Failed to draw logo", "error", err)
	}
	r.DrawCenteredText(h/2+70, b.deps.Tr.Tr("Folio"), activity.StyleBold)
	r.DrawCenteredText(h/2+70+r.LineHeight(), b.deps.Tr.Tr("Booting"), activity.StyleRegular)
	display(b.Base, constants.FullRefresh)
}
