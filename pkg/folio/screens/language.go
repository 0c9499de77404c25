package screens

import (
	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/i18n"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
)

// languageSelect is the settings screen: it switches the UI language and
// writes the choice to the settings file.
type languageSelect struct {
	*activity.Base
	deps      Deps
	languages []i18n.Language
	list      *optionList
}

func newLanguageSelect(m *activity.Manager, d Deps) *languageSelect {
	langs := d.Tr.Languages()
	names := make([]string, len(langs))
	current := d.Tr.Language()

	l := &languageSelect{
		Base:      activity.NewBase("Settings", m),
		deps:      d,
		languages: langs,
	}
	for i, lang := range langs {
		names[i] = lang.Name
	}
	l.list = newOptionList(names)
	for i, lang := range langs {
		if lang.Tag == current {
			l.list.selected.Store(int32(i))
		}
	}
	return l
}

func (l *languageSelect) Loop() {
	if l.list.update(l.Input()) {
		l.RequestUpdate()
	}

	switch {
	case l.Released(constants.ButtonBack):
		l.GoHome()
	case l.Released(constants.ButtonConfirm) && len(l.languages) > 0:
		l.apply(l.languages[l.list.index()])
		l.GoHome()
	}
}

func (l *languageSelect) apply(lang i18n.Language) {
	if err := l.deps.Tr.SetLanguage(lang.Tag); err != nil {
		l.Logger().Error("Failed to switch language", "language", lang.Tag, "error", err)
		return
	}
	l.deps.Settings.Language = lang.Tag
	l.Logger().Info("Language changed", "language", lang.Tag)

	if l.deps.SettingsPath == "" {
		return
	}
	if err := settings.Save(l.deps.SettingsPath, *l.deps.Settings); err != nil {
		l.Logger().Error("Failed to save settings", "path", l.deps.SettingsPath, "error", err)
	}
}

func (l *languageSelect) Render(*activity.RenderLock) {
	r := l.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(30, l.deps.Tr.Tr("Settings"), activity.StyleBold)
	r.DrawCenteredText(30+r.LineHeight(), l.deps.Tr.Tr("Language"), activity.StyleItalic)
	l.list.draw(r, 30+3*r.LineHeight())
	drawHints(r, l.deps.Tr.Tr("Back"), l.deps.Tr.Tr("Confirm"))
	display(l.Base, l.deps.Settings.RefreshMode())
}
