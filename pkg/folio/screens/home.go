package screens

import (
	"errors"
	"path/filepath"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

type homeAction int

const (
	homeContinue homeAction = iota
	homeLibrary
	homeSettings
	homeRecovery
)

type home struct {
	*activity.Base
	deps     Deps
	lastBook string
	actions  []homeAction
	list     *optionList
}

func newHome(m *activity.Manager, d Deps) *home {
	return &home{Base: activity.NewBase("Home", m), deps: d}
}

func (h *home) OnEnter() {
	h.Base.OnEnter()

	h.lastBook = ""
	if h.deps.State != nil {
		path, err := h.deps.State.LastBook()
		switch {
		case err == nil:
			h.lastBook = path
		case !errors.Is(err, state.ErrNoLastBook):
			h.Logger().Error("Failed to read last book", "error", err)
		}
	}

	h.actions = h.actions[:0]
	var labels []string
	if h.lastBook != "" {
		h.actions = append(h.actions, homeContinue)
		labels = append(labels, h.deps.Tr.Tr("ContinueReading"))
	}
	h.actions = append(h.actions, homeLibrary, homeSettings, homeRecovery)
	labels = append(labels, h.deps.Tr.Tr("Library"), h.deps.Tr.Tr("Settings"), h.deps.Tr.Tr("Recovery"))
	h.list = newOptionList(labels)
}

func (h *home) Loop() {
	if h.list.update(h.Input()) {
		h.RequestUpdate()
	}
	if !h.Released(constants.ButtonConfirm) {
		return
	}

	switch h.actions[h.list.index()] {
	case homeContinue:
		h.GoToReader(h.lastBook)
	case homeLibrary:
		// Pick a book as a result so Back returns here.
		picker, err := newLibrary(h.Manager(), h.deps, h.deps.Settings.BooksDir, true)
		if err != nil {
			h.Logger().Error("Failed to open library", "error", err)
			h.Manager().GoToFullScreenMessage(err.Error(), activity.StyleItalic)
			return
		}
		h.StartActivityForResult(picker, h.onBookPicked)
	case homeSettings:
		h.Manager().GoToSettings()
	case homeRecovery:
		h.Manager().GoToRecovery()
	}
}

func (h *home) onBookPicked(r activity.Result) {
	if r.Cancelled {
		return
	}
	if f, ok := r.File(); ok {
		h.GoToReader(f.Path)
	}
}

func (h *home) Render(*activity.RenderLock) {
	r := h.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(30, h.deps.Tr.Tr("Home"), activity.StyleBold)
	if h.lastBook != "" {
		r.DrawCenteredText(30+r.LineHeight(), filepath.Base(h.lastBook), activity.StyleItalic)
	}
	h.list.draw(r, 30+3*r.LineHeight())
	drawHints(r, "", h.deps.Tr.Tr("Confirm"))
	display(h.Base, h.deps.Settings.RefreshMode())
}
