package screens

import (
	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

type readerMenuAction int

const (
	menuGoToPercent readerMenuAction = iota
	menuBackToLibrary
	menuGoHome
	menuClose
)

// readerMenu lists the reader actions. It runs as a subactivity and hands
// the choice to its host through onSelect or onCancel.
type readerMenu struct {
	*activity.Base
	deps     Deps
	list     *optionList
	onSelect func(activity.MenuResult)
	onCancel func()
}

func newReaderMenu(m *activity.Manager, d Deps, onSelect func(activity.MenuResult), onCancel func()) *readerMenu {
	return &readerMenu{
		Base: activity.NewBase("ReaderMenu", m),
		deps: d,
		list: newOptionList([]string{
			d.Tr.Tr("GoToPercent"),
			d.Tr.Tr("BackToLibrary"),
			d.Tr.Tr("GoHome"),
			d.Tr.Tr("Close"),
		}),
		onSelect: onSelect,
		onCancel: onCancel,
	}
}

func (rm *readerMenu) Loop() {
	if rm.list.update(rm.Input()) {
		rm.RequestUpdate()
	}

	switch {
	case rm.Released(constants.ButtonBack):
		rm.onCancel()
	case rm.Released(constants.ButtonConfirm):
		rm.onSelect(activity.MenuResult{
			Action:      rm.list.index(),
			Orientation: uint8(rm.Renderer().Orientation()),
		})
	}
}

func (rm *readerMenu) Render(*activity.RenderLock) {
	r := rm.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(30, rm.deps.Tr.Tr("ReaderMenu"), activity.StyleBold)
	rm.list.draw(r, 30+2*r.LineHeight())
	drawHints(r, rm.deps.Tr.Tr("Back"), rm.deps.Tr.Tr("Confirm"))
	display(rm.Base, constants.FastRefresh)
}
