package screens

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/internal"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

const (
	bytesPerPage = 2048

	// Pages turned between full refreshes to clear ghosting.
	fullRefreshEvery = 10
)

// reader shows a book's position. The menu and the percent slider open as
// subactivities on top of it.
type reader struct {
	*activity.WithSubactivity
	deps  Deps
	path  string
	pages uint32
	page  atomic.Uint32
	nav   *internal.Navigator

	// Only touched by Render.
	sinceFull int
}

func newReader(m *activity.Manager, d Deps, path string) (*reader, error) {
	if path == "" {
		return nil, errors.New("reader: no book given")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reader: %s is a directory", path)
	}
	return &reader{
		WithSubactivity: activity.NewWithSubactivity("Reader", m),
		deps:            d,
		path:            path,
		pages:           uint32(info.Size()/bytesPerPage) + 1,
		nav:             internal.NewNavigator(),
	}, nil
}

func (r *reader) IsReaderActivity() bool { return true }

func (r *reader) OnEnter() {
	r.WithSubactivity.OnEnter()
	if r.deps.State == nil {
		return
	}
	if err := r.deps.State.SetLastBook(r.path); err != nil {
		r.Logger().Error("Failed to remember last book", "path", r.path, "error", err)
	}
	p, err := r.deps.State.Progress(r.path)
	switch {
	case err == nil:
		r.page.Store(min(p.Page, r.pages-1))
	case !errors.Is(err, state.ErrNoProgress):
		r.Logger().Error("Failed to load progress", "path", r.path, "error", err)
	}
}

func (r *reader) OnExit() {
	r.WithSubactivity.OnExit()
	if r.deps.State == nil {
		return
	}
	p := state.Progress{Page: r.page.Load(), Percent: r.percent()}
	if err := r.deps.State.SaveProgress(r.path, p); err != nil {
		r.Logger().Error("Failed to save progress", "path", r.path, "error", err)
	}
}

func (r *reader) Loop() {
	if d := r.nav.Update(r.Input()); d != internal.DirectionNone {
		if r.turn(d.Delta()) {
			r.RequestUpdate()
		}
	}

	switch {
	case r.Released(constants.ButtonConfirm):
		r.EnterSubactivity(newReaderMenu(r.Manager(), r.deps, r.onMenu, r.ExitSubactivity))
	case r.Released(constants.ButtonBack):
		r.Manager().GoToMyLibrary(filepath.Dir(r.path))
	}
}

// turn moves by delta pages and reports whether the page changed.
func (r *reader) turn(delta int) bool {
	next := int64(r.page.Load()) + int64(delta)
	if next < 0 || next >= int64(r.pages) {
		return false
	}
	r.page.Store(uint32(next))
	return true
}

func (r *reader) percent() int {
	return int(uint64(r.page.Load()+1) * 100 / uint64(r.pages))
}

// seek jumps to the page at percent of the book.
func (r *reader) seek(percent int) {
	percent = max(0, min(percent, 100))
	page := uint32(uint64(percent) * uint64(r.pages) / 100)
	r.page.Store(min(page, r.pages-1))
}

func (r *reader) onMenu(choice activity.MenuResult) {
	switch readerMenuAction(choice.Action) {
	case menuGoToPercent:
		r.EnterSubactivity(newPercentSelection(r.Manager(), r.deps, r.percent(), r.onPercent, r.ExitSubactivity))
	case menuBackToLibrary:
		r.Manager().GoToMyLibrary(filepath.Dir(r.path))
	case menuGoHome:
		r.GoHome()
	default:
		r.ExitSubactivity()
	}
}

func (r *reader) onPercent(p activity.PercentResult) {
	r.seek(p.Percent)
	r.ExitSubactivity()
}

func (r *reader) Render(*activity.RenderLock) {
	rd := r.Renderer()
	rd.ClearScreen()

	lh := rd.LineHeight()
	rd.DrawCenteredText(30, filepath.Base(r.path), activity.StyleBold)
	rd.DrawCenteredText(rd.ScreenHeight()/2-lh, r.deps.Tr.Trf("PageOf", map[string]any{
		"Page":  r.page.Load() + 1,
		"Total": r.pages,
	}), activity.StyleRegular)
	rd.DrawCenteredText(rd.ScreenHeight()/2+lh, r.deps.Tr.Trf("PercentRead", map[string]any{
		"Percent": r.percent(),
	}), activity.StyleItalic)
	drawProgressBar(rd, rd.ScreenHeight()-3*lh, r.percent())

	mode := r.deps.Settings.ReaderRefreshMode()
	r.sinceFull++
	if r.sinceFull >= fullRefreshEvery {
		mode = constants.FullRefresh
	}
	if mode == constants.FullRefresh {
		r.sinceFull = 0
	}
	display(r.Base, mode)
}

// drawProgressBar draws a full-width bar at y filled to percent.
func drawProgressBar(rd activity.Renderer, y, percent int) {
	const margin, height = 40, 16
	w := rd.ScreenWidth() - 2*margin
	rd.DrawRect(margin, y, w, height)
	rd.FillRect(margin, y, w*max(0, min(percent, 100))/100, height)
}
