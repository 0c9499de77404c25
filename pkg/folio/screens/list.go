package screens

import (
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/internal"
)

// optionList is a vertical list with a single focused entry, shared by the
// menu-like screens. The focus moves on the main loop and is drawn by the
// render task.
type optionList struct {
	items    []string
	selected atomic.Int32
	nav      *internal.Navigator
}

func newOptionList(items []string) *optionList {
	return &optionList{items: items, nav: internal.NewNavigator()}
}

// update moves the focus from the directional buttons and reports whether
// it changed. Focus wraps around at both ends.
func (l *optionList) update(in internal.ButtonState) bool {
	d := l.nav.Update(in)
	if d == internal.DirectionNone || len(l.items) == 0 {
		return false
	}
	l.move(d.Delta())
	return true
}

func (l *optionList) move(delta int) {
	n := len(l.items)
	l.selected.Store(int32(((l.index()+delta)%n + n) % n))
}

func (l *optionList) index() int {
	return int(l.selected.Load())
}

// visibleRange returns the window of items that fits in rows, keeping the
// focused entry visible.
func (l *optionList) visibleRange(rows int) (int, int) {
	if rows <= 0 || len(l.items) <= rows {
		return 0, len(l.items)
	}
	start := l.index() - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > len(l.items) {
		start = len(l.items) - rows
	}
	return start, start + rows
}

// draw renders the list from top and outlines the focused entry.
func (l *optionList) draw(r activity.Renderer, top int) {
	lh := r.LineHeight()
	rowH := lh + lh/2
	margin := 20
	rows := (r.ScreenHeight() - top - 2*lh) / rowH

	focus := l.index()
	start, end := l.visibleRange(rows)
	for i := start; i < end; i++ {
		y := top + (i-start)*rowH
		style := activity.StyleRegular
		if i == focus {
			r.DrawRect(margin, y-lh/4, r.ScreenWidth()-2*margin, rowH)
			style = activity.StyleBold
		}
		r.DrawText(margin*2, y, l.items[i], style)
	}
}

// drawHints draws the button labels along the bottom edge.
func drawHints(r activity.Renderer, back, confirm string) {
	y := r.ScreenHeight() - r.LineHeight() - 8
	if back != "" {
		r.DrawText(20, y, "< "+back, activity.StyleRegular)
	}
	if confirm != "" {
		w := r.TextWidth(confirm+" >", activity.StyleRegular)
		r.DrawText(r.ScreenWidth()-20-w, y, confirm+" >", activity.StyleRegular)
	}
}
