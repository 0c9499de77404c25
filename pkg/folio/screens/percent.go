package screens

import (
	"strconv"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/internal"
)

const (
	percentSmallStep = 1
	percentLargeStep = 10
)

// percentSelection is a slider picking a position in the book. It repaints
// through its own render task so holding a button redraws only the slider
// without waking the manager's task.
type percentSelection struct {
	*activity.Base
	deps     Deps
	percent  atomic.Int32
	nav      *internal.Navigator
	task     *activity.RenderTask
	onSelect func(activity.PercentResult)
	onCancel func()
}

func newPercentSelection(m *activity.Manager, d Deps, percent int, onSelect func(activity.PercentResult), onCancel func()) *percentSelection {
	p := &percentSelection{
		Base:     activity.NewBase("PercentSelection", m),
		deps:     d,
		nav:      internal.NewNavigator(),
		onSelect: onSelect,
		onCancel: onCancel,
	}
	p.percent.Store(int32(max(0, min(percent, 100))))
	p.task = activity.NewRenderTask("PercentSelection", m.LockRender, p.Render)
	p.task.SetLogger(m.Logger())
	return p
}

func (p *percentSelection) OnEnter() {
	p.Base.OnEnter()
	if err := p.task.Start(); err != nil {
		p.Logger().Error("Failed to start slider render task", "error", err)
	}
}

// OnExit runs under the render lock, which Stop allows.
func (p *percentSelection) OnExit() {
	p.task.Stop()
	p.Base.OnExit()
}

func (p *percentSelection) RequestUpdate() {
	p.task.Notify()
}

func (p *percentSelection) SkipLoopDelay() bool { return true }

func (p *percentSelection) Loop() {
	switch d := p.nav.Update(p.Input()); d {
	case internal.DirectionLeft, internal.DirectionRight:
		p.step(d.Delta() * percentSmallStep)
	case internal.DirectionUp, internal.DirectionDown:
		// Up moves forward.
		p.step(-d.Delta() * percentLargeStep)
	}

	switch {
	case p.Released(constants.ButtonBack):
		p.onCancel()
	case p.Released(constants.ButtonConfirm):
		p.onSelect(activity.PercentResult{Percent: p.Value()})
	}
}

func (p *percentSelection) step(delta int) {
	cur := p.Value()
	next := max(0, min(cur+delta, 100))
	if next == cur {
		return
	}
	p.percent.Store(int32(next))
	p.RequestUpdate()
}

// Value returns the selected percentage.
func (p *percentSelection) Value() int {
	return int(p.percent.Load())
}

func (p *percentSelection) Render(*activity.RenderLock) {
	r := p.Renderer()
	r.ClearScreen()
	lh := r.LineHeight()
	r.DrawCenteredText(30, p.deps.Tr.Tr("GoToPercent"), activity.StyleBold)
	percent := p.Value()
	r.DrawCenteredText(r.ScreenHeight()/2-2*lh, strconv.Itoa(percent)+"%", activity.StyleBold)
	drawProgressBar(r, r.ScreenHeight()/2, percent)
	drawHints(r, p.deps.Tr.Tr("Back"), p.deps.Tr.Tr("Confirm"))
	display(p.Base, constants.FastRefresh)
}
