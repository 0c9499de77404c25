package activity

import (
	"context"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Activity is a full-screen unit of UI behavior.
//
// The manager calls OnEnter once when the activity takes control and OnExit
// once before it is dropped. OnExit runs with the render lock held, so it
// must not take the lock again. Loop is called on every main loop tick and
// must not block. Render is called from the render task with exclusive
// access to the display, and never before OnEnter has returned.
//
// Every implementation embeds *Base, which provides defaults for all methods.
type Activity interface {
	Name() string
	OnEnter()
	OnExit()
	Loop()
	Render(lock *RenderLock)
	RequestUpdate()
	SkipLoopDelay() bool
	PreventAutoSleep() bool
	IsReaderActivity() bool

	base() *Base
}

type lifecycle int32

const (
	stateNew lifecycle = iota
	stateEntered
	stateExited
)

// Base carries the state shared by every activity. Embed it by pointer and
// create it with NewBase.
type Base struct {
	name     string
	manager  *Manager
	renderer Renderer
	input    Input
	logger   *slog.Logger

	// Only touched from the main loop.
	resultHandler ResultHandler
	result        Result

	state atomic.Int32
}

// NewBase creates the shared part of an activity bound to m.
func NewBase(name string, m *Manager) *Base {
	return &Base{
		name:     name,
		manager:  m,
		renderer: m.Renderer(),
		input:    m.Input(),
		logger:   m.Logger(),
	}
}

func (b *Base) base() *Base { return b }

func (b *Base) Name() string { return b.name }

// Manager returns the activity manager this activity belongs to.
func (b *Base) Manager() *Manager { return b.manager }

// Renderer returns the shared renderer. Only draw while holding a RenderLock.
func (b *Base) Renderer() Renderer { return b.renderer }

// Input returns the shared button input.
func (b *Base) Input() Input { return b.input }

// Logger returns the runtime logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

func (b *Base) OnEnter() {
	b.logger.Debug("Entering activity", "activity", b.name)
}

func (b *Base) OnExit() {
	b.logger.Debug("Exiting activity", "activity", b.name)
}

func (b *Base) Loop() {}

func (b *Base) Render(*RenderLock) {}

// RequestUpdate asks the manager's render task for a new frame.
func (b *Base) RequestUpdate() {
	b.manager.RequestUpdate()
}

// RequestUpdateAndWait asks for a new frame and blocks until it has been
// displayed or ctx is done. Never call it while holding a RenderLock.
func (b *Base) RequestUpdateAndWait(ctx context.Context) error {
	return b.manager.RequestUpdateAndWait(ctx)
}

func (b *Base) SkipLoopDelay() bool    { return false }
func (b *Base) PreventAutoSleep() bool { return false }
func (b *Base) IsReaderActivity() bool { return false }

// SetResult stores the result handed back to the launcher when this
// activity is popped.
func (b *Base) SetResult(r Result) {
	b.result = r
}

// Finish asks the manager to pop this activity. It must be the current
// activity; a subactivity signals its host instead.
func (b *Base) Finish() {
	b.manager.PopActivity()
}

// FinishWithResult stores r and finishes.
func (b *Base) FinishWithResult(r Result) {
	b.manager.PopActivityWithResult(r)
}

// Cancel finishes with a cancelled result.
func (b *Base) Cancel() {
	b.manager.PopActivityWithResult(Cancelled())
}

// StartActivityForResult pushes a on top of the current activity and calls h
// with its result once it finishes.
func (b *Base) StartActivityForResult(a Activity, h ResultHandler) {
	b.manager.StartActivityForResult(a, h)
}

// GoHome replaces everything with the home screen.
func (b *Base) GoHome() {
	b.manager.GoHome()
}

// GoToReader replaces everything with the reader for path.
func (b *Base) GoToReader(path string) {
	b.manager.GoToReader(path)
}

// Released reports whether btn was released during this tick. Screens act
// on release rather than press.
func (b *Base) Released(btn constants.Button) bool {
	return b.input.WasReleased(btn)
}

func (b *Base) takeResult() Result {
	r := b.result
	b.result = Result{}
	return r
}

func (b *Base) takeResultHandler() ResultHandler {
	h := b.resultHandler
	b.resultHandler = nil
	return h
}

func (b *Base) entered() bool {
	return lifecycle(b.state.Load()) == stateEntered
}

