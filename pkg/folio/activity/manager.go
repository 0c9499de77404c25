package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Screen identifies a registered activity constructor.
type Screen int

const (
	ScreenBoot Screen = iota
	ScreenHome
	ScreenMyLibrary
	ScreenReader
	ScreenSettings
	ScreenFullScreenMessage
	ScreenSleep
	ScreenRecovery
)

func (s Screen) String() string {
	switch s {
	case ScreenBoot:
		return "boot"
	case ScreenHome:
		return "home"
	case ScreenMyLibrary:
		return "library"
	case ScreenReader:
		return "reader"
	case ScreenSettings:
		return "settings"
	case ScreenFullScreenMessage:
		return "message"
	case ScreenSleep:
		return "sleep"
	case ScreenRecovery:
		return "recovery"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Constructor builds the activity for a screen. It runs on the main loop and
// must not call Begin, Loop or any transition method.
type Constructor func(m *Manager, intent Intent) (Activity, error)

type action int

const (
	actionNone action = iota
	actionPush
	actionPop
	actionReplace
)

func (a action) String() string {
	switch a {
	case actionPush:
		return "push"
	case actionPop:
		return "pop"
	case actionReplace:
		return "replace"
	default:
		return "none"
	}
}

type request struct {
	action   action
	activity Activity
}

// Manager decides which activity owns the display and input, and moves
// control between activities.
//
// Navigation requests (Replace, Push, Pop and the GoTo helpers) are only
// queued; Loop applies them on the next tick so an activity is never torn
// down from inside its own call stack. A single render task paints the
// current activity whenever RequestUpdate is called.
//
// There is one Manager per process and it lives as long as the process.
type Manager struct {
	renderer Renderer
	input    Input
	power    PowerPolicy
	logger   *slog.Logger

	// renderMu guards the display, current and stack. current and stack are
	// only written on the main loop, which may read them without the lock.
	renderMu sync.Mutex
	current  Activity
	stack    *Stack

	reqMu   sync.Mutex
	pending request

	screens    map[Screen]Constructor
	renderTask *RenderTask
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its activities.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPowerPolicy sets the policy asked for an inhibit token around every frame.
func WithPowerPolicy(p PowerPolicy) Option {
	return func(m *Manager) {
		if p != nil {
			m.power = p
		}
	}
}

// NewManager creates an idle manager. Register screens, then call Begin.
func NewManager(renderer Renderer, input Input, opts ...Option) *Manager {
	m := &Manager{
		renderer: renderer,
		input:    input,
		power:    noPower{},
		logger:   slog.Default(),
		stack:    NewStack(),
		screens:  make(map[Screen]Constructor),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.renderTask = NewRenderTask("ActivityManagerRender", m.LockRender, m.renderCurrent)
	m.renderTask.SetLogger(m.logger)
	return m
}

// Register adds a screen constructor.
func (m *Manager) Register(screen Screen, ctor Constructor) *Manager {
	m.screens[screen] = ctor
	return m
}

// Begin starts the render task. Rendering is core functionality, so an
// error here is fatal for the caller.
func (m *Manager) Begin() error {
	if m.renderer == nil {
		return NewInfrastructureError("begin", errors.New("no renderer"))
	}
	if m.input == nil {
		return NewInfrastructureError("begin", errors.New("no input source"))
	}
	if err := m.renderTask.Start(); err != nil {
		return NewInfrastructureError("begin", err)
	}
	m.logger.Debug("Activity manager started")
	return nil
}

// Shutdown stops the render task and exits every activity. The device never
// calls it; the emulator does on window close.
func (m *Manager) Shutdown() {
	m.renderTask.Stop()
	<-m.renderTask.Done()

	m.mutate(func() {
		if m.current != nil {
			m.teardown(m.current)
			m.current = nil
		}
		m.clearStack()
	})
	m.logger.Debug("Activity manager stopped")
}

// LockRender acquires the render lock.
func (m *Manager) LockRender() *RenderLock {
	return acquireRenderLock(&m.renderMu)
}

// Loop runs one tick: the current activity's Loop, then every queued
// transition, including ones queued while applying the previous one.
func (m *Manager) Loop() {
	if m.current != nil {
		target(m.current).Loop()
	}
	for m.applyPending() {
	}
}

// RequestUpdate wakes the render task. Calls made before it wakes collapse
// into one frame.
func (m *Manager) RequestUpdate() {
	m.renderTask.Notify()
}

// RequestUpdateAndWait wakes the render task and waits for the frame to be
// displayed.
func (m *Manager) RequestUpdateAndWait(ctx context.Context) error {
	return m.renderTask.NotifyAndWait(ctx)
}

// ReplaceActivity queues a to become current, exiting the current activity
// and the whole stack. With no current activity it applies immediately.
func (m *Manager) ReplaceActivity(a Activity) {
	if a == nil {
		m.logger.Error("Replace requested with nil activity")
		return
	}
	if m.current == nil {
		if dropped := m.takeRequest(); dropped.action != actionNone {
			m.logger.Warn("Dropping request queued while idle", "pending", dropped.action)
		}
		m.mutate(func() { m.current = a })
		m.enter(a)
		return
	}

	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	if m.pending.action != actionNone {
		m.logger.Debug("Replace overrides pending request", "pending", m.pending.action, "activity", a.Name())
	}
	m.pending = request{action: actionReplace, activity: a}
}

// PushActivity queues a to become current, keeping the current activity on
// the stack without exiting it.
func (m *Manager) PushActivity(a Activity) {
	m.requestPush(a)
}

// StartActivityForResult pushes a and registers h on the current activity.
// h runs once, with the result of a, when a is popped.
func (m *Manager) StartActivityForResult(a Activity, h ResultHandler) {
	if m.current == nil {
		m.logger.Error("Start for result without a launcher", "error", ErrNoCurrentActivity, "activity", a.Name())
		return
	}
	if m.requestPush(a) {
		m.current.base().resultHandler = h
	}
}

// PopActivity queues the current activity to be exited and the top of the
// stack to resume. With an empty stack the home screen takes over.
func (m *Manager) PopActivity() {
	m.requestPop()
}

// PopActivityWithResult sets the result of the current activity and pops it.
func (m *Manager) PopActivityWithResult(r Result) {
	if m.requestPop() {
		m.current.base().SetResult(r)
	}
}

// GoTo constructs the activity for screen and replaces everything with it.
func (m *Manager) GoTo(screen Screen, intent Intent) {
	m.ReplaceActivity(m.construct(screen, intent))
}

// GoHome replaces everything with the home screen.
func (m *Manager) GoHome() {
	m.GoTo(ScreenHome, Intent{})
}

func (m *Manager) GoToBoot() {
	m.GoTo(ScreenBoot, Intent{})
}

func (m *Manager) GoToSettings() {
	m.GoTo(ScreenSettings, Intent{})
}

func (m *Manager) GoToRecovery() {
	m.GoTo(ScreenRecovery, Intent{})
}

func (m *Manager) GoToMyLibrary(path string) {
	m.GoTo(ScreenMyLibrary, Intent{Path: path})
}

func (m *Manager) GoToReader(path string) {
	m.GoTo(ScreenReader, Intent{Path: path})
}

func (m *Manager) GoToFullScreenMessage(message string, style Style) {
	m.GoTo(ScreenFullScreenMessage, Intent{Message: message, MessageStyle: style})
}

// GoToSleep shows the sleep screen right away and waits for it to reach the
// display, since the caller powers down as soon as this returns.
func (m *Manager) GoToSleep(ctx context.Context) error {
	m.GoTo(ScreenSleep, Intent{})
	for m.applyPending() {
	}
	return m.RequestUpdateAndWait(ctx)
}

// Current returns the current activity, or nil while idle. Only call it from
// the main loop.
func (m *Manager) Current() Activity {
	return m.current
}

// Depth returns the number of suspended activities on the stack.
func (m *Manager) Depth() int {
	return m.stack.Len()
}

func (m *Manager) SkipLoopDelay() bool {
	return m.current != nil && m.current.SkipLoopDelay()
}

func (m *Manager) PreventAutoSleep() bool {
	return m.current != nil && m.current.PreventAutoSleep()
}

func (m *Manager) IsReaderActivity() bool {
	return m.current != nil && m.current.IsReaderActivity()
}

func (m *Manager) Renderer() Renderer   { return m.renderer }
func (m *Manager) Input() Input         { return m.input }
func (m *Manager) Logger() *slog.Logger { return m.logger }

// RenderTask exposes the manager's render task.
func (m *Manager) RenderTask() *RenderTask {
	return m.renderTask
}

func (m *Manager) requestPush(a Activity) bool {
	if a == nil {
		m.logger.Error("Push requested with nil activity")
		return false
	}
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	switch m.pending.action {
	case actionPop, actionReplace:
		m.logger.Error("Push requested while another transition is pending, dropping push",
			"pending", m.pending.action, "activity", a.Name())
		return false
	case actionPush:
		m.logger.Warn("Overwriting stale push request",
			"stale", m.pending.activity.Name(), "activity", a.Name())
	}
	m.pending = request{action: actionPush, activity: a}
	return true
}

func (m *Manager) requestPop() bool {
	if m.current == nil {
		m.logger.Error("Pop requested while idle, dropping pop", "error", ErrNoCurrentActivity)
		return false
	}
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	switch m.pending.action {
	case actionPop:
		m.logger.Debug("Pop already pending")
		return false
	case actionPush, actionReplace:
		m.logger.Error("Pop requested while another transition is pending, dropping pop",
			"pending", m.pending.action, "activity", m.pending.activity.Name())
		return false
	}
	m.pending = request{action: actionPop}
	return true
}

func (m *Manager) takeRequest() request {
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	req := m.pending
	m.pending = request{}
	return req
}

func (m *Manager) hasPending() bool {
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	return m.pending.action != actionNone
}

func (m *Manager) applyPending() bool {
	req := m.takeRequest()
	switch req.action {
	case actionPush:
		m.applyPush(req.activity)
	case actionPop:
		m.applyPop()
	case actionReplace:
		m.applyReplace(req.activity)
	default:
		return false
	}
	return true
}

func (m *Manager) applyReplace(next Activity) {
	m.mutate(func() {
		if m.current != nil {
			m.teardown(m.current)
			m.current = nil
		}
		m.clearStack()
		m.current = next
	})
	m.enter(next)
}

func (m *Manager) applyPush(next Activity) {
	m.mutate(func() {
		if m.current != nil {
			m.stack.Push(m.current)
			m.logger.Debug("Pushed to activity stack", "activity", m.current.Name(), "size", m.stack.Len())
		}
		m.current = next
	})
	m.enter(next)
}

func (m *Manager) applyPop() {
	if m.current == nil {
		return
	}
	if m.stack.IsEmpty() {
		m.logger.Debug("No more activities on stack, going home")
		m.GoHome()
		return
	}

	var handler ResultHandler
	var result Result
	m.mutate(func() {
		result = m.current.base().takeResult()
		m.teardown(m.current)
		m.current = m.stack.Pop()
		m.logger.Debug("Popped from activity stack", "activity", m.current.Name(), "size", m.stack.Len())
		// Moved out so a handler that starts another activity for a result
		// cannot run again.
		handler = m.current.base().takeResultHandler()
	})

	if handler != nil {
		m.logger.Debug("Handling result for popped activity", "activity", m.current.Name(), "cancelled", result.Cancelled)
		handler(result)
		if m.hasPending() {
			return
		}
	}
	m.RequestUpdate()
}

// clearStack exits the stack top to bottom. The render lock must be held.
func (m *Manager) clearStack() {
	if !m.stack.IsEmpty() {
		m.logger.Debug("Clearing activity stack", "size", m.stack.Len())
	}
	for a := m.stack.Pop(); a != nil; a = m.stack.Pop() {
		m.teardown(a)
	}
}

// mutate runs fn under the render lock. The lock is released even if fn
// panics.
func (m *Manager) mutate(fn func()) {
	lock := m.LockRender()
	defer lock.Unlock()
	fn()
}

// enter runs OnEnter outside the render lock and asks for the first frame.
// The activity is not rendered until OnEnter has returned.
func (m *Manager) enter(a Activity) {
	a.OnEnter()
	a.base().state.CompareAndSwap(int32(stateNew), int32(stateEntered))
	a.RequestUpdate()
}

// teardown exits a and its subactivities exactly once. The caller holds the
// render lock or a is no longer reachable from the render task.
func (m *Manager) teardown(a Activity) {
	if lifecycle(a.base().state.Swap(int32(stateExited))) == stateExited {
		return
	}
	if h, ok := a.(host); ok {
		if child := h.detachSubactivity(); child != nil {
			m.teardown(child)
		}
	}
	a.OnExit()
}

func (m *Manager) renderCurrent(lock *RenderLock) {
	if m.current == nil {
		return
	}
	t := target(m.current)
	if !t.base().entered() {
		return
	}

	token := m.power.Inhibit()
	defer token.Release()

	start := time.Now()
	t.Render(lock)
	m.logger.Debug("Rendered activity", "activity", t.Name(), "elapsed", time.Since(start))
}

func (m *Manager) construct(screen Screen, intent Intent) Activity {
	a, err := m.build(screen, intent)
	if err == nil {
		return a
	}
	m.logger.Error("Failed to construct activity", "screen", screen, "error", err)

	if screen != ScreenRecovery {
		if a, rerr := m.build(ScreenRecovery, Intent{Message: err.Error()}); rerr == nil {
			return a
		}
	}
	return newDiagnosticActivity(m, err)
}

func (m *Manager) build(screen Screen, intent Intent) (a Activity, err error) {
	ctor, ok := m.screens[screen]
	if !ok {
		return nil, NewInfrastructureError("construct "+screen.String(), ErrUnknownScreen)
	}

	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = NewInfrastructureError("construct "+screen.String(), fmt.Errorf("panic: %v", r))
		}
	}()

	a, err = ctor(m, intent)
	if err != nil {
		return nil, NewInfrastructureError("construct "+screen.String(), err)
	}
	if a == nil {
		return nil, NewInfrastructureError("construct "+screen.String(), errors.New("constructor returned no activity"))
	}
	return a, nil
}
