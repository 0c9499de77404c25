package activity

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
)

// RenderTask paints frames on its own goroutine.
//
// Notify never blocks and coalesces: any number of calls made before the
// task wakes up produce a single render. A render that has started always
// runs to completion. Once Stop returns the task renders nothing more.
type RenderTask struct {
	name    string
	acquire func() *RenderLock
	render  func(*RenderLock)
	logger  *slog.Logger

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	frameMu  sync.Mutex
	frame    chan struct{} // closed after the next completed render
	begun    uint64        // renders started
	finished uint64        // last render completed

	started  atomic.Bool
	stopped  atomic.Bool
	renders  atomic.Int64
	stopOnce sync.Once
}

// NewRenderTask creates a task that takes a lock from acquire before every
// call to render. The task is idle until Start.
func NewRenderTask(name string, acquire func() *RenderLock, render func(*RenderLock)) *RenderTask {
	return &RenderTask{
		name:    name,
		acquire: acquire,
		render:  render,
		logger:  slog.Default(),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		frame:   make(chan struct{}),
	}
}

// SetLogger replaces the logger used for render failures.
func (t *RenderTask) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// Start launches the render goroutine.
func (t *RenderTask) Start() error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go t.run()
	return nil
}

// Notify asks for one more frame.
func (t *RenderTask) Notify() {
	if t.stopped.Load() {
		return
	}
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// NotifyAndWait asks for a frame and waits until a render that started after
// the call has completed. A render already in progress does not count.
func (t *RenderTask) NotifyAndWait(ctx context.Context) error {
	if !t.started.Load() || t.stopped.Load() {
		return ErrNotRunning
	}
	t.frameMu.Lock()
	want := t.begun + 1
	t.frameMu.Unlock()

	t.Notify()
	for {
		t.frameMu.Lock()
		if t.finished >= want {
			t.frameMu.Unlock()
			return nil
		}
		frame := t.frame
		t.frameMu.Unlock()

		select {
		case <-frame:
		case <-t.done:
			return ErrNotRunning
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop stops accepting notifications and cancels the goroutine. It does not
// wait for the goroutine: a task blocked on its lock wakes up, sees the stop
// and exits without rendering. Stop may be called with the lock held.
func (t *RenderTask) Stop() {
	t.stopOnce.Do(func() {
		t.stopped.Store(true)
		close(t.quit)
		if t.started.CompareAndSwap(false, true) {
			close(t.done)
		}
	})
}

// Done is closed when the render goroutine has exited.
func (t *RenderTask) Done() <-chan struct{} {
	return t.done
}

// Renders returns how many frames have been rendered.
func (t *RenderTask) Renders() int64 {
	return t.renders.Load()
}

func (t *RenderTask) run() {
	defer close(t.done)
	for {
		select {
		case <-t.quit:
			return
		case <-t.wake:
		}
		if !t.renderOnce() {
			return
		}
	}
}

// renderOnce paints one frame. A frame that panics still counts as finished
// for waiters; only a stop ends the task.
func (t *RenderTask) renderOnce() bool {
	lock := t.acquire()
	defer lock.Unlock()

	if t.stopped.Load() {
		return false
	}

	t.frameMu.Lock()
	t.begun++
	gen := t.begun
	t.frameMu.Unlock()

	if t.safeRender(lock) {
		t.renders.Inc()
	}

	t.frameMu.Lock()
	t.finished = gen
	close(t.frame)
	t.frame = make(chan struct{})
	t.frameMu.Unlock()
	return true
}

func (t *RenderTask) safeRender(lock *RenderLock) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Render panicked", "task", t.name, "panic", r)
		}
	}()

	t.render(lock)
	return true
}
