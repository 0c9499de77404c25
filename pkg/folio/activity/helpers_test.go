package activity

import (
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

type nopRenderer struct {
	frames atomic.Int64
}

func (*nopRenderer) ClearScreen()                              {}
func (*nopRenderer) DrawImage(image.Image, int, int, int, int) {}
func (*nopRenderer) DrawRect(int, int, int, int)               {}
func (*nopRenderer) FillRect(int, int, int, int)               {}
func (*nopRenderer) DrawText(int, int, string, Style)          {}
func (*nopRenderer) DrawCenteredText(int, string, Style)       {}
func (r *nopRenderer) DisplayBuffer(constants.RefreshMode) error {
	r.frames.Inc()
	return nil
}
func (*nopRenderer) ScreenWidth() int                   { return constants.DisplayHeight }
func (*nopRenderer) ScreenHeight() int                  { return constants.DisplayWidth }
func (*nopRenderer) TextWidth(text string, _ Style) int { return 10 * len(text) }
func (*nopRenderer) LineHeight() int                    { return 20 }
func (*nopRenderer) Orientation() constants.Orientation { return constants.Portrait }

type nopInput struct{}

func (nopInput) IsPressed(constants.Button) bool   { return false }
func (nopInput) WasPressed(constants.Button) bool  { return false }
func (nopInput) WasReleased(constants.Button) bool { return false }
func (nopInput) WasAnyPressed() bool               { return false }
func (nopInput) WasAnyReleased() bool              { return false }
func (nopInput) HeldTime() time.Duration           { return 0 }

// recorder keeps lifecycle events and, separately, the interleaving of
// lifecycle events with renders.
type recorder struct {
	mu        sync.Mutex
	lifecycle []string
	all       []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lifecycle = append(r.lifecycle, event)
	r.all = append(r.all, event)
}

func (r *recorder) addRender(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, event)
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lifecycle...)
}

func (r *recorder) timeline() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.all...)
}

// probe is an activity that records everything the manager does to it.
type probe struct {
	*Base
	rec     *recorder
	loop    func()
	loops   atomic.Int64
	renders atomic.Int64
}

func newProbe(m *Manager, rec *recorder, name string) *probe {
	return &probe{Base: NewBase(name, m), rec: rec}
}

func (p *probe) OnEnter() { p.rec.add(p.Name() + " enter") }
func (p *probe) OnExit()  { p.rec.add(p.Name() + " exit") }

func (p *probe) Loop() {
	p.loops.Inc()
	if p.loop != nil {
		p.loop()
	}
}

func (p *probe) Render(*RenderLock) {
	p.renders.Inc()
	p.rec.addRender(p.Name() + " render")
}

// hostProbe is a probe that can host a subactivity.
type hostProbe struct {
	*WithSubactivity
	rec     *recorder
	loops   atomic.Int64
	renders atomic.Int64
}

func newHostProbe(m *Manager, rec *recorder, name string) *hostProbe {
	return &hostProbe{WithSubactivity: NewWithSubactivity(name, m), rec: rec}
}

func (h *hostProbe) OnEnter() { h.rec.add(h.Name() + " enter") }
func (h *hostProbe) OnExit()  { h.rec.add(h.Name() + " exit") }
func (h *hostProbe) Loop()    { h.loops.Inc() }

func (h *hostProbe) Render(*RenderLock) {
	h.renders.Inc()
	h.rec.addRender(h.Name() + " render")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager returns a started manager that is shut down with the test.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(&nopRenderer{}, nopInput{}, WithLogger(discardLogger()))
	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	t.Cleanup(m.Shutdown)
	return m
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
