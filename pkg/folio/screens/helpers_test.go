package screens

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/i18n"
	"github.com/BrandonKowalski/folio/pkg/folio/internal"
	"github.com/BrandonKowalski/folio/pkg/folio/internal/gfx"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

// device is a manager wired to scripted buttons and an in-memory panel.
type device struct {
	t        *testing.T
	m        *activity.Manager
	panel    *gfx.MemoryPanel
	buttons  *internal.ScriptedButtons
	input    *internal.ButtonInput
	clock    *fakeClock
	deps     Deps
	booksDir string
}

type deviceOption func(*Deps)

func withReboot(fn func() error) deviceOption {
	return func(d *Deps) { d.Reboot = fn }
}

func newDevice(t *testing.T, opts ...deviceOption) *device {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := state.Open(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("state.Open() = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New() = %v", err)
	}

	s := settings.Default()
	s.BooksDir = filepath.Join(dir, "books")
	if err := os.MkdirAll(s.BooksDir, 0755); err != nil {
		t.Fatal(err)
	}

	d := &device{
		t:        t,
		panel:    gfx.NewMemoryPanel(8),
		buttons:  &internal.ScriptedButtons{},
		clock:    &fakeClock{t: time.Unix(1700000000, 0)},
		booksDir: s.BooksDir,
	}
	d.input = internal.NewButtonInputWithClock(d.buttons, d.clock.now)
	renderer := gfx.NewRenderer(d.panel, constants.Portrait, logger)
	d.m = activity.NewManager(renderer, d.input, activity.WithLogger(logger))

	d.deps = Deps{
		Tr:           tr,
		State:        st,
		Settings:     &s,
		SettingsPath: filepath.Join(dir, "settings.toml"),
		Logger:       logger,
	}
	for _, opt := range opts {
		opt(&d.deps)
	}
	if err := Register(d.m, d.deps); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	if err := d.m.Begin(); err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	t.Cleanup(d.m.Shutdown)
	return d
}

// book creates a file of size bytes in the books directory.
func (d *device) book(name string, size int) string {
	d.t.Helper()
	path := filepath.Join(d.booksDir, name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		d.t.Fatal(err)
	}
	return path
}

// tick advances the clock past the debounce delay and runs one loop.
func (d *device) tick() {
	d.clock.t = d.clock.t.Add(10 * time.Millisecond)
	if err := d.input.Update(); err != nil {
		d.t.Fatalf("input.Update() = %v", err)
	}
	d.m.Loop()
}

// click presses and releases b, two ticks each so the debounce settles.
func (d *device) click(b constants.Button) {
	d.buttons.Press(b)
	d.tick()
	d.tick()
	d.buttons.Release(b)
	d.tick()
	d.tick()
}

func current[T activity.Activity](t *testing.T, m *activity.Manager) T {
	t.Helper()
	a, ok := m.Current().(T)
	if !ok {
		var want T
		t.Fatalf("current activity is %T, want %T", m.Current(), want)
	}
	return a
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
