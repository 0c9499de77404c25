package screens

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

func TestBootResumesLastBook(t *testing.T) {
	d := newDevice(t)
	path := d.book("dune.epub", 4096)
	if err := d.deps.State.SetLastBook(path); err != nil {
		t.Fatal(err)
	}

	d.m.GoToBoot()
	current[*boot](t, d.m)
	d.tick()

	r := current[*reader](t, d.m)
	if r.path != path {
		t.Errorf("reader path = %q, want %q", r.path, path)
	}
	if !d.m.IsReaderActivity() {
		t.Error("IsReaderActivity() = false in the reader")
	}
}

func TestBootGoesHome(t *testing.T) {
	tests := []struct {
		name     string
		lastBook string
	}{
		{name: "no last book"},
		{name: "last book deleted", lastBook: "/nonexistent/gone.epub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDevice(t)
			if tt.lastBook != "" {
				if err := d.deps.State.SetLastBook(tt.lastBook); err != nil {
					t.Fatal(err)
				}
			}
			d.m.GoToBoot()
			d.tick()
			current[*home](t, d.m)
		})
	}
}

func TestBootFrameUsesFullRefresh(t *testing.T) {
	d := newDevice(t)
	d.m.GoToBoot()
	if err := d.m.RequestUpdateAndWait(context.Background()); err != nil {
		t.Fatal(err)
	}
	f, ok := d.panel.Last()
	if !ok {
		t.Fatal("no frame presented")
	}
	if f.Mode != constants.FullRefresh {
		t.Errorf("boot frame mode = %v, want %v", f.Mode, constants.FullRefresh)
	}
}

func TestHomeOpensBookThroughLibraryPicker(t *testing.T) {
	d := newDevice(t)
	d.book("a.epub", 10)
	want := d.book("b.txt", 10)

	d.m.GoHome()
	d.click(constants.ButtonConfirm) // Library

	lib := current[*library](t, d.m)
	if !lib.forResult {
		t.Error("library opened from home is not a picker")
	}
	if d.m.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", d.m.Depth())
	}

	d.click(constants.ButtonDown)
	d.click(constants.ButtonConfirm)

	r := current[*reader](t, d.m)
	if r.path != want {
		t.Errorf("reader path = %q, want %q", r.path, want)
	}
	if d.m.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", d.m.Depth())
	}
}

func TestHomeOffersContinueReading(t *testing.T) {
	d := newDevice(t)
	path := d.book("a.epub", 10)
	if err := d.deps.State.SetLastBook(path); err != nil {
		t.Fatal(err)
	}

	d.m.GoHome()
	h := current[*home](t, d.m)
	want := []homeAction{homeContinue, homeLibrary, homeSettings, homeRecovery}
	if diff := cmp.Diff(want, h.actions); diff != "" {
		t.Errorf("home actions mismatch (-want +got):\n%s", diff)
	}

	d.click(constants.ButtonConfirm)
	if r := current[*reader](t, d.m); r.path != path {
		t.Errorf("reader path = %q, want %q", r.path, path)
	}
}

func TestLibraryPickerBackReturnsHome(t *testing.T) {
	d := newDevice(t)
	d.m.GoHome()
	launcher := current[*home](t, d.m)

	d.click(constants.ButtonConfirm)
	current[*library](t, d.m)
	d.click(constants.ButtonBack)

	if got := current[*home](t, d.m); got != launcher {
		t.Error("cancelling the picker did not resume the same home screen")
	}
}

func TestStandaloneLibrary(t *testing.T) {
	d := newDevice(t)
	path := d.book("only.xtc", 10)

	d.m.GoToMyLibrary(d.booksDir)
	d.click(constants.ButtonConfirm)
	if r := current[*reader](t, d.m); r.path != path {
		t.Errorf("reader path = %q, want %q", r.path, path)
	}

	d.m.GoToMyLibrary(d.booksDir)
	d.tick()
	d.click(constants.ButtonBack)
	current[*home](t, d.m)
}

func TestListBooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.EPUB", "a.txt", "notes.md", ".hidden.epub", "c.xtch"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.epub"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := listBooks(dir)
	if err != nil {
		t.Fatalf("listBooks() = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.EPUB"),
		filepath.Join(dir, "c.xtch"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listBooks() mismatch (-want +got):\n%s", diff)
	}

	missing, err := listBooks(filepath.Join(dir, "missing"))
	if err != nil || len(missing) != 0 {
		t.Errorf("listBooks(missing) = %v, %v; want empty, nil", missing, err)
	}
}

func TestReaderKeepsProgress(t *testing.T) {
	d := newDevice(t)
	path := d.book("long.txt", 5000) // 3 pages

	d.m.GoToReader(path)
	r := current[*reader](t, d.m)
	d.click(constants.ButtonRight)
	d.click(constants.ButtonRight)
	d.click(constants.ButtonRight) // past the last page
	if got := r.page.Load(); got != 2 {
		t.Fatalf("page = %d, want 2", got)
	}

	d.m.GoHome()
	d.tick()

	p, err := d.deps.State.Progress(path)
	if err != nil {
		t.Fatalf("Progress() = %v", err)
	}
	if diff := cmp.Diff(state.Progress{Page: 2, Percent: 100}, p); diff != "" {
		t.Errorf("saved progress mismatch (-want +got):\n%s", diff)
	}

	d.m.GoToReader(path)
	d.tick()
	if got := current[*reader](t, d.m).page.Load(); got != 2 {
		t.Errorf("reopened at page %d, want 2", got)
	}
	if last, err := d.deps.State.LastBook(); err != nil || last != path {
		t.Errorf("LastBook() = %q, %v; want %q", last, err, path)
	}
}

func TestReaderMenuGoToPercent(t *testing.T) {
	d := newDevice(t)
	path := d.book("big.epub", 99*bytesPerPage) // 100 pages

	d.m.GoToReader(path)
	r := current[*reader](t, d.m)

	d.click(constants.ButtonConfirm)
	if _, ok := r.Subactivity().(*readerMenu); !ok {
		t.Fatalf("subactivity = %T, want *readerMenu", r.Subactivity())
	}

	d.click(constants.ButtonConfirm) // Go to %
	slider, ok := r.Subactivity().(*percentSelection)
	if !ok {
		t.Fatalf("subactivity = %T, want *percentSelection", r.Subactivity())
	}
	if !d.m.SkipLoopDelay() {
		t.Error("SkipLoopDelay() = false while the slider is open")
	}
	waitFor(t, "slider frame", func() bool { return slider.task.Renders() > 0 })

	d.click(constants.ButtonUp)    // +10
	d.click(constants.ButtonRight) // +1
	if got := slider.Value(); got != 12 {
		t.Fatalf("slider = %d, want 12", got)
	}

	d.click(constants.ButtonConfirm)
	if r.Subactivity() != nil {
		t.Fatalf("subactivity = %T after confirming, want none", r.Subactivity())
	}
	if got := r.page.Load(); got != 12 {
		t.Errorf("page = %d, want 12", got)
	}
	select {
	case <-slider.task.Done():
	case <-time.After(2 * time.Second):
		t.Error("slider render task still running after exit")
	}
}

func TestReaderMenuActions(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		check func(t *testing.T, d *device, r *reader)
	}{
		{
			name:  "back to library",
			downs: 1,
			check: func(t *testing.T, d *device, _ *reader) {
				if lib := current[*library](t, d.m); lib.dir != d.booksDir || lib.forResult {
					t.Errorf("library dir = %q forResult = %v", lib.dir, lib.forResult)
				}
			},
		},
		{
			name:  "go home",
			downs: 2,
			check: func(t *testing.T, d *device, _ *reader) {
				current[*home](t, d.m)
			},
		},
		{
			name:  "close",
			downs: 3,
			check: func(t *testing.T, d *device, r *reader) {
				if current[*reader](t, d.m) != r || r.Subactivity() != nil {
					t.Error("close did not return to the reader")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDevice(t)
			d.m.GoToReader(d.book("a.epub", 10))
			r := current[*reader](t, d.m)

			d.click(constants.ButtonConfirm)
			for i := 0; i < tt.downs; i++ {
				d.click(constants.ButtonDown)
			}
			d.click(constants.ButtonConfirm)
			tt.check(t, d, r)
		})
	}
}

func TestReaderMenuBackClosesMenu(t *testing.T) {
	d := newDevice(t)
	d.m.GoToReader(d.book("a.epub", 10))
	r := current[*reader](t, d.m)

	d.click(constants.ButtonConfirm)
	d.click(constants.ButtonBack)
	if r.Subactivity() != nil {
		t.Fatal("Back did not close the reader menu")
	}

	d.click(constants.ButtonBack)
	current[*library](t, d.m)
}

func TestReaderRejectsMissingBook(t *testing.T) {
	d := newDevice(t)
	d.m.GoToReader(filepath.Join(d.booksDir, "missing.epub"))

	rc := current[*recovery](t, d.m)
	if rc.reason == "" {
		t.Error("recovery screen has no reason")
	}
}

func TestRecovery(t *testing.T) {
	t.Run("forget last book", func(t *testing.T) {
		d := newDevice(t)
		if err := d.deps.State.SetLastBook(d.book("a.epub", 10)); err != nil {
			t.Fatal(err)
		}
		d.m.GoToRecovery()
		d.click(constants.ButtonDown)
		d.click(constants.ButtonConfirm)

		current[*home](t, d.m)
		if _, err := d.deps.State.LastBook(); !errors.Is(err, state.ErrNoLastBook) {
			t.Errorf("LastBook() error = %v, want ErrNoLastBook", err)
		}
	})

	t.Run("no reboot hook", func(t *testing.T) {
		d := newDevice(t)
		d.m.GoToRecovery()
		if n := len(current[*recovery](t, d.m).actions); n != 2 {
			t.Errorf("recovery offers %d actions, want 2", n)
		}
	})

	t.Run("reboot", func(t *testing.T) {
		reboots := 0
		d := newDevice(t, withReboot(func() error {
			reboots++
			return nil
		}))
		d.m.GoToRecovery()
		d.click(constants.ButtonUp) // wraps to Reboot
		d.click(constants.ButtonConfirm)

		if reboots != 1 {
			t.Errorf("reboot called %d times, want 1", reboots)
		}
		if msg := current[*message](t, d.m); msg.text != "Rebooting..." {
			t.Errorf("message = %q", msg.text)
		}
	})
}

func TestLanguageSelectSavesSettings(t *testing.T) {
	d := newDevice(t)
	d.m.GoToSettings()
	d.click(constants.ButtonUp) // en -> de
	d.click(constants.ButtonConfirm)

	current[*home](t, d.m)
	if got := d.deps.Tr.Language(); got != "de" {
		t.Errorf("Language() = %q, want de", got)
	}
	saved, err := settings.Load(d.deps.SettingsPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Language != "de" {
		t.Errorf("saved language = %q, want de", saved.Language)
	}
}

func TestSleepWakesToBoot(t *testing.T) {
	d := newDevice(t)
	d.m.GoHome()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.m.GoToSleep(ctx); err != nil {
		t.Fatalf("GoToSleep() = %v", err)
	}
	current[*sleepScreen](t, d.m)
	if !d.m.PreventAutoSleep() {
		t.Error("PreventAutoSleep() = false on the sleep screen")
	}

	d.click(constants.ButtonPower)
	current[*boot](t, d.m)
}

func TestMessageDismissesOnAnyButton(t *testing.T) {
	d := newDevice(t)
	d.m.GoToFullScreenMessage("Battery low", activity.StyleBold)
	msg := current[*message](t, d.m)
	if msg.style != activity.StyleBold {
		t.Errorf("style = %v, want bold", msg.style)
	}

	d.click(constants.ButtonLeft)
	current[*home](t, d.m)
}
