package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// settle runs updates until the current mask is past the debounce delay.
func settle(t *testing.T, in *ButtonInput, clock *fakeClock) {
	t.Helper()
	if err := in.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	clock.Advance(constants.DebounceDelay + time.Millisecond)
	if err := in.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
}

func TestButtonInputDebounce(t *testing.T) {
	clock := newFakeClock()
	src := &ScriptedButtons{}
	in := NewButtonInputWithClock(src, clock.Now)

	src.Press(constants.ButtonConfirm)
	if err := in.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if in.IsPressed(constants.ButtonConfirm) {
		t.Fatal("press reported before the debounce delay")
	}

	// Bounce: released and pressed again before settling.
	clock.Advance(2 * time.Millisecond)
	src.Release(constants.ButtonConfirm)
	in.Update()
	clock.Advance(2 * time.Millisecond)
	src.Press(constants.ButtonConfirm)
	in.Update()
	clock.Advance(2 * time.Millisecond)
	in.Update()
	if in.WasAnyPressed() {
		t.Fatal("bouncing button produced a press")
	}

	clock.Advance(constants.DebounceDelay)
	in.Update()
	if !in.WasPressed(constants.ButtonConfirm) || !in.IsPressed(constants.ButtonConfirm) {
		t.Errorf("WasPressed/IsPressed = %v/%v, want true/true",
			in.WasPressed(constants.ButtonConfirm), in.IsPressed(constants.ButtonConfirm))
	}

	in.Update()
	if in.WasPressed(constants.ButtonConfirm) {
		t.Error("press edge reported twice")
	}
	if !in.IsPressed(constants.ButtonConfirm) {
		t.Error("held button no longer pressed")
	}
}

func TestButtonInputReleaseAndHeldTime(t *testing.T) {
	clock := newFakeClock()
	src := &ScriptedButtons{}
	in := NewButtonInputWithClock(src, clock.Now)

	src.Press(constants.ButtonPower)
	settle(t, in, clock)
	pressedAt := clock.Now()

	clock.Advance(800 * time.Millisecond)
	if got := in.HeldTime(); got != 800*time.Millisecond {
		t.Errorf("HeldTime() while held = %v, want 800ms", got)
	}

	src.Release(constants.ButtonPower)
	settle(t, in, clock)
	if !in.WasReleased(constants.ButtonPower) || !in.WasAnyReleased() {
		t.Fatal("release edge missing")
	}
	if in.IsPressed(constants.ButtonPower) {
		t.Error("released button still pressed")
	}

	want := clock.Now().Sub(pressedAt)
	clock.Advance(time.Second)
	if got := in.HeldTime(); got != want {
		t.Errorf("HeldTime() after release = %v, want %v", got, want)
	}
}

func TestButtonInputChord(t *testing.T) {
	clock := newFakeClock()
	src := &ScriptedButtons{}
	in := NewButtonInputWithClock(src, clock.Now)

	src.Set(constants.ButtonUp.Mask() | constants.ButtonPower.Mask())
	settle(t, in, clock)

	for _, b := range []constants.Button{constants.ButtonUp, constants.ButtonPower} {
		if !in.WasPressed(b) {
			t.Errorf("WasPressed(%s) = false", b.GetName())
		}
	}
	if in.WasPressed(constants.ButtonDown) {
		t.Error("WasPressed(Down) = true")
	}
}

func TestButtonInputReadError(t *testing.T) {
	clock := newFakeClock()
	src := &ScriptedButtons{}
	in := NewButtonInputWithClock(src, clock.Now)

	src.Press(constants.ButtonBack)
	settle(t, in, clock)

	boom := errors.New("device gone")
	src.Fail(boom)
	if err := in.Update(); !errors.Is(err, boom) {
		t.Fatalf("Update() = %v, want %v", err, boom)
	}
	if in.WasAnyPressed() {
		t.Error("edges not cleared after failed read")
	}

	src.Fail(nil)
	if err := in.Update(); err != nil {
		t.Errorf("Update() after recovery = %v", err)
	}
}
