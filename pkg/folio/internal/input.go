package internal

import (
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// ButtonSource reports the raw state of every button as a bit mask, one bit
// per constants.Button.
type ButtonSource interface {
	ReadButtons() (uint8, error)
}

// ButtonInput turns raw button masks into debounced state and press and
// release edges. Update is called once per main loop iteration and every
// query answers for the state computed by the last Update.
type ButtonInput struct {
	source   ButtonSource
	now      func() time.Time
	debounce time.Duration

	lastState    uint8
	lastChange   time.Time
	currentState uint8

	pressedEvents  uint8
	releasedEvents uint8

	pressStart  time.Time
	pressFinish time.Time
}

// NewButtonInput creates an input reading from source with the default
// debounce delay.
func NewButtonInput(source ButtonSource) *ButtonInput {
	return NewButtonInputWithClock(source, time.Now)
}

// NewButtonInputWithClock creates an input that reads time from now.
func NewButtonInputWithClock(source ButtonSource, now func() time.Time) *ButtonInput {
	t := now()
	return &ButtonInput{
		source:      source,
		now:         now,
		debounce:    constants.DebounceDelay,
		lastChange:  t,
		pressStart:  t,
		pressFinish: t,
	}
}

// Update reads the source and recomputes edges. Edges from the previous
// call are always cleared, even when the read fails.
func (in *ButtonInput) Update() error {
	in.pressedEvents = 0
	in.releasedEvents = 0

	state, err := in.source.ReadButtons()
	if err != nil {
		return err
	}

	now := in.now()
	if state != in.lastState {
		in.lastChange = now
		in.lastState = state
	}

	if now.Sub(in.lastChange) <= in.debounce || state == in.currentState {
		return nil
	}

	in.pressedEvents = state &^ in.currentState
	in.releasedEvents = in.currentState &^ state

	if in.pressedEvents != 0 && in.currentState == 0 {
		in.pressStart = now
	}
	if in.releasedEvents != 0 && state == 0 {
		in.pressFinish = now
	}

	in.currentState = state
	return nil
}

func (in *ButtonInput) IsPressed(b constants.Button) bool {
	return in.currentState&b.Mask() != 0
}

func (in *ButtonInput) WasPressed(b constants.Button) bool {
	return in.pressedEvents&b.Mask() != 0
}

func (in *ButtonInput) WasReleased(b constants.Button) bool {
	return in.releasedEvents&b.Mask() != 0
}

func (in *ButtonInput) WasAnyPressed() bool {
	return in.pressedEvents != 0
}

func (in *ButtonInput) WasAnyReleased() bool {
	return in.releasedEvents != 0
}

// HeldTime is how long the buttons have been held: up to now while any
// button is down, otherwise the length of the last press.
func (in *ButtonInput) HeldTime() time.Duration {
	if in.currentState != 0 {
		return in.now().Sub(in.pressStart)
	}
	return in.pressFinish.Sub(in.pressStart)
}

// ScriptedButtons is a ButtonSource driven from code, used by tests and by
// the headless runtime.
type ScriptedButtons struct {
	state atomic.Uint32
	err   atomic.Error
}

func (s *ScriptedButtons) Press(b constants.Button) {
	for {
		old := s.state.Load()
		if s.state.CompareAndSwap(old, old|uint32(b.Mask())) {
			return
		}
	}
}

func (s *ScriptedButtons) Release(b constants.Button) {
	for {
		old := s.state.Load()
		if s.state.CompareAndSwap(old, old&^uint32(b.Mask())) {
			return
		}
	}
}

// Set replaces the whole button mask.
func (s *ScriptedButtons) Set(mask uint8) {
	s.state.Store(uint32(mask))
}

// Fail makes every following read return err, or succeed again when err is nil.
func (s *ScriptedButtons) Fail(err error) {
	s.err.Store(err)
}

func (s *ScriptedButtons) ReadButtons() (uint8, error) {
	if err := s.err.Load(); err != nil {
		return 0, err
	}
	return uint8(s.state.Load()), nil
}
