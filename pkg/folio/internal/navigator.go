package internal

import (
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Direction represents a cardinal direction for navigation.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// ButtonState is the part of the button input a Navigator reads.
type ButtonState interface {
	IsPressed(b constants.Button) bool
	WasPressed(b constants.Button) bool
}

// Navigator fires a direction when a directional button goes down and keeps
// firing it while the button is held. Screens embed it to move through lists
// with consistent repeat timing.
type Navigator struct {
	now            func() time.Time
	held           Direction
	lastRepeatTime time.Time
	repeatDelay    time.Duration
	repeatInterval time.Duration
	hasRepeated    bool
}

// NewNavigator creates a Navigator with default timing.
// Default delay is 300ms before first repeat, then 50ms between repeats.
func NewNavigator() *Navigator {
	return NewNavigatorWithTiming(constants.RepeatDelay, constants.RepeatInterval, time.Now)
}

// NewNavigatorWithTiming creates a Navigator with custom timing and clock.
func NewNavigatorWithTiming(delay, interval time.Duration, now func() time.Time) *Navigator {
	return &Navigator{
		now:            now,
		repeatDelay:    delay,
		repeatInterval: interval,
		lastRepeatTime: now(),
	}
}

// Update checks the buttons and returns the direction to act on, or
// DirectionNone. Call it on every loop tick.
//
// A fresh press fires at once. The first repeat occurs after repeatDelay,
// subsequent repeats after repeatInterval. If several directions are held,
// priority is: up, down, left, right.
func (n *Navigator) Update(in ButtonState) Direction {
	now := n.now()

	for _, d := range directions {
		if in.WasPressed(d.Button()) {
			n.held = d
			n.hasRepeated = false
			n.lastRepeatTime = now
			return d
		}
	}

	held := DirectionNone
	for _, d := range directions {
		if in.IsPressed(d.Button()) {
			held = d
			break
		}
	}
	if held == DirectionNone || held != n.held {
		n.held = held
		n.hasRepeated = false
		n.lastRepeatTime = now
		return DirectionNone
	}

	threshold := n.repeatInterval
	if !n.hasRepeated {
		threshold = n.repeatDelay
	}
	if now.Sub(n.lastRepeatTime) >= threshold {
		n.lastRepeatTime = now
		n.hasRepeated = true
		return held
	}
	return DirectionNone
}

// Reset clears the held direction and timing state.
func (n *Navigator) Reset() {
	n.held = DirectionNone
	n.hasRepeated = false
	n.lastRepeatTime = n.now()
}

var directions = []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}

// Button returns the button for a Direction.
func (d Direction) Button() constants.Button {
	switch d {
	case DirectionUp:
		return constants.ButtonUp
	case DirectionDown:
		return constants.ButtonDown
	case DirectionLeft:
		return constants.ButtonLeft
	case DirectionRight:
		return constants.ButtonRight
	default:
		return constants.ButtonCount
	}
}

// Delta is -1 for up and left, 1 for down and right.
func (d Direction) Delta() int {
	switch d {
	case DirectionUp, DirectionLeft:
		return -1
	case DirectionDown, DirectionRight:
		return 1
	default:
		return 0
	}
}

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return ""
	}
}
