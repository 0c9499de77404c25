// Package constants defines shared constants, types, and configuration values
// used throughout the folio runtime.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by the runtime.
const (
	EnvironmentEnvVar = "ENVIRONMENT"     // DEV enables debug logging and the emulator defaults
	LogLevelEnvVar    = "FOLIO_LOG_LEVEL" // debug, info, warn, error
	ConfigPathEnvVar  = "FOLIO_CONFIG"    // Path to settings.toml
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// Button is a physical button of the reader. Values are bit positions in the
// button state mask reported by input sources.
type Button uint8

const (
	ButtonBack Button = iota
	ButtonConfirm
	ButtonLeft
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonPower
)

// ButtonCount is the number of physical buttons.
const ButtonCount = 7

// Mask returns the bit of b in a button state mask.
func (b Button) Mask() uint8 {
	return 1 << b
}

func (b Button) GetName() string {
	switch b {
	case ButtonBack:
		return "Back"
	case ButtonConfirm:
		return "Confirm"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonPower:
		return "Power"
	default:
		return "Unknown"
	}
}

// RefreshMode selects how the e-ink panel updates.
type RefreshMode int

const (
	FullRefresh RefreshMode = iota // Full flashing refresh, clears ghosting
	HalfRefresh                    // Reduced flashing
	FastRefresh                    // Partial update, may ghost
)

func (m RefreshMode) String() string {
	switch m {
	case FullRefresh:
		return "full"
	case HalfRefresh:
		return "half"
	default:
		return "fast"
	}
}

// ParseRefreshMode converts a settings value to a RefreshMode, defaulting to FastRefresh.
func ParseRefreshMode(s string) RefreshMode {
	switch s {
	case "full":
		return FullRefresh
	case "half":
		return HalfRefresh
	default:
		return FastRefresh
	}
}

// Orientation of the panel relative to the reader.
type Orientation uint8

const (
	Landscape Orientation = iota
	Portrait
	LandscapeInverted
	PortraitInverted
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case LandscapeInverted:
		return "landscape-inverted"
	case PortraitInverted:
		return "portrait-inverted"
	default:
		return "landscape"
	}
}

// ParseOrientation converts a settings value to an Orientation, defaulting to Portrait.
func ParseOrientation(s string) Orientation {
	switch s {
	case "landscape":
		return Landscape
	case "landscape-inverted":
		return LandscapeInverted
	case "portrait-inverted":
		return PortraitInverted
	default:
		return Portrait
	}
}

// IsPortrait reports whether width and height are swapped.
func (o Orientation) IsPortrait() bool {
	return o == Portrait || o == PortraitInverted
}

// Panel geometry in its native landscape orientation.
const (
	DisplayWidth  = 800
	DisplayHeight = 480
)

// Default timing constants.
const (
	DebounceDelay     = 5 * time.Millisecond   // Button state must be stable this long
	LoopDelay         = 10 * time.Millisecond  // Main loop sleep between ticks
	RepeatDelay       = 300 * time.Millisecond // Hold time before the first repeat
	RepeatInterval    = 50 * time.Millisecond  // Time between repeats while held
	PowerSavingIdle   = 3 * time.Second        // Idle time before lowering the clock
	DefaultSleepAfter = 10 * time.Minute       // Idle time before auto sleep
	LongPressDuration = 1 * time.Second        // Held time treated as a long press
)
