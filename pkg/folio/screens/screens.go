// Package screens contains the activities of the reader: boot, home,
// library, reader and its overlays, settings, messages, sleep and recovery.
package screens

import (
	"errors"
	"log/slog"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/i18n"
	"github.com/BrandonKowalski/folio/pkg/folio/internal/gfx"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

// Deps are the services screens share.
type Deps struct {
	Tr           *i18n.Translator
	State        *state.Store // nil disables resume and progress
	Icons        *gfx.Icons
	Settings     *settings.Settings
	SettingsPath string
	Reboot       func() error // nil when the platform cannot reboot
	Logger       *slog.Logger
}

// Register adds every screen to m.
func Register(m *activity.Manager, d Deps) error {
	if d.Tr == nil || d.Settings == nil {
		return errors.New("screens: translator and settings are required")
	}
	if d.Icons == nil {
		d.Icons = gfx.NewIcons()
	}
	if d.Logger == nil {
		d.Logger = m.Logger()
	}

	m.Register(activity.ScreenBoot, func(m *activity.Manager, _ activity.Intent) (activity.Activity, error) {
		return newBoot(m, d), nil
	})
	m.Register(activity.ScreenHome, func(m *activity.Manager, _ activity.Intent) (activity.Activity, error) {
		return newHome(m, d), nil
	})
	m.Register(activity.ScreenMyLibrary, func(m *activity.Manager, in activity.Intent) (activity.Activity, error) {
		return newLibrary(m, d, in.Path, false)
	})
	m.Register(activity.ScreenReader, func(m *activity.Manager, in activity.Intent) (activity.Activity, error) {
		return newReader(m, d, in.Path)
	})
	m.Register(activity.ScreenSettings, func(m *activity.Manager, _ activity.Intent) (activity.Activity, error) {
		return newLanguageSelect(m, d), nil
	})
	m.Register(activity.ScreenFullScreenMessage, func(m *activity.Manager, in activity.Intent) (activity.Activity, error) {
		return newMessage(m, d, in.Message, in.MessageStyle), nil
	})
	m.Register(activity.ScreenSleep, func(m *activity.Manager, _ activity.Intent) (activity.Activity, error) {
		return newSleep(m, d), nil
	})
	m.Register(activity.ScreenRecovery, func(m *activity.Manager, in activity.Intent) (activity.Activity, error) {
		return newRecovery(m, d, in.Message), nil
	})
	return nil
}

// display pushes the frame, logging failures; a failed refresh is retried
// by the next frame.
func display(b *activity.Base, mode constants.RefreshMode) {
	if err := b.Renderer().DisplayBuffer(mode); err != nil {
		b.Logger().Error("Display refresh failed", "activity", b.Name(), "error", err)
	}
}
