// Package folio wires the reader runtime together: settings, logging,
// translations, the state store, the framebuffer renderer, button input,
// power management and the activity manager with every screen registered.
//
// Platforms supply the panel and the button source; everything else is
// built by Init. Run drives the main loop until its context is cancelled.
package folio

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/i18n"
	"github.com/BrandonKowalski/folio/pkg/folio/internal"
	"github.com/BrandonKowalski/folio/pkg/folio/internal/gfx"
	"github.com/BrandonKowalski/folio/pkg/folio/screens"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
	"github.com/BrandonKowalski/folio/pkg/folio/state"
)

// Panel receives finished frames in the panel's native landscape layout.
type Panel = gfx.Panel

// ButtonSource reports the raw button mask.
type ButtonSource = internal.ButtonSource

// CPUScaler switches the processor clock for power saving.
type CPUScaler = internal.CPUScaler

// Options configures the runtime.
type Options struct {
	Settings     settings.Settings
	SettingsPath string       // Where the settings screen saves; empty disables saving
	Panel        Panel        // Display; nil keeps frames in memory
	Buttons      ButtonSource // Buttons; nil gives scripted buttons for headless runs
	CPU          CPUScaler    // Optional clock control
	Reboot       func() error // Optional, offered by the recovery screen
	Suspend      func() error // Optional, called once the sleep screen is displayed
}

// Runtime is an initialized reader.
type Runtime struct {
	manager  *activity.Manager
	renderer *gfx.Renderer
	input    *internal.ButtonInput
	buttons  ButtonSource
	power    *internal.PowerManager
	store    *state.Store
	tr       *i18n.Translator
	settings *settings.Settings
	suspend  func() error
	logger   *slog.Logger

	// Main loop only.
	awaitRelease bool
	inputFailing bool
	lastActivity string
}

// Init builds the runtime from opts. Close releases what Init opened.
func Init(opts Options) (*Runtime, error) {
	return newRuntime(opts, time.Now)
}

func newRuntime(opts Options, now func() time.Time) (*Runtime, error) {
	s := opts.Settings
	ConfigureLogging(s)
	logger := internal.GetLogger()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	for _, key := range s.Undecoded {
		logger.Warn("Ignoring unknown setting", "key", key)
	}

	tr, err := i18n.New(s.Language)
	if err != nil {
		return nil, err
	}

	var store *state.Store
	if s.StatePath != "" {
		store, err = state.Open(s.StatePath)
		if err != nil {
			// The reader still works without resume and progress.
			logger.Error("Failed to open state store", "path", s.StatePath, "error", err)
		}
	}

	panel := opts.Panel
	if panel == nil {
		panel = gfx.NewMemoryPanel(1)
	}
	buttons := opts.Buttons
	if buttons == nil {
		buttons = &internal.ScriptedButtons{}
	}

	rt := &Runtime{
		renderer: gfx.NewRenderer(panel, s.OrientationValue(), internal.GetInternalLogger()),
		input:    internal.NewButtonInputWithClock(buttons, now),
		buttons:  buttons,
		power:    internal.NewPowerManagerWithClock(opts.CPU, s.SleepTimeout.Duration, internal.GetInternalLogger(), now),
		store:    store,
		tr:       tr,
		settings: &s,
		suspend:  opts.Suspend,
		logger:   logger,
	}
	rt.power.SetPowerSavingAfter(s.PowerSavingAfter.Duration)
	rt.manager = activity.NewManager(rt.renderer, rt.input,
		activity.WithLogger(internal.GetInternalLogger()),
		activity.WithPowerPolicy(rt.power),
	)

	err = screens.Register(rt.manager, screens.Deps{
		Tr:           tr,
		State:        store,
		Icons:        gfx.NewIcons(),
		Settings:     rt.settings,
		SettingsPath: opts.SettingsPath,
		Reboot:       opts.Reboot,
		Logger:       logger,
	})
	if err != nil {
		rt.closeStore()
		return nil, err
	}

	if err := rt.manager.Begin(); err != nil {
		rt.closeStore()
		return nil, err
	}

	logger.Info("Folio initialized",
		"language", s.Language,
		"orientation", s.Orientation,
		"books", s.BooksDir,
		"state", s.StatePath,
	)
	return rt, nil
}

// ConfigureLogging applies the log file and levels of s. FOLIO_LOG_LEVEL
// wins over the settings file and development mode turns on runtime debug
// logs. The log file is fixed by the first call that creates a logger.
func ConfigureLogging(s settings.Settings) {
	if s.LogPath != "" {
		internal.SetLogPath(s.LogPath)
	}

	level := s.LogLevel
	if env := os.Getenv(constants.LogLevelEnvVar); env != "" {
		level = env
	}
	internal.SetRawLogLevel(level)

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetRawInternalLogLevel(level)
	}
}

// GetLogger returns the application logger.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// Manager returns the activity manager.
func (rt *Runtime) Manager() *activity.Manager {
	return rt.manager
}

// Close stops the manager, exiting every activity, and closes the state
// store and the log file.
func (rt *Runtime) Close() error {
	rt.manager.Shutdown()
	err := rt.closeStore()
	rt.logger.Info("Folio stopped")
	internal.CloseLogger()
	return err
}

func (rt *Runtime) closeStore() error {
	if rt.store == nil {
		return nil
	}
	err := rt.store.Close()
	rt.store = nil
	if err != nil {
		return fmt.Errorf("close state store: %w", err)
	}
	return nil
}
