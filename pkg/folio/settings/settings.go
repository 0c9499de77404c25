// Package settings loads and saves the user settings file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Settings holds the user configuration.
type Settings struct {
	Language         string   `toml:"language"`
	LogLevel         string   `toml:"log_level"`
	LogPath          string   `toml:"log_path"`
	BooksDir         string   `toml:"books_dir"`
	StatePath        string   `toml:"state_path"`
	SleepTimeout     Duration `toml:"sleep_timeout"`      // 0 disables auto sleep
	PowerSavingAfter Duration `toml:"power_saving_after"` // Idle time before lowering the CPU clock
	Orientation      string   `toml:"orientation"`
	Refresh          string   `toml:"refresh"`        // Refresh mode for menus
	ReaderRefresh    string   `toml:"reader_refresh"` // Refresh mode for page turns

	// Keys in the file that no field consumed; not saved.
	Undecoded []string `toml:"-"`
}

// Duration is a time.Duration written as a string such as "10m".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Language:         "en",
		LogLevel:         "info",
		LogPath:          filepath.Join(xdg.StateHome, "folio", "folio.log"),
		BooksDir:         filepath.Join(xdg.UserDirs.Documents, "Books"),
		StatePath:        filepath.Join(xdg.StateHome, "folio", "state.db"),
		SleepTimeout:     Duration{constants.DefaultSleepAfter},
		PowerSavingAfter: Duration{constants.PowerSavingIdle},
		Orientation:      constants.Portrait.String(),
		Refresh:          constants.HalfRefresh.String(),
		ReaderRefresh:    constants.FastRefresh.String(),
	}
}

// DefaultPath is the settings file location: $FOLIO_CONFIG when set,
// otherwise settings.toml in the XDG config directory.
func DefaultPath() string {
	if p := os.Getenv(constants.ConfigPathEnvVar); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "folio", "settings.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load settings %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		s.Undecoded = append(s.Undecoded, key.String())
	}
	return s, nil
}

// Save writes s to path, creating parent directories.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encode settings: %w", err)
	}
	return f.Close()
}

var (
	orientations = []string{"portrait", "landscape", "portrait-inverted", "landscape-inverted"}
	refreshModes = []string{"full", "half", "fast"}
	logLevels    = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate reports every invalid value.
func (s Settings) Validate() error {
	var errs []error
	if s.Language == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}
	if !oneOf(s.LogLevel, logLevels) {
		errs = append(errs, fmt.Errorf("log_level %q is not one of %v", s.LogLevel, logLevels))
	}
	if !oneOf(s.Orientation, orientations) {
		errs = append(errs, fmt.Errorf("orientation %q is not one of %v", s.Orientation, orientations))
	}
	if !oneOf(s.Refresh, refreshModes) {
		errs = append(errs, fmt.Errorf("refresh %q is not one of %v", s.Refresh, refreshModes))
	}
	if !oneOf(s.ReaderRefresh, refreshModes) {
		errs = append(errs, fmt.Errorf("reader_refresh %q is not one of %v", s.ReaderRefresh, refreshModes))
	}
	if s.SleepTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("sleep_timeout %s is negative", s.SleepTimeout))
	}
	if s.SleepTimeout.Duration > 0 && s.SleepTimeout.Duration < time.Minute {
		errs = append(errs, fmt.Errorf("sleep_timeout %s is shorter than a minute", s.SleepTimeout))
	}
	if s.PowerSavingAfter.Duration <= 0 {
		errs = append(errs, fmt.Errorf("power_saving_after %s must be positive", s.PowerSavingAfter))
	}
	if s.BooksDir == "" {
		errs = append(errs, errors.New("books_dir must not be empty"))
	}
	return errors.Join(errs...)
}

func (s Settings) OrientationValue() constants.Orientation {
	return constants.ParseOrientation(s.Orientation)
}

func (s Settings) RefreshMode() constants.RefreshMode {
	return constants.ParseRefreshMode(s.Refresh)
}

func (s Settings) ReaderRefreshMode() constants.RefreshMode {
	return constants.ParseRefreshMode(s.ReaderRefresh)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
