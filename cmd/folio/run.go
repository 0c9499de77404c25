package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/folio/pkg/folio"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
	"github.com/BrandonKowalski/folio/pkg/folio/platform/device"
	"github.com/BrandonKowalski/folio/pkg/folio/platform/emulator"
	"github.com/BrandonKowalski/folio/pkg/folio/settings"
)

var (
	configPath  string
	emulate     bool
	logLevel    string
	booksDir    string
	scale       float32
	inputPaths  []string
	framebuffer string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reader",
	Long: `Run the reader until it is interrupted.

Settings are read from the settings file, $FOLIO_CONFIG or the XDG config
directory. Flags override the file.`,
	Example: `  # Run on the device
  folio run

  # Run in a desktop window with debug logs
  folio run --emulate --log-level debug --books ~/Books`,
	Args: cobra.NoArgs,
	RunE: runReader,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", settings.DefaultPath(), "Path to settings.toml")
	flags.BoolVar(&emulate, "emulate", constants.IsDevMode(), "Run in an SDL window instead of on the device")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the settings file")
	flags.StringVar(&booksDir, "books", "", "Books directory; overrides the settings file")
	flags.Float32Var(&scale, "scale", 1, "Emulator window scale")
	flags.StringSliceVar(&inputPaths, "input", []string{"/dev/input/event0", "/dev/input/event1"}, "Input devices for the buttons")
	flags.StringVar(&framebuffer, "framebuffer", "/dev/fb0", "Framebuffer device for the panel")
}

func runReader(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if booksDir != "" {
		s.BooksDir = booksDir
	}

	folio.ConfigureLogging(s)
	logger := folio.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := folio.Options{Settings: s, SettingsPath: configPath}
	if emulate {
		win, err := emulator.Open(emulator.Options{
			Title:  "Folio " + version,
			Scale:  scale,
			Window: emulator.WindowOptions{Resizable: true},
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer win.Close()

		opts.Panel = win
		opts.Buttons = win
		go func() {
			select {
			case <-win.Quit():
				stop()
			case <-ctx.Done():
			}
		}()
	} else {
		buttons, err := device.OpenButtons(inputPaths, nil, logger)
		if err != nil {
			return err
		}
		defer buttons.Close()

		fb, err := device.OpenFramebuffer(framebuffer, logger)
		if err != nil {
			return err
		}
		defer fb.Close()

		system := device.DefaultSystem
		opts.Panel = fb
		opts.Buttons = buttons
		opts.CPU = system
		opts.Reboot = system.Reboot
		opts.Suspend = system.Suspend
	}

	rt, err := folio.Init(opts)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer rt.Close()

	logger.Info("Starting reader", "version", version, "emulate", emulate)
	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
