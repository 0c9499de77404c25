// Folio is an e-ink book reader.
//
// On the device it reads the buttons through evdev and draws to the Linux
// framebuffer. With --emulate it opens an SDL window instead, driven by the
// keyboard.
//
// Usage:
//
//	folio [run] [flags]
//	folio version
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func init() {
	// SDL must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio e-ink reader",
	Long: `Folio runs the e-ink reader: boot screen, library, reader and settings.

Without a subcommand it runs the reader, as 'folio run' does.`,
	Version:       version,
	Args:          cobra.NoArgs,
	RunE:          runReader,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
