package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got := out.String(); !strings.HasPrefix(got, "folio ") {
		t.Errorf("version output = %q", got)
	}
}

func TestRunRejectsArguments(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "extra"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("run accepted a positional argument")
	}
}
