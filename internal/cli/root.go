package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dutrun",
	Short: "Scripted prompt/response test runner for serial-attached devices",
	Long: `Dutrun executes interactive firmware tests over a serial port, driven by
a declarative script of prompts and responses. It waits for the device's
start prompt, answers user-defined prompts as they appear, and ends the
test when the end prompt is seen or a timeout expires.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("dutrun version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
// Errors without an explicit code are infrastructure failures.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}
