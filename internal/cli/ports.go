package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dutrun/dutrun/internal/transport"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	names, err := transport.ListPorts()
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
