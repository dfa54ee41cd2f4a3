package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dutrun/dutrun/internal/config"
	"github.com/dutrun/dutrun/internal/logging"
	"github.com/dutrun/dutrun/internal/runlog"
	"github.com/dutrun/dutrun/internal/session"
	"github.com/dutrun/dutrun/internal/transport"
)

var (
	runBaud    int
	runLogFile string
	runCount   int
	runVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <port> <script>",
	Short: "Execute a test script against a device on a serial port",
	Long: `Opens the serial port, waits for the device's start prompt, sends the
start response, then answers user-defined prompts until the end prompt is
seen or a timeout expires.

<port> is the serial device name (e.g. /dev/ttyUSB0 or COM3).
<script> is a JSON or YAML file describing the prompts and responses.

Exit codes:
  0  test succeeded (end prompt seen)
  1  test error (start prompt never seen, or idle timeout expired)
  2  script or infrastructure error (bad config, port failure, I/O error)

Example:
  dutrun run /dev/ttyUSB0 blink-test.json
  dutrun run /dev/ttyUSB0 blink-test.json --baud 115200 --log capture.log
  dutrun run /dev/ttyUSB0 blink-test.json --runs 5 --verbose`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runBaud, "baud", "b", transport.DefaultBaudRate, "serial port baud rate")
	runCmd.Flags().StringVarP(&runLogFile, "log", "o", "", "log all device output to this file")
	runCmd.Flags().IntVarP(&runCount, "runs", "n", 1, "number of times to run the test")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "echo device output and enable debug logging")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	port, script := args[0], args[1]

	if runCount < 1 {
		return &exitError{code: 2, err: fmt.Errorf("--runs must be at least 1, got %d", runCount)}
	}
	if runVerbose {
		logging.SetLevel(logging.LevelDebug)
	}

	cfg, err := config.Load(script)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("failed to load script %s: %w", script, err)}
	}

	log := runlog.Discard()
	if runLogFile != "" {
		log, err = runlog.Open(runLogFile)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		defer log.Close()
	}

	tr, err := transport.OpenSerial(transport.SerialConfig{Device: port, BaudRate: runBaud})
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	defer tr.Close()

	var echo io.Writer
	if runVerbose {
		echo = cmd.OutOrStdout()
	}

	result := executeRuns(tr, cfg, runCount, log, echo, time.Now, cmd.OutOrStdout())

	switch result.Outcome {
	case session.OutcomeSucceeded:
		return nil
	case session.OutcomeTimedOut:
		return &exitError{
			code: result.ExitCode(),
			err:  fmt.Errorf("test timed out while %s", result.Phase),
		}
	default:
		return &exitError{
			code: result.ExitCode(),
			err:  fmt.Errorf("test aborted: %w", result.Err),
		}
	}
}

// executeRuns runs the test up to runs times over one open transport,
// stopping at the first run that does not succeed. It returns the last
// result; the exit code reflects that run.
func executeRuns(
	tr transport.Transport,
	cfg *config.TestConfig,
	runs int,
	log *runlog.Writer,
	echo io.Writer,
	now func() time.Time,
	out io.Writer,
) session.Result {
	var result session.Result

	for i := 1; i <= runs; i++ {
		sess := session.New(session.Options{
			Transport: tr,
			Config:    cfg,
			Now:       now,
			Log:       log,
			Echo:      echo,
		})
		result = sess.Run()

		fmt.Fprintf(out, "Run %d/%d: %s (bytes=%d responses=%d)\n",
			i, runs, result.Outcome, result.BytesRead, result.ResponsesSent)

		if result.Outcome != session.OutcomeSucceeded {
			break
		}
	}

	return result
}
