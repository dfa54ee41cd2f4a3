package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutrun/dutrun/internal/config"
	"github.com/dutrun/dutrun/internal/runlog"
	"github.com/dutrun/dutrun/internal/session"
	"github.com/dutrun/dutrun/internal/testutil"
	"github.com/dutrun/dutrun/internal/transport"
)

func runConfig() *config.TestConfig {
	return &config.TestConfig{
		Start:       config.PromptSpec{Name: "start", Prompt: []byte("ready>"), Response: []byte("go"), Timeout: 10 * time.Second},
		End:         config.PromptSpec{Name: "end", Prompt: []byte("DONE")},
		IdleTimeout: 5 * time.Second,
	}
}

func TestExecuteRuns_SingleSuccess(t *testing.T) {
	t.Parallel()

	clock := testutil.NewClock()
	tr := transport.NewMockTransport(clock.Advance)
	tr.QueueString("ready>")
	tr.QueueString("DONE")

	var out bytes.Buffer
	result := executeRuns(tr, runConfig(), 1, runlog.Discard(), nil, clock.Now, &out)

	assert.Equal(t, session.OutcomeSucceeded, result.Outcome)
	assert.Contains(t, out.String(), "Run 1/1: succeeded")
}

func TestExecuteRuns_MultipleRunsShareTransport(t *testing.T) {
	t.Parallel()

	clock := testutil.NewClock()
	tr := transport.NewMockTransport(clock.Advance)
	for i := 0; i < 3; i++ {
		tr.QueueString("ready>")
		tr.QueueString("DONE")
	}

	var out bytes.Buffer
	result := executeRuns(tr, runConfig(), 3, runlog.Discard(), nil, clock.Now, &out)

	assert.Equal(t, session.OutcomeSucceeded, result.Outcome)
	assert.Contains(t, out.String(), "Run 1/3: succeeded")
	assert.Contains(t, out.String(), "Run 2/3: succeeded")
	assert.Contains(t, out.String(), "Run 3/3: succeeded")
}

func TestExecuteRuns_StopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	// Script covers only the first run; the second run faces a quiet
	// device and times out, so the third never starts.
	clock := testutil.NewClock()
	tr := transport.NewMockTransport(clock.Advance)
	tr.QueueString("ready>")
	tr.QueueString("DONE")

	var out bytes.Buffer
	result := executeRuns(tr, runConfig(), 3, runlog.Discard(), nil, clock.Now, &out)

	assert.Equal(t, session.OutcomeTimedOut, result.Outcome)
	assert.Equal(t, 1, result.ExitCode())
	assert.Contains(t, out.String(), "Run 1/3: succeeded")
	assert.Contains(t, out.String(), "Run 2/3: timed out")
	assert.NotContains(t, out.String(), "Run 3/3")
}

func TestExecuteRuns_EchoReceivesDeviceOutput(t *testing.T) {
	t.Parallel()

	clock := testutil.NewClock()
	tr := transport.NewMockTransport(clock.Advance)
	tr.QueueString("ready>")
	tr.QueueString("DONE")

	var out, echo bytes.Buffer
	result := executeRuns(tr, runConfig(), 1, runlog.Discard(), &echo, clock.Now, &out)

	require.Equal(t, session.OutcomeSucceeded, result.Outcome)
	assert.Contains(t, echo.String(), "ready>")
	assert.Contains(t, echo.String(), "DONE")
	assert.Contains(t, echo.String(), "Response sent: 'go'")
}

func TestRunCommand_MissingScript(t *testing.T) {
	// Exercise runRun through cobra with a script path that does not
	// exist; the failure must carry exit code 2 before any port is opened.
	rootCmd.SetArgs([]string{"run", "/dev/null", "/nonexistent/script.json"})
	defer rootCmd.SetArgs(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.True(t, strings.Contains(err.Error(), "failed to load script"))
}

func TestRunCommand_RejectsBadRunCount(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "/dev/null", "whatever.json", "--runs", "0"})
	defer func() {
		rootCmd.SetArgs(nil)
		runCount = 1
	}()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, err.Error(), "--runs")
}
