package session

// Outcome indicates how a test run ended.
type Outcome int

const (
	OutcomeUnknown         Outcome = iota
	OutcomeSucceeded               // End prompt seen
	OutcomeTimedOut                // Start prompt never seen, or idle window expired
	OutcomeTransportFailed         // I/O failure on the device channel
)

// String returns a human-readable description of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeTransportFailed:
		return "transport failed"
	default:
		return "unknown"
	}
}

// Phase identifies which part of the session was active when it ended.
type Phase int

const (
	PhaseAwaitingStart Phase = iota // Waiting for the start prompt
	PhaseRunning                    // Start response sent, test in progress
)

// String returns a human-readable description of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingStart:
		return "awaiting start"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Result contains the outcome of one test run.
type Result struct {
	Outcome Outcome
	Phase   Phase  // Phase the session was in when it ended
	RunID   string // Unique ID for this run

	BytesRead     int // Total bytes received from the device
	ResponsesSent int // Responses written, including the start response

	Err error // Underlying error for OutcomeTransportFailed
}

// Process exit codes for the outcome classes.
const (
	ExitSuccess  = 0 // Test succeeded
	ExitTestFail = 1 // Test error: a timeout in either phase
	ExitScript   = 2 // Infrastructure error: config, port, or I/O failure
)

// ExitCode maps the result to the process exit code contract.
func (r Result) ExitCode() int {
	switch r.Outcome {
	case OutcomeSucceeded:
		return ExitSuccess
	case OutcomeTimedOut:
		return ExitTestFail
	default:
		return ExitScript
	}
}
