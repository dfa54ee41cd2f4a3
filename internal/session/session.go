package session

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dutrun/dutrun/internal/config"
	"github.com/dutrun/dutrun/internal/logging"
	"github.com/dutrun/dutrun/internal/match"
	"github.com/dutrun/dutrun/internal/runlog"
	"github.com/dutrun/dutrun/internal/transport"
)

// Options holds the collaborators for a Session. This struct enables
// test-friendly construction with explicit dependencies.
type Options struct {
	Transport transport.Transport
	Config    *config.TestConfig

	// Now is the session clock; defaults to time.Now. Tests inject a
	// fake clock to drive timeout behavior deterministically.
	Now func() time.Time

	// Log receives raw device output and response records. Optional.
	Log *runlog.Writer

	// Echo receives raw device output for interactive display. Optional.
	Echo io.Writer

	// Logger receives diagnostics. Defaults to the package logger.
	Logger *logging.Logger
}

// Session executes one test run. It owns its transport reads and matcher
// instances for the duration of exactly one Run call; nothing persists
// across runs except the transport itself.
type Session struct {
	tr   transport.Transport
	cfg  *config.TestConfig
	now  func() time.Time
	log  *runlog.Writer
	echo io.Writer
	lg   *logging.Logger
}

// New creates a Session from the given options.
func New(opts Options) *Session {
	s := &Session{
		tr:   opts.Transport,
		cfg:  opts.Config,
		now:  opts.Now,
		log:  opts.Log,
		echo: opts.Echo,
		lg:   opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = runlog.Discard()
	}
	if s.lg == nil {
		s.lg = logging.With("component", "session")
	}
	return s
}

// Run executes the test until a terminal outcome is reached.
func (s *Session) Run() Result {
	res := Result{RunID: uuid.New().String(), Phase: PhaseAwaitingStart}
	lg := s.lg.With("run", res.RunID)

	lg.Debug("awaiting start prompt", "timeout", s.cfg.Start.Timeout)

	if !s.awaitStart(&res, lg) {
		return res
	}

	res.Phase = PhaseRunning
	lg.Debug("start prompt matched, test running", "idleTimeout", s.cfg.IdleTimeout)

	s.runToEnd(&res, lg)
	return res
}

// awaitStart waits for the start prompt within the start timeout and sends
// the start response. It returns true when the session should proceed to
// the running phase; otherwise res carries the terminal outcome.
func (s *Session) awaitStart(res *Result, lg *logging.Logger) bool {
	m := match.New(s.cfg.Start.Prompt)
	began := s.now()

	for {
		remaining := s.cfg.Start.Timeout - s.now().Sub(began)
		if remaining <= 0 {
			lg.Debug("start prompt not seen before timeout")
			res.Outcome = OutcomeTimedOut
			return false
		}

		b, ok, err := s.tr.ReadByte(remaining)
		if err != nil {
			s.fail(res, fmt.Errorf("read while awaiting start prompt: %w", err))
			return false
		}
		if !ok {
			continue
		}

		res.BytesRead++
		s.observe(b)

		if _, hit := m.Feed(b); hit {
			if err := s.send(res, s.cfg.Start.Response); err != nil {
				s.fail(res, fmt.Errorf("write start response: %w", err))
				return false
			}
			return true
		}
	}
}

// runToEnd runs the main phase: end prompt first in priority, then user
// prompts in declaration order. Every received byte re-arms the full idle
// window.
func (s *Session) runToEnd(res *Result, lg *logging.Logger) {
	patterns := make([][]byte, 0, len(s.cfg.Users)+1)
	patterns = append(patterns, s.cfg.End.Prompt)
	for _, u := range s.cfg.Users {
		patterns = append(patterns, u.Prompt)
	}
	m := match.New(patterns...)

	lastByte := s.now()

	for {
		remaining := s.cfg.IdleTimeout - s.now().Sub(lastByte)
		if remaining <= 0 {
			lg.Debug("idle timeout expired before end prompt")
			res.Outcome = OutcomeTimedOut
			return
		}

		b, ok, err := s.tr.ReadByte(remaining)
		if err != nil {
			s.fail(res, fmt.Errorf("read while running: %w", err))
			return
		}
		if !ok {
			continue
		}

		lastByte = s.now()
		res.BytesRead++
		s.observe(b)

		idx, hit := m.Feed(b)
		if !hit {
			continue
		}

		if idx == 0 {
			// End prompt: no response is sent.
			res.Outcome = OutcomeSucceeded
			return
		}

		user := s.cfg.Users[idx-1]
		lg.Debug("user prompt matched", "prompt", user.Name)
		if err := s.send(res, user.Response); err != nil {
			s.fail(res, fmt.Errorf("write response for prompt %q: %w", user.Name, err))
			return
		}
	}
}

// send writes a response to the device before any further read is issued,
// and records it in the run log and echo stream.
func (s *Session) send(res *Result, response []byte) error {
	if err := s.tr.Write(response); err != nil {
		return err
	}
	res.ResponsesSent++

	record := fmt.Sprintf("\nResponse sent: '%s'", response)
	if err := s.log.Line(record); err != nil {
		s.lg.Warn("failed to write run log", "error", err)
	}
	if s.echo != nil {
		fmt.Fprintln(s.echo, record)
	}
	return nil
}

// observe forwards a received byte to the run log and echo stream.
func (s *Session) observe(b byte) {
	if err := s.log.Write([]byte{b}); err != nil {
		s.lg.Warn("failed to write run log", "error", err)
	}
	if s.echo != nil {
		s.echo.Write([]byte{b})
	}
}

// fail marks the result as a transport failure.
func (s *Session) fail(res *Result, err error) {
	s.lg.Error("transport failure", "error", err)
	res.Outcome = OutcomeTransportFailed
	res.Err = err
}
