package transport

import (
	"sync"
	"time"
)

// MockStep is one scripted ReadByte outcome for a MockTransport.
type MockStep struct {
	// Byte is delivered after Delay of simulated time, unless Timeout or
	// Err is set.
	Byte byte

	// Delay is the simulated time before the byte becomes available. If
	// it reaches the caller's deadline the read reports no byte and the
	// residual delay carries over to the next read; a gap exactly equal
	// to the deadline is an expiry, not a delivery.
	Delay time.Duration

	// Timeout makes the read consume its full deadline with no byte.
	Timeout bool

	// Err makes the read fail with this error.
	Err error
}

// MockCall records one operation on a MockTransport, in invocation order.
// Op is "read", "write", or "close"; Data holds the written bytes.
type MockCall struct {
	Op       string
	Deadline time.Duration
	Data     []byte
}

// MockTransport implements Transport with a scripted byte stream for
// session tests. Simulated time is advanced through the Advance callback,
// which tests typically wire to a fake clock, keeping the timeout
// arithmetic fully deterministic.
type MockTransport struct {
	mu sync.Mutex

	steps    []MockStep
	advance  func(time.Duration)
	writeErr error
	closed   bool

	calls []MockCall
}

// NewMockTransport creates a MockTransport. advance is invoked with every
// slice of simulated time consumed by a read; it may be nil.
func NewMockTransport(advance func(time.Duration)) *MockTransport {
	return &MockTransport{advance: advance}
}

// QueueString queues each byte of s for immediate delivery.
func (m *MockTransport) QueueString(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < len(s); i++ {
		m.steps = append(m.steps, MockStep{Byte: s[i]})
	}
}

// QueueByte queues a single byte that becomes available after delay of
// simulated time.
func (m *MockTransport) QueueByte(b byte, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, MockStep{Byte: b, Delay: delay})
}

// QueueTimeout queues a read that consumes its full deadline with no byte.
func (m *MockTransport) QueueTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, MockStep{Timeout: true})
}

// QueueError queues a read failure.
func (m *MockTransport) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, MockStep{Err: err})
}

// SetWriteError makes all subsequent Write calls fail with err.
func (m *MockTransport) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// ReadByte pops the next scripted step. An exhausted script behaves like
// a quiet device: every read times out.
func (m *MockTransport) ReadByte(deadline time.Duration) (byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Op: "read", Deadline: deadline})

	if len(m.steps) == 0 {
		m.tick(deadline)
		return 0, false, nil
	}

	step := m.steps[0]
	switch {
	case step.Err != nil:
		m.steps = m.steps[1:]
		return 0, false, step.Err

	case step.Timeout:
		m.steps = m.steps[1:]
		m.tick(deadline)
		return 0, false, nil

	case step.Delay >= deadline:
		// Byte not available strictly inside this read's window; keep
		// the residual delay for the next read.
		m.steps[0].Delay -= deadline
		m.tick(deadline)
		return 0, false, nil

	default:
		m.steps = m.steps[1:]
		m.tick(step.Delay)
		return step.Byte, true, nil
	}
}

// Write records the written bytes and returns the configured error.
func (m *MockTransport) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := make([]byte, len(p))
	copy(data, p)
	m.calls = append(m.calls, MockCall{Op: "write", Data: data})

	return m.writeErr
}

// Close records the close and returns nil.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.calls = append(m.calls, MockCall{Op: "close"})
	return nil
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns a copy of the recorded operations in invocation order.
func (m *MockTransport) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Writes returns the payloads of the recorded Write calls, in order.
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var writes [][]byte
	for _, c := range m.calls {
		if c.Op == "write" {
			writes = append(writes, c.Data)
		}
	}
	return writes
}

// tick advances simulated time. Callers must hold m.mu.
func (m *MockTransport) tick(d time.Duration) {
	if m.advance != nil && d > 0 {
		m.advance(d)
	}
}

// Verify MockTransport implements Transport.
var _ Transport = (*MockTransport)(nil)
