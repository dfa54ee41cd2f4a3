// Package match implements incremental multi-pattern substring matching
// over an unbounded byte stream. A Matcher holds only enough trailing
// bytes to detect any registered pattern ending at the newest byte, so
// memory use is bounded by the longest pattern regardless of stream length.
package match

import "bytes"

// Matcher detects occurrences of a fixed set of byte-sequence patterns,
// fed one byte at a time. When several patterns complete on the same byte,
// the one registered first wins; callers encode matching priority in
// registration order.
type Matcher struct {
	patterns [][]byte
	longest  int
	buf      []byte
}

// New creates a Matcher for the given patterns. Priority is registration
// order: patterns[0] is checked first on every byte. Empty patterns never
// match.
func New(patterns ...[]byte) *Matcher {
	m := &Matcher{patterns: patterns}
	for _, p := range patterns {
		if len(p) > m.longest {
			m.longest = len(p)
		}
	}
	m.buf = make([]byte, 0, m.longest)
	return m
}

// Feed consumes one byte and reports whether any pattern's occurrence
// completed at this byte. On a match it returns the pattern's registration
// index and clears the internal buffer, consuming the matched bytes so
// overlapping occurrences cannot fire twice from leftovers.
func (m *Matcher) Feed(b byte) (int, bool) {
	m.buf = append(m.buf, b)

	for i, p := range m.patterns {
		if len(p) > 0 && bytes.HasSuffix(m.buf, p) {
			m.buf = m.buf[:0]
			return i, true
		}
	}

	// No pattern can end later than longest-1 bytes back, so older bytes
	// are dead weight. Shift in place to keep the backing array fixed.
	keep := m.longest - 1
	if keep < 0 {
		keep = 0
	}
	if len(m.buf) > keep {
		copy(m.buf, m.buf[len(m.buf)-keep:])
		m.buf = m.buf[:keep]
	}

	return -1, false
}

// Pending returns the number of trailing bytes currently buffered.
func (m *Matcher) Pending() int {
	return len(m.buf)
}

// Reset discards any buffered bytes.
func (m *Matcher) Reset() {
	m.buf = m.buf[:0]
}
