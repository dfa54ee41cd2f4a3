// Package transport abstracts the byte-stream link to the device under
// test. The session layer only sees the Transport interface; the serial
// implementation lives behind it so tests can substitute a scripted mock.
package transport

import "time"

// Transport is a byte-stream channel to the device under test.
//
// Reads take an explicit per-call deadline rather than relying on an
// ambient port timeout, so the caller owns all timeout arithmetic.
type Transport interface {
	// ReadByte returns the next byte from the device, waiting at most
	// deadline for it. ok is false when the deadline elapsed with no
	// byte available; that is an ordinary outcome, not an error. err is
	// reserved for I/O failures on the underlying channel.
	ReadByte(deadline time.Duration) (b byte, ok bool, err error)

	// Write sends the bytes to the device. Writes are expected to
	// complete promptly; a blocked or failed write surfaces as an error.
	Write(p []byte) error

	// Close releases the underlying channel.
	Close() error
}
