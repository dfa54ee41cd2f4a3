package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate is used when no baud rate is configured.
const DefaultBaudRate = 9600

// SerialConfig holds the settings needed to open a serial port.
type SerialConfig struct {
	// Device is the port name, e.g. "/dev/ttyUSB0" or "COM3".
	Device string

	// BaudRate defaults to DefaultBaudRate when zero.
	BaudRate int
}

// serialTransport adapts a serial port to the Transport interface.
type serialTransport struct {
	port serial.Port
	now  func() time.Time
	rbuf [1]byte
}

// OpenSerial opens the configured serial port as a Transport.
func OpenSerial(cfg SerialConfig) (Transport, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.BaudRate < 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.BaudRate)
	}

	port, err := serial.Open(cfg.Device, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &serialTransport{port: port, now: time.Now}, nil
}

// ReadByte reads a single byte, waiting at most deadline.
//
// POSIX serial reads may return zero bytes before the read timeout has
// fully elapsed, so the remaining window is recomputed and the read
// re-armed until either a byte arrives or the deadline is consumed.
func (t *serialTransport) ReadByte(deadline time.Duration) (byte, bool, error) {
	start := t.now()

	for {
		remaining := deadline - t.now().Sub(start)
		if remaining <= 0 {
			return 0, false, nil
		}

		if err := t.port.SetReadTimeout(remaining); err != nil {
			return 0, false, fmt.Errorf("failed to set read timeout: %w", err)
		}

		n, err := t.port.Read(t.rbuf[:])
		if err != nil {
			return 0, false, fmt.Errorf("serial read failed: %w", err)
		}
		if n > 0 {
			return t.rbuf[0], true, nil
		}
	}
}

// Write sends the bytes to the device.
func (t *serialTransport) Write(p []byte) error {
	n, err := t.port.Write(p)
	if err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("serial write failed: %w", io.ErrShortWrite)
	}
	return nil
}

// Close closes the serial port.
func (t *serialTransport) Close() error {
	return t.port.Close()
}

// ListPorts returns the names of the serial ports present on the system.
func ListPorts() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return names, nil
}

// Verify serialTransport implements Transport.
var _ Transport = (*serialTransport)(nil)
