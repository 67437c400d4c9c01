// Package devicesim implements transport.AsyncTransport over a real serial
// port using go.bug.st/serial, so the asynchronous slave engine can be run
// against physical hardware — standing up a servo simulator to exercise
// the master against, or answering as a slave on a secondary bus segment.
package devicesim

import (
	"time"

	"go.bug.st/serial"
)

// Transport adapts a go.bug.st/serial port to transport.AsyncTransport.
type Transport struct {
	port        serial.Port
	lastTimeout time.Duration
}

// Open opens name at baud and wraps it as a Transport.
func Open(name string, baud int) (*Transport, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return &Transport{port: port}, nil
}

// Read reads whatever is available into p within deadline, adjusting the
// port's read timeout only when it changes from the previous call (the
// underlying driver treats SetReadTimeout as a relatively expensive
// configuration call, not a per-read parameter).
func (t *Transport) Read(p []byte, deadline time.Duration) (int, error) {
	if deadline != t.lastTimeout {
		if err := t.port.SetReadTimeout(deadline); err != nil {
			return 0, err
		}
		t.lastTimeout = deadline
	}
	return t.port.Read(p)
}

// Write writes p in full.
func (t *Transport) Write(p []byte) error {
	_, err := t.port.Write(p)
	return err
}

// Close releases the underlying port.
func (t *Transport) Close() error { return t.port.Close() }
