// Package serialport implements master.Transport over a real RS-485/USB
// serial device, wrapping github.com/tarm/serial the way the teacher's
// internal/serial package wraps it for CAN framing.
package serialport

import (
	"time"

	"github.com/tarm/serial"
)

// Port abstracts tarm/serial for testability.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Open opens name at baud, with readTimeout applied to every Read call by
// the underlying driver.
func Open(name string, baud int, readTimeout time.Duration) (Port, error) {
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: readTimeout}
	return serial.OpenPort(cfg)
}
