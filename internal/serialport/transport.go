package serialport

import (
	"time"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// Transport adapts a Port to master.Transport's blocking WriteAll/ReadExact
// contract. tarm/serial applies its own fixed ReadTimeout to every Read
// syscall (returning 0, nil on a timed-out read rather than an error);
// ReadExact layers the per-call deadline spec.md §6 requires on top of
// that by polling until either the buffer fills or the deadline elapses.
type Transport struct {
	port Port
}

// New wraps an already-open Port.
func New(port Port) *Transport { return &Transport{port: port} }

func (t *Transport) WriteAll(p []byte) error {
	off := 0
	for off < len(p) {
		n, err := t.port.Write(p[off:])
		if err != nil {
			return err
		}
		off += n
	}
	return nil
}

func (t *Transport) ReadExact(p []byte, deadline time.Duration) error {
	deadlineAt := time.Now().Add(deadline)
	off := 0
	for off < len(p) {
		n, err := t.port.Read(p[off:])
		if err != nil {
			return err
		}
		off += n
		if off >= len(p) {
			return nil
		}
		if n == 0 && time.Now().After(deadlineAt) {
			return protocol.ErrTimedOut
		}
	}
	return nil
}

func (t *Transport) Close() error { return t.port.Close() }
