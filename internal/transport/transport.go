// Package transport defines the narrow byte-channel contract the protocol
// engine depends on. Concrete transports (serialport, devicesim, or an
// in-memory pipe for tests) implement these interfaces; the core knows
// nothing about serial ports, RS-485, or sockets.
package transport

import "time"

// Transport is the blocking, synchronous contract consumed by the master
// engine. Every call owns the underlying link for its duration: a
// WriteAll always completes before any subsequent ReadExact, and the bus
// is never shared across concurrent calls (see spec.md §5).
type Transport interface {
	// WriteAll writes the entirety of p to the link.
	WriteAll(p []byte) error

	// ReadExact reads exactly len(p) bytes into p, bounded by deadline. A
	// timed-out read returns an error satisfying errors.Is(err,
	// protocol.ErrTimedOut); it is distinguishable from an ordinary I/O
	// failure.
	ReadExact(p []byte, deadline time.Duration) error
}

// AsyncTransport is the chunked-read contract consumed by the slave
// engine. Unlike Transport, a read may return fewer bytes than requested
// within the deadline; the slave engine's ensure-buffer loop accumulates
// across calls.
type AsyncTransport interface {
	// Read attempts to fill p, returning the number of bytes actually
	// read. It blocks for at most deadline; a timeout is reported either
	// via an error satisfying errors.Is(err, protocol.ErrTimedOut) or as a
	// zero-byte read with a nil error (as devicesim.Transport does), and
	// callers treat both as a timeout.
	Read(p []byte, deadline time.Duration) (int, error)

	// Write writes p to the link without a deadline of its own; it never
	// blocks waiting for a reply.
	Write(p []byte) error
}
