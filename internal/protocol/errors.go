package protocol

import (
	"errors"
	"fmt"
)

// Error taxonomy. Variants, not type names — callers classify with
// errors.Is / errors.As, matching the original protocol crate's ProtocolError.
var (
	// ErrInvalidArg means the caller violated a precondition: mismatched
	// ids/data lengths in sync-write, unequal-length sync-write payloads,
	// an unknown protocol string, or a malformed ID range.
	ErrInvalidArg = errors.New("dynamixel: invalid argument")

	// ErrInvalidAddress means the address exceeds the chosen protocol's
	// addressable range.
	ErrInvalidAddress = errors.New("dynamixel: invalid address")

	// ErrInvalidCount means the byte count exceeds the chosen protocol's
	// addressable range.
	ErrInvalidCount = errors.New("dynamixel: invalid count")

	// ErrBadPacket means a response was received but failed framing,
	// header, length, or checksum/CRC verification.
	ErrBadPacket = errors.New("dynamixel: corrupted status packet")

	// ErrTimedOut means a transport read did not complete within its
	// deadline.
	ErrTimedOut = errors.New("dynamixel: timed out")
)

// StatusError reports a well-formed response whose device error byte was
// non-zero. The raw byte is preserved for inspection.
type StatusError struct {
	Byte byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dynamixel: device status error 0x%02X", e.Byte)
}

// Is lets errors.Is(err, protocol.ErrStatus) match any StatusError,
// regardless of the carried byte.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// ErrStatus is a sentinel usable with errors.Is to detect any StatusError
// without caring about the specific byte value.
var ErrStatus = errors.New("dynamixel: device status error")

// NewStatusError constructs a StatusError for the given device error byte.
func NewStatusError(b byte) error { return &StatusError{Byte: b} }
