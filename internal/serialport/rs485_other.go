//go:build !linux

package serialport

import (
	"errors"
	"os"
)

// Rs485Error wraps an RS-485 configuration failure.
type Rs485Error struct{ Err error }

func (e *Rs485Error) Error() string { return "serialport: rs485 configure: " + e.Err.Error() }
func (e *Rs485Error) Unwrap() error { return e.Err }

// ConfigureRS485 is unsupported outside Linux and always returns an
// Rs485Error; OpenWithRS485 proceeds without it only when OpenOptions.Force
// is set (testable property 11, SPEC_FULL.md).
func ConfigureRS485(f *os.File) error {
	return &Rs485Error{Err: errors.New("rs485 ioctl not supported on this platform")}
}
