//go:build linux

package serialport

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// tiocsrs485 is TIOCSRS485, matching the ioctl request number used by the
// daedaluz/goserial reference table.
const tiocsrs485 = 0x542F

const (
	serRS485Enabled   = 1 << 0
	serRS485RTSOnSend = 1 << 1
)

// serialRS485 mirrors Linux's struct serial_rs485 layout.
type serialRS485 struct {
	flags              uint32
	delayRTSBeforeSend uint32
	delayRTSAfterSend  uint32
	padding            [5]uint32
}

// Rs485Error wraps an ioctl failure while configuring RS-485 mode.
type Rs485Error struct{ Err error }

func (e *Rs485Error) Error() string { return fmt.Sprintf("serialport: rs485 configure: %v", e.Err) }
func (e *Rs485Error) Unwrap() error { return e.Err }

// ConfigureRS485 enables half-duplex RS-485 mode with RTS-on-send on the
// open file descriptor backing f, via the TIOCSRS485 ioctl.
func ConfigureRS485(f *os.File) error {
	rs := serialRS485{flags: serRS485Enabled | serRS485RTSOnSend}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(tiocsrs485), uintptr(unsafe.Pointer(&rs)))
	if errno != 0 {
		return &Rs485Error{Err: errno}
	}
	return nil
}
