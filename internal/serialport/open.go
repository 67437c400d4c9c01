package serialport

import (
	"fmt"
	"os"
	"time"
)

// OpenOptions configures OpenWithRS485.
type OpenOptions struct {
	Baud        int
	ReadTimeout time.Duration
	// Force proceeds even if the RS-485 ioctl fails or is unsupported on
	// this platform. On non-Linux builds ConfigureRS485 always returns an
	// Rs485Error, so opening a port there needs Force.
	Force bool
}

// OpenWithRS485 configures half-duplex RS-485 mode on name before handing
// it to tarm/serial, mirroring the original open_port's rs485_enable
// failure path: a failed or unsupported ioctl is fatal unless opts.Force
// is set.
func OpenWithRS485(name string, opts OpenOptions) (*Transport, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}
	rsErr := ConfigureRS485(f)
	_ = f.Close()
	if rsErr != nil && !opts.Force {
		return nil, rsErr
	}

	port, err := Open(name, opts.Baud, opts.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}
	return New(port), nil
}
