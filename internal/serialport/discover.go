package serialport

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.bug.st/serial"
)

// compatiblePorts is the known VID:PID compatibility list (spec.md §6):
// Robotis USB2Dynamixel-alike adapters and common USB-serial bridges seen
// on Dynamixel interface boards.
var compatiblePorts = map[string]bool{
	"16d0:06a7": true, // Robotis USB2Dynamixel
	"0403:6014": true, // FTDI FT232H
	"1a86:7523": true, // CH340
	"0483:5740": true, // STMicroelectronics Virtual COM Port
}

// ErrNoCompatiblePort is returned when no attached serial port matches the
// compatibility list and no unknown port accepted the RS-485 probe.
var ErrNoCompatiblePort = errors.New("serialport: no compatible port found")

// Discover lists attached serial ports and returns the first whose
// VID:PID appears in the compatibility list. If none match, it falls back
// to trying the RS-485 ioctl round-trip on each port that has no USB
// VID:PID and accepts the first that succeeds. Whether another process
// already holds such a port open is not checked.
func Discover() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("serialport: list ports: %w", err)
	}

	details, detailErr := serial.GetDetailedPortsList()
	vidPid := map[string]string{}
	if detailErr == nil {
		for _, d := range details {
			if d.IsUSB {
				vidPid[d.Name] = strings.ToLower(d.VID) + ":" + strings.ToLower(d.PID)
			}
		}
	}

	var unknown []string
	for _, p := range ports {
		if id, ok := vidPid[p]; ok && compatiblePorts[id] {
			return p, nil
		}
		if _, ok := vidPid[p]; !ok {
			unknown = append(unknown, p)
		}
	}

	for _, p := range unknown {
		f, err := os.OpenFile(p, os.O_RDWR, 0)
		if err != nil {
			continue
		}
		rsErr := ConfigureRS485(f)
		_ = f.Close()
		if rsErr == nil {
			return p, nil
		}
	}

	return "", ErrNoCompatiblePort
}
