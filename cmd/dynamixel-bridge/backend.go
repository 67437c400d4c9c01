package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/devicesim"
	"github.com/xzz53/dynamixel-tool/internal/master"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/serialport"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// chunkedReadWriteCloser is the narrow shape syncOverAsync depends on;
// *devicesim.Transport satisfies it, and a test double can too.
type chunkedReadWriteCloser interface {
	Read(p []byte, deadline time.Duration) (int, error)
	Write(p []byte) error
	Close() error
}

// syncOverAsync layers master.Transport's ReadExact/WriteAll contract over
// a chunked Read, the same polling-until-deadline pattern
// serialport.Transport.ReadExact uses over tarm/serial.
type syncOverAsync struct {
	inner chunkedReadWriteCloser
}

func (s *syncOverAsync) WriteAll(p []byte) error { return s.inner.Write(p) }

func (s *syncOverAsync) ReadExact(p []byte, deadline time.Duration) error {
	deadlineAt := time.Now().Add(deadline)
	off := 0
	for off < len(p) {
		n, err := s.inner.Read(p[off:], deadline)
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

func (s *syncOverAsync) Close() error { return s.inner.Close() }

// openTransport opens cfg's chosen backend, resolving "auto" ports via
// serialport.Discover when the serial backend is selected.
func openTransport(cfg *bridgeConfig, l *slog.Logger) (transport.Transport, io.Closer, error) {
	switch cfg.backend {
	case "simulate":
		tr, err := devicesim.Open(cfg.serialDev, cfg.baud)
		if err != nil {
			return nil, nil, fmt.Errorf("open simulated device %s: %w", cfg.serialDev, err)
		}
		l.Info("devicesim_open", "device", cfg.serialDev, "baud", cfg.baud)
		wrapped := &syncOverAsync{inner: tr}
		return wrapped, wrapped, nil
	default:
		name := cfg.serialDev
		if name == "auto" {
			discovered, err := serialport.Discover()
			if err != nil {
				return nil, nil, fmt.Errorf("autodetect port: %w", err)
			}
			name = discovered
		}
		tr, err := serialport.OpenWithRS485(name, serialport.OpenOptions{
			Baud:        cfg.baud,
			ReadTimeout: cfg.serialReadTO,
			Force:       cfg.force,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open serial %s: %w", name, err)
		}
		l.Info("serial_open", "device", name, "baud", cfg.baud)
		return tr, tr, nil
	}
}

// initMaster opens the configured backend and binds a master.Master to it.
func initMaster(cfg *bridgeConfig, l *slog.Logger) (*master.Master, io.Closer, error) {
	tr, closer, err := openTransport(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	version := protocol.V1
	if cfg.protocol == 2 {
		version = protocol.V2
	}
	m := master.New(tr, version, cfg.retries, master.WithReadDeadline(cfg.serialReadTO))
	return m, closer, nil
}
