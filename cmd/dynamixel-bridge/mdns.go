package main

import (
	"context"
	"log/slog"

	"github.com/xzz53/dynamixel-tool/internal/discovery"
)

// startMDNS registers the bridge via mDNS and returns a cleanup function.
// It is a no-op, returning an empty cleanup function, when disabled.
func startMDNS(ctx context.Context, cfg *bridgeConfig, port int, l *slog.Logger) (func(), error) {
	if !cfg.mdnsEnable {
		return func() {}, nil
	}
	meta := []string{
		"backend=" + cfg.backend,
		"version=" + version,
		"commit=" + commit,
	}
	cleanup, err := discovery.Advertise(ctx, cfg.mdnsName, port, meta)
	if err != nil {
		return nil, err
	}
	l.Info("mdns_started", "service", discovery.ServiceType, "port", port)
	return cleanup, nil
}
