package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
	"github.com/xzz53/dynamixel-tool/internal/telemetry"
)

// initTelemetry dials Redis and starts mirroring hub events to it when
// cfg.redisAddr is set; it returns a no-op cleanup when disabled.
func initTelemetry(ctx context.Context, cfg *bridgeConfig, h *bridge.Hub, l *slog.Logger, wg *sync.WaitGroup) (func(), error) {
	if cfg.redisAddr == "" {
		return func() {}, nil
	}
	pub, err := telemetry.New(cfg.redisAddr, cfg.redisPassword, cfg.redisDB)
	if err != nil {
		return nil, err
	}
	l.Info("telemetry_connected", "addr", cfg.redisAddr, "db", cfg.redisDB)
	wg.Add(1)
	go func() {
		defer wg.Done()
		pub.Run(ctx, h)
	}()
	return func() { _ = pub.Close() }, nil
}
