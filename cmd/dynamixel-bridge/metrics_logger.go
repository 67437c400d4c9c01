package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"requests", snap.Requests,
					"retries", snap.Retries,
					"timeouts", snap.Timeouts,
					"status_errors", snap.StatusErrors,
					"malformed", snap.Malformed,
					"connections", snap.Connections,
					"active_clients", snap.ActiveClients,
					"dropped", snap.Dropped,
					"kicked", snap.Kicked,
					"errors", snap.Errors,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
