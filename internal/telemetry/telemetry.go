// Package telemetry mirrors bridge events to a Redis sink for external
// dashboards: an HSET of the latest value per device ID and event kind plus a
// PUBLISH so a subscriber can react live, grounded on the pack's
// librescoot-bluetooth-service redis client (WriteAndPublishString).
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
	"github.com/xzz53/dynamixel-tool/internal/logging"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

// keyPrefix namespaces every hash key this publisher writes.
const keyPrefix = "dynamixel"

// Publisher is a best-effort, write-only mirror of bridge events into
// Redis. A push failure never blocks or fails the caller — telemetry is
// not state the engine reads back (SPEC_FULL.md §6).
type Publisher struct {
	client  *redis.Client
	ctx     context.Context
	timeout time.Duration
}

// New dials addr and verifies connectivity with a Ping.
func New(addr, password string, db int) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("telemetry: connect to redis: %w", err)
	}
	return &Publisher{client: client, ctx: ctx, timeout: 2 * time.Second}, nil
}

// Run subscribes to hub and pushes every Event until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context, hub *bridge.Hub) {
	cl := &bridge.Client{Out: make(chan bridge.Event, 256), Closed: make(chan struct{})}
	hub.Add(cl)
	defer hub.Remove(cl)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-cl.Out:
			p.push(ev)
		}
	}
}

// keyFieldValue derives the HSET/PUBLISH triple for ev; split out from
// push so the mapping is testable without a live Redis connection.
func keyFieldValue(ev bridge.Event) (key, field, value string) {
	key = fmt.Sprintf("%s:%d", keyPrefix, ev.ID)
	field = string(ev.Kind)
	value = ev.Message
	if value == "" {
		value = fmt.Sprintf("op=%s address=%d", ev.Op, ev.Address)
	}
	return key, field, value
}

func (p *Publisher) push(ev bridge.Event) {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	key, field, value := keyFieldValue(ev)

	pipe := p.client.Pipeline()
	pipe.HSet(ctx, key, field, value)
	pipe.Publish(ctx, key, fmt.Sprintf("%s:%s", field, value))
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.IncError(metrics.ErrTelemetryPush)
		logging.L().Warn("telemetry_push_failed", "error", err, "key", key)
	}
}

// Close releases the Redis connection.
func (p *Publisher) Close() error { return p.client.Close() }
