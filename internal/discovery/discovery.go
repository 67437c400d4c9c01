// Package discovery advertises the bridge's TCP endpoint via mDNS so
// clients on the local network can find it without a configured address.
package discovery

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the mDNS service type advertised for a dynamixel-bridge
// instance.
const ServiceType = "_dynamixel-bridge._tcp"

// Advertise registers instance (or a hostname-derived default) under
// ServiceType on the local network, with meta as TXT records. It returns a
// cleanup function that tears the advertisement down; the cleanup function
// is nil when the returned error is non-nil.
func Advertise(ctx context.Context, instance string, port int, meta []string) (func(), error) {
	if instance == "" {
		host, _ := os.Hostname()
		instance = fmt.Sprintf("dynamixel-bridge-%s", host)
	}

	svc, err := zeroconf.Register(instance, ServiceType, "local.", port, meta, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: mdns register: %w", err)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		svc.Shutdown()
	}()
	return func() { close(done); svc.Shutdown(); time.Sleep(50 * time.Millisecond) }, nil
}
