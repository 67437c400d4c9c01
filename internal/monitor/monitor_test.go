package monitor

import (
	"testing"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
)

func TestNewHandlerDefaults(t *testing.T) {
	h := NewHandler(bridge.New())
	if h.Hub == nil {
		t.Fatal("expected Hub to be set")
	}
	if h.WireTimeout != defaultWireTimeout || h.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("unexpected default timeouts: wire=%v idle=%v", h.WireTimeout, h.IdleTimeout)
	}
	if h.UpgradeTimeout != 5*time.Second {
		t.Fatalf("unexpected upgrade timeout: %v", h.UpgradeTimeout)
	}
}
