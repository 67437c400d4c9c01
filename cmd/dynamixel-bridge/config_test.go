package main

import (
	"testing"
	"time"
)

func baseConfig() *bridgeConfig {
	return &bridgeConfig{
		serialDev:    "/dev/null",
		baud:         57600,
		protocol:     1,
		listenAddr:   ":20000",
		serialReadTO: 10 * time.Millisecond,
		logFormat:    "text",
		logLevel:     "info",
		hubBuffer:    8,
		hubPolicy:    "drop",
		backend:      "serial",
		maxClients:   0,
		handshakeTO:  time.Second,
		clientReadTO: time.Second,
	}
}

func TestConfigValidate_OK(t *testing.T) {
	if err := baseConfig().validate(); err != nil {
		t.Fatalf("expected ok got %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*bridgeConfig)
	}{
		{"badFormat", func(c *bridgeConfig) { c.logFormat = "xx" }},
		{"badLevel", func(c *bridgeConfig) { c.logLevel = "nope" }},
		{"badBackend", func(c *bridgeConfig) { c.backend = "x" }},
		{"badPolicy", func(c *bridgeConfig) { c.hubPolicy = "x" }},
		{"badProtocol", func(c *bridgeConfig) { c.protocol = 3 }},
		{"badHubBuf", func(c *bridgeConfig) { c.hubBuffer = 0 }},
		{"badBaud", func(c *bridgeConfig) { c.baud = 0 }},
		{"badRetries", func(c *bridgeConfig) { c.retries = -1 }},
		{"badSerialTO", func(c *bridgeConfig) { c.serialReadTO = 0 }},
		{"badHandshakeTO", func(c *bridgeConfig) { c.handshakeTO = 0 }},
		{"badClientReadTO", func(c *bridgeConfig) { c.clientReadTO = 0 }},
		{"badMaxClients", func(c *bridgeConfig) { c.maxClients = -1 }},
	}
	for _, tc := range tests {
		base := baseConfig()
		tc.mod(base)
		if err := base.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestApplyEnvOverrides_Basic(t *testing.T) {
	base := baseConfig()
	t.Setenv("DYNAMIXEL_BRIDGE_BAUD", "115200")
	t.Setenv("DYNAMIXEL_BRIDGE_MDNS_ENABLE", "true")
	t.Setenv("DYNAMIXEL_BRIDGE_SERIAL_READ_TIMEOUT", "100ms")

	if err := applyEnvOverrides(base, map[string]struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.baud != 115200 {
		t.Fatalf("expected baud override, got %d", base.baud)
	}
	if !base.mdnsEnable {
		t.Fatal("expected mdnsEnable true")
	}
	if base.serialReadTO != 100*time.Millisecond {
		t.Fatalf("expected serialReadTO 100ms got %v", base.serialReadTO)
	}
}

func TestApplyEnvOverrides_FlagPrecedence(t *testing.T) {
	base := &bridgeConfig{baud: 57600}
	t.Setenv("DYNAMIXEL_BRIDGE_BAUD", "115200")
	if err := applyEnvOverrides(base, map[string]struct{}{"baud": {}}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if base.baud != 57600 {
		t.Fatalf("expected baud unchanged 57600 got %d", base.baud)
	}
}

func TestApplyEnvOverrides_BadInt(t *testing.T) {
	base := &bridgeConfig{hubBuffer: 64}
	t.Setenv("DYNAMIXEL_BRIDGE_HUB_BUFFER", "notint")
	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatal("expected error for bad integer")
	}
}
