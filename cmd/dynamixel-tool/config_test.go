package main

import (
	"testing"
	"time"
)

func TestConfigValidate_OK(t *testing.T) {
	c := &toolConfig{
		port:     "auto",
		baudrate: 57600,
		retries:  0,
		protocol: 1,
		readTO:   10 * time.Millisecond,
	}
	if err := c.validate(); err != nil {
		t.Fatalf("expected ok got %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*toolConfig)
	}{
		{"badProtocol", func(c *toolConfig) { c.protocol = 3 }},
		{"badBaud", func(c *toolConfig) { c.baudrate = 0 }},
		{"badRetries", func(c *toolConfig) { c.retries = -1 }},
		{"badReadTO", func(c *toolConfig) { c.readTO = 0 }},
		{"emptyPort", func(c *toolConfig) { c.port = "" }},
	}
	for _, tc := range tests {
		base := &toolConfig{port: "auto", baudrate: 57600, protocol: 1, readTO: 10 * time.Millisecond}
		tc.mod(base)
		if err := base.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestApplyEnvOverrides_Basic(t *testing.T) {
	base := &toolConfig{port: "auto", baudrate: 57600, protocol: 1, readTO: 10 * time.Millisecond}
	t.Setenv("DYNAMIXEL_TOOL_BAUDRATE", "115200")
	t.Setenv("DYNAMIXEL_TOOL_PROTOCOL", "2")
	t.Setenv("DYNAMIXEL_TOOL_JSON", "true")

	if err := applyEnvOverrides(base, map[string]struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.baudrate != 115200 {
		t.Fatalf("expected baudrate override, got %d", base.baudrate)
	}
	if base.protocol != 2 {
		t.Fatalf("expected protocol override, got %d", base.protocol)
	}
	if !base.jsonOut {
		t.Fatal("expected jsonOut true")
	}
}

func TestApplyEnvOverrides_FlagPrecedence(t *testing.T) {
	base := &toolConfig{baudrate: 57600}
	t.Setenv("DYNAMIXEL_TOOL_BAUDRATE", "115200")
	if err := applyEnvOverrides(base, map[string]struct{}{"baudrate": {}}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if base.baudrate != 57600 {
		t.Fatalf("expected baudrate unchanged 57600 got %d", base.baudrate)
	}
}

func TestApplyEnvOverrides_BadInt(t *testing.T) {
	base := &toolConfig{retries: 0}
	t.Setenv("DYNAMIXEL_TOOL_RETRIES", "notint")
	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatal("expected error for bad integer")
	}
}
