package main

import (
	"log/slog"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
)

func initHub(cfg *bridgeConfig, l *slog.Logger) *bridge.Hub {
	h := bridge.New()
	h.OutBufSize = cfg.hubBuffer
	switch cfg.hubPolicy {
	case "drop":
		h.Policy = bridge.PolicyDrop
	case "kick":
		h.Policy = bridge.PolicyKick
	default:
		l.Warn("unknown_hub_policy", "policy", cfg.hubPolicy, "used", "drop")
		h.Policy = bridge.PolicyDrop
	}
	policyStr := map[bridge.BackpressurePolicy]string{bridge.PolicyDrop: "drop", bridge.PolicyKick: "kick"}[h.Policy]
	l.Info("build_info", "version", version, "commit", commit, "date", date)
	l.Info("hub_config", "policy", policyStr, "buffer", h.OutBufSize)
	return h
}
