// Command dynamixel-bridge wires a locally attached Dynamixel chain to a
// network front-end: a CBOR-over-TCP bridge.Server for remote master-engine
// calls, a WebSocket monitor feed, optional Redis telemetry, Prometheus
// metrics, and optional mDNS advertisement — the network-facing counterpart
// to cmd/dynamixel-tool's direct local-port CLI (spec.md §4.7-§4.12).
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
	"github.com/xzz53/dynamixel-tool/internal/monitor"
)

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("dynamixel-bridge %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg == nil {
		os.Exit(1)
	}

	l := setupLogger(cfg.logFormat, cfg.logLevel)
	h := initHub(cfg, l)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	m, closer, err := initMaster(cfg, l)
	if err != nil {
		l.Error("backend_init_error", "error", err)
		return
	}
	defer closer.Close()

	srv := bridge.NewServer(
		bridge.WithHub(h),
		bridge.WithMaster(m),
		bridge.WithLogger(l),
		bridge.WithMaxClients(cfg.maxClients),
		bridge.WithHandshakeTimeout(cfg.handshakeTO),
		bridge.WithReadDeadline(cfg.clientReadTO),
	)
	srv.SetListenAddr(cfg.listenAddr)
	go func() {
		if err := srv.Serve(ctx); err != nil {
			l.Error("tcp_server_error", "error", err)
			cancel()
		}
	}()

	var monitorSrv *http.Server
	if cfg.monitorAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", monitor.NewHandler(h))
		monitorSrv = &http.Server{Addr: cfg.monitorAddr, Handler: mux}
		go func() {
			l.Info("monitor_listen", "addr", cfg.monitorAddr)
			if err := monitorSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Error("monitor_http_error", "error", err)
			}
		}()
	}

	telemetryCleanup, err := initTelemetry(ctx, cfg, h, l, &wg)
	if err != nil {
		l.Error("telemetry_init_error", "error", err)
		return
	}

	go func() {
		if !cfg.mdnsEnable {
			return
		}
		select {
		case <-srv.Ready():
		case <-ctx.Done():
			return
		}
		addr := srv.Addr()
		var portNum int
		if _, p, err := net.SplitHostPort(addr); err == nil {
			if pn, perr := strconv.Atoi(p); perr == nil {
				portNum = pn
			}
		}
		if portNum == 0 {
			lastColon := strings.LastIndex(addr, ":")
			if lastColon >= 0 {
				if pn, perr := strconv.Atoi(addr[lastColon+1:]); perr == nil {
					portNum = pn
				}
			}
		}
		cleanupMDNS, err := startMDNS(ctx, cfg, portNum, l)
		if err != nil {
			l.Warn("mdns_start_failed", "error", err)
			return
		}
		go func() { <-ctx.Done(); cleanupMDNS() }()
	}()

	metrics.SetReadinessFunc(func() bool {
		select {
		case <-srv.Ready():
		default:
			return false
		}
		return ctx.Err() == nil
	})
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		srvHTTP := metrics.StartHTTP(cfg.metricsAddr)
		defer func() { _ = srvHTTP.Shutdown(context.Background()) }()
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()
	telemetryCleanup()
	if monitorSrv != nil {
		_ = monitorSrv.Shutdown(context.Background())
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.clientReadTO)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Warn("bridge_shutdown_error", "error", err)
	}
	wg.Wait()
}
