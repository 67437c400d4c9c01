package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/xzz53/dynamixel-tool/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	MasterRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "master_requests_total",
		Help: "Total master-engine operations issued (ping/read/write/sync).",
	})
	MasterRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "master_retries_total",
		Help: "Total retry attempts consumed by master-engine operations.",
	})
	MasterTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "master_timeouts_total",
		Help: "Total reads that hit the per-attempt deadline.",
	})
	StatusErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_errors_total",
		Help: "Total well-formed status replies carrying a non-zero error byte.",
	})
	MalformedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "malformed_frames_total",
		Help: "Total frames rejected for bad checksum/CRC, header, or length.",
	})
	SlaveResyncs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slave_resyncs_total",
		Help: "Total single-byte pops performed by the slave receiver to resynchronize.",
	})
	SlaveBufferClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slave_buffer_clears_total",
		Help: "Total times the slave receiver cleared its buffer on a timeout or discarded an echoed status frame.",
	})
	BridgeConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_connections_total",
		Help: "Total client connections accepted by the bridge server.",
	})
	BridgeActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_active_clients",
		Help: "Current number of connected bridge clients.",
	})
	BridgeDroppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_dropped_events_total",
		Help: "Total monitor events dropped due to a slow client (PolicyDrop).",
	})
	BridgeKickedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_kicked_clients_total",
		Help: "Total clients disconnected due to backpressure kick policy.",
	})
	BridgeRejectedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_rejected_clients_total",
		Help: "Total connections refused because max_clients was reached.",
	})
	SyncReadDevices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sync_read_devices",
		Help: "Number of device IDs targeted in the most recent sync-read.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality)
const (
	ErrBridgeRead    = "bridge_read"
	ErrBridgeWrite   = "bridge_write"
	ErrHandshake     = "handshake"
	ErrSerialWrite   = "serial_write"
	ErrSerialRead    = "serial_read"
	ErrTelemetryPush = "telemetry_push"
	ErrDiscovery     = "discovery"
)

// StartHTTP serves Prometheus metrics at /metrics and a readiness probe at
// /ready on a freshly created mux bound to addr.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters, exposed via Snap for cheap in-process logging
// without going through the Prometheus registry.
var (
	localRequests    uint64
	localRetries     uint64
	localTimeouts    uint64
	localStatusErr   uint64
	localMalformed   uint64
	localResyncs     uint64
	localBufClears   uint64
	localConnections uint64
	localClients     uint64
	localDropped     uint64
	localKicked      uint64
	localErrors      uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	Requests      uint64
	Retries       uint64
	Timeouts      uint64
	StatusErrors  uint64
	Malformed     uint64
	Resyncs       uint64
	BufferClears  uint64
	Connections   uint64
	ActiveClients uint64
	Dropped       uint64
	Kicked        uint64
	Errors        uint64
}

func Snap() Snapshot {
	return Snapshot{
		Requests:      atomic.LoadUint64(&localRequests),
		Retries:       atomic.LoadUint64(&localRetries),
		Timeouts:      atomic.LoadUint64(&localTimeouts),
		StatusErrors:  atomic.LoadUint64(&localStatusErr),
		Malformed:     atomic.LoadUint64(&localMalformed),
		Resyncs:       atomic.LoadUint64(&localResyncs),
		BufferClears:  atomic.LoadUint64(&localBufClears),
		Connections:   atomic.LoadUint64(&localConnections),
		ActiveClients: atomic.LoadUint64(&localClients),
		Dropped:       atomic.LoadUint64(&localDropped),
		Kicked:        atomic.LoadUint64(&localKicked),
		Errors:        atomic.LoadUint64(&localErrors),
	}
}

func IncRequest() {
	MasterRequests.Inc()
	atomic.AddUint64(&localRequests, 1)
}

func IncRetry() {
	MasterRetries.Inc()
	atomic.AddUint64(&localRetries, 1)
}

func IncTimeout() {
	MasterTimeouts.Inc()
	atomic.AddUint64(&localTimeouts, 1)
}

func IncStatusError() {
	StatusErrors.Inc()
	atomic.AddUint64(&localStatusErr, 1)
}

func IncMalformed() {
	MalformedFrames.Inc()
	atomic.AddUint64(&localMalformed, 1)
}

func IncSlaveResync() {
	SlaveResyncs.Inc()
	atomic.AddUint64(&localResyncs, 1)
}

func IncSlaveBufferClear() {
	SlaveBufferClears.Inc()
	atomic.AddUint64(&localBufClears, 1)
}

func IncBridgeConnection() {
	BridgeConnections.Inc()
	atomic.AddUint64(&localConnections, 1)
}

func SetBridgeActiveClients(n int) {
	BridgeActiveClients.Set(float64(n))
	atomic.StoreUint64(&localClients, uint64(n))
}

func IncBridgeDropped() {
	BridgeDroppedEvents.Inc()
	atomic.AddUint64(&localDropped, 1)
}

func IncBridgeKicked() {
	BridgeKickedClients.Inc()
	atomic.AddUint64(&localKicked, 1)
}

func IncBridgeRejected() {
	BridgeRejectedClients.Inc()
}

func SetSyncReadDevices(n int) {
	SyncReadDevices.Set(float64(n))
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{
		ErrBridgeRead, ErrBridgeWrite, ErrHandshake,
		ErrSerialWrite, ErrSerialRead, ErrTelemetryPush, ErrDiscovery,
	} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// Ready is a concise alias used at call sites.
func Ready() bool { return IsReady() }
