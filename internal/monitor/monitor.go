// Package monitor serves a server-push WebSocket feed of bridge.Event
// values — the live-dashboard companion to the CLI's --json flag: the
// same event shapes, streamed instead of polled.
package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pascaldekloe/websocket"
	"github.com/pascaldekloe/websocket/httpws"

	"github.com/xzz53/dynamixel-tool/internal/bridge"
	"github.com/xzz53/dynamixel-tool/internal/logging"
)

const (
	defaultWireTimeout = 10 * time.Second
	defaultIdleTimeout = 60 * time.Second
)

// Handler upgrades incoming requests to WebSocket connections and
// registers each as a bridge.Hub subscriber, pushing every broadcast
// Event as a JSON-encoded Text frame.
type Handler struct {
	Hub            *bridge.Hub
	UpgradeTimeout time.Duration
	WireTimeout    time.Duration
	IdleTimeout    time.Duration
}

// NewHandler constructs a Handler bound to hub.
func NewHandler(hub *bridge.Hub) *Handler {
	return &Handler{
		Hub:            hub,
		UpgradeTimeout: 5 * time.Second,
		WireTimeout:    defaultWireTimeout,
		IdleTimeout:    defaultIdleTimeout,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := httpws.Upgrade(w, r, nil, h.UpgradeTimeout)
	if err != nil {
		logging.L().Warn("monitor_upgrade_failed", "error", err)
		return
	}

	var notify [16]websocket.Listener
	m := websocket.Take(conn, notify, h.WireTimeout, h.IdleTimeout)

	cl := &bridge.Client{Out: make(chan bridge.Event, 64), Closed: make(chan struct{})}
	h.Hub.Add(cl)
	defer h.Hub.Remove(cl)

	for {
		select {
		case ev := <-cl.Out:
			body, err := json.Marshal(ev)
			if err != nil {
				logging.L().Error("monitor_marshal_error", "error", err)
				continue
			}
			if err := m.Send(websocket.Text, body); err != nil {
				return
			}
		case <-cl.Closed:
			return
		}
	}
}
