package bridge

import (
	"sync"

	"github.com/xzz53/dynamixel-tool/internal/logging"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

// BackpressurePolicy selects what happens when a subscriber's outbound
// buffer is full: the event is either dropped (PolicyDrop) or the
// subscriber itself is disconnected (PolicyKick).
type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyKick
)

// Client is a single event subscriber: a bridge TCP connection's
// side-channel or a monitor WebSocket connection.
type Client struct {
	Out       chan Event
	Closed    chan struct{}
	closeOnce sync.Once

	// response carries Request replies back to a bridge TCP connection's
	// writer; nil for subscribers that never issue requests (e.g. a
	// monitor WebSocket client, which is push-only).
	response chan Response
}

// Close signals the subscriber is closed; safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Closed) })
}

// Hub fans out Events to every registered Client, honoring the configured
// backpressure policy when a subscriber falls behind.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	OutBufSize int
	Policy     BackpressurePolicy
}

// New creates an empty Hub with default settings.
func New() *Hub { return &Hub{clients: make(map[*Client]struct{})} }

// Add registers a subscriber.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	prev := len(h.clients)
	h.clients[c] = struct{}{}
	cur := len(h.clients)
	h.mu.Unlock()
	metrics.SetBridgeActiveClients(cur)
	if prev == 0 && cur == 1 {
		logging.L().Info("bridge_subscribers_first_connected")
	}
}

// Remove unregisters a subscriber; safe to call multiple times.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	if existed {
		delete(h.clients, c)
	}
	cur := len(h.clients)
	h.mu.Unlock()
	select {
	case <-c.Closed:
	default:
		c.Close()
	}
	metrics.SetBridgeActiveClients(cur)
	if existed && cur == 0 {
		logging.L().Info("bridge_subscribers_last_disconnected")
	}
}

// Broadcast delivers ev to every subscriber, applying the backpressure
// policy to any subscriber whose buffer is currently full.
func (h *Hub) Broadcast(ev Event) {
	for _, c := range h.Snapshot() {
		select {
		case c.Out <- ev:
		default:
			if h.Policy == PolicyKick {
				metrics.IncBridgeKicked()
				c.Close()
			} else {
				metrics.IncBridgeDropped()
			}
		}
	}
}

// Snapshot returns a point-in-time slice of registered subscribers.
func (h *Hub) Snapshot() []*Client {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	return clients
}

// Count returns the number of currently registered subscribers.
func (h *Hub) Count() int { h.mu.RLock(); n := len(h.clients); h.mu.RUnlock(); return n }
