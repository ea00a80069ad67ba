// internal/app/system/realtime/hub.go
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks connected clients and fans events out to them. Clients are
// additionally indexed by user id so notifications can be scoped to one
// recipient while feed events stay global.
//
// Slow clients are disconnected rather than allowed to block the fan-out:
// every client has a buffered send queue, and a full queue drops the
// connection (the client reconnects and re-fetches).
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[string]map[*Client]struct{}
	log     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[string]map[*Client]struct{}),
		log:     logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if _, ok := h.byUser[c.userID]; !ok {
		h.byUser[c.userID] = make(map[*Client]struct{})
	}
	h.byUser[c.userID][c] = struct{}{}
	h.log.Info("socket connected",
		zap.String("client_id", c.id),
		zap.String("user_id", c.userID),
		zap.Int("total", len(h.clients)))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.byUser[c.userID], c)
	if len(h.byUser[c.userID]) == 0 {
		delete(h.byUser, c.userID)
	}
	close(c.send)
	h.log.Info("socket disconnected",
		zap.String("client_id", c.id),
		zap.Int("total", len(h.clients)))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends ev to every connected client. Marshal failures are
// logged and swallowed: a broadcast never fails the mutation it follows.
func (h *Hub) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("broadcast marshal failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}

	h.mu.RLock()
	stale := h.deliver(h.clients, msg, ev.Name)
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
	}
}

// SendToUser sends ev to every socket the given user has open. A user
// with no open sockets receives nothing; they converge on next fetch.
func (h *Hub) SendToUser(userID string, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("send marshal failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}

	h.mu.RLock()
	stale := h.deliver(h.byUser[userID], msg, ev.Name)
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
	}
}

// deliver queues msg on each client, collecting clients whose queues are
// full. Callers must hold at least a read lock and drop it before
// unregistering the stale clients.
func (h *Hub) deliver(clients map[*Client]struct{}, msg []byte, name string) []*Client {
	var stale []*Client
	for c := range clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping slow socket client",
				zap.String("client_id", c.id),
				zap.String("event", name))
			stale = append(stale, c)
		}
	}
	return stale
}
