// internal/app/system/realtime/client.go
package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum inbound message size. Clients only listen; anything they
	// send beyond control frames is ignored.
	maxMessageSize = 512
	// Per-client outbound queue. A full queue marks the client slow.
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is bearer-token authenticated; the browser origin carries
	// no authority here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one connected socket.
type Client struct {
	id     string
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	log    *zap.Logger
}

// ServeWS upgrades the request to a WebSocket after authenticating its
// bearer token, registers the client, and starts its pumps.
func ServeWS(hub *Hub, mgr *auth.Manager, w http.ResponseWriter, r *http.Request) {
	identity, err := mgr.Authenticate(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		id:     uuid.New().String(),
		userID: identity.UserID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		log:    hub.log,
	}
	hub.register(c)

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so control frames are processed and a
// dead peer is detected. Inbound data messages are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("socket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued events to the peer and keeps it alive with
// pings. Exits when the send channel is closed by the hub.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
