package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"coachdash/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 32
)

// Client is one open dashboard tab subscribed to a channel.
type Client struct {
	Channel string
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *NotificationHub
}

// NotificationHub fans notifications out to every client on a channel. A
// channel is a coach id or a registration draft id.
type NotificationHub struct {
	clients    map[string]map[*Client]struct{}
	publish    chan domain.Notification
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   *zap.Logger
	mutex    sync.RWMutex
}

func NewNotificationHub(allowedOrigins []string, logger *zap.Logger) *NotificationHub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &NotificationHub{
		clients:    make(map[string]map[*Client]struct{}),
		publish:    make(chan domain.Notification, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// Run owns client registration and delivery until ctx is done.
func (h *NotificationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[client.Channel]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.Channel] = set
			}
			set[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug("notification client connected", zap.String("channel", client.Channel))

		case client := <-h.unregister:
			h.remove(client)
			h.logger.Debug("notification client disconnected", zap.String("channel", client.Channel))

		case n := <-h.publish:
			h.deliver(n)
		}
	}
}

// Notify queues a notification without blocking the caller. Notifications
// for channels with no listener are dropped.
func (h *NotificationHub) Notify(n domain.Notification) {
	select {
	case h.publish <- n:
	default:
		h.logger.Warn("notification queue full, dropping", zap.String("event", n.Event))
	}
}

func (h *NotificationHub) deliver(n domain.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("failed to marshal notification", zap.Error(err))
		return
	}

	h.mutex.RLock()
	var slow []*Client
	for client := range h.clients[n.Channel] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range slow {
		h.logger.Warn("notification client too slow, disconnecting", zap.String("channel", client.Channel))
		h.remove(client)
	}
}

func (h *NotificationHub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[client.Channel]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.Channel)
	}
}

func (h *NotificationHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for channel, set := range h.clients {
		for client := range set {
			close(client.Send)
		}
		delete(h.clients, channel)
	}
}

// Listeners reports how many clients are subscribed to a channel.
func (h *NotificationHub) Listeners(channel string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[channel])
}

// Serve upgrades the request and subscribes the connection to channel.
// Callers authorize the channel before calling.
func (h *NotificationHub) Serve(c *gin.Context, channel string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		Channel: channel,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Hub:     h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the close; clients never send notifications.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Warn("failed to write notification", zap.String("channel", c.Channel), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
