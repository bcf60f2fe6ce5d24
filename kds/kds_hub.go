package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one websocket subscriber. Messages are queued on send and written
// by the client's own goroutine.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	viewer models.Viewer
	send   chan []byte
}

// Hub fans order events out to the subscribers allowed to see them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     logrus.FieldLogger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     utils.InfoLogger.WithField("component", "kds"),
	}
}

// Register adds conn and starts its write loop. The returned client must be
// passed to Serve, which blocks until the connection drops.
func (h *Hub) Register(conn *websocket.Conn, viewer models.Viewer) *Client {
	c := &Client{hub: h, conn: conn, viewer: viewer, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"user_id": viewer.UserID, "role": viewer.Role}).Debug("client registered")
	go c.writePump()
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount is the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastEvent delivers ev to every client whose viewer can see it.
// Clients whose queue is full are dropped; they resume through the events endpoint.
func (h *Hub) BroadcastEvent(ev *models.OrderEvent) {
	data, err := json.Marshal(Message{Event: ev.Type, Data: ev})
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("marshal order event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.viewer.CanSeeEvent(ev) {
			continue
		}
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
			h.log.WithField("user_id", c.viewer.UserID).Warn("dropping slow client")
		}
	}
}

// Serve reads from the connection until it fails, then unregisters the client.
// Incoming messages are ignored apart from pongs.
func (c *Client) Serve() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

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
