package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames.
	maxMessageSize = 512

	sendBuffer = 256
)

// Hub fans committed board events out to the websocket clients watching
// that board.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.Event
	done       chan struct{}

	mu     sync.RWMutex
	boards map[int64]map[*Client]bool

	Log *logger.Logger
}

// Client is one websocket connection subscribed to one board.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	UserID  int64
	BoardID int64
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.Event, sendBuffer),
		done:       make(chan struct{}),
		boards:     make(map[int64]map[*Client]bool),
		Log:        log.Service("realtime"),
	}
}

// NewClient wraps conn; the caller registers it with Serve.
func (h *Hub) NewClient(conn *websocket.Conn, userID, boardID int64) *Client {
	return &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), UserID: userID, BoardID: boardID}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.boards[client.BoardID]; !ok {
				h.boards[client.BoardID] = make(map[*Client]bool)
			}
			h.boards[client.BoardID][client] = true
			h.mu.Unlock()
			h.Log.Debug("Client subscribed", "board_id", client.BoardID, "user_id", client.UserID)

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.Log.Error("Failed to encode event", "error", err, "type", event.Type)
				continue
			}
			h.mu.Lock()
			for client := range h.boards[event.BoardID] {
				select {
				case client.send <- message:
				default:
					// slow consumer
					h.dropLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for delivery. It never blocks the caller: when
// the queue is full the event is dropped and logged.
func (h *Hub) Publish(event models.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.Log.Warn("Event queue full, dropping event", "type", event.Type, "board_id", event.BoardID)
	}
}

// Subscribers returns the number of clients watching boardID.
func (h *Hub) Subscribers(boardID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.boards[client.BoardID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.boards, client.BoardID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.boards {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}

// Serve registers the client and pumps messages until the connection closes.
func (c *Client) Serve() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		c.conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

// readPump only exists to process control frames and detect disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Log.Debug("Websocket closed unexpectedly", "error", err, "board_id", c.BoardID)
			}
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
