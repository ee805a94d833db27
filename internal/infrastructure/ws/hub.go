package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
)

const pingPeriod = 30 * time.Second

// Client is one feed subscriber.
type Client struct {
	conn   *connWrapper
	send   chan *Event
	ID     string
	UserID string
}

func NewClient(conn *websocket.Conn, id, userID string) *Client {
	return &Client{
		conn:   newConnWrapper(conn),
		send:   make(chan *Event, 64),
		ID:     id,
		UserID: userID,
	}
}

// Hub fans feed events out to every subscriber.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     logging.Logger
	mu         sync.RWMutex
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

// Run owns the subscriber set until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, cl := range h.clients {
				close(cl.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl.ID] = cl
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[cl.ID]; ok {
				delete(h.clients, cl.ID)
				close(cl.send)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.RLock()
			for _, cl := range h.clients {
				select {
				case cl.send <- ev:
				default:
					h.logger.Warn(logging.General, logging.Stream, "subscriber buffer full, dropping event", map[logging.ExtraKey]any{
						logging.RequestID: cl.ID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(ev *Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// Serve registers cl and pumps events to it until the peer goes away.
func (h *Hub) Serve(cl *Client) {
	select {
	case h.register <- cl:
	case <-h.done:
		_ = cl.conn.Close()
		return
	}
	go h.readPump(cl)
	h.writePump(cl)
}

// readPump discards inbound frames and notices the peer closing.
func (h *Hub) readPump(cl *Client) {
	defer func() {
		select {
		case h.unregister <- cl:
		case <-h.done:
		}
	}()

	for {
		if _, _, err := cl.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn(logging.General, logging.Stream, "subscriber read failed", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
			return
		}
	}
}

func (h *Hub) writePump(cl *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-cl.send:
			if !ok {
				return
			}
			if err := cl.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := cl.conn.Ping(); err != nil {
				return
			}
		}
	}
}
