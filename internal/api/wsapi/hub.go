// Package wsapi serves the dispatcher over websockets. Every connection
// plays the same session, so results are broadcast to all clients while
// transport errors go back to the sender only.
package wsapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xtding233/order-gacha/internal/api"
)

// Message types sent to clients.
const (
	TypeResult = "result"
	TypeError  = "error"
)

// Message is the envelope written to clients.
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Intent    string      `json:"intent,omitempty"`
	Result    *api.Result `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type direct struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and fans results out to them.
type Hub struct {
	dispatcher *api.Dispatcher
	log        *slog.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client

	done chan struct{}
}

// NewHub creates a hub over a dispatcher. A nil logger falls back to
// slog.Default().
func NewHub(d *api.Dispatcher, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		dispatcher: d,
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan direct),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run handles registrations and fan-out until ctx is done. Remaining
// connections are closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub shutting down", slog.Int("clients", len(h.clients)))
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("websocket client connected", slog.String("remote", c.remote))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("websocket client disconnected", slog.String("remote", c.remote))
			}
		case m := <-h.direct:
			if _, ok := h.clients[m.client]; ok {
				h.deliver(m.client, m.data)
			}
		case data := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, data)
			}
		}
	}
}

// deliver drops a client whose send buffer is full.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		delete(h.clients, c)
		close(c.send)
		h.log.Warn("websocket client too slow, dropped", slog.String("remote", c.remote))
	}
}

// Publish sends the current state and any undrained events to every
// client. It is used after changes that did not come through a socket,
// such as a config file reload.
func (h *Hub) Publish(ctx context.Context) {
	res, err := h.dispatcher.Dispatch(ctx, api.Intent{Type: api.IntentState})
	if err != nil {
		h.log.Warn("publish state", slog.Any("error", err))
		return
	}
	h.send(h.broadcast, encode(Message{Type: TypeResult, Intent: res.Intent, Result: &res}))
}

func (h *Hub) send(ch chan []byte, data []byte) {
	if data == nil {
		return
	}
	select {
	case ch <- data:
	case <-h.done:
	}
}

func (h *Hub) sendTo(c *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case h.direct <- direct{client: c, data: data}:
	case <-h.done:
	}
}

// ServeHTTP upgrades the request and starts the client's pumps. The new
// client receives the current state right away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	c := newClient(h, conn, r.RemoteAddr)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	snap := h.dispatcher.Session().Snapshot()
	h.sendTo(c, encode(Message{Type: TypeResult, Intent: api.IntentState, Result: &api.Result{Intent: api.IntentState, State: snap}}))
}

func encode(m Message) []byte {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("encode websocket message", slog.Any("error", err))
		return nil
	}
	return data
}
