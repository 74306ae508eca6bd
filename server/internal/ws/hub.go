package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/api"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxMessageSize bounds one inbound request frame.
	maxMessageSize = 4096
)

// Event names carried in Message.Event.
const (
	EventSimulation = "simulation"
	EventError      = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is one inbound client frame. The embedded patch is applied to the
// session; Reset restores the defaults first and Locale switches the
// session's text language.
type Request struct {
	types.ParamPatch
	Reset  bool   `json:"reset,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string               `json:"event"`
	Data  *api.SessionResponse `json:"data,omitempty"`
	Error string               `json:"error,omitempty"`
	Field string               `json:"field,omitempty"`
}

// Hub serves live re-simulation over WebSocket. Each connection is bound to
// one session; every inbound Request updates the session and is answered
// with the fresh simulation.
type Hub struct {
	store   *store.Store
	engine  *flavor.Engine
	metrics *metrics.Collector
	locale  *flavor.LocaleVar

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn    *websocket.Conn
	session string
	send    chan []byte
}

// New creates a Hub backed by st and eng. locale names the language for
// sessions the hub creates itself.
func New(st *store.Store, eng *flavor.Engine, mc *metrics.Collector, locale *flavor.LocaleVar) *Hub {
	return &Hub{
		store:   st,
		engine:  eng,
		metrics: mc,
		locale:  locale,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the connection and serves the session named by the
// session query parameter. Without one, a new session is created once the
// upgrade succeeds. An unknown id is rejected with 404 before the upgrade.
// Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var sess store.Session
	id := r.URL.Query().Get("session")
	if id != "" {
		s, err := h.store.Get(id)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		sess = s
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}
	if id == "" {
		sess = h.store.Create(h.locale.Resolve(r.URL.Query().Get("locale")))
	}

	c := &client{
		conn:    conn,
		session: sess.ID,
		send:    make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	// Send the current simulation immediately so the UI has data right away.
	h.deliver(c, h.respond(sess))

	go c.writePump()
	h.readPump(c) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// deliver queues data for c. A client whose buffer is full is disconnected.
func (h *Hub) deliver(c *client, data []byte) {
	if data == nil {
		return
	}
	h.mu.RLock()
	_, ok := h.clients[c]
	full := false
	if ok {
		select {
		case c.send <- data:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		h.unregister(c)
	}
}

// apply runs one inbound frame against the client's session. Reset, locale
// and patch are committed together or not at all.
func (h *Hub) apply(c *client, raw []byte) []byte {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.metrics.ObserveError(metrics.SurfaceWS)
		return errorMessage("invalid request: "+err.Error(), "")
	}

	u := store.Update{Reset: req.Reset, Patch: req.ParamPatch}
	if req.Locale != "" {
		u.Locale = flavor.ParseLocale(req.Locale)
	}
	sess, err := h.store.Apply(c.session, u)
	if err != nil {
		return h.storeError(err)
	}
	return h.respond(sess)
}

// respond simulates sess and encodes the result.
func (h *Hub) respond(sess store.Session) []byte {
	sim, err := h.engine.Simulate(sess.Locale, sess.Params)
	if err != nil {
		h.metrics.ObserveError(metrics.SurfaceWS)
		slog.Error("ws: stored session failed validation", "id", sess.ID, "err", err)
		return errorMessage("internal error", "")
	}
	h.metrics.ObserveSimulation(metrics.SurfaceWS, sim)

	resp := api.BuildSession(sess, sim)
	data, err := json.Marshal(Message{Event: EventSimulation, Data: &resp})
	if err != nil {
		slog.Error("ws: encode failed", "err", err)
		return nil
	}
	return data
}

func (h *Hub) storeError(err error) []byte {
	h.metrics.ObserveError(metrics.SurfaceWS)
	var pe *types.ParamError
	switch {
	case errors.As(err, &pe):
		return errorMessage(err.Error(), pe.Field)
	case errors.Is(err, store.ErrNotFound):
		return errorMessage("session not found", "")
	default:
		return errorMessage(err.Error(), "")
	}
}

func errorMessage(msg, field string) []byte {
	data, _ := json.Marshal(Message{Event: EventError, Error: msg, Field: field})
	return data
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads request frames, answers each one and detects disconnects.
// Blocks until the connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		typ, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if typ != websocket.TextMessage {
			continue
		}
		h.deliver(c, h.apply(c, raw))
	}
}
