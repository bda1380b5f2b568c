// Package reload implements the live-reload channel: a websocket hub speaking
// the LiveReload protocol and the development server that carries it.
package reload

import (
	"encoding/json"
	"path"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.trai.ch/gild/internal/core/ports"
)

// ProtocolV7 is the LiveReload protocol version spoken by the hub.
const ProtocolV7 = "http://livereload.com/protocols/official-7"

const sendBuffer = 16

var _ ports.ReloadNotifier = (*Hub)(nil)

// message is a LiveReload protocol frame.
type message struct {
	Command    string   `json:"command"`
	Protocols  []string `json:"protocols,omitempty"`
	ServerName string   `json:"serverName,omitempty"`
	Path       string   `json:"path,omitempty"`
	LiveCSS    bool     `json:"liveCSS,omitempty"`
}

// Hub tracks connected browsers and fans reload commands out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Reload sends one reload command per path, or a single full-page reload when
// no path is given. Clients whose buffer is full are dropped.
func (h *Hub) Reload(paths ...string) {
	if len(paths) == 0 {
		h.broadcast(message{Command: "reload", Path: "/"})
		return
	}
	for _, p := range paths {
		p = "/" + strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
		h.broadcast(message{
			Command: "reload",
			Path:    p,
			LiveCSS: strings.HasSuffix(p, ".css"),
		})
	}
}

func (h *Hub) broadcast(m message) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueueLocked(c, payload)
	}
}

// enqueue hands payload to c's writer. It reports false when c is gone.
func (h *Hub) enqueue(c *client, payload []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	return h.enqueueLocked(c, payload)
}

func (h *Hub) enqueueLocked(c *client, payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		h.dropLocked(c)
		return false
	}
}

// serve owns conn until the browser goes away.
func (h *Hub) serve(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		var m message
		if err := c.conn.ReadJSON(&m); err != nil {
			return
		}
		if m.Command != "hello" {
			continue
		}
		reply, err := json.Marshal(message{
			Command:    "hello",
			Protocols:  []string{ProtocolV7},
			ServerName: "gild",
		})
		if err != nil {
			return
		}
		if !h.enqueue(c, reply) {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer h.drop(c)
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	c.once.Do(func() {
		delete(h.clients, c)
		close(c.send)
		_ = c.conn.Close()
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}
