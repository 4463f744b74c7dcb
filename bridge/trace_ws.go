package bridge

import (
	"net/http"
	"sync"

	"github.com/colorfulnotion/embive/vm"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TraceHub fans out TraceEvents to any number of websocket clients. It
// implements vm.Tracer, so it can be installed directly as Config.Tracer —
// the same broadcast-to-registered-clients shape as the teacher's
// TelemetryViewer (cmd/telemetryViewer/main.go's handleBroadcast/
// handleWebSocket), generalized from telemetry events to trace events and
// collapsed to a direct write (no intermediate channel/goroutine) since a
// single interpreter only ever calls Trace from one goroutine at a time.
type TraceHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewTraceHub returns an empty hub.
func NewTraceHub() *TraceHub {
	return &TraceHub{clients: make(map[*websocket.Conn]bool)}
}

// Trace implements vm.Tracer, broadcasting ev to every connected client. A
// client whose write fails is dropped.
func (h *TraceHub) Trace(ev vm.TraceEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if err := c.WriteJSON(ev); err != nil {
			go h.remove(c)
		}
	}
}

func (h *TraceHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		c.Close()
	}
}

// ServeHTTP upgrades the request to a websocket and registers it as a trace
// subscriber until the connection drops.
func (h *TraceHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}
