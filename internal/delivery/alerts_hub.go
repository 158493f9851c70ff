package delivery

import (
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/medreminder/pkg/logging"
)

// AlertsHub pushes fired alerts to connected WebSocket clients. When nobody
// is connected the alert is logged instead.
type AlertsHub struct {
	logger   *logging.Logger
	fallback Alerter

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

// NewAlertsHub creates an empty hub.
func NewAlertsHub(logger *logging.Logger) *AlertsHub {
	if logger == nil {
		logger = logging.Default()
	}
	return &AlertsHub{
		logger:   logger,
		fallback: NewLogAlerter(logger),
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades to WebSocket and keeps the client registered until it
// disconnects.
func (h *AlertsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serve).ServeHTTP(w, r)
}

func (h *AlertsHub) serve(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	h.logger.Debug("alerts: client connected")
	for {
		var msg map[string]any
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("alerts: client disconnected", "error", err)
			return
		}
		if msg["type"] == "ping" {
			_ = websocket.JSON.Send(conn, map[string]string{"type": "pong"})
		}
	}
}

// Clients returns the number of connected clients.
func (h *AlertsHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Notify broadcasts alert to every connected client.
func (h *AlertsHub) Notify(alert Alert) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		h.fallback.Notify(alert)
		return
	}
	for _, c := range conns {
		if err := websocket.JSON.Send(c, alert); err != nil {
			h.logger.Warn("alerts: send failed", "reminder_id", alert.ReminderID, "error", err)
		}
	}
}
