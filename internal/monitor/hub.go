package monitor

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dkovalev/mediapi-hub-go/internal/devices"
)

// StatusEvent is the wire format pushed to console subscribers.
type StatusEvent struct {
	Type     string         `json:"type"` // "device_status"
	DeviceID int64          `json:"device_id"`
	Name     string         `json:"name"`
	Online   bool           `json:"online"`
	Device   map[string]any `json:"device,omitempty"`
}

// subscriber pairs a connection with its write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and both the sweep
// goroutine and status handlers broadcast.
type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *subscriber) send(event StatusEvent) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(event)
}

// Hub fans device status events out to connected websocket consoles.
type Hub struct {
	mu           sync.Mutex
	conns        map[*websocket.Conn]*subscriber
	logger       *log.Logger
	pingInterval time.Duration
}

// NewHub creates a status hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		conns:        make(map[*websocket.Conn]*subscriber),
		logger:       logger,
		pingInterval: 30 * time.Second,
	}
}

// Add registers a subscriber connection and holds it until it drops.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = &subscriber{conn: conn}
	count := len(h.conns)
	h.mu.Unlock()
	h.logger.Printf("status subscriber connected (%d active)", count)

	go h.pingLoop(conn)
	go h.drain(conn)
}

// drain consumes inbound frames so pings/pongs and close frames are processed;
// subscribers never send payloads.
func (h *Hub) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		_, alive := h.conns[conn]
		h.mu.Unlock()
		if !alive {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	count := len(h.conns)
	h.mu.Unlock()
	h.logger.Printf("status subscriber disconnected (%d active)", count)
}

// Broadcast sends an event to every subscriber, dropping dead connections.
// Safe for concurrent callers; each subscriber's write lock serializes the
// frames on its connection.
func (h *Hub) Broadcast(event StatusEvent) {
	h.mu.Lock()
	subscribers := make([]*subscriber, 0, len(h.conns))
	for _, sub := range h.conns {
		subscribers = append(subscribers, sub)
	}
	h.mu.Unlock()

	for _, sub := range subscribers {
		if err := sub.send(event); err != nil {
			h.remove(sub.conn)
		}
	}
}

// DeviceStatusChanged implements devices.StatusNotifier.
func (h *Hub) DeviceStatusChanged(device *devices.Device) {
	h.Broadcast(StatusEvent{
		Type:     "device_status",
		DeviceID: device.ID,
		Name:     device.Name,
		Online:   device.Online,
	})
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	h.mu.Unlock()
}
