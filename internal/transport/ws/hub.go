package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/model"
)

// Hub fans live feed events out to connected dashboard clients
type Hub struct {
	clients map[*Client]bool

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Client
	unregister chan *Client
	broadcast  chan feedMessage
	done       chan struct{}
	closeOnce  sync.Once

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// feedMessage is an encoded event plus the request status it concerns, if any
type feedMessage struct {
	data   []byte
	status model.RequestStatus
}

// Client is a single dashboard websocket connection
type Client struct {
	// Status limits delivery of request events to one status; empty means all
	Status model.RequestStatus
	Send   chan []byte
	Hub    *Hub
}

// NewHub creates a hub and starts its event loop
func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan feedMessage, 256),
		done:       make(chan struct{}),
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.metrics.FeedClients.Set(0)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.metrics.FeedClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
			h.logger.Debug("feed client connected", "status_filter", c.Status)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
				h.metrics.FeedClients.Set(float64(len(h.clients)))
				h.logger.Debug("feed client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if !c.wants(msg) {
					continue
				}
				select {
				case c.Send <- msg.data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes a client
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends an event to all clients (implements service.Broadcaster)
func (h *Hub) Publish(eventType model.FeedEventType, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode feed payload", "type", eventType, "error", err)
		return
	}
	data, err := json.Marshal(&model.FeedEvent{
		Type:      eventType,
		Payload:   body,
		Timestamp: h.now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to encode feed event", "type", eventType, "error", err)
		return
	}

	select {
	case h.broadcast <- feedMessage{data: data, status: requestStatus(eventType, payload)}:
	case <-h.done:
	default:
		h.logger.Warn("feed broadcast buffer full, dropping event", "type", eventType)
	}
}

// Close disconnects every client and stops the event loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// requestStatus extracts the status a request event is about. Other events
// have none and pass every filter.
func requestStatus(eventType model.FeedEventType, payload interface{}) model.RequestStatus {
	switch eventType {
	case model.EventRequestSubmitted:
		switch p := payload.(type) {
		case *model.VerificationRequest:
			if p != nil {
				return p.Status
			}
		case model.VerificationRequest:
			return p.Status
		}
	case model.EventRequestStatusChanged:
		switch p := payload.(type) {
		case model.StatusChange:
			return p.To
		case *model.StatusChange:
			if p != nil {
				return p.To
			}
		}
	}
	return ""
}

// wants applies the client's status filter to request events
func (c *Client) wants(msg feedMessage) bool {
	return c.Status == "" || msg.status == "" || msg.status == c.Status
}
