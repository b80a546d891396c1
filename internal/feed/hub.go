// Package feed pushes broadcasts and report updates to connected browsers over
// WebSocket, filtered by audience.
package feed

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"zelapb/api/internal/store"
)

const (
	EventBroadcast     = "broadcast"
	EventReportCreated = "report_created"
	EventReportStatus  = "report_status"
)

// Event is one message on the feed. Audience decides which clients get it,
// using the same rule as broadcast visibility.
type Event struct {
	Type      string                `json:"type"`
	Audience  store.BroadcastTarget `json:"audience"`
	Data      any                   `json:"data"`
	Timestamp time.Time             `json:"timestamp"`
}

// Hub owns the set of connected clients. Only Run touches the set.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	connected  atomic.Int64
	published  atomic.Int64
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("feed hub stopped")
			return nil

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.connected.Store(int64(len(h.clients)))
			h.logger.Debug("feed client connected",
				zap.String("audience", string(client.audience)),
				zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("marshal feed event", zap.String("type", event.Type), zap.Error(err))
				continue
			}
			for client := range h.clients {
				if !event.Audience.VisibleTo(client.audience) {
					continue
				}
				select {
				case client.send <- data:
				default:
					h.logger.Debug("dropping slow feed client")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.connected.Store(int64(len(h.clients)))
}

// Publish queues an event. It never blocks: once the hub has stopped or the
// queue is full the event is discarded.
func (h *Hub) Publish(eventType string, audience store.BroadcastTarget, data any) {
	event := Event{Type: eventType, Audience: audience, Data: data, Timestamp: time.Now().UTC()}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- event:
		h.published.Add(1)
	default:
		h.logger.Warn("feed queue full, event dropped", zap.String("type", eventType))
	}
}

func (h *Hub) ConnectedClients() int {
	return int(h.connected.Load())
}

func (h *Hub) registerClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
