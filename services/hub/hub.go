package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"icare-http-service/config"
)

// Hub fans events out to every connected dashboard session. Delivery is
// best-effort at-most-once: a session whose send buffer is full is
// dropped rather than allowed to stall the other sessions, and clients
// are expected to fall back to polling.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu           sync.RWMutex
	acknowledger AlertAcknowledger
}

// NewHub creates a hub; Run must be started on its own goroutine
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// SetAcknowledger injects the alert transition path after the services
// are constructed (the alert service also depends on the hub)
func (h *Hub) SetAcknowledger(a AlertAcknowledger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.acknowledger = a
}

func (h *Hub) getAcknowledger() AlertAcknowledger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.acknowledger
}

// Run owns the client set; register/unregister/broadcast are serialized
// here so the set needs no separate lock
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			config.Info("[Hub] session %s connected (%d active)", client.ID, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				config.Info("[Hub] session %s disconnected (%d active)", client.ID, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Session is not draining its buffer; cut it
					// loose so the remaining sessions stay live.
					delete(h.clients, client)
					close(client.send)
					config.Warning("[Hub] session %s dropped: send buffer full", client.ID)
				}
			}
		}
	}
}

// Broadcast pushes an event to all currently connected sessions.
// Callers treat failure as benign: the triggering persistence has
// already succeeded and polling bounds the staleness window.
func (h *Hub) Broadcast(eventType string, payload interface{}) error {
	data, err := json.Marshal(Envelope{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	select {
	case h.broadcast <- data:
		return nil
	default:
		return fmt.Errorf("broadcast queue full, %s event dropped", eventType)
	}
}

// handleInbound dispatches a message received from a connected session
func (h *Hub) handleInbound(client *Client, raw []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		config.Warning("[Hub] session %s sent invalid message: %v", client.ID, err)
		return
	}

	switch msg.Type {
	case ActionAcknowledgeAlert:
		result := AckResult{AlertID: msg.Payload.AlertID, OK: true}
		ack := h.getAcknowledger()
		if ack == nil {
			result.OK = false
			result.Message = "acknowledge not available"
		} else if err := ack.AcknowledgeAlert(msg.Payload.AlertID, msg.Payload.AcknowledgedBy); err != nil {
			result.OK = false
			result.Message = err.Error()
		}
		client.reply("AckResult", result)
	default:
		config.Warning("[Hub] session %s sent unknown message type %q", client.ID, msg.Type)
	}
}
