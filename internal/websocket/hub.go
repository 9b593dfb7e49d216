package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// ChannelAll receives every update regardless of revenue-center scope
const ChannelAll = "all"

// rvcChannel names the channel for one revenue center
func rvcChannel(rvcID uint) string {
	return fmt.Sprintf("rvc:%d", rvcID)
}

// UpdateMessage is the type-tagged notification pushed to KDS clients.
// There is deliberately no payload diff; clients re-query ticket state.
type UpdateMessage struct {
	Type    string `json:"type"`
	Event   string `json:"event"`
	CheckID uint   `json:"checkId"`
	RvcID   uint   `json:"rvcId"`
}

// Hub maintains the set of subscribed clients per channel and broadcasts
// update notifications. Owned by the application root: constructed at
// startup, torn down with the process.
type Hub struct {
	// channels map: channel name -> subscribed clients
	channels map[string]map[*Client]bool

	// Register requests
	register chan *subscription

	// Unregister requests
	unregister chan *Client

	// Mutex for thread-safe access to the channel map
	mu sync.RWMutex
}

// subscription pairs a client with the channel it wants
type subscription struct {
	client  *Client
	channel string
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		channels:   make(map[string]map[*Client]bool),
		register:   make(chan *subscription),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			// Re-subscribing moves the client, it never doubles up
			if prev := sub.client.channel; prev != "" {
				delete(h.channels[prev], sub.client)
			}
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			sub.client.channel = sub.channel
			h.mu.Unlock()
			log.Printf("📺 KDS client %s subscribed to %s", sub.client.ID, sub.channel)

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		}
	}
}

// drop removes a client from its channel and closes its send queue.
// Caller holds h.mu.
func (h *Hub) drop(client *Client) {
	subs, ok := h.channels[client.channel]
	if !ok || !subs[client] {
		return
	}
	delete(subs, client)
	close(client.send)
	log.Printf("📴 KDS client %s left %s", client.ID, client.channel)
}

// BroadcastKdsUpdate notifies the revenue center's channel and the "all"
// channel that something about the check changed. Fire-and-forget: a slow
// or dead client is pruned, never waited on.
func (h *Hub) BroadcastKdsUpdate(rvcID uint, event string, checkID uint) {
	msg := UpdateMessage{Type: "KDS_UPDATE", Event: event, CheckID: checkID, RvcID: rvcID}
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling update: %v", err)
		return
	}
	h.publish(rvcChannel(rvcID), raw)
	h.publish(ChannelAll, raw)
}

// publish delivers a marshaled message to every subscriber of one channel,
// pruning clients whose send buffer is full or closed.
func (h *Hub) publish(channel string, raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.channels[channel] {
		select {
		case client.send <- raw:
		default:
			// Buffer full or client dead: prune, don't retry
			h.drop(client)
		}
	}
}

// SubscriberCount reports how many clients a channel currently has
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
