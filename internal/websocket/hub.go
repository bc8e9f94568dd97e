package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/models"
)

const broadcastBuffer = 256

type envelope struct {
	topic string
	data  []byte
}

// Hub maintains the set of active clients and fans out published events to
// the clients subscribed to their topic. All client bookkeeping happens on
// the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages, keyed by topic.
	broadcast chan envelope

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of topics to the set of clients subscribed to it.
	subscriptions map[string]map[*Client]bool

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:     make(chan envelope, broadcastBuffer),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop,
// closing every remaining client.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			for _, topic := range client.topics {
				h.addSubscription(client, topic)
			}
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.userID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.broadcast:
			for client := range h.subscriptions[msg.topic] {
				select {
				case client.Send <- msg.data:
				default:
					// Slow consumer.
					h.drop(client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// Add hands client to the Run loop. It reports false once the hub has
// stopped, in which case the caller owns the connection.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Stop ends the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish delivers event to the subscribers of its topics. It never blocks
// the caller; when the hub is saturated the event is dropped from the
// stream (it is still in the audit log).
func (h *Hub) Publish(event models.Event) {
	for _, topic := range topicsFor(event.Type) {
		data, err := json.Marshal(Message{Action: event.Type, Topic: topic, Payload: event})
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal websocket message")
			return
		}
		select {
		case h.broadcast <- envelope{topic: topic, data: data}:
		default:
			log.Warn().Str("type", event.Type).Str("topic", topic).Msg("Websocket hub saturated, dropping message")
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client, topic string) {
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Client]bool)
	}
	h.subscriptions[topic][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for topic, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
}
