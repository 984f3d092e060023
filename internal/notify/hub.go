// Package notify pushes events to signed-in users while they have the app open.
//
// The Hub keeps one set of clients per user (a user can be connected from a phone
// and a laptop at once) and fans every event out to all of them. All map access
// happens on the Hub's own goroutine; callers talk to it through channels.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// queueSize bounds how many undelivered events the Hub holds before Publish fails.
const queueSize = 256

// ErrQueueFull is returned by Publish when the Hub is not keeping up.
var ErrQueueFull = errors.New("notification queue is full")

// ErrHubStopped is returned once Run has returned.
var ErrHubStopped = errors.New("notification hub is stopped")

// Event is what a client receives, JSON-encoded.
type Event struct {
	Type string `json:"type"` // e.g. "settlement.paid"
	Data any    `json:"data"`
}

// Client is one open connection for a user.
type Client struct {
	UserID string
	Send   chan []byte // Encoded events; closed when the Hub drops the client
}

// NewClient creates a client with room for a few undelivered events.
func NewClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 16)}
}

type message struct {
	userID string
	data   []byte
}

// Hub routes events to the clients of the user they are addressed to.
type Hub struct {
	clients map[string]map[*Client]bool // userID -> set of clients
	mu      sync.RWMutex

	publish    chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan message, queueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and deliveries until ctx is cancelled.
// Start it once, in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for c := range clients {
					close(c.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.UserID] == nil {
				h.clients[c.UserID] = make(map[*Client]bool)
			}
			h.clients[c.UserID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case msg := <-h.publish:
			h.mu.Lock()
			for c := range h.clients[msg.userID] {
				select {
				case c.Send <- msg.data:
				default:
					// Slow client; drop it rather than stall everyone else.
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client and closes its channel. Caller holds h.mu.
func (h *Hub) drop(c *Client) {
	clients, ok := h.clients[c.UserID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Register starts delivering the user's events to c.
func (h *Hub) Register(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Unregister stops delivery to c and closes c.Send. Safe to call for a client the
// Hub already dropped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected reports how many clients a user currently has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish queues an event for every client of userID. It never blocks: when the
// queue is full the event is discarded and ErrQueueFull returned.
func (h *Hub) Publish(userID string, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.publish <- message{userID: userID, data: data}:
		return nil
	default:
		return ErrQueueFull
	}
}
