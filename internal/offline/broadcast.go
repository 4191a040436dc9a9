package offline

import (
	"sync"
	"time"
)

// Message types on the client↔engine channel.
const (
	MsgSkipWaiting   = "SKIP_WAITING"
	MsgSyncCompleted = "SYNC_COMPLETED"
)

type Message struct {
	Type      string    `json:"type"`
	Tag       string    `json:"tag,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Broadcaster delivers a message to every connected client window.
type Broadcaster interface {
	Broadcast(msg Message)
}

// ClientHub is a channel-based Broadcaster. Slow clients are skipped
// rather than blocking the engine.
type ClientHub struct {
	mu      sync.Mutex
	clients map[int]chan Message
	nextID  int
}

func NewClientHub() *ClientHub {
	return &ClientHub{clients: make(map[int]chan Message)}
}

func (h *ClientHub) Register() (int, <-chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Message, 8)
	h.clients[id] = ch
	return id, ch
}

// Clients reports how many windows are currently subscribed.
func (h *ClientHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ClientHub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

func (h *ClientHub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}
