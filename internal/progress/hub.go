package progress

import "sync"

// Event is one step of a classification batch, streamed to WebSocket
// subscribers while the worker runs.
type Event struct {
	Type      string `json:"type"` // batch_started | record_classified | batch_committed
	Keyword   string `json:"keyword,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Format    string `json:"format,omitempty"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
}

// Hub fans worker progress out to any number of subscribers. Publishing
// never blocks; a slow subscriber just misses events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
