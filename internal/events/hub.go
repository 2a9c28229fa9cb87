package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types pushed to SSE subscribers so the UI refreshes without polling.
const (
	TypeSyncCompleted = "sync_completed"
	TypeSyncFailed    = "sync_failed"
	TypeJobDeleted    = "job_deleted"
	TypeJobsCleared   = "jobs_cleared"
)

type Event struct {
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Hub fans events out to connected SSE clients. Slow subscribers lose
// events rather than blocking publishers; the UI treats every event as a
// refresh hint, not as reliable delivery.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish serializes and broadcasts one event.
func (h *Hub) Publish(reqID, typ string, data any) {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})

	msg := string(b)
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}
