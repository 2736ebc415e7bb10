package progress

import (
	"sync"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

// Hub is an in-memory pub/sub fabric for progress snapshots.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[chan port.ProgressSnapshot]struct{}
}

// compile-time check: *Hub must satisfy port.ProgressBroker
var _ port.ProgressBroker = (*Hub)(nil)

// NewHub creates a new progress Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[chan port.ProgressSnapshot]struct{}),
	}
}

// Subscribe registers a listener on the given topic.
// Returns a receive-only channel and an unsubscribe function.
func (h *Hub) Subscribe(topic string) (<-chan port.ProgressSnapshot, func()) {
	ch := make(chan port.ProgressSnapshot, 16)

	h.mu.Lock()
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[chan port.ProgressSnapshot]struct{})
	}
	h.clients[topic][ch] = struct{}{}
	h.mu.Unlock()

	unsub := func() {
		h.mu.Lock()
		delete(h.clients[topic], ch)
		if len(h.clients[topic]) == 0 {
			delete(h.clients, topic)
		}
		h.mu.Unlock()
		// drain anything still buffered
		for {
			select {
			case <-ch:
			default:
				return
			}
		}
	}

	return ch, unsub
}

// Publish sends a snapshot to all subscribers on the given topic.
// Non-blocking: slow clients are skipped.
func (h *Hub) Publish(topic string, snap port.ProgressSnapshot) {
	h.mu.Lock()
	subs := h.clients[topic]
	channels := make([]chan port.ProgressSnapshot, 0, len(subs))
	for ch := range subs {
		channels = append(channels, ch)
	}
	h.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- snap:
		default:
			// skip slow client
		}
	}
}

// SessionTopic is the topic completion notifications and aggregate upload
// progress are published on.
func SessionTopic(sessionID string) string { return "session:" + sessionID }

// JobTopic is the topic one job's progress is published on.
func JobTopic(jobID string) string { return "job:" + jobID }
