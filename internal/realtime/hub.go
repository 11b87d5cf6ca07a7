package realtime

import (
	"sync"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// Hub fans new messages out to subscribers keyed by conversation id. It is
// the in-process half of the realtime channel; cross-instance delivery
// arrives through the Kafka consumer, which republishes into the hub.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int]func(models.Message)
	next int
}

type Subscription struct {
	hub    *Hub
	convID string
	id     int
}

func (s *Subscription) Unsubscribe() {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.remove(s.convID, s.id)
	s.hub = nil
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func(models.Message))}
}

func (h *Hub) Subscribe(convID string, fn func(models.Message)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	if _, ok := h.subs[convID]; !ok {
		h.subs[convID] = make(map[int]func(models.Message))
	}
	h.subs[convID][h.next] = fn
	return &Subscription{hub: h, convID: convID, id: h.next}
}

func (h *Hub) remove(convID string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[convID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(h.subs, convID)
		}
	}
}

// Publish delivers msg to every subscriber of its conversation. Callbacks
// run on the caller's goroutine, so subscribers must not block.
func (h *Hub) Publish(msg models.Message) {
	h.mu.RLock()
	fns := make([]func(models.Message), 0, 4)
	if set, ok := h.subs[msg.ConversationID]; ok {
		for _, fn := range set {
			fns = append(fns, fn)
		}
	}
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(msg)
	}
}

// SubscriberCount reports the live subscribers for a conversation.
func (h *Hub) SubscriberCount(convID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[convID])
}
