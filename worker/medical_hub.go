package worker

import (
	"log"
	"sync"

	"kantodex/models"
)

// Medical board event kinds.
const (
	EventRecordCreated = "record.created"
	EventRecordUpdated = "record.updated"
	EventRecordDeleted = "record.deleted"
)

// MedicalEvent is one change on the medical board, fanned out to every
// connected healer dashboard.
type MedicalEvent struct {
	Event  string                `json:"event"`
	Record *models.MedicalRecord `json:"record"`
}

// MedicalHub fans medical record changes out to websocket subscribers.
// Publish never blocks: a subscriber that cannot keep up drops events
// rather than stalling the request that produced them.
type MedicalHub struct {
	mu          sync.Mutex
	subscribers map[chan MedicalEvent]struct{}
	logger      *log.Logger
}

func NewMedicalHub(logger *log.Logger) *MedicalHub {
	return &MedicalHub{
		subscribers: make(map[chan MedicalEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener and returns its event channel.
func (h *MedicalHub) Subscribe() chan MedicalEvent {
	ch := make(chan MedicalEvent, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (h *MedicalHub) Unsubscribe(ch chan MedicalEvent) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers an event to every subscriber.
func (h *MedicalHub) Publish(event MedicalEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Printf("dropping %s event for slow subscriber", event.Event)
		}
	}
}

// SubscriberCount returns the number of connected listeners.
func (h *MedicalHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
