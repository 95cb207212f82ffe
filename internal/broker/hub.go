// Package broker fans trip change notifications out to in-process
// subscribers. The service layer publishes after every committed write, and
// each observe stream subscribes, then re-reads the cache when notified.
package broker

import (
	"context"
	"log/slog"
	"sync"
)

// EventType says what happened to a trip.
type EventType string

const (
	EventTripSaved   EventType = "trip.saved"
	EventTripDeleted EventType = "trip.deleted"
)

// Event identifies a trip whose cached row changed.
type Event struct {
	Type   EventType
	TripID string
}

// Hub is a process-local publish/subscribe hub. The zero value is not usable;
// construct with NewHub.
type Hub struct {
	logger *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]chan Event
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[uint64]chan Event),
	}
}

// Subscribe registers a subscriber until ctx is done, at which point the
// returned channel is closed.
//
// Each subscriber channel buffers one event. When a subscriber has not yet
// drained its previous event, newer events are dropped for it: a pending
// event already tells the subscriber to re-read, which picks up every change
// made since.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()

	return ch
}

// Publish delivers e to every current subscriber without blocking.
// A cancelled or slow subscriber never stalls the writer.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("coalesced trip event for busy subscribers",
			"event_type", string(e.Type),
			"trip_id", e.TripID,
			"subscribers", dropped,
		)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
