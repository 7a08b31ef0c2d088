// Package progress implements the in-process broadcast hub that fans
// import progress events out to connected stream subscribers.
package progress

import (
	"sync"

	"go.uber.org/zap"

	"github.com/prodcat/backend/internal/domain"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls further behind than this starts dropping events rather than
// blocking the import.
const subscriberBuffer = 16

// Hub is a concurrency-safe registry of progress listeners. Broadcast is
// best-effort: a slow or disconnected subscriber is skipped, never an
// error. Each Hub instance owns its own subscriber set, so independent
// pipelines (and tests) can run isolated hubs. State is in-process only and
// lost on restart.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.ProgressEvent]struct{}
	logger      *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[chan domain.ProgressEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener and returns its event channel. The
// channel stays open until Unsubscribe is called with it.
func (h *Hub) Subscribe() chan domain.ProgressEvent {
	ch := make(chan domain.ProgressEvent, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

// Unsubscribe removes a listener and closes its channel. Unsubscribing a
// channel that is not registered is a no-op.
func (h *Hub) Unsubscribe(ch chan domain.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; !ok {
		return
	}
	delete(h.subscribers, ch)
	close(ch)
}

// Broadcast delivers the event to every currently-connected subscriber.
// Delivery happens under the registry lock, so each subscriber observes
// events in broadcast order and a concurrent Unsubscribe can never race a
// send on a closed channel. A subscriber whose buffer is full has the event
// dropped.
func (h *Hub) Broadcast(event domain.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Debug("dropping progress event for slow subscriber",
				zap.String("step", event.Step),
				zap.Int("progress", event.Progress))
		}
	}
}

// SubscriberCount returns the number of connected listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
