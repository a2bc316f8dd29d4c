// Package broker implements the process-wide fan-out channel between the
// mutation path and connected clients.
//
// Delivery is best-effort and at-most-once: a subscriber sees every event
// published while it is connected and keeps up, nothing before it
// subscribed, and no backfill after a drop. Publishing never blocks, so a
// slow or gone subscriber cannot stall or fail the originating mutation.
package broker

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/revio/revio/pkg/core"
)

// DefaultBuffer is the per-subscriber event buffer size.
const DefaultBuffer = 16

// Broker is an explicit fan-out object with an injectable subscriber
// registry. It is constructed once at process start and passed to
// collaborators by reference.
type Broker struct {
	mu      sync.RWMutex
	subs    map[uuid.UUID]chan core.Event
	buffer  int
	dropped atomic.Int64
	closed  bool
	logger  *slog.Logger
}

// New creates a Broker with the given per-subscriber buffer size.
// A size below 1 falls back to DefaultBuffer. A nil logger disables
// logging.
func New(buffer int, logger *slog.Logger) *Broker {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broker{
		subs:   make(map[uuid.UUID]chan core.Event),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new subscriber and returns its handle plus the
// channel events arrive on. The subscription starts empty: no history is
// replayed. The channel is closed on Unsubscribe or Close.
func (b *Broker) Subscribe() (uuid.UUID, <-chan core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	ch := make(chan core.Event, b.buffer)
	if b.closed {
		close(ch)
		return id, ch
	}
	b.subs[id] = ch
	b.logger.Debug("subscriber connected", "subscriber", id, "total", len(b.subs))
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// a no-op.
func (b *Broker) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(ch)
	b.logger.Debug("subscriber disconnected", "subscriber", id, "total", len(b.subs))
}

// Publish delivers e to every currently connected subscriber. Delivery is
// attempted at most once per subscriber: if a subscriber's buffer is full
// the event is dropped for that subscriber only.
func (b *Broker) Publish(e core.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("event dropped for slow subscriber", "subscriber", id, "event", e.String())
		}
	}
}

// Close shuts down the broker, closing every subscriber channel. Further
// publishes are discarded and new subscriptions receive a closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of currently connected subscribers.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

var _ core.Publisher = (*Broker)(nil)
