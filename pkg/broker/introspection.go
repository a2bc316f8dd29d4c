package broker

import (
	"github.com/aretw0/introspection"
)

// BrokerState exposes internal state for observability.
type BrokerState struct {
	Subscribers int   `json:"subscribers"`
	BufferSize  int   `json:"buffer_size"`
	Dropped     int64 `json:"dropped_events"`
	Closed      bool  `json:"closed"`
}

// State implements introspection.Introspectable.
func (b *Broker) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BrokerState{
		Subscribers: len(b.subs),
		BufferSize:  b.buffer,
		Dropped:     b.dropped.Load(),
		Closed:      b.closed,
	}
}

// ComponentType implements introspection.Component.
func (b *Broker) ComponentType() string {
	return "broker"
}

var _ introspection.Introspectable = (*Broker)(nil)
var _ introspection.Component = (*Broker)(nil)
