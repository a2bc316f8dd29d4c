package httpapi

import (
	"fmt"

	"github.com/revio/revio/pkg/core"
)

// wireEvent is the JSON shape of a push message. Added/Updated carry the
// full review; Deleted carries only the id.
type wireEvent struct {
	Event  string       `json:"event"`
	Review *core.Review `json:"review,omitempty"`
	ID     string       `json:"id,omitempty"`
}

func encodeEvent(e core.Event) wireEvent {
	we := wireEvent{Event: string(e.Kind)}
	switch e.Kind {
	case core.EventDeleted:
		we.ID = e.ID
	default:
		we.Review = e.Review
	}
	return we
}

func (we wireEvent) decode() (core.Event, error) {
	e := core.Event{Kind: core.EventKind(we.Event)}
	switch e.Kind {
	case core.EventAdded, core.EventUpdated:
		if we.Review == nil {
			return core.Event{}, fmt.Errorf("%s message without review payload", we.Event)
		}
		e.Review = we.Review
		e.ID = we.Review.ID
	case core.EventDeleted:
		if we.ID == "" {
			return core.Event{}, fmt.Errorf("%s message without id", we.Event)
		}
		e.ID = we.ID
	default:
		return core.Event{}, fmt.Errorf("unknown event kind %q", we.Event)
	}
	return e, nil
}
