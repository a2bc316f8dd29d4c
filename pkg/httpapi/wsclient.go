package httpapi

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/aretw0/lifecycle"
	"github.com/gorilla/websocket"

	"github.com/revio/revio/pkg/core"
)

// EventStream is the client end of the push channel: a persistent
// websocket connection delivering every event published after it
// connected. There is no history and no backfill after a disconnect;
// callers who reconnect should re-fetch their snapshot.
type EventStream struct {
	conn   *websocket.Conn
	events chan core.Event
	logger *slog.Logger
}

// DialEvents connects to the push channel of the server at base
// ("http://host:port"). Decoded events arrive on Events until the
// connection drops or ctx is cancelled, after which the channel closes.
func DialEvents(ctx context.Context, base string, logger *slog.Logger) (*EventStream, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath("reviews/events")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	es := &EventStream{
		conn:   conn,
		events: make(chan core.Event, 16),
		logger: logger,
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(es.events)
		for {
			var we wireEvent
			if err := conn.ReadJSON(&we); err != nil {
				if ctx.Err() == nil {
					logger.Debug("push channel closed", "error", err)
				}
				return nil
			}
			e, err := we.decode()
			if err != nil {
				logger.Warn("discarding malformed push message", "error", err)
				continue
			}
			select {
			case es.events <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})

	// Tear the socket down when the context ends so the read loop exits.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return conn.Close()
	})

	return es, nil
}

// Events returns the inbound event channel.
func (es *EventStream) Events() <-chan core.Event {
	return es.events
}

// Close tears down the connection.
func (es *EventStream) Close() error {
	return es.conn.Close()
}
