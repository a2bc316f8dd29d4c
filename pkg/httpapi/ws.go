package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// handleEvents upgrades the connection and streams every broker event
// published from then on. The channel is push-only; inbound messages are
// discarded and only serve to detect the peer going away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribe before completing the handshake so no event published
	// right after the client's dial returns can slip past.
	id, events := s.broker.Subscribe()
	defer s.broker.Unsubscribe(id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Debug("push client connected", "subscriber", id)

	// Reader exists only to notice the close handshake or a dead peer.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(encodeEvent(e)); err != nil {
				s.logger.Debug("push client write failed", "subscriber", id, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			s.logger.Debug("push client disconnected", "subscriber", id)
			return
		case <-r.Context().Done():
			return
		}
	}
}
