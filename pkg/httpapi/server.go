// Package httpapi exposes the review service over HTTP plus a websocket
// push channel, and provides the matching client side.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/revio/revio/pkg/broker"
	"github.com/revio/revio/pkg/core"
)

// Server wires the review service and broker to HTTP routes.
type Server struct {
	svc      *core.Service
	broker   *broker.Broker
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a Server. A nil logger disables logging.
func NewServer(svc *core.Service, b *broker.Broker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:    svc,
		broker: b,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Push channel is origin-agnostic; auth is out of scope.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.logger.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.handleHealth)
	r.Methods(http.MethodGet).Path("/reviews").HandlerFunc(s.handleList)
	r.Methods(http.MethodPost).Path("/reviews").HandlerFunc(s.handleCreate)
	r.Methods(http.MethodGet).Path("/reviews/events").HandlerFunc(s.handleEvents)
	r.Methods(http.MethodGet).Path("/reviews/{id}").HandlerFunc(s.handleGet)
	r.Methods(http.MethodPut).Path("/reviews/{id}").HandlerFunc(s.handleUpdate)
	r.Methods(http.MethodDelete).Path("/reviews/{id}").HandlerFunc(s.handleDelete)
	return r
}
