package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	core_port "listing-ingest-service/internal/core/port"
)

// Server exposes the health and run-status endpoints of one running source
// process.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string, handler *StatusHandler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: NewRouter(handler, baseLogger),
		},
		logger: baseLogger,
	}
}

// NewRouter builds the route tree; split out so tests can drive it through
// httptest without binding a port.
func NewRouter(handler *StatusHandler, baseLogger core_port.LoggerPort) chi.Router {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(httprate.LimitByIP(100, time.Minute))

	r.Get("/healthz", handler.Healthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/run/status", handler.GetRunStatus)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
