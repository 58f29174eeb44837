package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluator scores airports and flights on demand.
type Evaluator interface {
	EvaluateAirport(ctx context.Context, icao string, phase domain.Phase) (domain.AirportEvaluation, error)
	EvaluateFlight(ctx context.Context, f domain.Flight) (domain.FlightRiskAssessment, error)
}

// Server exposes health, readiness, metrics and risk evaluation endpoints.
type Server struct {
	httpServer *http.Server
	evaluator  Evaluator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with probe, metrics, evaluation and debug
// routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, evaluator Evaluator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		evaluator: evaluator,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/airports/{icao}/risk", s.handleAirportRisk)
	mux.HandleFunc("GET /v1/airports/{icao}/briefing", s.handleAirportBriefing)
	mux.HandleFunc("POST /v1/flights/risk", s.handleFlightRisk)
	mux.HandleFunc("GET /debug/airports/{icao}/risk", s.handleDebugAirportRisk)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
