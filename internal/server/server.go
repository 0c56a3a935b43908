// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"email-ledger/internal/common/config"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/common/observability"
	"email-ledger/internal/pipeline"
)

// Server is the HTTP-facing shim around the pipeline. It owns no state of
// its own; concurrent requests share nothing but the injected clients.
type Server struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	ledger   pipeline.Ledger
	logger   logger.Logger
	obs      *observability.Observability

	// now is swappable so tests get deterministic health timestamps.
	now func() time.Time

	httpServer *http.Server
}

func New(cfg *config.Config, pl *pipeline.Pipeline, led pipeline.Ledger, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		pipeline: pl,
		ledger:   led,
		obs:      obs,
		logger: log.With(map[string]interface{}{
			"component": "server",
		}),
		now: time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	return s
}

// Routes wires the full HTTP surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/process", s.instrument("/process", s.handleProcess))
	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))
	mux.HandleFunc("/test", s.instrument("/test", s.handleTest))
	mux.HandleFunc("/ready", s.instrument("/ready", s.handleReady))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument recovers panics into a 500 and records request metrics. A panic
// is the one case where a failure escapes the tagged-result model.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", map[string]interface{}{
					"route": route,
					"panic": fmt.Sprintf("%v", rec),
				})
				writeJSON(recorder, http.StatusInternalServerError, map[string]string{
					"error": fmt.Sprintf("%v", rec),
				})
			}
			if s.obs != nil {
				s.obs.RecordRequest(r.Context(), route, recorder.status)
				s.obs.RecordRequestDuration(r.Context(), route, time.Since(started))
			}
		}()

		next(recorder, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
