// Package server contains the HTTP server for the pipewatch API.
package server

import (
	"context"
	"net/http"
	"time"

	"pipewatch/internal/server/handlers"
	"pipewatch/internal/server/middleware"
	"pipewatch/internal/ws"
)

// Config carries the server-level knobs.
type Config struct {
	Addr string

	// Webhook ingestion rate limit per source; 0 disables limiting.
	WebhookRateLimit float64
	WebhookRateBurst int
}

// Server is the HTTP server for the pipewatch API.
type Server struct {
	httpServer *http.Server
}

// New creates a new API server wiring handlers, the viewer hub and the
// metrics endpoint onto one mux.
func New(cfg Config, h *handlers.Handlers, hub *ws.Hub, metricsHandler http.Handler) *Server {
	webhookLimiter := middleware.RateLimit(cfg.WebhookRateLimit, cfg.WebhookRateBurst)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Healthz)
	mux.HandleFunc("GET /ready", h.Readyz)
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("GET /pipelines", h.ListPipelines)
	mux.HandleFunc("GET /pipelines/{id}", h.GetPipeline)
	mux.HandleFunc("GET /pipelines/{id}/metrics", h.GetPipelineMetrics)
	mux.HandleFunc("GET /pipelines/{id}/executions", h.ListExecutions)
	mux.HandleFunc("GET /pipelines/executions/{executionID}/logs", h.GetExecutionLogs)
	mux.Handle("POST /pipelines/webhook", webhookLimiter(http.HandlerFunc(h.IngestExecution)))

	mux.HandleFunc("GET /alerts", h.ListAlertConfigs)
	mux.HandleFunc("POST /alerts", h.CreateAlertConfig)
	mux.HandleFunc("PUT /alerts/{id}", h.UpdateAlertConfig)
	mux.HandleFunc("DELETE /alerts/{id}", h.DeleteAlertConfig)

	// Viewer push channel. The connection outlives the request, so it
	// bypasses the write timeout below via the hub's own deadlines.
	mux.HandleFunc("GET /ws", hub.ServeWS)

	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr,
			Handler:     middleware.RequestID(mux),
			ReadTimeout: 10 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
