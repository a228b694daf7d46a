// Package server exposes the console HTTP API consumed by the operator
// front end.
package server

import (
	"context"
	"net/http"
	"time"

	"complaint-console/internal/assistant"
	"complaint-console/internal/common/config"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/workflow"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	reviews   *workflow.Service
	assistant *assistant.Client // nil when the assistant is disabled
	logger    logger.Logger

	httpServer *http.Server
}

func New(cfg config.ServerConfig, reviews *workflow.Service, assist *assistant.Client, log logger.Logger) *Server {
	s := &Server{
		reviews:   reviews,
		assistant: assist,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reviews", s.handleCreateReview)
	mux.HandleFunc("GET /api/reviews/{id}", s.handleGetReview)
	mux.HandleFunc("PUT /api/reviews/{id}/draft", s.handleUpdateDraft)
	mux.HandleFunc("POST /api/reviews/{id}/edit", s.handleSubmitEdit)
	mux.HandleFunc("POST /api/reviews/{id}/approve", s.handleApprove)
	mux.HandleFunc("POST /api/reviews/{id}/reject", s.handleReject)
	mux.HandleFunc("POST /api/reviews/{id}/hold", s.handleHold)
	mux.HandleFunc("POST /api/reviews/{id}/chat", s.handleChat)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	}

	return s
}

// Handler returns the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("console API listening", map[string]interface{}{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
