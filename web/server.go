// Package web serves reconciliation over HTTP.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Another0Noob/attendance-recon/internal/config"
	"github.com/Another0Noob/attendance-recon/web/backend"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = time.Minute

type Server struct {
	cfg     config.ServerConfig
	api     *backend.API
	limiter *backend.Limiter
	log     *logrus.Entry
}

func NewServer(cfg *config.Config, log *logrus.Entry) *Server {
	return &Server{
		cfg:     cfg.Server,
		api:     backend.NewAPI(backend.Defaults{Fee: cfg.Class.Fee, Mode: cfg.Class.Mode}, log),
		limiter: backend.NewLimiter(cfg.Server.Rate, cfg.Server.Burst),
		log:     log,
	}
}

// HandleBack registers the API routes on mux.
func HandleBack(mux *http.ServeMux, api *backend.API) {
	mux.HandleFunc("/api/health", api.HandleHealth)
	mux.HandleFunc("/api/reconcile", api.HandleReconcile)
	mux.HandleFunc("/api/batch", api.HandleBatch)
	mux.HandleFunc("/api/progress", api.HandleProgress)
	mux.HandleFunc("/api/cancel", api.HandleCancel)
	mux.HandleFunc("/api/queue", api.HandleQueue)
}

// Handler returns the rate limited API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	HandleBack(mux, s.api)
	return s.limiter.Middleware(mux)
}

// Close stops the background worker.
func (s *Server) Close() {
	s.api.Close()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.Close()

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.limiter.Prune(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server on %s", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	// Cancelling sessions ends open progress streams.
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("Server exited gracefully")
	return nil
}
