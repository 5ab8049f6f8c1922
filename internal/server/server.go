// Package server exposes the insight service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/aurvo/internal/model"
)

const shutdownTimeout = 5 * time.Second

// InsightService is the subset of service.Service used by the handlers.
type InsightService interface {
	ListSummaries(ctx context.Context) ([]model.ModuleSummary, error)
	Detail(ctx context.Context, slug string) (*model.ModuleDetail, error)
	UpsertInsight(ctx context.Context, slug, key, value string) (*model.Insight, error)
}

// Server is the HTTP front end.
type Server struct {
	svc    InsightService
	router *gin.Engine
	logger *slog.Logger
}

// New creates a server with all routes registered.
func New(svc InsightService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(logger))

	s := &Server{
		svc:    svc,
		router: router,
		logger: logger,
	}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	modules := router.Group("/modules")
	{
		modules.GET("", s.handleListModules)
		modules.GET("/:slug", s.handleModuleDetail)
		modules.POST("/:slug/insights", s.handleUpsertInsight)
	}

	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
