// Package server exposes the client-facing query surface over HTTP:
// typeahead suggestions, profile matching and side-by-side compare.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"collegematch/internal/match"
	"collegematch/internal/suggest"
)

type Server struct {
	engine    *gin.Engine
	matcher   *match.Service
	suggester *suggest.Service
	logger    *zap.Logger
}

func New(matcher *match.Service, suggester *suggest.Service, limiter *RateLimiter, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:    gin.New(),
		matcher:   matcher,
		suggester: suggester,
		logger:    logger,
	}

	s.engine.Use(gin.Recovery())
	if limiter != nil {
		s.engine.Use(limiter.Middleware())
	}

	api := s.engine.Group("/api")
	{
		api.GET("/suggest", s.handleSuggest)
		api.POST("/match", s.handleMatch)
		api.POST("/compare", s.handleCompare)
	}
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
