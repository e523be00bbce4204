// Package server exposes the loaded dataset over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/internal/config"
	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	router  *gin.Engine
	handler http.Handler

	cfg     *config.Config
	store   *store.Store
	fetcher *source.Fetcher
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a server over st. Remote refreshes go through fetcher.
func New(cfg *config.Config, st *store.Store, fetcher *source.Fetcher, logger *zap.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:  gin.New(),
		cfg:     cfg,
		store:   st,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	s.router.MaxMultipartMemory = cfg.MaxUploadBytes()
	s.router.Use(gin.Recovery(), requestLogger(logger))
	s.setupRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler(s.router)

	return s
}

// setupRoutes registers the API routes.
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)

		api.POST("/workbook", s.handleUpload)
		api.POST("/workbook/refresh", s.handleRefresh)

		api.GET("/districts", s.handleDistricts)
		api.GET("/districts/:name", s.handleDistrict)

		api.GET("/villages", s.handleVillages)
		api.GET("/villages/critical", s.handleCritical)

		api.GET("/summary", s.handleSummary)

		api.GET("/export", s.handleExport)
		api.GET("/export/summary", s.handleExportSummary)
	}
}

// Handler returns the CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
