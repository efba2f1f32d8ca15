package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/pipeline"
)

// Response is the standard API response structure
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// SummaryRequest is the request body for POST /api/summaries
type SummaryRequest struct {
	URL             string `json:"url" binding:"required"`
	MaxOutputLength int    `json:"max_output_length,omitempty"`
}

// ReadyFunc reports whether the summarization backend can serve requests
type ReadyFunc func() error

// Server exposes the pipeline over HTTP
type Server struct {
	cfg      config.ServerConfig
	pipeline pipeline.Pipeline
	ready    ReadyFunc
	logger   logger.Logger
	engine   *gin.Engine
	server   *http.Server
}

// New creates the HTTP server and registers its routes
func New(cfg config.ServerConfig, p pipeline.Pipeline, ready ReadyFunc, log logger.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		ready:    ready,
		logger:   log,
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())
	if cfg.APIKey != "" {
		s.engine.Use(s.authMiddleware())
	}

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/summaries", s.handleSummarize)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{
			Code:    404,
			Message: "route not found",
		})
	})

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No write timeout: a long video can take minutes to summarize
	}

	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Stop is called. It returns nil at once if Stop ran first.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server on %s", s.cfg.Addr)
	if s.cfg.APIKey != "" {
		s.logger.Info(ctx, "API key authentication enabled")
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health endpoint doesn't require auth
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		if c.GetHeader("X-API-Key") != s.cfg.APIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Code:    401,
				Message: "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
