// Package http provides the HTTP API for nominationd.
package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/nominationd/internal/scan"
	"github.com/fyrsmithlabs/nominationd/internal/store"
)

// Scanner triggers a contracts-directory scan.
type Scanner interface {
	ScanDir(ctx context.Context) (*scan.Result, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// APIToken, when set, gates /api/v1 behind a static bearer token.
	APIToken string
}

// Server provides HTTP endpoints for nominationd.
type Server struct {
	echo    *echo.Echo
	store   *store.Store
	scanner Scanner
	logger  *zap.Logger
	config  *Config
}

// NewServer creates a new HTTP server.
func NewServer(st *store.Store, scanner Scanner, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if scanner == nil {
		return nil, fmt.Errorf("scanner cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 5000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		store:   st,
		scanner: scanner,
		logger:  logger,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	if s.config.APIToken != "" {
		token := []byte(s.config.APIToken)
		v1.Use(middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), token) == 1, nil
		}))
	}

	v1.POST("/scan", s.handleScan)

	v1.GET("/settings", s.handleGetSettings)
	v1.PUT("/settings", s.handlePutSettings)

	n := v1.Group("/nominations")
	n.POST("", s.handleCreate)
	n.GET("", s.handleList)
	n.GET("/stats/summary", s.handleStats)
	n.PUT("/bulk-update-status", s.handleBulkStatus)
	n.GET("/:id", s.handleGet)
	n.PUT("/:id", s.handleUpdate)
	n.DELETE("/:id", s.handleDelete)
	n.GET("/:id/send-content", s.handleSendContent)
	n.GET("/:id/send-all-content", s.handleSendAllContent)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
