// Package api exposes the chat pipeline over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrkit/chartbot/pkg/services"
)

// HealthChecker reports backing-store health for the liveness endpoint.
type HealthChecker func(ctx context.Context) error

// Server is the HTTP front of the chat service.
type Server struct {
	engine        *gin.Engine
	httpServer    *http.Server
	chat          *services.ChatService
	healthChecker HealthChecker
	logger        *slog.Logger
}

// NewServer wires routes and middleware. healthChecker may be nil when
// there is no backing store to probe.
func NewServer(chat *services.ChatService, addr string, healthChecker HealthChecker) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine:        engine,
		chat:          chat,
		healthChecker: healthChecker,
		logger:        slog.Default(),
	}

	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(securityHeaders())

	engine.GET("/healthz", s.handleHealth)

	v1 := engine.Group("/api/v1")
	v1.Use(principalMiddleware())
	v1.POST("/chat", s.handleChat)
	v1.GET("/history", s.handleHistory)
	v1.GET("/status", s.handleStatus)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// securityHeaders sets the standard response hardening headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
