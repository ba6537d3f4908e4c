// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	filesHTTP "github.com/allisson/filevault/internal/files/http"
	identityHTTP "github.com/allisson/filevault/internal/identity/http"
	"github.com/allisson/filevault/internal/metrics"
	userHTTP "github.com/allisson/filevault/internal/user/http"
)

// HealthChecker is a dependency probed by the readiness endpoint.
// *storage.BlobStore and *cache.RedisCache satisfy it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type healthCheck struct {
	name     string
	checker  HealthChecker
	required bool
}

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	checks []healthCheck
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterConfig carries the middleware settings applied by SetupRouter.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	RateLimitPublicEnabled        bool
	RateLimitPublicRequestsPerSec float64
	RateLimitPublicBurst          int

	MetricsEnabled bool
}

// NewServer creates a new HTTP server. The router is installed by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		// Downloads of large files need a longer write window.
		server: newHTTPServer(host, port, nil, 120*time.Second),
	}
}

// AddHealthCheck registers a component reported by /ready. A failing required component
// makes the server not ready. Optional ones are only reported.
func (s *Server) AddHealthCheck(name string, checker HealthChecker, required bool) {
	s.checks = append(s.checks, healthCheck{name: name, checker: checker, required: required})
}

// SetupRouter builds the gin engine with every route of the API.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg RouterConfig,
	tokens identityHTTP.TokenParser,
	userHandler *userHTTP.UserHandler,
	fileHandler *filesHTTP.FileHandler,
	publicLinkHandler *filesHTTP.PublicLinkHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Anonymous routes share the per-IP limiter.
	var ipLimiter gin.HandlerFunc
	if cfg.RateLimitPublicEnabled {
		ipLimiter = identityHTTP.IPRateLimitMiddleware(
			ctx,
			cfg.RateLimitPublicRequestsPerSec,
			cfg.RateLimitPublicBurst,
			s.logger,
		)
	}

	auth := v1.Group("/auth")
	if ipLimiter != nil {
		auth.Use(ipLimiter)
	}
	{
		auth.POST("/register", userHandler.RegisterHandler)
		auth.POST("/login", userHandler.LoginHandler)
		auth.POST("/logout", userHandler.LogoutHandler)
		auth.GET("/me", identityHTTP.AuthenticationMiddleware(tokens, s.logger), userHandler.ProfileHandler)
	}

	files := v1.Group("/files")
	files.Use(identityHTTP.AuthenticationMiddleware(tokens, s.logger))
	if cfg.RateLimitEnabled {
		files.Use(identityHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		files.POST("", fileHandler.UploadHandler)
		files.GET("", fileHandler.ListHandler)
		files.GET("/:id/content", fileHandler.GetContentHandler)
		files.GET("/:id/metadata", fileHandler.GetMetadataHandler)
		files.DELETE("/:id", fileHandler.DeleteHandler)
		files.POST("/:id/shares", fileHandler.ShareHandler)
		files.GET("/:id/shares", fileHandler.ListSharesHandler)
		files.DELETE("/:id/shares/:username", fileHandler.RevokeShareHandler)
		files.POST("/:id/public-link", publicLinkHandler.IssueHandler)
		files.DELETE("/:id/public-link", publicLinkHandler.RevokeForFileHandler)
	}

	public := v1.Group("/public")
	public.Use(identityHTTP.OptionalAuthenticationMiddleware(tokens, s.logger))
	if ipLimiter != nil {
		public.Use(ipLimiter)
	}
	{
		public.GET("/:token/metadata", publicLinkHandler.GetMetadataHandler)
		public.GET("/:token/content", publicLinkHandler.GetContentHandler)
		public.DELETE("/:token", publicLinkHandler.RevokeHandler)
	}

	s.router = router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness. The database and every required health check must
// answer a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	components := gin.H{}

	if s.db == nil {
		ready = false
		components["database"] = "error"
	} else if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.String("component", "database"), slog.Any("error", err))
		ready = false
		components["database"] = "error"
	} else {
		components["database"] = "ok"
	}

	for _, check := range s.checks {
		if err := check.checker.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", check.name), slog.Any("error", err))
			components[check.name] = "error"
			if check.required {
				ready = false
			}
			continue
		}
		components[check.name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
