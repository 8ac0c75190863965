// Package api provides the HTTP server for DockTiles. It uses the Echo
// framework to serve the dashboard pages, the container action
// endpoints and the health check.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/docktiles/docktiles/internal/auth"
	"github.com/docktiles/docktiles/internal/config"
	"github.com/docktiles/docktiles/internal/docker"
	"github.com/docktiles/docktiles/internal/view"
	"github.com/docktiles/docktiles/internal/web"
)

// Server represents the DockTiles HTTP server. All request handling is
// stateless: the only shared pieces are the immutable configuration and
// the runtime handle, which is safe for concurrent use.
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	runtime docker.Runtime
	builder *view.Builder
	gate    *auth.Middleware
}

// debugLog logs a message only if debug mode is enabled in config
func (s *Server) debugLog(format string, args ...interface{}) {
	if s.config.Server.Debug {
		log.Printf(format, args...)
	}
}

// New creates a new server instance over the given runtime.
func New(cfg *config.Config, rt docker.Runtime) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	e.HTTPErrorHandler = HTTPErrorHandler

	server := &Server{
		echo:    e,
		config:  cfg,
		runtime: rt,
		builder: view.NewBuilder(rt),
		gate:    auth.NewMiddleware(cfg.Security.AuthSecret, cfg.Security.ActionsEnabled),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	s.echo.Use(middleware.Recover())

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}
}

// setupRoutes configures routes. Mutating endpoints check the actions
// switch first, then authentication; pages check authentication only;
// the health check is open.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthz)

	webHandler := web.NewHandler(s.config, s.builder)
	s.echo.GET("/", webHandler.Index, s.gate.RequireAuth)
	s.echo.GET("/containers/table", webHandler.ContainersTable, s.gate.RequireAuth)
	s.echo.GET("/containers/:name", webHandler.ContainerDetail, s.gate.RequireAuth)

	s.echo.GET("/containers/:name/logs", s.containerLogs, s.gate.RequireAuth)

	s.echo.POST("/containers/:name/start", s.startContainer, s.gate.RequireActions, s.gate.RequireAuth)
	s.echo.POST("/containers/:name/stop", s.stopContainer, s.gate.RequireActions, s.gate.RequireAuth)
	s.echo.POST("/containers/:name/restart", s.restartContainer, s.gate.RequireActions, s.gate.RequireAuth)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	log.Printf("Starting DockTiles on http://%s (actions enabled: %v, auth: %v)",
		addr,
		s.config.Security.ActionsEnabled,
		s.config.Security.AuthSecret != "",
	)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	if s.config.Server.TLSEnabled {
		return s.echo.StartTLS(addr, s.config.Server.TLSCert, s.config.Server.TLSKey)
	}
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
