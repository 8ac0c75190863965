package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultLogTail = 200

// okResponse is the body of every successful action call.
var okResponse = map[string]bool{"ok": true}

// healthz handles GET /healthz. It is deliberately unauthenticated so
// orchestrators can probe it.
func (s *Server) healthz(c echo.Context) error {
	if err := s.runtime.Ping(c.Request().Context()); err != nil {
		s.debugLog("health check failed: %v", err)
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, okResponse)
}

// startContainer handles POST /containers/:name/start. The command is
// passed through to the runtime; the resulting state is not verified.
func (s *Server) startContainer(c echo.Context) error {
	if err := s.runtime.StartContainer(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse)
}

// stopContainer handles POST /containers/:name/stop.
func (s *Server) stopContainer(c echo.Context) error {
	if err := s.runtime.StopContainer(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse)
}

// restartContainer handles POST /containers/:name/restart.
func (s *Server) restartContainer(c echo.Context) error {
	if err := s.runtime.RestartContainer(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse)
}

// containerLogs handles GET /containers/:name/logs?tail=N. Missing or
// unparseable tail values fall back to 200 lines.
func (s *Server) containerLogs(c echo.Context) error {
	tail := defaultLogTail
	if raw := c.QueryParam("tail"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			tail = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	logs, err := s.runtime.ContainerLogs(ctx, c.Param("name"), tail)
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, logs)
}
