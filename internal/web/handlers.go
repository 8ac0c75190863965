// Package web renders the dashboard pages: the container list, the
// per-container detail view and the HTMX rows partial.
package web

import (
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docktiles/docktiles/internal/config"
	"github.com/docktiles/docktiles/internal/view"
)

// Handler handles web UI requests.
type Handler struct {
	config  *config.Config
	builder *view.Builder
}

// NewHandler creates a new web handler.
func NewHandler(cfg *config.Config, builder *view.Builder) *Handler {
	return &Handler{
		config:  cfg,
		builder: builder,
	}
}

type indexData struct {
	Containers     []view.ContainerView
	ActionsEnabled bool
}

type detailData struct {
	Container      view.ContainerView
	UIHref         string
	ActionsEnabled bool
}

// Index renders the container list page, including stopped containers.
func (h *Handler) Index(c echo.Context) error {
	containers, err := h.builder.BuildAll(c.Request().Context(), true)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "index", indexData{
		Containers:     containers,
		ActionsEnabled: h.config.Security.ActionsEnabled,
	})
}

// ContainersTable renders just the table rows (HTMX refresh target).
func (h *Handler) ContainersTable(c echo.Context) error {
	containers, err := h.builder.BuildAll(c.Request().Context(), true)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "rows", indexData{
		Containers:     containers,
		ActionsEnabled: h.config.Security.ActionsEnabled,
	})
}

// ContainerDetail renders one container with a best-effort link to its
// web UI, guessed from the published ports.
func (h *Handler) ContainerDetail(c echo.Context) error {
	container, err := h.builder.Build(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}

	primary := view.FindPrimaryHTTPPort(container.Ports, h.config.UI.Hints())

	return render(c, http.StatusOK, "container", detailData{
		Container:      container,
		UIHref:         h.uiHref(c.Request().Host, primary),
		ActionsEnabled: h.config.Security.ActionsEnabled,
	})
}

// uiHref builds the deep link for a guessed UI port. The configured
// external URL wins; otherwise the request's Host header keeps links
// working behind a reverse proxy; the binding's own host is the last
// resort.
func (h *Handler) uiHref(requestHost string, primary *view.PortBinding) string {
	if primary == nil {
		return ""
	}

	host := h.config.UI.ExternalURL
	if host == "" {
		host = requestHost
		if split, _, err := net.SplitHostPort(host); err == nil {
			host = split
		}
	}
	if host == "" {
		host = primary.Host
	}

	return fmt.Sprintf("http://%s:%d", host, primary.Port)
}
